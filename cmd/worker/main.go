package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/bedrock"
	"github.com/airobotics/ragservice/config"
	"github.com/airobotics/ragservice/query"
	"github.com/airobotics/ragservice/record"
	"github.com/airobotics/ragservice/vectorstore"
)

type handler struct {
	engine *query.Engine
	store  *record.Store
}

func main() {
	ragservice.UseJSONLogger()
	log := ragservice.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	vs, err := vectorstore.Open(cfg.ChromaPath, cfg.ImageRuntime, bedrock.Embedding())
	if err != nil {
		log.Error("vector store unavailable", "error", err)
		os.Exit(1)
	}
	chat, err := bedrock.NewChat(ctx, cfg.ModelID)
	if err != nil {
		log.Error("bedrock client unavailable", "error", err)
		os.Exit(1)
	}
	store, err := record.NewStore(ctx, cfg.TableName)
	if err != nil {
		log.Error("record store unavailable", "error", err)
		os.Exit(1)
	}

	h := handler{engine: query.New(vs, chat, cfg.ContentSeparator), store: store}
	lambda.Start(h.Handle)
}

// Handle answers one pending query record and stores the completed record.
func (h handler) Handle(ctx context.Context, event record.Query) (*record.Query, error) {
	resp, err := h.engine.Run(ctx, event.QueryText)
	if err != nil {
		return nil, err
	}
	event.AnswerText = resp.ResponseText
	event.Sources = resp.Sources
	event.IsComplete = true
	if err := h.store.Put(ctx, &event); err != nil {
		return nil, err
	}
	ragservice.Logger.Info("query updated", "query_id", event.QueryID)
	return &event, nil
}
