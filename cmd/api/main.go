package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/api"
	"github.com/airobotics/ragservice/bedrock"
	"github.com/airobotics/ragservice/config"
	"github.com/airobotics/ragservice/query"
	"github.com/airobotics/ragservice/record"
	"github.com/airobotics/ragservice/vectorstore"
)

func main() {
	inLambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if inLambda {
		ragservice.UseJSONLogger()
	}
	log := ragservice.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	handler, err := build(ctx, cfg)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	router := handler.Router()

	if inLambda {
		adapter := ginadapter.New(router)
		lambda.Start(adapter.ProxyWithContext)
		return
	}
	log.Info("running local server", "port", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg config.Config) (*api.Handler, error) {
	store, err := record.NewStore(ctx, cfg.TableName)
	if err != nil {
		return nil, err
	}

	// With a worker Lambda configured the API never answers queries
	// itself, so it does not need the vector store or the model.
	if cfg.WorkerLambdaName != "" {
		worker, err := api.NewLambdaWorker(ctx, cfg.WorkerLambdaName)
		if err != nil {
			return nil, err
		}
		return api.New(store, nil, worker), nil
	}

	vs, err := vectorstore.Open(cfg.ChromaPath, cfg.ImageRuntime, bedrock.Embedding())
	if err != nil {
		return nil, err
	}
	chat, err := bedrock.NewChat(ctx, cfg.ModelID)
	if err != nil {
		return nil, err
	}
	engine := query.New(vs, chat, cfg.ContentSeparator)
	return api.New(store, engine, nil), nil
}
