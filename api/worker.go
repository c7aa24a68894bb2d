package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/record"
)

// LambdaWorker invokes the worker Lambda asynchronously with the pending
// query record as payload.
type LambdaWorker struct {
	client *lambda.Client
	name   string
}

func NewLambdaWorker(ctx context.Context, functionName string) (*LambdaWorker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &LambdaWorker{client: lambda.NewFromConfig(cfg), name: functionName}, nil
}

func (w *LambdaWorker) Invoke(ctx context.Context, q *record.Query) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	out, err := w.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(w.name),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoke worker %s: %w", w.name, err)
	}
	ragservice.Logger.Info("worker lambda invoked", "function", w.name, "status", out.StatusCode)
	return nil
}
