// Command ask sends a question straight to the worker Lambda and prints
// the answer, useful for smoke-testing a deployment without the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/airobotics/ragservice/record"
)

func main() {
	questionPtr := flag.String("question", "", "the question to ask")
	functionPtr := flag.String("function", "rag-worker", "worker Lambda function name")
	verbose := flag.Bool("verbose", false, "show sources also")
	flag.Parse()

	if *questionPtr == "" {
		log.Fatalf("question parameter is required")
	}

	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}
	client := lambda.NewFromConfig(cfg)

	payload, err := json.Marshal(record.New(*questionPtr))
	if err != nil {
		log.Fatalf("failed to marshal payload, %v", err)
	}

	result, err := client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(*functionPtr),
		Payload:      payload,
	})
	if err != nil {
		log.Fatalf("failed to invoke lambda function, %v", err)
	}
	if result.FunctionError != nil {
		log.Fatalf("lambda function returned an error: %s", aws.ToString(result.FunctionError))
	}

	var answered record.Query
	if err := json.Unmarshal(result.Payload, &answered); err != nil {
		log.Fatalf("failed to unmarshal response payload, %v", err)
	}

	fmt.Println("Answer:", answered.AnswerText)

	if *verbose {
		fmt.Println("\nThe following sources were used\n============")
		for _, source := range answered.Sources {
			fmt.Println(" -", source)
		}
	}
}
