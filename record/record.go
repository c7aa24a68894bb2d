// Package record persists query records in DynamoDB. A record is created
// when a query is submitted and updated once the answer is ready.
package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Query is one submitted question and its lifecycle state.
type Query struct {
	QueryID    string   `json:"query_id" dynamodbav:"query_id"`
	CreateTime int64    `json:"create_time" dynamodbav:"create_time"`
	QueryText  string   `json:"query_text" dynamodbav:"query_text"`
	AnswerText string   `json:"answer_text,omitempty" dynamodbav:"answer_text,omitempty"`
	Sources    []string `json:"sources" dynamodbav:"sources"`
	IsComplete bool     `json:"is_complete" dynamodbav:"is_complete"`
}

// New creates a pending record for the given question.
func New(text string) *Query {
	return &Query{
		QueryID:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		CreateTime: time.Now().Unix(),
		QueryText:  text,
		Sources:    []string{},
	}
}

// Store reads and writes query records.
type Store struct {
	client *dynamodb.Client
	table  string
}

// NewStore accepts an empty table name so local runs without DynamoDB
// still start; Put and Get fail until TABLE_NAME is configured.
func NewStore(ctx context.Context, table string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{client: dynamodb.NewFromConfig(cfg), table: table}, nil
}

func (s *Store) ready() error {
	if s.table == "" {
		return fmt.Errorf("TABLE_NAME is not set")
	}
	return nil
}

func (s *Store) Put(ctx context.Context, q *Query) error {
	if err := s.ready(); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(q)
	if err != nil {
		return fmt.Errorf("marshal query %s: %w", q.QueryID, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put query %s: %w", q.QueryID, err)
	}
	return nil
}

// Get returns nil without error when the record does not exist.
func (s *Store) Get(ctx context.Context, queryID string) (*Query, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"query_id": &types.AttributeValueMemberS{Value: queryID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get query %s: %w", queryID, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var q Query
	if err := attributevalue.UnmarshalMap(out.Item, &q); err != nil {
		return nil, fmt.Errorf("unmarshal query %s: %w", queryID, err)
	}
	return &q, nil
}
