package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/ec-order-service/internal/fact"
)

// DynamoFactPublisher writes fact envelopes to a DynamoDB table.
// The table's Kinesis integration streams every insert, so downstream
// Lambda consumers see the same envelopes the Kafka consumers do.
type DynamoFactPublisher struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoFact represents the DynamoDB item structure
type dynamoFact struct {
	ID         string `dynamodbav:"id"`
	OrderID    string `dynamodbav:"order_id"`
	FactType   string `dynamodbav:"fact_type"`
	Data       string `dynamodbav:"data"`
	OccurredAt string `dynamodbav:"occurred_at"`
}

func NewDynamoFactPublisher(client *dynamodb.Client, tableName string) *DynamoFactPublisher {
	return &DynamoFactPublisher{
		client:    client,
		tableName: tableName,
	}
}

func (p *DynamoFactPublisher) Publish(ctx context.Context, key, factType string, payload any) error {
	envelope, err := fact.NewEnvelope(factType, payload)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(dynamoFact{
		ID:         envelope.ID,
		OrderID:    key,
		FactType:   envelope.FactType,
		Data:       string(envelope.Data),
		OccurredAt: envelope.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("publish fact %s: %w", factType, err)
	}
	return nil
}
