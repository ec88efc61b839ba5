package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/person-service/backend/internal/domain/person"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBPersonStore
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoDBPersonStore implements person.RecordStore on a DynamoDB table keyed by "id".
// Items use the same attribute names as the JSON representation; apartmentNumber
// is written only when present.
type DynamoDBPersonStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDBPersonStore creates a new DynamoDBPersonStore
func NewDynamoDBPersonStore(client DynamoDBAPI, tableName string) *DynamoDBPersonStore {
	return &DynamoDBPersonStore{client: client, tableName: tableName}
}

func useJSONTags(o *attributevalue.EncoderOptions) { o.TagKey = "json" }

func useJSONTagsDecode(o *attributevalue.DecoderOptions) { o.TagKey = "json" }

// Put writes the item unconditionally
func (s *DynamoDBPersonStore) Put(ctx context.Context, rec person.Record) error {
	item, err := attributevalue.MarshalMapWithOptions(rec, useJSONTags)
	if err != nil {
		return fmt.Errorf("failed to marshal person %s: %w", rec.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put person %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteIfExists deletes the item guarded by attribute_exists(id). A failed
// condition is reported as person.ErrRecordNotFound.
func (s *DynamoDBPersonStore) DeleteIfExists(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 keyOf(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("delete person %s: %w", id, person.ErrRecordNotFound)
		}
		return fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	return nil
}

// FindByID reads the item with a strongly consistent read
func (s *DynamoDBPersonStore) FindByID(ctx context.Context, id string) (*person.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get person %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, person.ErrRecordNotFound
	}

	var rec person.Record
	if err := attributevalue.UnmarshalMapWithOptions(out.Item, &rec, useJSONTagsDecode); err != nil {
		return nil, fmt.Errorf("failed to unmarshal person %s: %w", id, err)
	}
	return &rec, nil
}

// Ping describes the table
func (s *DynamoDBPersonStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe table %s: %w", s.tableName, err)
	}
	return nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

var _ person.RecordStore = (*DynamoDBPersonStore)(nil)
