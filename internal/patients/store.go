package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/carepulse/booking-api/pkg/logging"
)

// ErrNotFound indicates the requested patient does not exist.
var ErrNotFound = errors.New("patients: not found")

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store persists patient documents to DynamoDB.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewStore builds a store backed by the provided DynamoDB client.
func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("patients: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("patients: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Create inserts a new patient document, assigning its ID and timestamps.
func (s *Store) Create(ctx context.Context, p *Patient) (*Patient, error) {
	if p == nil {
		return nil, errors.New("patients: patient cannot be nil")
	}
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	if p.UserID == "" {
		p.UserID = uuid.NewString()
	}
	p.CreatedAt = now.Format(time.RFC3339Nano)
	p.UpdatedAt = p.CreatedAt

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("patients: failed to marshal patient: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("patients: failed to persist patient: %w", err)
	}
	return p, nil
}

// Get fetches a patient by ID.
func (s *Store) Get(ctx context.Context, id string) (*Patient, error) {
	if id == "" {
		return nil, errors.New("patients: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("patients: failed to fetch patient: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var p Patient
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("patients: failed to decode patient: %w", err)
	}
	return &p, nil
}

// PhoneByUserID resolves the contact phone for the patient owned by the
// given user. Used to turn notification recipient IDs into numbers.
func (s *Store) PhoneByUserID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("patients: user id required")
	}

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("userId = :userId"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return "", fmt.Errorf("patients: failed to look up user %s: %w", userID, err)
		}
		if len(out.Items) > 0 {
			var p Patient
			if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
				return "", fmt.Errorf("patients: failed to decode patient: %w", err)
			}
			return p.Phone, nil
		}
		if out.LastEvaluatedKey == nil {
			return "", ErrNotFound
		}
		startKey = out.LastEvaluatedKey
	}
}
