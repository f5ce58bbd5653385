package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/carepulse/booking-api/pkg/logging"
)

// ErrNotFound indicates the requested appointment does not exist.
var ErrNotFound = errors.New("appointments: not found")

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// UpdateFields is the partial document written by an administrative
// transition. All four attributes are overwritten, matching the form payload.
type UpdateFields struct {
	Physician          string
	Schedule           time.Time
	Status             Status
	CancellationReason string
}

// Store persists appointment documents to DynamoDB.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewStore builds a store backed by the provided DynamoDB client.
func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("appointments: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("appointments: table name cannot be empty")
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

// Create inserts a new appointment document, assigning its ID and creation
// timestamp. The caller's ID and timestamps are overwritten.
func (s *Store) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	if appt == nil {
		return nil, errors.New("appointments: appointment cannot be nil")
	}
	now := time.Now().UTC()
	appt.ID = uuid.NewString()
	appt.CreatedAt = now.Format(time.RFC3339Nano)
	appt.UpdatedAt = appt.CreatedAt

	item, err := attributevalue.MarshalMap(appt)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to marshal appointment: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to persist appointment: %w", err)
	}
	return appt, nil
}

// Get fetches an appointment by ID.
func (s *Store) Get(ctx context.Context, id string) (*Appointment, error) {
	if id == "" {
		return nil, errors.New("appointments: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to fetch appointment: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var appt Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &appt); err != nil {
		return nil, fmt.Errorf("appointments: failed to decode appointment: %w", err)
	}
	return &appt, nil
}

// List returns every appointment document ordered descending by creation
// time. The collection is scanned in full; the dashboard renders all of it.
func (s *Store) List(ctx context.Context) ([]Appointment, error) {
	var appts []Appointment
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("appointments: failed to list appointments: %w", err)
		}

		var page []Appointment
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("appointments: failed to decode appointments: %w", err)
		}
		appts = append(appts, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].createdAtTime().After(appts[j].createdAtTime())
	})
	return appts, nil
}

// Update overwrites the transition fields of an existing appointment and
// returns the updated document. A missing document yields ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error) {
	if id == "" {
		return nil, errors.New("appointments: id required")
	}

	scheduleAttr, err := attributevalue.Marshal(fields.Schedule)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to marshal schedule: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #status = :status, physician = :physician, schedule = :schedule, cancellationReason = :cancel, updatedAt = :updated"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(fields.Status)},
			":physician": &types.AttributeValueMemberS{Value: fields.Physician},
			":schedule":  scheduleAttr,
			":cancel":    &types.AttributeValueMemberS{Value: fields.CancellationReason},
			":updated":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
		ReturnValues:        types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: failed to update appointment %s: %w", id, err)
	}

	var appt Appointment
	if err := attributevalue.UnmarshalMap(out.Attributes, &appt); err != nil {
		return nil, fmt.Errorf("appointments: failed to decode updated appointment: %w", err)
	}
	return &appt, nil
}
