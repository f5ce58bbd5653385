package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/carepulse/booking-api/pkg/logging"
)

func TestStore_CreateAssignsIDAndTimestamps(t *testing.T) {
	mock := &mockDynamo{}
	store := NewStore(mock, "appointments", logging.Default())

	appt := &Appointment{
		UserID:    "user-1",
		PatientID: "patient-1",
		Physician: "Leila Cameron",
		Schedule:  time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC),
		Reason:    "Annual checkup",
		Status:    StatusPending,
	}

	stored, err := store.Create(context.Background(), appt)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if stored.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if stored.CreatedAt == "" || stored.UpdatedAt != stored.CreatedAt {
		t.Fatalf("expected matching timestamps, got createdAt=%q updatedAt=%q", stored.CreatedAt, stored.UpdatedAt)
	}
	if _, err := time.Parse(time.RFC3339Nano, stored.CreatedAt); err != nil {
		t.Fatalf("createdAt is not RFC3339: %v", err)
	}

	if mock.putInput == nil {
		t.Fatal("expected PutItem to be called")
	}
	if expr := mock.putInput.ConditionExpression; expr == nil || *expr != "attribute_not_exists(id)" {
		t.Fatalf("expected condition expression to prevent overwrites, got %v", expr)
	}

	var persisted Appointment
	if err := attributevalue.UnmarshalMap(mock.putInput.Item, &persisted); err != nil {
		t.Fatalf("failed to unmarshal stored appointment: %v", err)
	}
	if persisted.Physician != "Leila Cameron" || persisted.Status != StatusPending {
		t.Fatalf("unexpected persisted document: %#v", persisted)
	}
}

func TestStore_CreateNilAppointment(t *testing.T) {
	store := NewStore(&mockDynamo{}, "appointments", logging.Default())
	if _, err := store.Create(context.Background(), nil); err == nil {
		t.Fatal("expected error when appointment is nil")
	}
}

func TestStore_GetSuccess(t *testing.T) {
	mock := &mockDynamo{
		getOutput: &dynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"id":     &types.AttributeValueMemberS{Value: "appt-42"},
				"status": &types.AttributeValueMemberS{Value: string(StatusScheduled)},
			},
		},
	}
	store := NewStore(mock, "appointments", logging.Default())

	appt, err := store.Get(context.Background(), "appt-42")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if appt.ID != "appt-42" || appt.Status != StatusScheduled {
		t.Fatalf("unexpected appointment: %#v", appt)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	mock := &mockDynamo{getOutput: &dynamodb.GetItemOutput{}}
	store := NewStore(mock, "appointments", logging.Default())

	_, err := store.Get(context.Background(), "appt-42")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetEmptyID(t *testing.T) {
	store := NewStore(&mockDynamo{}, "appointments", logging.Default())
	if _, err := store.Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestStore_ListFollowsPaginationAndSortsDescending(t *testing.T) {
	older := mustMarshalAppointment(t, Appointment{ID: "a", CreatedAt: "2026-01-01T10:00:00Z"})
	newest := mustMarshalAppointment(t, Appointment{ID: "b", CreatedAt: "2026-03-01T10:00:00Z"})
	middle := mustMarshalAppointment(t, Appointment{ID: "c", CreatedAt: "2026-02-01T10:00:00Z"})

	mock := &mockDynamo{
		scanPages: []*dynamodb.ScanOutput{
			{
				Items: []map[string]types.AttributeValue{older, newest},
				LastEvaluatedKey: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: "b"},
				},
			},
			{
				Items: []map[string]types.AttributeValue{middle},
			},
		},
	}
	store := NewStore(mock, "appointments", logging.Default())

	appts, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(appts) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appts))
	}
	if appts[0].ID != "b" || appts[1].ID != "c" || appts[2].ID != "a" {
		t.Fatalf("expected newest-first ordering, got %s %s %s", appts[0].ID, appts[1].ID, appts[2].ID)
	}

	if len(mock.scanInputs) != 2 {
		t.Fatalf("expected 2 scan calls, got %d", len(mock.scanInputs))
	}
	if mock.scanInputs[1].ExclusiveStartKey == nil {
		t.Fatal("expected second scan to carry the pagination key")
	}
}

func TestStore_UpdateWritesTransitionFields(t *testing.T) {
	updatedItem := mustMarshalAppointment(t, Appointment{
		ID:        "appt-1",
		Physician: "David Livingston",
		Status:    StatusScheduled,
	})
	mock := &mockDynamo{updateOutput: &dynamodb.UpdateItemOutput{Attributes: updatedItem}}
	store := NewStore(mock, "appointments", logging.Default())

	appt, err := store.Update(context.Background(), "appt-1", UpdateFields{
		Physician: "David Livingston",
		Schedule:  time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC),
		Status:    StatusScheduled,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if appt.Status != StatusScheduled || appt.Physician != "David Livingston" {
		t.Fatalf("unexpected updated appointment: %#v", appt)
	}

	if len(mock.updateInputs) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(mock.updateInputs))
	}
	update := mock.updateInputs[0]

	if update.ExpressionAttributeNames["#status"] != "status" {
		t.Fatalf("expected reserved status attribute to be aliased, got %v", update.ExpressionAttributeNames)
	}
	if expr := update.ConditionExpression; expr == nil || *expr != "attribute_exists(id)" {
		t.Fatalf("expected existence condition, got %v", expr)
	}
	if update.ReturnValues != types.ReturnValueAllNew {
		t.Fatalf("expected ALL_NEW return values, got %v", update.ReturnValues)
	}

	status := update.ExpressionAttributeValues[":status"].(*types.AttributeValueMemberS).Value
	if status != string(StatusScheduled) {
		t.Fatalf("expected scheduled status, got %s", status)
	}
}

func TestStore_UpdateMissingDocumentYieldsNotFound(t *testing.T) {
	mock := &mockDynamo{updateErr: &types.ConditionalCheckFailedException{}}
	store := NewStore(mock, "appointments", logging.Default())

	_, err := store.Update(context.Background(), "absent", UpdateFields{Status: StatusCancelled})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdatePropagatesError(t *testing.T) {
	mock := &mockDynamo{updateErr: errors.New("dynamo failed")}
	store := NewStore(mock, "appointments", logging.Default())

	_, err := store.Update(context.Background(), "appt-1", UpdateFields{Status: StatusCancelled})
	if err == nil || !strings.Contains(err.Error(), "dynamo failed") {
		t.Fatalf("expected dynamo error, got %v", err)
	}
}

func mustMarshalAppointment(t *testing.T, appt Appointment) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(appt)
	if err != nil {
		t.Fatalf("failed to marshal appointment: %v", err)
	}
	return item
}

type mockDynamo struct {
	putInput     *dynamodb.PutItemInput
	putErr       error
	getOutput    *dynamodb.GetItemOutput
	getErr       error
	updateInputs []*dynamodb.UpdateItemInput
	updateOutput *dynamodb.UpdateItemOutput
	updateErr    error
	scanInputs   []*dynamodb.ScanInput
	scanPages    []*dynamodb.ScanOutput
	scanErr      error
}

func (m *mockDynamo) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInput = input
	return &dynamodb.PutItemOutput{}, m.putErr
}

func (m *mockDynamo) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOutput == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return m.getOutput, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.updateInputs = append(m.updateInputs, input)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateOutput == nil {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	return m.updateOutput, nil
}

func (m *mockDynamo) Scan(ctx context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.scanInputs = append(m.scanInputs, input)
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	idx := len(m.scanInputs) - 1
	if idx < len(m.scanPages) {
		return m.scanPages[idx], nil
	}
	return &dynamodb.ScanOutput{}, nil
}
