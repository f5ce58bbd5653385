package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/carepulse/booking-api/pkg/logging"
)

func TestAggregator_RecentCountsByStatus(t *testing.T) {
	lister := &fakeLister{
		docs: []Appointment{
			{ID: "d", Status: StatusScheduled, CreatedAt: "2026-04-01T10:00:00Z"},
			{ID: "c", Status: StatusPending, CreatedAt: "2026-03-01T10:00:00Z"},
			{ID: "b", Status: StatusCancelled, CreatedAt: "2026-02-01T10:00:00Z"},
		},
	}
	agg := NewAggregator(lister, logging.Default())

	recent, err := agg.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}

	if recent.TotalCount != 3 {
		t.Fatalf("expected total 3, got %d", recent.TotalCount)
	}
	if recent.ScheduledCount != 1 || recent.PendingCount != 1 || recent.CancelledCount != 1 {
		t.Fatalf("unexpected counts: %+v", recent.CountSummary)
	}
	if len(recent.Documents) != 3 || recent.Documents[0].ID != "d" {
		t.Fatalf("expected store ordering preserved, got %#v", recent.Documents)
	}
}

func TestAggregator_UnknownStatusCountsTowardTotalOnly(t *testing.T) {
	lister := &fakeLister{
		docs: []Appointment{
			{ID: "a", Status: StatusPending},
			{ID: "b", Status: Status("archived")},
		},
	}
	agg := NewAggregator(lister, logging.Default())

	recent, err := agg.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}

	if recent.TotalCount != 2 {
		t.Fatalf("expected total 2, got %d", recent.TotalCount)
	}
	sum := recent.ScheduledCount + recent.PendingCount + recent.CancelledCount
	if sum != 1 {
		t.Fatalf("expected unknown status excluded from counters, got sum %d", sum)
	}
}

func TestAggregator_RecentIsIdempotent(t *testing.T) {
	lister := &fakeLister{
		docs: []Appointment{
			{ID: "a", Status: StatusPending},
			{ID: "b", Status: StatusScheduled},
		},
	}
	agg := NewAggregator(lister, logging.Default())

	first, err := agg.Recent(context.Background())
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := agg.Recent(context.Background())
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if first.CountSummary != second.CountSummary {
		t.Fatalf("expected identical summaries, got %+v then %+v", first.CountSummary, second.CountSummary)
	}
}

func TestAggregator_EmptyCollection(t *testing.T) {
	agg := NewAggregator(&fakeLister{}, logging.Default())

	recent, err := agg.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if recent.TotalCount != 0 || len(recent.Documents) != 0 {
		t.Fatalf("expected empty result, got %+v", recent)
	}
}

func TestAggregator_PropagatesListError(t *testing.T) {
	agg := NewAggregator(&fakeLister{err: errors.New("scan failed")}, logging.Default())

	if _, err := agg.Recent(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

type fakeLister struct {
	docs []Appointment
	err  error
}

func (f *fakeLister) List(ctx context.Context) ([]Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}
