package appointments

import (
	"context"

	"github.com/carepulse/booking-api/pkg/logging"
)

type appointmentLister interface {
	List(ctx context.Context) ([]Appointment, error)
}

// Aggregator computes status counts over the full appointment collection.
type Aggregator struct {
	store  appointmentLister
	logger *logging.Logger
}

// NewAggregator creates the dashboard aggregator.
func NewAggregator(store appointmentLister, logger *logging.Logger) *Aggregator {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

// Recent lists every appointment newest first and tallies the three status
// counters in a single pass. Documents carrying a status outside the three
// known values count toward the total but toward none of the per-status
// counters; the dashboard renders only the three cards.
func (a *Aggregator) Recent(ctx context.Context) (*RecentAppointments, error) {
	docs, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := CountSummary{TotalCount: len(docs)}
	for i := range docs {
		switch docs[i].Status {
		case StatusScheduled:
			summary.ScheduledCount++
		case StatusPending:
			summary.PendingCount++
		case StatusCancelled:
			summary.CancelledCount++
		}
	}

	return &RecentAppointments{
		CountSummary: summary,
		Documents:    docs,
	}, nil
}
