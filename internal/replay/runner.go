package replay

import (
	"context"

	"vault-analytics-lab/internal/domain"
)

// Sink processes one ledger event. Events are delivered in
// (block, logIndex) order.
type Sink interface {
	Process(ctx context.Context, ev *domain.Event) error
}

// Stats summarizes a replay run.
type Stats struct {
	TotalEvents    int   `json:"total_events"`
	Registrations  int   `json:"registrations"`
	Swaps          int   `json:"swaps"`
	BalanceChanges int   `json:"balance_changes"`
	Transfers      int   `json:"transfers"`
	ParamChanges   int   `json:"param_changes"`
	FirstBlock     int64 `json:"first_block"`
	LastBlock      int64 `json:"last_block"`
	FirstTimestamp int64 `json:"first_timestamp"`
	LastTimestamp  int64 `json:"last_timestamp"`
}

// Runner replays an event stream through a sink in deterministic order.
type Runner struct {
	sink Sink
}

// NewRunner creates a replay runner.
func NewRunner(sink Sink) *Runner {
	return &Runner{sink: sink}
}

// Run sorts the events into ledger order and feeds them through the sink one
// at a time. Processing stops on the first sink error.
func (r *Runner) Run(ctx context.Context, events []*domain.Event) (*Stats, error) {
	SortEvents(events)

	stats := &Stats{}
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := r.sink.Process(ctx, ev); err != nil {
			return stats, err
		}
		stats.record(ev)
	}
	return stats, nil
}

func (s *Stats) record(ev *domain.Event) {
	if s.TotalEvents == 0 {
		s.FirstBlock = int64(ev.Block.Number)
		s.FirstTimestamp = ev.Block.Timestamp
	}
	s.TotalEvents++
	s.LastBlock = int64(ev.Block.Number)
	s.LastTimestamp = ev.Block.Timestamp

	switch ev.Kind {
	case domain.EventPoolRegistered:
		s.Registrations++
	case domain.EventSwap:
		s.Swaps++
	case domain.EventBalanceChanged:
		s.BalanceChanges++
	case domain.EventTransfer:
		s.Transfers++
	default:
		s.ParamChanges++
	}
}
