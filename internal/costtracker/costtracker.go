package costtracker

import (
	"context"
	"sync"
)

// CostEvent represents a single AI usage event and its cost.
type CostEvent struct {
	Operation    string // e.g., "classification"
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	AmountUSD    float64
}

// Totals aggregates every recorded event.
type Totals struct {
	Calls        int
	InputTokens  int
	OutputTokens int
	AmountUSD    float64
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
	Totals() Totals
}

// New returns an in-memory tracker. It is safe for concurrent use and lives as
// long as the process (or one CLI run); nothing is persisted.
func New() CostTracker {
	return &memoryCostTracker{}
}

type memoryCostTracker struct {
	mu     sync.Mutex
	totals Totals
}

func (m *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Calls++
	m.totals.InputTokens += event.InputTokens
	m.totals.OutputTokens += event.OutputTokens
	m.totals.AmountUSD += event.AmountUSD
	return nil
}

func (m *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.AmountUSD, nil
}

func (m *memoryCostTracker) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// NewNoop returns a tracker that discards everything.
func NewNoop() CostTracker {
	return noopCostTracker{}
}

type noopCostTracker struct{}

func (noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
func (noopCostTracker) TotalCost(ctx context.Context) (float64, error)        { return 0, nil }
func (noopCostTracker) Totals() Totals                                        { return Totals{} }
