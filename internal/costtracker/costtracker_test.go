package costtracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker_Accumulates(t *testing.T) {
	ctx := context.Background()
	tr := New()

	require.NoError(t, tr.RecordCost(ctx, CostEvent{Operation: "classification", InputTokens: 100, OutputTokens: 5, AmountUSD: 0.001}))
	require.NoError(t, tr.RecordCost(ctx, CostEvent{Operation: "classification", InputTokens: 50, OutputTokens: 3, AmountUSD: 0.0005}))

	total, err := tr.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.0015, total, 1e-12)
	assert.Equal(t, Totals{Calls: 2, InputTokens: 150, OutputTokens: 8, AmountUSD: total}, tr.Totals())
}

func TestMemoryTracker_ConcurrentRecord(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.RecordCost(context.Background(), CostEvent{InputTokens: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tr.Totals().Calls)
	assert.Equal(t, 50, tr.Totals().InputTokens)
}

func TestNoopTracker(t *testing.T) {
	tr := NewNoop()
	require.NoError(t, tr.RecordCost(context.Background(), CostEvent{InputTokens: 10}))
	assert.Equal(t, Totals{}, tr.Totals())
}
