package services

import (
	"context"
	"testing"
	"time"

	"ticketclassifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacer_EveryWaitBlocks(t *testing.T) {
	p := NewIntervalPacer(60 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond, "first wait blocks too")

	// Time spent between waits does not shorten the next one.
	time.Sleep(80 * time.Millisecond)
	second := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(second), 60*time.Millisecond)
}

func TestIntervalPacer_Cancelled(t *testing.T) {
	p := NewIntervalPacer(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIntervalPacer_ZeroInterval(t *testing.T) {
	p := NewIntervalPacer(0)
	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestNoopPacer(t *testing.T) {
	assert.NoError(t, NoopPacer{}.Wait(context.Background()))
}

// timedClassifier records when each call starts.
type timedClassifier struct {
	starts []time.Time
}

func (c *timedClassifier) Classify(ctx context.Context, description string) models.Classification {
	c.starts = append(c.starts, time.Now())
	return models.Classification{Category: "NHSUK Profiles", Outcome: models.OutcomeClassified}
}

func TestBatchService_DelayFollowsEveryNetworkRow(t *testing.T) {
	const delay = 100 * time.Millisecond
	clf := &timedClassifier{}
	rows := []models.Ticket{
		models.NewTicket(batchHeader, []string{"1", "first"}),
		models.NewTicket(batchHeader, []string{"2", "second"}),
		models.NewTicket(batchHeader, []string{"3", "third"}),
	}

	NewBatchService(clf, NewIntervalPacer(delay), BatchOptions{}).Process(context.Background(), rows, 0)

	require.Len(t, clf.starts, 3)
	assert.GreaterOrEqual(t, clf.starts[1].Sub(clf.starts[0]), delay, "row 1 -> row 2")
	assert.GreaterOrEqual(t, clf.starts[2].Sub(clf.starts[1]), delay, "row 2 -> row 3")
}
