package categorizer

import (
	"context"
	"time"

	"ticketclassifier/internal/config"
	"ticketclassifier/internal/models"
)

// Result is the typed outcome of classifying one ticket description.
type Result = models.Classification

// TicketCategorizer classifies ticket descriptions. Classify never fails;
// errors are reported through Result.Outcome.
type TicketCategorizer interface {
	Classify(ctx context.Context, description string) Result
}

// Options are the per-call settings for one call site.
type Options struct {
	MaxTokens     int
	Temperature   float32
	SystemMessage bool // prepend SystemMessage before the prompt
}

// OptionsFromProfile converts a configured profile.
func OptionsFromProfile(p config.Profile) Options {
	return Options{
		MaxTokens:     p.MaxTokens,
		Temperature:   p.Temperature,
		SystemMessage: p.SystemMessage,
	}
}

// Observer receives one event per classification. Duration is zero when no
// completion call was made.
type Observer interface {
	ObserveClassification(outcome models.Outcome, d time.Duration)
}
