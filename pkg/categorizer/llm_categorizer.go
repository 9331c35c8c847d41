package categorizer

import (
	"context"
	"time"

	"ticketclassifier/internal/catalog"
	"ticketclassifier/internal/models"
	"ticketclassifier/internal/services"

	log "github.com/sirupsen/logrus"
)

// LLMCategorizer implements TicketCategorizer on top of a completion service.
// The model's trimmed answer is used as the category without checking it
// against the catalog.
type LLMCategorizer struct {
	completion services.CompletionService
	categories []string
	opts       Options
	observer   Observer
}

// NewLLMCategorizer creates a categorizer over the fixed catalog. observer may
// be nil.
func NewLLMCategorizer(completion services.CompletionService, opts Options, observer Observer) *LLMCategorizer {
	return &LLMCategorizer{
		completion: completion,
		categories: catalog.Categories(),
		opts:       opts,
		observer:   observer,
	}
}

// Options returns the call settings in use.
func (c *LLMCategorizer) Options() Options { return c.opts }

// Classify returns the model's label for description. An empty description
// yields the no-description sentinel without a completion call; a failed call
// is logged and yields the error sentinel.
func (c *LLMCategorizer) Classify(ctx context.Context, description string) Result {
	if description == "" {
		c.observe(models.OutcomeNoDescription, 0)
		return Result{Outcome: models.OutcomeNoDescription}
	}

	start := time.Now()
	completion, err := c.completion.GenerateChatCompletion(ctx, c.messages(description), services.CompletionOptions{
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		log.WithFields(log.Fields{
			"provider": c.completion.Name(),
			"model":    c.completion.ModelName(),
			"elapsed":  elapsed.Round(time.Millisecond),
		}).WithError(err).Error("Ticket classification failed")
		c.observe(models.OutcomeError, elapsed)
		return Result{Outcome: models.OutcomeError, Err: err}
	}

	log.Debugf("Classified ticket as %q in %s", completion.Text, elapsed.Round(time.Millisecond))
	c.observe(models.OutcomeClassified, elapsed)
	return Result{Category: completion.Text, Outcome: models.OutcomeClassified}
}

func (c *LLMCategorizer) messages(description string) []services.ChatMessage {
	prompt := BuildPrompt(description, c.categories)
	if !c.opts.SystemMessage {
		return []services.ChatMessage{{Role: services.ChatMessageRoleUser, Content: prompt}}
	}
	return []services.ChatMessage{
		{Role: services.ChatMessageRoleSystem, Content: SystemMessage},
		{Role: services.ChatMessageRoleUser, Content: prompt},
	}
}

func (c *LLMCategorizer) observe(outcome models.Outcome, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveClassification(outcome, d)
	}
}

var (
	_ TicketCategorizer   = (*LLMCategorizer)(nil)
	_ services.Classifier = (*LLMCategorizer)(nil)
)
