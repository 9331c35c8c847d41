package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"ticketclassifier/internal/config"
	"ticketclassifier/internal/costtracker"
	"ticketclassifier/internal/metrics"
	"ticketclassifier/internal/models"
	"ticketclassifier/internal/services"
	"ticketclassifier/pkg/categorizer"

	log "github.com/sirupsen/logrus"
)

// App holds the long-lived pieces shared by every request or CLI run. The
// completion client is built once per process.
type App struct {
	Config            *config.Config
	CostTracker       costtracker.CostTracker
	CompletionService services.CompletionService
	Metrics           *metrics.Metrics

	SingleCategorizer *categorizer.LLMCategorizer // single-item profile, user message only
	BatchCategorizer  *categorizer.LLMCategorizer // CSV batch profile

	closers []io.Closer
}

// NewApp builds the completion client selected by cfg.Completion.Provider and
// everything that depends on it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:      cfg,
		CostTracker: costtracker.New(),
		Metrics:     metrics.New(),
	}
	if err := a.initCompletionService(ctx); err != nil {
		return nil, err
	}
	a.initCategorizers()

	log.Debug("Application initialization complete.")
	return a, nil
}

// NewWithCompletion builds an App around an existing completion service.
func NewWithCompletion(cfg *config.Config, svc services.CompletionService) *App {
	a := &App{
		Config:            cfg,
		CostTracker:       costtracker.New(),
		CompletionService: svc,
		Metrics:           metrics.New(),
	}
	a.initCategorizers()
	return a
}

func (a *App) initCompletionService(ctx context.Context) error {
	cc := a.Config.Completion
	pricing := a.Config.Pricing[cc.Provider]

	switch cc.Provider {
	case config.ProviderGemini:
		p, err := services.NewGeminiProvider(ctx, cc, a.CostTracker, pricing)
		if err != nil {
			return fmt.Errorf("init completion service: %w", err)
		}
		a.CompletionService = p
		a.closers = append(a.closers, p)
	case config.ProviderAzure, config.ProviderOpenAI, "":
		p, err := services.NewOpenAIProvider(cc, a.CostTracker, pricing)
		if err != nil {
			return fmt.Errorf("init completion service: %w", err)
		}
		a.CompletionService = p
	default:
		return fmt.Errorf("%w: unsupported completion.provider %q", models.ErrConfig, cc.Provider)
	}

	log.WithFields(log.Fields{
		"provider": a.CompletionService.Name(),
		"model":    a.CompletionService.ModelName(),
	}).Info("Completion service initialized")
	return nil
}

func (a *App) initCategorizers() {
	a.SingleCategorizer = categorizer.NewLLMCategorizer(a.CompletionService,
		categorizer.OptionsFromProfile(a.Config.Profiles.Single), a.Metrics)
	a.BatchCategorizer = categorizer.NewLLMCategorizer(a.CompletionService,
		categorizer.OptionsFromProfile(a.Config.Profiles.Batch), a.Metrics)
}

// NewBatchService returns a batch service with its own pacer, so concurrent
// batches do not share a rate gate.
func (a *App) NewBatchService(clf services.Classifier, delay time.Duration, progress func(models.ClassificationRecord)) *services.BatchService {
	return services.NewBatchService(clf, services.NewIntervalPacer(delay), services.BatchOptions{
		Passthrough: a.Config.Batch.Passthrough,
		Progress:    progress,
	})
}

// Close releases provider resources and logs the usage seen by this process.
func (a *App) Close() error {
	if a.CostTracker != nil {
		t := a.CostTracker.Totals()
		if t.Calls > 0 {
			log.Infof("Completion usage: calls=%d input_tokens=%d output_tokens=%d cost_usd=%.6f",
				t.Calls, t.InputTokens, t.OutputTokens, t.AmountUSD)
		}
	}
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
