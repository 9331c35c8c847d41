package services

import (
	"context"
	"time"

	"ticketclassifier/internal/models"

	log "github.com/sirupsen/logrus"
)

// Classifier turns one description into a classification. Implementations
// never return an error; failures come back as models.OutcomeError.
type Classifier interface {
	Classify(ctx context.Context, description string) models.Classification
}

// BatchStats summarises one Process call.
type BatchStats struct {
	Processed  int
	Classified int
	Empty      int
	Failed     int
	Dropped    int // past the limit and left out of the output
	Passed     int // past the limit and emitted unclassified (Passthrough)
	Elapsed    time.Duration
}

// BatchOptions configures a BatchService.
type BatchOptions struct {
	DescriptionField string // defaults to models.DescriptionColumn
	CategoryField    string // defaults to models.CategoryColumn

	// Passthrough emits rows past the limit with an empty category instead of
	// dropping them.
	Passthrough bool

	// Progress, if set, is called after each processed row.
	Progress func(models.ClassificationRecord)
}

// BatchService classifies a table of tickets one row at a time, in order.
type BatchService struct {
	classifier Classifier
	pacer      Pacer
	opts       BatchOptions
}

// NewBatchService creates a new BatchService. A nil pacer never waits.
func NewBatchService(classifier Classifier, pacer Pacer, opts BatchOptions) *BatchService {
	if pacer == nil {
		pacer = NoopPacer{}
	}
	if opts.DescriptionField == "" {
		opts.DescriptionField = models.DescriptionColumn
	}
	if opts.CategoryField == "" {
		opts.CategoryField = models.CategoryColumn
	}
	return &BatchService{classifier: classifier, pacer: pacer, opts: opts}
}

// CategoryField is the column the service writes labels into.
func (s *BatchService) CategoryField() string { return s.opts.CategoryField }

// Process classifies rows in input order and returns copies with the category
// field set. At most limit rows are processed; limit <= 0 means all of them.
// A failed row gets the error sentinel and processing continues.
func (s *BatchService) Process(ctx context.Context, rows []models.Ticket, limit int) ([]models.Ticket, BatchStats) {
	start := time.Now()
	stats := BatchStats{}

	n := len(rows)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]models.Ticket, 0, len(rows))
	for i := 0; i < n; i++ {
		row := rows[i].Clone()
		description := row.Value(s.opts.DescriptionField)

		rowStart := time.Now()
		result := s.classifier.Classify(ctx, description)
		row.Set(s.opts.CategoryField, result.Label())
		out = append(out, row)

		stats.Processed++
		switch result.Outcome {
		case models.OutcomeClassified:
			stats.Classified++
		case models.OutcomeNoDescription:
			stats.Empty++
		default:
			stats.Failed++
		}

		if s.opts.Progress != nil {
			s.opts.Progress(models.ClassificationRecord{
				Index:       i,
				Description: description,
				Category:    result.Label(),
				Outcome:     result.Outcome,
				Err:         result.Err,
				Duration:    time.Since(rowStart),
			})
		}

		// Only rows that reached the completion service are paced.
		if result.Outcome != models.OutcomeNoDescription {
			if err := s.pacer.Wait(ctx); err != nil {
				log.Warnf("Batch pacer wait interrupted after row %d: %v", i+1, err)
			}
		}
	}

	if s.opts.Passthrough {
		for i := n; i < len(rows); i++ {
			row := rows[i].Clone()
			row.Set(s.opts.CategoryField, "")
			out = append(out, row)
		}
		stats.Passed = len(rows) - n
	} else {
		stats.Dropped = len(rows) - n
	}

	stats.Elapsed = time.Since(start)
	log.WithFields(log.Fields{
		"rows":       len(rows),
		"processed":  stats.Processed,
		"classified": stats.Classified,
		"empty":      stats.Empty,
		"failed":     stats.Failed,
		"dropped":    stats.Dropped,
		"passed":     stats.Passed,
		"elapsed":    stats.Elapsed.Round(time.Millisecond),
	}).Info("Batch classification finished")

	return out, stats
}
