package models

// Outcome describes how a ticket's category value was produced. The values
// double as metric label values.
type Outcome string

const (
	OutcomeClassified    Outcome = "classified"
	OutcomeNoDescription Outcome = "no_description"
	OutcomeError         Outcome = "error"
	OutcomeDropped       Outcome = "dropped" // row past the batch limit
)

// Outcomes lists every outcome, in reporting order.
var Outcomes = []Outcome{OutcomeClassified, OutcomeNoDescription, OutcomeError, OutcomeDropped}

// Classification is the typed result of classifying one description. Category
// is only meaningful when Outcome is OutcomeClassified; Err is set only when
// Outcome is OutcomeError.
type Classification struct {
	Category string
	Outcome  Outcome
	Err      error
}

// Label returns the value written to the category field: the model's label or
// one of the sentinel strings.
func (c Classification) Label() string {
	switch c.Outcome {
	case OutcomeClassified:
		return c.Category
	case OutcomeNoDescription:
		return CategoryNoDescription
	default:
		return CategoryClassificationError
	}
}
