package processor

import "errors"

// Record is the flat, serialisable form of an Outcome
type Record struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	OK       bool     `json:"ok"`
	Text     string   `json:"text,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Error    string   `json:"error,omitempty"`
	Glossary []string `json:"glossary,omitempty"`
}

// Records flattens outcomes, keeping their order
func Records(outcomes []Outcome) []Record {
	records := make([]Record, 0, len(outcomes))
	for _, o := range outcomes {
		switch o := o.(type) {
		case Success:
			r := Record{Source: string(o.Source), Target: string(o.Target), OK: true, Text: o.Text}
			for _, m := range o.Glossary {
				r.Glossary = append(r.Glossary, m.Term+" → "+m.TargetTerm)
			}
			records = append(records, r)
		case Failure:
			records = append(records, Record{
				Source: string(o.Source),
				Target: string(o.Target),
				Kind:   string(o.Kind),
				Error:  o.Message,
			})
		}
	}
	return records
}

// Report is the evaluated result of one message
type Report struct {
	Outcomes []Record `json:"outcomes"`
	Skipped  bool     `json:"skipped"`
	Error    string   `json:"error,omitempty"`
}

// NewReport evaluates outcomes. The returned error is the user visible
// batch error, if any; benign skips only set Skipped.
func NewReport(outcomes []Outcome) (Report, error) {
	report := Report{Outcomes: Records(outcomes)}

	_, err := Evaluate(outcomes)
	switch {
	case errors.Is(err, ErrNothingToDo):
		report.Skipped = true
		return report, nil
	case err != nil:
		report.Error = err.Error()
		return report, err
	}
	return report, nil
}
