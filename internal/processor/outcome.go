package processor

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/transbridge/internal/glossary"
	"codeberg.org/snonux/transbridge/internal/language"
	"codeberg.org/snonux/transbridge/internal/translation"
)

// Target is one requested output language
type Target struct {
	Lang language.Code
	// Format is an optional output format hint, e.g. "keep line breaks"
	Format string
}

// ParseTargets turns language codes into targets
func ParseTargets(codes []language.Code) []Target {
	targets := make([]Target, len(codes))
	for i, c := range codes {
		targets[i] = Target{Lang: c}
	}
	return targets
}

// Outcome is the result for one target. It is either a Success or a
// Failure.
type Outcome interface {
	outcome()
}

// Success is a finished translation
type Success struct {
	Source   language.Code
	Target   language.Code
	Text     string
	Glossary []glossary.Match
}

// Failure describes why a target could not be translated
type Failure struct {
	Source  language.Code
	Target  language.Code
	Kind    translation.Kind
	Message string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// ErrNothingToDo means a batch produced no translation for a benign reason,
// e.g. the message was in an unsupported language. Callers skip silently.
var ErrNothingToDo = errors.New("nothing to translate")

// BatchError is a batch without any success, reported from its first failure
type BatchError struct {
	Failure Failure
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("translation into %s failed (%s): %s", e.Failure.Target, e.Failure.Kind, e.Failure.Message)
}

// Evaluate applies the batch policy: any success makes the batch usable.
// Otherwise the first failure decides between ErrNothingToDo and a
// *BatchError.
func Evaluate(outcomes []Outcome) ([]Success, error) {
	var successes []Success
	var first *Failure

	for _, o := range outcomes {
		switch o := o.(type) {
		case Success:
			successes = append(successes, o)
		case Failure:
			if first == nil {
				first = &o
			}
		}
	}

	switch {
	case len(successes) > 0:
		return successes, nil
	case first == nil, first.Kind == translation.KindInvalidInput:
		return nil, ErrNothingToDo
	default:
		return nil, &BatchError{Failure: *first}
	}
}
