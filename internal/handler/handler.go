// Package handler provides the Lambda handler translating one chat message.
package handler

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/transbridge/internal/language"
	"codeberg.org/snonux/transbridge/internal/processor"
)

// Request is one message to translate
type Request struct {
	Text    string   `json:"text"`
	Targets []string `json:"targets,omitempty"`
}

// Response is the evaluated result of a message
type Response struct {
	Outcomes []processor.Record `json:"outcomes"`
	Skipped  bool               `json:"skipped"`
	Error    string             `json:"error,omitempty"`
}

// MessageTranslator is the processor surface the handler needs
type MessageTranslator interface {
	TranslateAll(ctx context.Context, text string, targets []processor.Target) []processor.Outcome
}

// Handler translates messages with a processor built once per cold start
type Handler struct {
	proc MessageTranslator
}

// New creates a handler around proc
func New(proc MessageTranslator) *Handler {
	return &Handler{proc: proc}
}

// Handle processes a translation request. Request and translation failures
// are reported in the response, not as invocation errors.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	targets, err := validateRequest(req)
	if err != nil {
		return &Response{Outcomes: []processor.Record{}, Error: err.Error()}, nil
	}

	outcomes := h.proc.TranslateAll(ctx, req.Text, targets)

	// the batch error is already carried in report.Error
	report, _ := processor.NewReport(outcomes)

	return &Response{
		Outcomes: report.Outcomes,
		Skipped:  report.Skipped,
		Error:    report.Error,
	}, nil
}

// validateRequest checks the request and parses its targets
func validateRequest(req Request) ([]processor.Target, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	codes := make([]language.Code, 0, len(req.Targets))
	for _, t := range req.Targets {
		c, err := language.Parse(t)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}

	return processor.ParseTargets(codes), nil
}
