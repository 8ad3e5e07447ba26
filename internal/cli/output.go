package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"codeberg.org/snonux/transbridge/internal/batch"
	"codeberg.org/snonux/transbridge/internal/processor"
)

// MessageTranslator is the processor surface the runner needs
type MessageTranslator interface {
	TranslateAll(ctx context.Context, text string, targets []processor.Target) []processor.Outcome
}

var (
	labelColor   = color.New(color.FgCyan, color.Bold)
	failColor    = color.New(color.FgRed)
	glossColor   = color.New(color.Faint)
	skippedColor = color.New(color.FgYellow)
)

// Runner translates messages and prints the results
type Runner struct {
	Processor MessageTranslator
	Out       io.Writer
	JSON      bool

	// Targets applies to batch entries without their own target suffix
	Targets []processor.Target
}

// RunMessage translates one message. The returned error is the batch error
// a user should see; benign skips are not errors.
func (r *Runner) RunMessage(ctx context.Context, text string, targets []processor.Target) error {
	outcomes := r.Processor.TranslateAll(ctx, text, targets)
	report, err := processor.NewReport(outcomes)

	if r.JSON {
		if encErr := json.NewEncoder(r.Out).Encode(report); encErr != nil {
			return fmt.Errorf("failed to encode result: %w", encErr)
		}
		return err
	}

	if report.Skipped {
		skippedColor.Fprintln(r.Out, "Nothing to translate:", skipReason(report))
		return nil
	}
	r.render(report.Outcomes)
	return err
}

// RunBatch translates every entry and prints a summary. It fails when at
// least one message failed.
func (r *Runner) RunBatch(ctx context.Context, entries []batch.Entry) error {
	translated, skipped, failed := 0, 0, 0

	for i, entry := range entries {
		if !r.JSON {
			fmt.Fprintf(r.Out, "\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Text)
		}

		targets := r.Targets
		if len(entry.Targets) > 0 {
			targets = processor.ParseTargets(entry.Targets)
		}

		outcomes := r.Processor.TranslateAll(ctx, entry.Text, targets)
		report, err := processor.NewReport(outcomes)

		if r.JSON {
			if encErr := json.NewEncoder(r.Out).Encode(report); encErr != nil {
				return fmt.Errorf("failed to encode result: %w", encErr)
			}
		} else if report.Skipped {
			skippedColor.Fprintln(r.Out, "  Skipped:", skipReason(report))
		} else {
			r.render(report.Outcomes)
		}

		switch {
		case err != nil:
			failed++
		case report.Skipped:
			skipped++
		default:
			translated++
		}
	}

	if !r.JSON {
		fmt.Fprintf(r.Out, "\n=== Batch Translation Summary ===\n")
		fmt.Fprintf(r.Out, "Total messages: %d\n", len(entries))
		fmt.Fprintf(r.Out, "Translated: %d\n", translated)
		fmt.Fprintf(r.Out, "Skipped: %d\n", skipped)
		if failed > 0 {
			fmt.Fprintf(r.Out, "Failed: %d\n", failed)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed", failed, len(entries))
	}
	return nil
}

func (r *Runner) render(records []processor.Record) {
	for _, rec := range records {
		labelColor.Fprintf(r.Out, "[%s → %s] ", rec.Source, rec.Target)
		if !rec.OK {
			failColor.Fprintf(r.Out, "failed (%s): %s\n", rec.Kind, rec.Error)
			continue
		}
		fmt.Fprintln(r.Out, rec.Text)
		if len(rec.Glossary) > 0 {
			glossColor.Fprintf(r.Out, "  glossary: %s\n", strings.Join(rec.Glossary, ", "))
		}
	}
}

func skipReason(report processor.Report) string {
	for _, rec := range report.Outcomes {
		if rec.Error != "" {
			return rec.Error
		}
	}
	return "no targets"
}
