package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/transbridge/internal/gate"
	"codeberg.org/snonux/transbridge/internal/glossary"
	"codeberg.org/snonux/transbridge/internal/language"
	"codeberg.org/snonux/transbridge/internal/translation"
)

// Translator is the part of the translation client the processor needs
type Translator interface {
	Translate(ctx context.Context, text string, source, target language.Code, hint string) (string, error)
	TranslateWithAutoDetect(ctx context.Context, text, hint string) (*translation.AutoResult, error)
	DetectLanguage(ctx context.Context, text string) (language.Code, error)
}

// DetectionMode selects how the source language of a message is decided
type DetectionMode int

const (
	// DetectRules uses the rule-based classifier only
	DetectRules DetectionMode = iota
	// DetectAI detects and translates in one combined call, falling back to
	// the rule-based classifier on errors
	DetectAI
	// DetectAIOnly uses the detection-only call, falling back to the
	// rule-based classifier on errors
	DetectAIOnly
)

func (m DetectionMode) String() string {
	switch m {
	case DetectAI:
		return "ai"
	case DetectAIOnly:
		return "ai-detect-only"
	default:
		return "rules"
	}
}

// Options configures a Processor
type Options struct {
	Detection DetectionMode
	Logger    *slog.Logger
}

const (
	msgUndetectable = "Language could not be detected"
	msgUnsupported  = "Unsupported language"
	msgSameLanguage = "Target language equals the source language"
	msgBadTarget    = "Unsupported target language"
)

// Processor handles the translation of one message into several languages
type Processor struct {
	client Translator
	gate   *gate.Gate
	dict   *glossary.Dictionary
	mode   DetectionMode
	logger *slog.Logger
}

// NewProcessor creates a new processor. dict may be nil when no glossary is
// configured.
func NewProcessor(client Translator, g *gate.Gate, dict *glossary.Dictionary, opts Options) *Processor {
	if g == nil {
		g = gate.New(1, 0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		client: client,
		gate:   g,
		dict:   dict,
		mode:   opts.Detection,
		logger: logger.With(slog.String("component", "processor")),
	}
}

// DeriveTargets returns the default targets for a source language
func DeriveTargets(source language.Code) []Target {
	if source == language.Chinese {
		return []Target{{Lang: language.Japanese}, {Lang: language.English}}
	}
	return []Target{{Lang: language.Chinese}, {Lang: language.English}}
}

// detection is the result of the source language phase
type detection struct {
	source language.Code
	// auto is the translation produced by a combined detect+translate call
	auto *translation.AutoResult
}

// TranslateAll translates text into every target and returns exactly one
// outcome per target, in order. With no targets they are derived from the
// detected source language. Failures of single targets never affect their
// siblings.
func (p *Processor) TranslateAll(ctx context.Context, text string, targets []Target) []Outcome {
	logger := p.logger.With(slog.String("batch_id", uuid.NewString()))
	start := time.Now()

	det := p.detect(ctx, logger, text)

	if len(targets) == 0 {
		targets = DeriveTargets(det.source)
	}

	switch det.source {
	case language.Unknown:
		logger.Info("skipping message", slog.String("reason", msgUndetectable))
		return failAll(det.source, targets, msgUndetectable)
	case language.Unsupported:
		logger.Info("skipping message", slog.String("reason", msgUnsupported))
		return failAll(det.source, targets, msgUnsupported)
	}

	logger.Info("translating batch",
		slog.String("source", string(det.source)),
		slog.Any("targets", targetLangs(targets)),
		slog.String("detection", p.mode.String()))

	outcomes := make([]Outcome, len(targets))
	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			outcomes[i] = p.translateOne(ctx, logger, text, det, target)
			return nil
		})
	}
	_ = g.Wait()

	successes := 0
	for _, o := range outcomes {
		if _, ok := o.(Success); ok {
			successes++
		}
	}
	logger.Info("batch finished",
		slog.Int("successes", successes),
		slog.Int("failures", len(outcomes)-successes),
		slog.Duration("took", time.Since(start)))

	return outcomes
}

func (p *Processor) detect(ctx context.Context, logger *slog.Logger, text string) detection {
	switch p.mode {
	case DetectAI:
		var res *translation.AutoResult
		err := p.gated(ctx, func() error {
			var err error
			res, err = p.client.TranslateWithAutoDetect(ctx, text, p.autoDetectHint(text))
			return err
		})
		switch {
		case err == nil:
			return detection{source: res.Source, auto: res}
		case translation.IsUnsupported(err):
			return detection{source: language.Unsupported}
		}
		logger.Warn("AI detection failed, falling back to rules", slog.Any("error", err))

	case DetectAIOnly:
		var code language.Code
		err := p.gated(ctx, func() error {
			var err error
			code, err = p.client.DetectLanguage(ctx, text)
			return err
		})
		if err == nil {
			return detection{source: code}
		}
		logger.Warn("AI detection failed, falling back to rules", slog.Any("error", err))
	}

	return detection{source: language.Detect(text)}
}

// autoDetectHint lists glossary terms for both directions the combined call
// may pick
func (p *Processor) autoDetectHint(text string) string {
	if p.dict == nil {
		return ""
	}
	matches := p.dict.FindMatches(text, language.Chinese, language.Japanese)
	matches = append(matches, p.dict.FindMatches(text, language.Japanese, language.Chinese)...)
	return glossary.GeneratePromptHint(matches)
}

func (p *Processor) translateOne(ctx context.Context, logger *slog.Logger, text string, det detection, target Target) Outcome {
	source := det.source

	if !target.Lang.IsTarget() {
		return Failure{Source: source, Target: target.Lang, Kind: translation.KindInvalidInput, Message: msgBadTarget}
	}
	if target.Lang == source {
		return Failure{Source: source, Target: target.Lang, Kind: translation.KindInvalidInput, Message: msgSameLanguage}
	}

	matches := p.dict.FindMatches(text, source, target.Lang)

	if a := det.auto; a != nil && a.Target == target.Lang && target.Format == "" {
		return Success{Source: source, Target: target.Lang, Text: a.Text, Glossary: matches}
	}

	hint := glossary.GeneratePromptHint(matches)
	if target.Format != "" {
		hint = joinHint(hint, "Output format: "+target.Format)
	}

	var out string
	err := p.gated(ctx, func() error {
		var err error
		out, err = p.client.Translate(ctx, text, source, target.Lang, hint)
		return err
	})
	if err != nil {
		logger.Warn("translation failed",
			slog.String("target", string(target.Lang)),
			slog.String("kind", string(translation.KindOf(err))),
			slog.Any("error", err))
		return Failure{Source: source, Target: target.Lang, Kind: translation.KindOf(err), Message: err.Error()}
	}

	return Success{Source: source, Target: target.Lang, Text: out, Glossary: matches}
}

// gated runs fn while holding a gate permit
func (p *Processor) gated(ctx context.Context, fn func() error) error {
	if err := p.gate.Acquire(ctx); err != nil {
		return err
	}
	defer p.gate.Release()
	return fn()
}

func joinHint(hint, extra string) string {
	if hint == "" {
		return extra
	}
	return hint + "\n" + extra
}

func failAll(source language.Code, targets []Target, msg string) []Outcome {
	outcomes := make([]Outcome, len(targets))
	for i, t := range targets {
		outcomes[i] = Failure{Source: source, Target: t.Lang, Kind: translation.KindInvalidInput, Message: msg}
	}
	return outcomes
}

func targetLangs(targets []Target) []string {
	langs := make([]string, len(targets))
	for i, t := range targets {
		langs[i] = string(t.Lang)
	}
	return langs
}
