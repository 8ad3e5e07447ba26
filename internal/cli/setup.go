package cli

import (
	"fmt"
	"log/slog"

	"codeberg.org/snonux/transbridge/internal/gate"
	"codeberg.org/snonux/transbridge/internal/glossary"
	"codeberg.org/snonux/transbridge/internal/processor"
	"codeberg.org/snonux/transbridge/internal/translation"
)

// BuildProcessor wires gate, glossary and translation client from settings
func BuildProcessor(s Settings, logger *slog.Logger) (*processor.Processor, error) {
	var dict *glossary.Dictionary
	if s.GlossaryPath != "" {
		var err error
		dict, err = glossary.Load(s.GlossaryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load glossary: %w", err)
		}
		logger.Info("loaded glossary",
			slog.String("name", dict.Name),
			slog.String("version", dict.Version),
			slog.Int("entries", len(dict.Entries)))
	}

	config := translation.DefaultConfig(s.APIKey)
	config.Endpoint = s.Endpoint
	config.Model = s.Model
	config.Timeout = s.Timeout
	config.Logger = logger

	g := gate.New(s.MaxConcurrent, s.MinInterval)

	return processor.NewProcessor(translation.NewTranslator(config), g, dict, processor.Options{
		Detection: s.Detection(),
		Logger:    logger,
	}), nil
}
