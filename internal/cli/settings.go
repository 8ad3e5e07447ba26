package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/transbridge/internal/processor"
)

const (
	// DefaultMinInterval applies when gate.min_interval_ms is not configured
	DefaultMinInterval = 1000 * time.Millisecond
	// MinIntervalFloor is the smallest configurable interval
	MinIntervalFloor = 100 * time.Millisecond
)

// Settings is the resolved configuration of a run
type Settings struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration

	MaxConcurrent int
	MinInterval   time.Duration

	AIDetection bool
	DetectOnly  bool

	GlossaryPath string
	StateDB      string

	LogLevel  string
	LogFormat string
}

func setDefaults() {
	viper.SetDefault("api.endpoint", "https://api.openai.com/v1")
	viper.SetDefault("api.model", "gpt-4o-mini")
	viper.SetDefault("api.timeout", "60s")
	viper.SetDefault("gate.max_concurrent", 1)
	viper.SetDefault("detection.ai", true)
	viper.SetDefault("detection.detect_only", false)
	viper.SetDefault("state.db", DefaultStatePath())
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// DefaultStatePath returns the default channel state database location
func DefaultStatePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "transbridge", "state.db")
}

// LoadSettings resolves the settings from flags, environment, config file
// and defaults
func LoadSettings() Settings {
	setDefaults()

	s := Settings{
		APIKey:        GetAPIKey(),
		Endpoint:      viper.GetString("api.endpoint"),
		Model:         viper.GetString("api.model"),
		Timeout:       viper.GetDuration("api.timeout"),
		MaxConcurrent: viper.GetInt("gate.max_concurrent"),
		MinInterval:   minInterval(),
		AIDetection:   viper.GetBool("detection.ai") && !viper.GetBool("detection.rules_only"),
		DetectOnly:    viper.GetBool("detection.detect_only"),
		GlossaryPath:  viper.GetString("glossary.path"),
		StateDB:       viper.GetString("state.db"),
		LogLevel:      viper.GetString("log.level"),
		LogFormat:     viper.GetString("log.format"),
	}

	if s.MaxConcurrent <= 0 {
		s.MaxConcurrent = 1
	}

	return s
}

// minInterval has no viper default so an explicit setting can be told
// apart and floored
func minInterval() time.Duration {
	if !viper.IsSet("gate.min_interval_ms") {
		return DefaultMinInterval
	}
	d := time.Duration(viper.GetInt("gate.min_interval_ms")) * time.Millisecond
	if d < MinIntervalFloor {
		d = MinIntervalFloor
	}
	return d
}

// Detection maps the detection settings onto a processor mode
func (s Settings) Detection() processor.DetectionMode {
	switch {
	case !s.AIDetection:
		return processor.DetectRules
	case s.DetectOnly:
		return processor.DetectAIOnly
	default:
		return processor.DetectAI
	}
}
