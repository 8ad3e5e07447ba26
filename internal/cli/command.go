package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/transbridge/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transbridge [text...]",
		Short: "Japanese/Chinese/English chat message translator",
		Long: `transbridge translates chat messages between Japanese, Chinese and
English using an OpenAI compatible chat completion API.

The source language is detected automatically. Chinese messages are
translated into Japanese and English, everything else into Chinese and
English, unless --targets says otherwise.

Examples:
  transbridge 你好，世界                  # Translate into ja and en
  echo こんにちは | transbridge            # Read the message from stdin
  transbridge --targets en 今日は暑いですね  # Translate into English only
  transbridge --batch messages.txt        # One message per line
  transbridge channel enable general      # Switch a channel on`,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.transbridge.yaml)")
	cmd.PersistentFlags().StringVar(&flags.StateDB, "state-db", "", "Channel state database (default is ~/.local/state/transbridge/state.db)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format: text or json")

	// Local flags
	cmd.Flags().StringVarP(&flags.Targets, "targets", "t", "", "Comma separated target languages (ja, zh, en)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate messages from file (one per line)")
	cmd.Flags().StringVar(&flags.Channel, "channel", "", "Only translate when this channel is enabled")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available chat models for the current API key")
	cmd.Flags().BoolVar(&flags.RulesOnly, "rules-only", false, "Detect the source language with rules only, no AI call")
	cmd.Flags().BoolVar(&flags.DetectOnly, "detect-only", false, "Use a separate detection-only AI call")
	cmd.Flags().StringVarP(&flags.GlossaryPath, "glossary", "g", "", "Glossary file (JSON or YAML)")

	// API flags
	cmd.Flags().StringVar(&flags.Model, "model", "", "Chat model (default gpt-4o-mini)")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "API base URL (default https://api.openai.com/v1)")

	// Gate flags
	cmd.Flags().IntVar(&flags.MaxConcurrent, "max-concurrent", 0, "Maximum concurrent API calls (default 1)")
	cmd.Flags().IntVar(&flags.MinInterval, "min-interval", 0, "Minimum milliseconds between API calls (default 1000, minimum 100)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("api.endpoint", cmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("api.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("gate.max_concurrent", cmd.Flags().Lookup("max-concurrent"))
	viper.BindPFlag("gate.min_interval_ms", cmd.Flags().Lookup("min-interval"))
	viper.BindPFlag("detection.rules_only", cmd.Flags().Lookup("rules-only"))
	viper.BindPFlag("detection.detect_only", cmd.Flags().Lookup("detect-only"))
	viper.BindPFlag("glossary.path", cmd.Flags().Lookup("glossary"))
	viper.BindPFlag("state.db", cmd.PersistentFlags().Lookup("state-db"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".transbridge" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".transbridge")
	}

	// Environment variables, e.g. TRANSBRIDGE_API_MODEL for api.model
	viper.SetEnvPrefix("TRANSBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetAPIKey retrieves the API key from config or the environment
func GetAPIKey() string {
	if key := viper.GetString("api.key"); key != "" {
		return key
	}

	return os.Getenv("OPENAI_API_KEY")
}
