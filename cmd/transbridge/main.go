package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/transbridge/internal/batch"
	"codeberg.org/snonux/transbridge/internal/channelstate"
	"codeberg.org/snonux/transbridge/internal/cli"
	"codeberg.org/snonux/transbridge/internal/language"
	"codeberg.org/snonux/transbridge/internal/models"
	"codeberg.org/snonux/transbridge/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	rootCmd.AddCommand(cli.CreateChannelCommand())

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()
	settings := cli.LoadSettings()
	logger := cli.NewLogger(settings.LogLevel, settings.LogFormat)

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(settings.APIKey, settings.Endpoint)
		return lister.ListAvailableModels(ctx, cmd.OutOrStdout())
	}

	// Disabled channels are skipped silently
	if flags.Channel != "" {
		enabled, err := channelEnabled(ctx, settings.StateDB, flags.Channel)
		if err != nil {
			return err
		}
		if !enabled {
			logger.Info("channel disabled, skipping", slog.String("channel", flags.Channel))
			return nil
		}
	}

	var targets []processor.Target
	if flags.Targets != "" {
		codes, err := language.ParseList(flags.Targets)
		if err != nil {
			return fmt.Errorf("invalid --targets: %w", err)
		}
		targets = processor.ParseTargets(codes)
	}

	proc, err := cli.BuildProcessor(settings, logger)
	if err != nil {
		return err
	}

	runner := &cli.Runner{Processor: proc, Out: cmd.OutOrStdout(), JSON: flags.JSON, Targets: targets}

	// Handle batch processing
	if flags.BatchFile != "" {
		entries, err := batch.ReadBatchFile(flags.BatchFile)
		if err != nil {
			return err
		}
		return runner.RunBatch(ctx, entries)
	}

	text, err := messageText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no text to translate")
	}

	return runner.RunMessage(ctx, text, targets)
}

func channelEnabled(ctx context.Context, path, channel string) (bool, error) {
	store, err := channelstate.Open(path)
	if err != nil {
		return false, err
	}
	defer store.Close()

	return store.Enabled(ctx, channel)
}

// messageText joins the arguments or reads stdin when there are none
func messageText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
