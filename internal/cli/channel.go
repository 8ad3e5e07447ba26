package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/transbridge/internal/channelstate"
)

// CreateChannelCommand creates the "channel" command managing the
// per-channel translation switch
func CreateChannelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Enable, disable or inspect translation per channel",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable CHANNEL",
			Short: "Switch translation on for a channel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setChannel(cmd, args[0], true)
			},
		},
		&cobra.Command{
			Use:   "disable CHANNEL",
			Short: "Switch translation off for a channel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setChannel(cmd, args[0], false)
			},
		},
		&cobra.Command{
			Use:   "status CHANNEL",
			Short: "Show whether translation is on for a channel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(store *channelstate.Store) error {
					enabled, err := store.Enabled(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], onOff(enabled))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all known channels",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(store *channelstate.Store) error {
					toggles, err := store.List(cmd.Context())
					if err != nil {
						return err
					}
					if len(toggles) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No channels configured")
						return nil
					}
					for _, t := range toggles {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (since %s)\n",
							t.Channel, onOff(t.Enabled), t.UpdatedAt.Format(time.DateTime))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Archive the channel database and start with all channels disabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				archivePath, err := channelstate.Archive(LoadSettings().StateDB)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Channel database archived to: %s\n", archivePath)
				return nil
			},
		},
	)

	return cmd
}

func setChannel(cmd *cobra.Command, channel string, enabled bool) error {
	return withStore(func(store *channelstate.Store) error {
		if err := store.Set(cmd.Context(), channel, enabled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", channel, onOff(enabled))
		return nil
	})
}

func withStore(fn func(*channelstate.Store) error) error {
	store, err := channelstate.Open(LoadSettings().StateDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
