package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/logging"
	"github.com/sumit756492/Hidden-File-Detector/internal/updater"
	"github.com/sumit756492/Hidden-File-Detector/internal/version"
)

func newUpdateCmd() *cobra.Command {
	var channel string
	var rollback bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update hfdetect to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := updater.NewStore("")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("channel") {
				normalized, err := updater.NormalizeChannel(channel)
				if err != nil {
					return err
				}
				cfg, err := store.Load()
				if err != nil {
					return err
				}
				cfg.Channel = normalized
				if err := store.Save(cfg); err != nil {
					return err
				}
			}

			client := &updater.Client{
				Store:          store,
				CurrentVersion: version.Version,
			}
			audit, err := logging.NewAuditLogger("updater")
			if err != nil {
				return err
			}
			defer audit.Close()

			if rollback {
				res, err := client.Rollback()
				if err != nil {
					return err
				}
				_ = audit.Emit(logging.AuditEvent{
					EventType: logging.EventUpdateRolledBack,
					Decision:  logging.DecisionAllow,
					Metadata:  map[string]any{"restored": res.ToVersion},
				})
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back to %s\n", res.ToVersion)
				return nil
			}

			res, err := client.Update(cmd.Context())
			if err != nil {
				return err
			}
			if !res.Updated {
				fmt.Fprintf(cmd.OutOrStdout(), "already up to date (%s, %s channel)\n", res.ToVersion, res.Channel)
				return nil
			}
			_ = audit.Emit(logging.AuditEvent{
				EventType: logging.EventUpdateApplied,
				Decision:  logging.DecisionAllow,
				Metadata: map[string]any{
					"from":    res.FromVersion,
					"to":      res.ToVersion,
					"channel": res.Channel,
				},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s -> %s (%s channel)\n", res.FromVersion, res.ToVersion, res.Channel)
			fmt.Fprintf(cmd.OutOrStdout(), "previous binary saved to %s\n", res.BackupPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Release channel to follow (stable or beta)")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the binary saved by the last update")

	return cmd
}
