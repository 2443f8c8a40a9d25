// Package cli wires the hfdetect command tree: scanning, one-off decoding,
// report generation, and self-updates.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/config"
	"github.com/sumit756492/Hidden-File-Detector/internal/version"
)

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	rootOpts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "hfdetect",
		Short:         "Find hidden files and decode the data they conceal",
		Long: "hfdetect walks directories for hidden files, suspicious filenames, and\n" +
			"file content hiding base64, hex, ROT13, or Caesar-shifted data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}
	rootCmd.SetVersionTemplate("hfdetect version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to hfdetect.yml (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
	}

	rootCmd.AddCommand(
		newScanCmd(loader),
		newDecodeCmd(),
		newReportCmd(),
		newVersionCmd(),
		newUpdateCmd(),
	)

	return rootCmd.Execute()
}

type rootOptions struct {
	ConfigPath string
}
