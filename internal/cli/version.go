package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sumit756492/Hidden-File-Detector/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the full build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hfdetect %s\n", version.String())
		},
	}
}
