package cli

import (
	"github.com/spf13/cobra"
	"github.com/subfmt/subfmt/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subfmt",
	Short: "Subtitle file conversion and inspection",
	Long: `Subfmt converts subtitle files between formats and inspects their
contents.

It supports SubRip, SubStation Alpha (SSA/ASS), MicroDVD, MPL2, WebVTT
and plain text.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
