package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/subfmt/subfmt/internal/subtitle"
)

var infoCmd = &cobra.Command{
	Use:   "info [subtitle_file]",
	Short: "Show details about a subtitle file",
	Long: `Print the format, title, event and style counts, and total duration
of a subtitle file.

Examples:
  subfmt info movie.srt
  subfmt info movie.sub --fps 25`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().
		Float64("fps", 0, "Frame rate for frame-based formats (e.g., 23.976)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	fps, _ := cmd.Flags().GetFloat64("fps")

	doc, format, err := readDocument(args[0], "", subtitle.ReadOptions{
		FrameRate: fps,
		Lenient:   true,
	})
	if err != nil {
		return err
	}

	comments := 0
	for _, ev := range doc.Events {
		if ev.Comment {
			comments++
		}
	}

	fmt.Printf("Format:   %s\n", format)
	if title := doc.Info.Title(); title != "" {
		fmt.Printf("Title:    %s\n", title)
	}
	fmt.Printf("Events:   %d", len(doc.Events))
	if comments > 0 {
		fmt.Printf(" (%d comments)", comments)
	}
	fmt.Println()
	fmt.Printf("Styles:   %s\n", strings.Join(doc.StyleNames(), ", "))
	fmt.Printf("Duration: %s\n", doc.Duration())

	return nil
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported subtitle formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range subtitle.Formats() {
			fmt.Printf("%-10s %s\n", f, subtitle.ExtensionFor(f))
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
