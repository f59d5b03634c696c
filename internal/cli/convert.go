package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/subfmt/subfmt/internal/config"
	"github.com/subfmt/subfmt/internal/langdetect"
	"github.com/subfmt/subfmt/internal/subtitle"
	"github.com/subfmt/subfmt/internal/textenc"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a subtitle file between formats.

The input format is taken from --from, the file extension, or detected
from the content. The output format is taken from --to or the output
file extension.

Examples:
  subfmt convert movie.srt -o movie.ass
  subfmt convert movie.sub --fps 23.976 --to srt
  subfmt convert movie.ass --to srt --shift 2.5s --lenient`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("from", "", "Input format (srt, ass, ssa, microdvd, mpl2, vtt, text)")
	convertCmd.Flags().
		StringP("to", "t", "", "Output format (defaults to the output extension)")
	convertCmd.Flags().
		Float64("fps", 0, "Frame rate for frame-based formats (e.g., 23.976)")
	convertCmd.Flags().
		Duration("shift", 0, "Shift all timings by a duration (e.g., 2s, -500ms)")
	convertCmd.Flags().
		Bool("lenient", false, "Skip malformed lines instead of failing")
	convertCmd.Flags().
		Bool("keep-html", false, "Keep unrecognized HTML-style tags in SubRip/WebVTT text")
	convertCmd.Flags().
		Bool("keep-ssa-tags", false, "Write inline override tags verbatim to tag-free formats")
	convertCmd.Flags().
		Bool("no-styling", false, "Strip all styling from the output")
	convertCmd.Flags().
		Bool("detect-language", false, "Tag each event with its detected language")
	convertCmd.Flags().
		StringP("config", "c", "", "Path to a YAML config file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fps, _ := cmd.Flags().GetFloat64("fps")
	if fps == 0 {
		fps = cfg.FrameRate
	}
	lenient, _ := cmd.Flags().GetBool("lenient")
	keepHTML, _ := cmd.Flags().GetBool("keep-html")
	keepSSATags, _ := cmd.Flags().GetBool("keep-ssa-tags")
	noStyling, _ := cmd.Flags().GetBool("no-styling")
	detect, _ := cmd.Flags().GetBool("detect-language")
	shift, _ := cmd.Flags().GetDuration("shift")
	fromName, _ := cmd.Flags().GetString("from")
	toName, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	doc, from, err := readDocument(inputPath, fromName, subtitle.ReadOptions{
		FrameRate:       fps,
		Lenient:         lenient || cfg.Lenient,
		KeepUnknownHTML: keepHTML || cfg.KeepUnknownHTML,
		DetectLanguage:  detectHook(detect || cfg.DetectLanguage),
	})
	if err != nil {
		return err
	}

	if shift != 0 {
		doc.Shift(subtitle.TimeFromDuration(shift))
	}

	to, err := targetFormat(toName, outputPath, from)
	if err != nil {
		return err
	}
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + subtitle.ExtensionFor(to)
	}
	if outputPath == inputPath {
		return fmt.Errorf("output would overwrite input %s, pass --output or --to", inputPath)
	}

	codec, err := subtitle.CodecFor(to)
	if err != nil {
		return err
	}
	lineBreak := "\n"
	if cfg.LineBreak == "crlf" {
		lineBreak = "\r\n"
	}
	text, rep, err := codec.Write(doc, subtitle.WriteOptions{
		FrameRate:   fps,
		LineBreak:   lineBreak,
		KeepSSATags: keepSSATags,
		NoStyling:   noStyling,
	})
	if err != nil {
		return err
	}
	for _, w := range rep.Warnings {
		logger.Warnw("conversion warning", "detail", w.String())
	}
	if rep.Lossy() > 0 {
		logger.Warnw("lossy conversion",
			"dropped", rep.Dropped,
			"approximated", rep.Approximated,
			"style_fallbacks", rep.StyleFallbacks,
		)
	}

	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Converted %s -> %s: %s\n", from, to, absOutput)

	return nil
}

// readDocument decodes the input file, resolves its format, and parses it.
func readDocument(path, formatName string, opts subtitle.ReadOptions) (*subtitle.Document, subtitle.Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}
	text, encoding, err := textenc.Decode(raw)
	if err != nil {
		return nil, "", err
	}
	logger.Debugw("decoded input", "path", path, "encoding", encoding)

	var format subtitle.Format
	if formatName != "" {
		format = subtitle.Format(formatName)
	} else if format, err = subtitle.FormatFromExtension(path); err != nil {
		format, err = subtitle.DetectFormat(text)
		if err != nil {
			return nil, "", err
		}
		logger.Infow("detected input format", "format", format)
	}

	codec, err := subtitle.CodecFor(format)
	if err != nil {
		return nil, "", err
	}
	start := time.Now()
	doc, rep, err := codec.Read(text, opts)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", format, err)
	}
	logger.Debugw("parsed input",
		"format", format,
		"events", len(doc.Events),
		"duration", time.Since(start),
	)
	for _, w := range rep.Warnings {
		logger.Warnw("parse warning", "detail", w.String())
	}
	if rep.Skipped > 0 {
		logger.Warnw("skipped malformed records", "count", rep.Skipped)
	}
	return doc, format, nil
}

func targetFormat(toName, outputPath string, from subtitle.Format) (subtitle.Format, error) {
	if toName != "" {
		if _, err := subtitle.CodecFor(subtitle.Format(toName)); err != nil {
			return "", err
		}
		return subtitle.Format(toName), nil
	}
	if outputPath != "" {
		return subtitle.FormatFromExtension(outputPath)
	}
	return from, nil
}

func detectHook(enabled bool) func(string) string {
	if !enabled {
		return nil
	}
	return func(text string) string {
		code, ok := langdetect.Detect(text)
		if !ok {
			return ""
		}
		return code
	}
}
