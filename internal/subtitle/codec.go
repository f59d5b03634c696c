package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT      Format = "srt"
	FormatASS      Format = "ass"
	FormatSSA      Format = "ssa"
	FormatMicroDVD Format = "microdvd"
	FormatMPL2     Format = "mpl2"
	FormatVTT      Format = "vtt"
	FormatText     Format = "text"
)

// ReadOptions are the per-invocation knobs recognized by Read. Codecs share
// one options record rather than implicit global defaults, so one process
// can convert many documents with different settings concurrently.
type ReadOptions struct {
	// FrameRate is required by frame-based formats (MicroDVD).
	FrameRate float64

	// Lenient makes structurally invalid records skip-and-warn instead of
	// aborting the parse.
	Lenient bool

	// KeepHTML passes markup through unchanged instead of converting
	// supported tags to override tags.
	KeepHTML bool

	// KeepUnknownHTML keeps unsupported markup verbatim; supported tags are
	// still converted. Without it unknown markup is stripped.
	KeepUnknownHTML bool

	// DetectLanguage, when set, tags each event with the detected language.
	// This is the optional external collaborator hook; parsing never
	// requires it.
	DetectLanguage func(text string) string
}

// WriteOptions are the per-invocation knobs recognized by Write.
type WriteOptions struct {
	// FrameRate is required by frame-based formats (MicroDVD).
	FrameRate float64

	// LineBreak is the output line terminator, "\n" when empty.
	LineBreak string

	// KeepSSATags passes inline override tags to the output verbatim for
	// formats that do not define them (eg. non-standard SRT).
	KeepSSATags bool

	// NoStyling suppresses all styling in the output, writing plain text.
	NoStyling bool
}

// Codec translates between one format's textual syntax and the document
// model. Codecs are stateless and safe for concurrent use.
type Codec interface {
	Format() Format

	// Read parses fully materialized text into a document. In lenient mode
	// the report carries accumulated warnings alongside a best-effort
	// document; in strict mode the first structural error aborts.
	Read(text string, opts ReadOptions) (*Document, *ReadReport, error)

	// Write renders a document. It never fails on a structurally valid
	// document: unsupported features go through the conversion policy and
	// are counted on the report. Output is deterministic for a given
	// document and options.
	Write(doc *Document, opts WriteOptions) (string, *WriteReport, error)
}

var codecs = map[Format]Codec{
	FormatSRT:      srtCodec{},
	FormatASS:      substationCodec{format: FormatASS},
	FormatSSA:      substationCodec{format: FormatSSA},
	FormatMicroDVD: microDVDCodec{},
	FormatMPL2:     mpl2Codec{},
	FormatVTT:      vttCodec{},
	FormatText:     textCodec{},
}

// CodecFor returns the codec implementing the given format.
func CodecFor(format Format) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// Formats lists the supported format identifiers.
func Formats() []Format {
	return []Format{FormatSRT, FormatASS, FormatSSA, FormatMicroDVD, FormatMPL2, FormatVTT, FormatText}
}

// FormatFromExtension maps a file path to its format by extension.
func FormatFromExtension(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, nil
	case ".ass":
		return FormatASS, nil
	case ".ssa":
		return FormatSSA, nil
	case ".sub":
		return FormatMicroDVD, nil
	case ".mpl", ".mpl2":
		return FormatMPL2, nil
	case ".vtt":
		return FormatVTT, nil
	case ".txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ExtensionFor returns the canonical file extension for a format.
func ExtensionFor(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatASS:
		return ".ass"
	case FormatSSA:
		return ".ssa"
	case FormatMicroDVD:
		return ".sub"
	case FormatMPL2:
		return ".mpl2"
	case FormatVTT:
		return ".vtt"
	default:
		return ".txt"
	}
}

// DetectFormat sniffs the format from content. It fails unless exactly one
// format claims the text; plain text never claims, being the format of last
// resort.
func DetectFormat(text string) (Format, error) {
	var candidates []Format
	claim := func(f Format) {
		candidates = append(candidates, f)
	}

	trimmed := strings.TrimLeft(text, "\ufeff \t\r\n")
	switch {
	case strings.HasPrefix(trimmed, "WEBVTT"):
		claim(FormatVTT)
	case strings.Contains(text, "[V4+ Styles]"):
		claim(FormatASS)
	case strings.Contains(text, "[V4 Styles]"):
		claim(FormatSSA)
	case strings.Contains(text, "[Script Info]"):
		claim(FormatASS)
	}

	if len(candidates) == 0 {
		// every line gets a vote, so mixed content is ambiguous rather
		// than whatever format happens to match first
		claimed := make(map[Format]bool)
		vote := func(f Format) {
			if !claimed[f] {
				claimed[f] = true
				claim(f)
			}
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case microDVDLineRegex.MatchString(line):
				vote(FormatMicroDVD)
			case mpl2LineRegex.MatchString(line):
				vote(FormatMPL2)
			case len(srtTimingRegex.FindAllString(line, -1)) == 2:
				vote(FormatSRT)
			}
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", fmt.Errorf("%w: no format matched", ErrFormatDetection)
	default:
		return "", fmt.Errorf("%w: multiple formats matched (%v)", ErrFormatDetection, candidates)
	}
}

// Open reads a subtitle file, picking the codec from the extension and
// falling back to content detection for unknown extensions. Input must
// already be UTF-8; callers with raw bytes should decode first.
func Open(path string, opts ReadOptions) (*Document, *ReadReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	format, err := FormatFromExtension(path)
	if err != nil {
		format, err = DetectFormat(text)
		if err != nil {
			return nil, nil, err
		}
	}
	codec, err := CodecFor(format)
	if err != nil {
		return nil, nil, err
	}
	return codec.Read(text, opts)
}

// Save writes a document to a file in the format given by the extension.
func Save(doc *Document, path string, opts WriteOptions) (*WriteReport, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, err
	}
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	text, rep, err := codec.Write(doc, opts)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return rep, nil
}

// applyLineBreak rewrites the output's \n terminators when a different
// line-break style is requested.
func applyLineBreak(text string, opts WriteOptions) string {
	if opts.LineBreak == "" || opts.LineBreak == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", opts.LineBreak)
}
