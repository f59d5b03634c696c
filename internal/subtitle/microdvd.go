package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MicroDVD format: frame-indexed {start}{end}text lines. The frame rate is
// not part of the format, so both directions require an explicit fps, with
// one exception: a leading {1}{1}23.976 line declares the fps in-band.
type microDVDCodec struct{}

var (
	microDVDLineRegex = regexp.MustCompile(`^\{(\d+)\}\{(\d+)\}(.*)$`)
	microDVDStyleCode = regexp.MustCompile(`^\{[yY]:([^}]*)\}`)
)

func (microDVDCodec) Format() Format {
	return FormatMicroDVD
}

func (c microDVDCodec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}
	fps := opts.FrameRate

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNum := i + 1
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		m := microDVDLineRegex.FindStringSubmatch(trimmed)
		if m == nil {
			if !opts.Lenient {
				return nil, nil, fmt.Errorf("%w: line %d: not a MicroDVD line", ErrMalformedInput, lineNum)
			}
			rep.warnf(lineNum, "skipping line: not a MicroDVD line")
			rep.Skipped++
			continue
		}
		if len(doc.Events) == 0 && m[1] == "1" && m[2] == "1" {
			// in-band frame rate declaration
			if declared, err := strconv.ParseFloat(strings.TrimSpace(m[3]), 64); err == nil && declared > 0 {
				if fps <= 0 {
					fps = declared
				}
				continue
			}
		}
		if fps <= 0 {
			return nil, nil, ErrMissingFrameRate
		}

		startFrame, _ := strconv.Atoi(m[1])
		endFrame, _ := strconv.Atoi(m[2])
		start, _ := FramesToTime(startFrame, fps)
		end, _ := FramesToTime(endFrame, fps)
		ev, err := NewEvent(start, end, microDVDText(m[3]))
		if err != nil {
			if !opts.Lenient {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNum, err)
			}
			rep.warnf(lineNum, "skipping line: %v", err)
			rep.Skipped++
			continue
		}
		if opts.DetectLanguage != nil {
			ev.Language = opts.DetectLanguage(ev.Plaintext())
		}
		doc.Events = append(doc.Events, ev)
	}
	return doc, rep, nil
}

// microDVDText converts a line's payload to model text: | becomes a line
// break and a whole-line {y:...} style code becomes the matching override
// toggles. Other control codes pass through as opaque blocks.
func microDVDText(payload string) string {
	prefix := ""
	if m := microDVDStyleCode.FindStringSubmatch(payload); m != nil {
		payload = payload[len(m[0]):]
		for _, flag := range strings.Split(m[1], ",") {
			switch strings.TrimSpace(flag) {
			case "i":
				prefix += `{\i1}`
			case "b":
				prefix += `{\b1}`
			case "u":
				prefix += `{\u1}`
			case "s":
				prefix += `{\s1}`
			}
		}
	}
	return prefix + strings.ReplaceAll(payload, "|", "\n")
}

func (c microDVDCodec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	if opts.FrameRate <= 0 {
		return "", nil, ErrMissingFrameRate
	}
	rep := &WriteReport{}
	var sb strings.Builder
	for _, ev := range doc.Events {
		if ev.Comment {
			continue
		}
		style, _ := doc.resolveStyle(ev, rep)
		text, usable := microDVDPayload(ev, style, doc, opts, rep)
		if !usable {
			continue
		}
		startFrame, _ := ev.Start.Frames(opts.FrameRate)
		endFrame, _ := ev.End.Frames(opts.FrameRate)
		fmt.Fprintf(&sb, "{%d}{%d}%s\n", startFrame, endFrame, text)
	}
	return applyLineBreak(sb.String(), opts), rep, nil
}

// microDVDPayload renders one event as a MicroDVD line. Formatting that
// covers the whole text becomes a {Y:...} control code; partial formatting
// has no representation and goes through the conversion policy.
func microDVDPayload(ev Event, base Style, doc *Document, opts WriteOptions, rep *WriteReport) (string, bool) {
	sc := NewTagScanner(strings.ReplaceAll(ev.Text, `\h`, " "), base, doc.styles).Lenient()

	codes := []string{"i", "b", "u", "s"}
	all := [4]bool{true, true, true, true}
	var partial [4]bool
	seen := false

	var sb strings.Builder
	for sc.Scan() {
		run := sc.Run()
		if run.Drawing {
			rep.drop("drawing event")
			return "", false
		}
		if !opts.NoStyling {
			for range run.Unknown {
				rep.drop("override tag")
			}
			if run.Style.PrimaryColor != base.PrimaryColor {
				rep.drop("inline color")
			}
		}
		if run.Text != "" {
			seen = true
			for i, on := range [4]bool{
				run.Style.Italic, run.Style.Bold, run.Style.Underline, run.Style.StrikeOut,
			} {
				all[i] = all[i] && on
				partial[i] = partial[i] || on
			}
		}
		sb.WriteString(strings.ReplaceAll(run.Text, "\n", "|"))
	}
	text := sb.String()
	if opts.NoStyling {
		return text, true
	}

	var flags []string
	for i, code := range codes {
		switch {
		case seen && all[i]:
			flags = append(flags, code)
		case partial[i]:
			rep.drop("inline formatting")
		}
	}
	if len(flags) > 0 {
		text = "{Y:" + strings.Join(flags, ",") + "}" + text
	}
	return text, true
}
