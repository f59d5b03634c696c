package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// MPL2 format: decisecond-indexed [start][end]text lines. A visual line
// starting with / is italic.
type mpl2Codec struct{}

var mpl2LineRegex = regexp.MustCompile(`^\[(\d+)\]\[(\d+)\](.*)$`)

func (mpl2Codec) Format() Format {
	return FormatMPL2
}

func (c mpl2Codec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}

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
		m := mpl2LineRegex.FindStringSubmatch(trimmed)
		if m == nil {
			if !opts.Lenient {
				return nil, nil, fmt.Errorf("%w: line %d: not an MPL2 line", ErrMalformedInput, lineNum)
			}
			rep.warnf(lineNum, "skipping line: not an MPL2 line")
			rep.Skipped++
			continue
		}
		start, _ := ParseTime(m[1], FormatMPL2, 0)
		end, _ := ParseTime(m[2], FormatMPL2, 0)
		ev, err := NewEvent(start, end, mpl2Text(m[3]))
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

func mpl2Text(payload string) string {
	parts := strings.Split(payload, "|")
	for i, part := range parts {
		if strings.HasPrefix(part, "/") {
			parts[i] = `{\i1}` + part[1:] + `{\i0}`
		}
	}
	return strings.Join(parts, "\n")
}

func (c mpl2Codec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	rep := &WriteReport{}
	var sb strings.Builder
	for _, ev := range doc.Events {
		if ev.Comment {
			continue
		}
		style, _ := doc.resolveStyle(ev, rep)
		lines, usable := mpl2Lines(ev, style, doc, opts, rep)
		if !usable {
			continue
		}
		start, _ := FormatTime(ev.Start, FormatMPL2, 0)
		end, _ := FormatTime(ev.End, FormatMPL2, 0)
		fmt.Fprintf(&sb, "[%s][%s]%s\n", start, end, strings.Join(lines, "|"))
	}
	return applyLineBreak(sb.String(), opts), rep, nil
}

// mpl2Lines renders an event as MPL2 visual lines, marking a line italic
// only when all of its content is. Styling beyond italics goes through the
// conversion policy.
func mpl2Lines(ev Event, base Style, doc *Document, opts WriteOptions, rep *WriteReport) ([]string, bool) {
	sc := NewTagScanner(strings.ReplaceAll(ev.Text, `\h`, " "), base, doc.styles).Lenient()

	type visualLine struct {
		text   strings.Builder
		italic bool
	}
	lines := []*visualLine{{italic: true}}
	for sc.Scan() {
		run := sc.Run()
		if run.Drawing {
			rep.drop("drawing event")
			return nil, false
		}
		if !opts.NoStyling {
			for range run.Unknown {
				rep.drop("override tag")
			}
			if run.Style.PrimaryColor != base.PrimaryColor {
				rep.drop("inline color")
			}
			if run.Style.Bold != base.Bold || run.Style.Underline != base.Underline {
				rep.drop("inline formatting")
			}
		}
		for i, part := range strings.Split(run.Text, "\n") {
			if i > 0 {
				lines = append(lines, &visualLine{italic: true})
			}
			current := lines[len(lines)-1]
			current.text.WriteString(part)
			if part != "" && !run.Style.Italic {
				current.italic = false
			}
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text.String()
		if line.italic && text != "" && !opts.NoStyling {
			text = "/" + text
		}
		out[i] = text
	}
	return out, true
}
