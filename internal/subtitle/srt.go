package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubRip format
type srtCodec struct{}

var (
	srtTimingRegex    = regexp.MustCompile(`(\d{1,2}):(\d{1,2}):(\d{1,2})[.,](\d{1,3})`)
	trailingIndexNote = regexp.MustCompile(`\n+ *\d+ *$`)
	indexLineRegex    = regexp.MustCompile(`^\s*\d+\s*$`)
	blankLineRegex    = regexp.MustCompile(`^\s*$`)
	multiNewlineRegex = regexp.MustCompile(`\n+`)
)

func (srtCodec) Format() Format {
	return FormatSRT
}

func (c srtCodec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}

	type block struct {
		start, end Time
		line       int
		lines      []string
	}
	var blocks []*block

	// a rejected timing line suppresses its trailing text lines, so a
	// skipped block's payload never leaks into the preceding event
	suppress := false

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNum := i + 1
		stamps := srtTimingRegex.FindAllString(line, -1)
		if len(stamps) != 2 {
			if suppress {
				continue
			}
			if len(blocks) > 0 {
				last := blocks[len(blocks)-1]
				last.lines = append(last.lines, line)
			}
			continue
		}
		start, err := parseClockTimestamp(stamps[0])
		if err == nil {
			var end Time
			end, err = parseClockTimestamp(stamps[1])
			if err == nil && end < start {
				err = fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, start, end)
			}
			if err == nil {
				blocks = append(blocks, &block{start: start, end: end, line: lineNum})
				suppress = false
				continue
			}
		}
		if !opts.Lenient {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNum, err)
		}
		rep.warnf(lineNum, "skipping block: %v", err)
		rep.Skipped++
		suppress = true
	}

	for _, b := range blocks {
		ev, err := NewEvent(b.start, b.end, prepareSRTText(b.lines, opts))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, b.line, err)
		}
		if opts.DetectLanguage != nil {
			ev.Language = opts.DetectLanguage(ev.Plaintext())
		}
		doc.Events = append(doc.Events, ev)
	}
	return doc, rep, nil
}

// prepareSRTText assembles the text lines following a timing line. An
// "empty" cue looks like blank lines followed by the next cue's index, which
// must not be mistaken for text.
func prepareSRTText(lines []string, opts ReadOptions) string {
	if len(lines) >= 2 && indexLineRegex.MatchString(lines[len(lines)-1]) {
		empty := true
		for _, line := range lines[:len(lines)-1] {
			if !blankLineRegex.MatchString(line) {
				empty = false
				break
			}
		}
		if empty {
			return ""
		}
	}

	s := strings.TrimSpace(strings.Join(lines, "\n"))
	s = trailingIndexNote.ReplaceAllString(s, "")
	if !opts.KeepHTML {
		s = convertHTMLTags(s, opts.KeepUnknownHTML)
	}
	return s
}

func (c srtCodec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	rep := &WriteReport{}
	var sb strings.Builder
	n := 1
	for _, ev := range doc.Events {
		if ev.Comment {
			continue
		}
		style, _ := doc.resolveStyle(ev, rep)
		text, usable := srtEventText(ev, style, doc, opts, rep)
		if !usable {
			continue
		}
		if ev.Start > maxSubripTime || ev.End > maxSubripTime {
			rep.approximate("timestamp beyond 99:59:59,999")
		}
		start, _ := FormatTime(ev.Start, FormatSRT, 0)
		end, _ := FormatTime(ev.End, FormatSRT, 0)
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", n, start, end, text)
		n++
	}
	return applyLineBreak(sb.String(), opts), rep, nil
}

// srtEventText renders one event as SRT body text. Inline italic, bold,
// underline and strikeout survive as HTML tags; everything else goes
// through the conversion policy. Drawing events have no textual rendering
// at all and are dropped whole.
func srtEventText(ev Event, base Style, doc *Document, opts WriteOptions, rep *WriteReport) (string, bool) {
	text := strings.ReplaceAll(ev.Text, `\h`, " ")
	if opts.KeepSSATags {
		return strings.TrimSpace(multiNewlineRegex.ReplaceAllString(text, "\n")), true
	}

	sc := NewTagScanner(text, base, doc.styles).Lenient()
	var sb strings.Builder
	for sc.Scan() {
		run := sc.Run()
		if run.Drawing {
			rep.drop("drawing event")
			return "", false
		}
		if opts.NoStyling {
			sb.WriteString(run.Text)
			continue
		}
		for range run.Unknown {
			rep.drop("override tag")
		}
		if run.Style.PrimaryColor != base.PrimaryColor {
			rep.drop("inline color")
		}
		if run.Style.FontName != base.FontName || run.Style.FontSize != base.FontSize {
			rep.drop("inline font change")
		}
		if run.Style.Alignment != base.Alignment {
			rep.drop("inline alignment")
		}
		frag := run.Text
		if frag != "" {
			if run.Style.Italic {
				frag = "<i>" + frag + "</i>"
			}
			if run.Style.Bold {
				frag = "<b>" + frag + "</b>"
			}
			if run.Style.Underline {
				frag = "<u>" + frag + "</u>"
			}
			if run.Style.StrikeOut {
				frag = "<s>" + frag + "</s>"
			}
		}
		sb.WriteString(frag)
	}
	return strings.TrimSpace(multiNewlineRegex.ReplaceAllString(sb.String(), "\n")), true
}
