package subtitle

import (
	"fmt"
	"sort"
	"strings"
)

// WebVTT format
type vttCodec struct{}

func (vttCodec) Format() Format {
	return FormatVTT
}

func (c vttCodec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	headerSeen := false
	var current *Event
	var textLines []string

	flush := func() {
		if current == nil {
			return
		}
		ev := *current
		ev.SetText(prepareSRTText(textLines, opts))
		if opts.DetectLanguage != nil {
			ev.Language = opts.DetectLanguage(ev.Plaintext())
		}
		doc.Events = append(doc.Events, ev)
		current = nil
		textLines = nil
	}

	skipBlock := false
	for i, line := range lines {
		lineNum := i + 1
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if skipBlock {
			if trimmed == "" {
				skipBlock = false
			}
			continue
		}

		if !headerSeen {
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(trimmed, "WEBVTT") {
				if !opts.Lenient {
					return nil, nil, fmt.Errorf("%w: line %d: missing WEBVTT header", ErrMalformedInput, lineNum)
				}
				rep.warnf(lineNum, "missing WEBVTT header")
			}
			headerSeen = true
			if strings.HasPrefix(trimmed, "WEBVTT") {
				continue
			}
		}

		if strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE") ||
			strings.HasPrefix(trimmed, "REGION") {
			flush()
			skipBlock = true
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		if strings.Contains(line, "-->") {
			flush()
			startText, rest, _ := strings.Cut(line, "-->")
			endText := strings.TrimSpace(rest)
			// cue settings follow the end timestamp
			if fields := strings.Fields(endText); len(fields) > 0 {
				endText = fields[0]
			}
			start, err := parseVTTTimestamp(strings.TrimSpace(startText))
			if err == nil {
				var end Time
				end, err = parseVTTTimestamp(endText)
				if err == nil && end < start {
					err = fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, start, end)
				}
				if err == nil {
					current = &Event{Start: start, End: end, Style: defaultStyleName}
					continue
				}
			}
			if !opts.Lenient {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNum, err)
			}
			rep.warnf(lineNum, "skipping cue: %v", err)
			rep.Skipped++
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
		// otherwise the line is a cue identifier, which the model drops
	}
	flush()
	return doc, rep, nil
}

func (c vttCodec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	rep := &WriteReport{}
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	// WebVTT requires cues ordered by start time
	events := append([]Event(nil), doc.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	n := 1
	for _, ev := range events {
		if ev.Comment {
			continue
		}
		style, _ := doc.resolveStyle(ev, rep)
		text, usable := srtEventText(ev, style, doc, opts, rep)
		if !usable {
			continue
		}
		start, _ := FormatTime(ev.Start, FormatVTT, 0)
		end, _ := FormatTime(ev.End, FormatVTT, 0)
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", n, start, end, text)
		n++
	}
	return applyLineBreak(sb.String(), opts), rep, nil
}
