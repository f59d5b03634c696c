package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var overrideBlockRegex = regexp.MustCompile(`\{[^}]*\}`)

// Event is one subtitle line: timing, text and a style reference. Events are
// value objects; timing edits return new Events and documents replace
// entries. Text holds inline override tags in SubStation syntax and uses \n
// for line breaks regardless of the source format's native break encoding.
type Event struct {
	Start   Time
	End     Time
	Text    string
	Style   string // style name, resolved against the owning document
	Name    string // actor name
	Effect  string
	Layer   int
	MarginL int // margin overrides; zero means use the style margin
	MarginR int
	MarginV int
	Comment bool
	Marked  bool // SSA only

	// Language is an optional tag attached by the language-detection
	// collaborator. Never required for parsing or writing.
	Language string
}

// NewEvent builds an event with the required fields. It fails with
// ErrNegativeDuration when end < start; no document ever holds such an event.
func NewEvent(start, end Time, text string) (Event, error) {
	if end < start {
		return Event{}, fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, start, end)
	}
	return Event{
		Start: start,
		End:   end,
		Text:  normalizeLineBreaks(text),
		Style: defaultStyleName,
	}, nil
}

// SetTimes mutates timing with the same end >= start check as NewEvent.
func (e *Event) SetTimes(start, end Time) error {
	if end < start {
		return fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, start, end)
	}
	e.Start, e.End = start, end
	return nil
}

// SetText replaces the text, normalizing native line breaks to \n.
func (e *Event) SetText(text string) {
	e.Text = normalizeLineBreaks(text)
}

func (e Event) Duration() Time {
	return e.End - e.Start
}

// Shift returns a copy moved by delta. Both times clamp at zero, so shifting
// far into the past collapses the event rather than going negative.
func (e Event) Shift(delta Time) Event {
	e.Start = e.Start.Shift(delta)
	e.End = e.End.Shift(delta)
	return e
}

// Scale returns a copy with times scaled by factor around pivot, for
// frame-rate retiming. Results clamp at zero.
func (e Event) Scale(factor float64, pivot Time) Event {
	scale := func(t Time) Time {
		v := float64(pivot) + (float64(t)-float64(pivot))*factor
		if v < 0 {
			return 0
		}
		return Time(math.Round(v))
	}
	e.Start = scale(e.Start)
	e.End = scale(e.End)
	if e.End < e.Start {
		e.Start, e.End = e.End, e.Start
	}
	return e
}

// Plaintext returns the text with override blocks stripped and the \h
// non-breaking space marker replaced by a plain space.
func (e Event) Plaintext() string {
	text := overrideBlockRegex.ReplaceAllString(e.Text, "")
	return strings.ReplaceAll(text, `\h`, " ")
}

// IsDrawing reports whether any part of the text is inside a \p drawing
// scope, ie. vector path commands rather than renderable text.
func (e Event) IsDrawing() bool {
	runs, err := ParseTags(e.Text, DefaultStyle(), nil)
	if err != nil {
		return false
	}
	for _, run := range runs {
		if run.Drawing {
			return true
		}
	}
	return false
}

// normalizeLineBreaks maps every native break encoding onto \n: CRLF and CR,
// plus the SubStation \N (forced) and \n (soft) break tags.
func normalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	return text
}
