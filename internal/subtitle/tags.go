package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// Run is a fragment of event text carrying the style in effect over it.
// Unknown holds unrecognized directives from the blocks preceding the
// fragment, preserved verbatim so re-serialization is lossless.
type Run struct {
	Text    string
	Style   Style
	Drawing bool
	Unknown []string
}

// TagScanner walks event text containing SubStation override blocks and
// yields runs left to right, in the style of bufio.Scanner. The grammar has
// no nesting beyond one brace level, so a single forward scan over
// {outside-tag, inside-tag} suffices.
//
//	sc := NewTagScanner(text, base, styles)
//	for sc.Scan() {
//		run := sc.Run()
//	}
//	if err := sc.Err(); err != nil { ... }
type TagScanner struct {
	text    string
	pos     int
	base    Style
	styles  map[string]Style
	cur     Style
	drawing bool
	lenient bool
	started bool
	done    bool
	run     Run
	err     error
}

// NewTagScanner prepares a scan of text. base is the style in effect before
// the first block; styles resolves \r<name> resets and may be nil.
func NewTagScanner(text string, base Style, styles map[string]Style) *TagScanner {
	return &TagScanner{text: text, base: base, styles: styles, cur: base}
}

// Lenient makes an unmatched { count as literal text instead of an error.
func (s *TagScanner) Lenient() *TagScanner {
	s.lenient = true
	return s
}

// Err returns the first error encountered, if any.
func (s *TagScanner) Err() error {
	return s.err
}

// Run returns the fragment produced by the last successful Scan.
func (s *TagScanner) Run() Run {
	return s.run
}

// Scan advances to the next run. It returns false at end of text or on
// error. The first and last runs may be empty when the text starts or ends
// with an override block, mirroring the fragment positions in the source.
func (s *TagScanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	var unknown []string
	if !s.started {
		s.started = true
		// the leading fragment carries the base style untouched
	} else {
		if s.pos >= len(s.text) {
			s.done = true
			return false
		}
		// consume the whole group of adjacent blocks as one delta
		for s.pos < len(s.text) && s.text[s.pos] == '{' {
			close := strings.IndexByte(s.text[s.pos:], '}')
			if close < 0 {
				if s.lenient {
					break // orphan { becomes literal text below
				}
				s.err = fmt.Errorf("%w at offset %d", ErrUnterminatedOverride, s.pos)
				return false
			}
			unknown = s.applyBlock(s.text[s.pos+1:s.pos+close], unknown)
			s.pos += close + 1
		}
	}

	end := strings.IndexByte(s.text[s.pos:], '{')
	if end < 0 {
		end = len(s.text) - s.pos
	} else if s.lenient && strings.IndexByte(s.text[s.pos+end:], '}') < 0 {
		end = len(s.text) - s.pos
	}
	s.run = Run{
		Text:    s.text[s.pos : s.pos+end],
		Style:   s.cur,
		Drawing: s.drawing,
		Unknown: unknown,
	}
	s.pos += end
	return true
}

// applyBlock folds one {...} block's directives into the scanner state.
// Directives it does not understand are returned for verbatim passthrough.
func (s *TagScanner) applyBlock(content string, unknown []string) []string {
	i := strings.IndexByte(content, '\\')
	if i < 0 {
		// a block without directives is a comment
		if content != "" {
			unknown = append(unknown, content)
		}
		return unknown
	}
	if i > 0 {
		unknown = append(unknown, content[:i])
	}
	for _, directive := range splitDirectives(content[i+1:]) {
		unknown = s.applyDirective(directive, unknown)
	}
	return unknown
}

// splitDirectives splits on backslashes outside parentheses, so arguments
// of \t(...) keep their embedded tags intact.
func splitDirectives(content string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '\\':
			if depth == 0 {
				out = append(out, content[start:i])
				start = i + 1
			}
		}
	}
	return append(out, content[start:])
}

func (s *TagScanner) applyDirective(d string, unknown []string) []string {
	pass := func() []string {
		return append(unknown, `\`+d)
	}
	switch {
	case d == "":
		return pass()
	case strings.HasPrefix(d, "fscx"):
		return s.setFloat(&s.cur.ScaleX, d[4:], s.base.ScaleX, unknown, pass)
	case strings.HasPrefix(d, "fscy"):
		return s.setFloat(&s.cur.ScaleY, d[4:], s.base.ScaleY, unknown, pass)
	case strings.HasPrefix(d, "fsp"):
		return s.setFloat(&s.cur.Spacing, d[3:], s.base.Spacing, unknown, pass)
	case strings.HasPrefix(d, "fs"):
		return s.setFloat(&s.cur.FontSize, d[2:], s.base.FontSize, unknown, pass)
	case strings.HasPrefix(d, "fn"):
		if d[2:] == "" {
			s.cur.FontName = s.base.FontName
		} else {
			s.cur.FontName = d[2:]
		}
		return unknown
	case strings.HasPrefix(d, "frz"):
		return s.setFloat(&s.cur.Angle, d[3:], s.base.Angle, unknown, pass)
	case strings.HasPrefix(d, "fr"):
		return s.setFloat(&s.cur.Angle, d[2:], s.base.Angle, unknown, pass)
	case strings.HasPrefix(d, "an"):
		n, err := strconv.Atoi(d[2:])
		if err != nil || n < 1 || n > 9 {
			return pass()
		}
		s.cur.Alignment = Alignment(n)
		return unknown
	case strings.HasPrefix(d, "a") && !strings.HasPrefix(d, "alpha"):
		n, err := strconv.Atoi(d[1:])
		if err != nil {
			return pass()
		}
		al, ok := legacyAlignment[n]
		if !ok {
			return pass()
		}
		s.cur.Alignment = al
		return unknown
	case strings.HasPrefix(d, "bord") || strings.HasPrefix(d, "shad"):
		return pass()
	case d[0] == 'b':
		return s.setFlag(&s.cur.Bold, d[1:], s.base.Bold, unknown, pass)
	case d[0] == 'i':
		return s.setFlag(&s.cur.Italic, d[1:], s.base.Italic, unknown, pass)
	case d[0] == 'u':
		return s.setFlag(&s.cur.Underline, d[1:], s.base.Underline, unknown, pass)
	case d[0] == 's':
		return s.setFlag(&s.cur.StrikeOut, d[1:], s.base.StrikeOut, unknown, pass)
	case strings.HasPrefix(d, "1c"):
		return s.setColor(&s.cur.PrimaryColor, d[2:], s.base.PrimaryColor, unknown, pass)
	case strings.HasPrefix(d, "2c"):
		return s.setColor(&s.cur.SecondaryColor, d[2:], s.base.SecondaryColor, unknown, pass)
	case strings.HasPrefix(d, "3c"):
		return s.setColor(&s.cur.OutlineColor, d[2:], s.base.OutlineColor, unknown, pass)
	case strings.HasPrefix(d, "4c"):
		return s.setColor(&s.cur.BackColor, d[2:], s.base.BackColor, unknown, pass)
	case d[0] == 'c':
		return s.setColor(&s.cur.PrimaryColor, d[1:], s.base.PrimaryColor, unknown, pass)
	case d[0] == 'p':
		n, err := strconv.Atoi(d[1:])
		if err != nil {
			return pass()
		}
		s.drawing = n > 0
		return unknown
	case d[0] == 'r':
		if name := d[1:]; name != "" {
			if st, ok := s.styles[name]; ok {
				s.cur = st
				return unknown
			}
		}
		s.cur = s.base
		return unknown
	default:
		return pass()
	}
}

func (s *TagScanner) setFloat(dst *float64, arg string, reset float64, unknown []string, pass func() []string) []string {
	if arg == "" {
		*dst = reset
		return unknown
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return pass()
	}
	*dst = v
	return unknown
}

func (s *TagScanner) setFlag(dst *bool, arg string, reset bool, unknown []string, pass func() []string) []string {
	if arg == "" {
		*dst = reset
		return unknown
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return pass()
	}
	*dst = n != 0
	return unknown
}

func (s *TagScanner) setColor(dst *Color, arg string, reset Color, unknown []string, pass func() []string) []string {
	if arg == "" {
		*dst = reset
		return unknown
	}
	c, err := parseSSAColor(arg)
	if err != nil {
		return pass()
	}
	*dst = c
	return unknown
}

// ParseTags splits text into runs with effective styles, the eager
// counterpart of TagScanner.
func ParseTags(text string, base Style, styles map[string]Style) ([]Run, error) {
	sc := NewTagScanner(text, base, styles)
	var runs []Run
	for sc.Scan() {
		runs = append(runs, sc.Run())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// SerializeRuns is the inverse of ParseTags: it emits minimal override
// blocks, coalescing adjacent directives and omitting no-op deltas. A run
// returning exactly to the base style collapses to a single \r.
func SerializeRuns(runs []Run, base Style) string {
	var sb strings.Builder
	cur := base
	drawing := false
	for _, run := range runs {
		var tags []string
		if run.Style != cur {
			if run.Style == base {
				tags = append(tags, `\r`)
			} else {
				tags = append(tags, diffTags(cur, run.Style)...)
			}
			cur = run.Style
		}
		if run.Drawing != drawing {
			if run.Drawing {
				tags = append(tags, `\p1`)
			} else {
				tags = append(tags, `\p0`)
			}
			drawing = run.Drawing
		}
		tags = append(tags, run.Unknown...)
		if len(tags) > 0 {
			sb.WriteString("{")
			for _, tag := range tags {
				sb.WriteString(tag)
			}
			sb.WriteString("}")
		}
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// diffTags lists the directives that transform style from into to.
func diffTags(from, to Style) []string {
	var tags []string
	flag := func(name string, a, b bool) {
		if a != b {
			if b {
				tags = append(tags, `\`+name+"1")
			} else {
				tags = append(tags, `\`+name+"0")
			}
		}
	}
	flag("b", from.Bold, to.Bold)
	flag("i", from.Italic, to.Italic)
	flag("u", from.Underline, to.Underline)
	flag("s", from.StrikeOut, to.StrikeOut)
	if from.PrimaryColor != to.PrimaryColor {
		tags = append(tags, `\c`+to.PrimaryColor.ssaTag())
	}
	if from.SecondaryColor != to.SecondaryColor {
		tags = append(tags, `\2c`+to.SecondaryColor.ssaTag())
	}
	if from.OutlineColor != to.OutlineColor {
		tags = append(tags, `\3c`+to.OutlineColor.ssaTag())
	}
	if from.BackColor != to.BackColor {
		tags = append(tags, `\4c`+to.BackColor.ssaTag())
	}
	if from.FontName != to.FontName {
		tags = append(tags, `\fn`+to.FontName)
	}
	if from.FontSize != to.FontSize {
		tags = append(tags, `\fs`+formatFloat(to.FontSize))
	}
	if from.ScaleX != to.ScaleX {
		tags = append(tags, `\fscx`+formatFloat(to.ScaleX))
	}
	if from.ScaleY != to.ScaleY {
		tags = append(tags, `\fscy`+formatFloat(to.ScaleY))
	}
	if from.Spacing != to.Spacing {
		tags = append(tags, `\fsp`+formatFloat(to.Spacing))
	}
	if from.Angle != to.Angle {
		tags = append(tags, `\frz`+formatFloat(to.Angle))
	}
	if from.Alignment != to.Alignment {
		tags = append(tags, `\an`+strconv.Itoa(int(to.Alignment)))
	}
	return tags
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
