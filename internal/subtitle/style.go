package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color. SubStation serializes colors as &HAABBGGRR with
// alpha 00 meaning opaque.
type Color struct {
	R, G, B, A uint8
}

// parseSSAColor accepts &HAABBGGRR, &HBBGGRR (with optional trailing &) and
// plain decimal BBGGRR values as found in SSA scripts.
func parseSSAColor(text string) (Color, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "&")
	var v uint64
	var err error
	if strings.HasPrefix(s, "&H") || strings.HasPrefix(s, "&h") {
		v, err = strconv.ParseUint(s[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", text, err)
	}
	return Color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}, nil
}

// ssa renders the color as a SubStation style field value.
func (c Color) ssa() string {
	return fmt.Sprintf("&H%02X%02X%02X%02X", c.A, c.B, c.G, c.R)
}

// ssaTag renders the color as an inline override tag argument, ie. &HBBGGRR&.
func (c Color) ssaTag() string {
	return fmt.Sprintf("&H%02X%02X%02X&", c.B, c.G, c.R)
}

// Alignment positions subtitles on screen using numpad layout: 1-3 bottom,
// 4-6 middle, 7-9 top, left to right within each row.
type Alignment int

const (
	AlignBottomLeft   Alignment = 1
	AlignBottomCenter Alignment = 2
	AlignBottomRight  Alignment = 3
	AlignMiddleLeft   Alignment = 4
	AlignMiddleCenter Alignment = 5
	AlignMiddleRight  Alignment = 6
	AlignTopLeft      Alignment = 7
	AlignTopCenter    Alignment = 8
	AlignTopRight     Alignment = 9
)

// legacy SSA \a alignment codes to numpad layout
var legacyAlignment = map[int]Alignment{
	1: AlignBottomLeft, 2: AlignBottomCenter, 3: AlignBottomRight,
	5: AlignTopLeft, 6: AlignTopCenter, 7: AlignTopRight,
	9: AlignMiddleLeft, 10: AlignMiddleCenter, 11: AlignMiddleRight,
}

var numpadToLegacy = map[Alignment]int{
	AlignBottomLeft: 1, AlignBottomCenter: 2, AlignBottomRight: 3,
	AlignTopLeft: 5, AlignTopCenter: 6, AlignTopRight: 7,
	AlignMiddleLeft: 9, AlignMiddleCenter: 10, AlignMiddleRight: 11,
}

// Style is a named bundle of formatting attributes. Styles are value types;
// documents share them by name, not by pointer. Equality is attribute-wise
// (the struct is comparable), which merge deduplication relies on.
type Style struct {
	FontName       string
	FontSize       float64
	PrimaryColor   Color
	SecondaryColor Color
	OutlineColor   Color
	BackColor      Color
	Bold           bool
	Italic         bool
	Underline      bool
	StrikeOut      bool
	ScaleX         float64
	ScaleY         float64
	Spacing        float64
	Angle          float64
	BorderStyle    int
	Outline        float64
	Shadow         float64
	Alignment      Alignment
	MarginL        int
	MarginR        int
	MarginV        int
	Encoding       int
}

// DefaultStyle returns the attribute defaults every document's "Default"
// style starts from: Arial 20, white text on black, bottom center.
func DefaultStyle() Style {
	return Style{
		FontName:       "Arial",
		FontSize:       20,
		PrimaryColor:   Color{R: 255, G: 255, B: 255},
		SecondaryColor: Color{R: 255, B: 255},
		OutlineColor:   Color{},
		BackColor:      Color{},
		ScaleX:         100,
		ScaleY:         100,
		BorderStyle:    1,
		Outline:        2,
		Shadow:         2,
		Alignment:      AlignBottomCenter,
		MarginL:        10,
		MarginR:        10,
		MarginV:        10,
		Encoding:       1,
	}
}

// EffectiveMargins resolves an event's margin overrides against its style.
// A zero event margin means "use the style margin", per SubStation rules.
func EffectiveMargins(st Style, ev Event) (l, r, v int) {
	l, r, v = st.MarginL, st.MarginR, st.MarginV
	if ev.MarginL != 0 {
		l = ev.MarginL
	}
	if ev.MarginR != 0 {
		r = ev.MarginR
	}
	if ev.MarginV != 0 {
		v = ev.MarginV
	}
	return l, r, v
}
