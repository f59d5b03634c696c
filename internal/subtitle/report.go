package subtitle

import "fmt"

// Warning is a non-fatal condition noticed while reading or writing.
// Line is 1-based and zero when no source line applies.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return w.Message
}

// ReadReport accumulates warnings from a lenient parse. Strict parses abort
// on the first error instead and leave the report empty.
type ReadReport struct {
	Warnings []Warning

	// Skipped counts records dropped in lenient mode.
	Skipped int
}

func (r *ReadReport) warnf(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

// WriteReport counts the conversion-policy decisions applied during a write,
// so callers can detect silent information loss. Writes never fail on a
// structurally valid document; they degrade and count instead.
type WriteReport struct {
	// Dropped counts source features with no representation in the target
	// format, omitted from the output.
	Dropped int

	// Approximated counts features mapped to the nearest supported value.
	Approximated int

	// StyleFallbacks counts dangling style references resolved to Default.
	StyleFallbacks int

	Warnings []Warning
}

// Lossy is the total number of lossy mappings applied. Zero means the
// document was fully representable in the target format.
func (r *WriteReport) Lossy() int {
	return r.Dropped + r.Approximated
}

func (r *WriteReport) warnf(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *WriteReport) drop(what string) {
	r.Dropped++
	r.warnf(0, "dropped %s: not representable in target format", what)
}

func (r *WriteReport) approximate(what string) {
	r.Approximated++
	r.warnf(0, "approximated %s: mapped to nearest supported value", what)
}
