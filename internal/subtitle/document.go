package subtitle

import (
	"fmt"
	"sort"
	"strconv"
)

const defaultStyleName = "Default"

// Info holds document-level metadata: declared video resolution plus
// arbitrary script headers that unknown formats carry through opaquely.
// Insertion order is preserved for write-back.
type Info struct {
	keys   []string
	values map[string]string
}

func (i *Info) Set(key, value string) {
	if i.values == nil {
		i.values = make(map[string]string)
	}
	if _, ok := i.values[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.values[key] = value
}

func (i *Info) Get(key string) (string, bool) {
	v, ok := i.values[key]
	return v, ok
}

// Keys returns header names in insertion order.
func (i *Info) Keys() []string {
	return append([]string(nil), i.keys...)
}

func (i *Info) Title() string {
	v, _ := i.Get("Title")
	return v
}

// PlayRes returns the declared video resolution, zero when absent.
func (i *Info) PlayRes() (w, h int) {
	if v, ok := i.Get("PlayResX"); ok {
		w, _ = strconv.Atoi(v)
	}
	if v, ok := i.Get("PlayResY"); ok {
		h, _ = strconv.Atoi(v)
	}
	return w, h
}

func (i *Info) SetPlayRes(w, h int) {
	i.Set("PlayResX", strconv.Itoa(w))
	i.Set("PlayResY", strconv.Itoa(h))
}

func (i *Info) copy() Info {
	out := Info{}
	for _, k := range i.keys {
		out.Set(k, i.values[k])
	}
	return out
}

// RawSection is a script section the codec does not model (eg. [Fonts]),
// preserved line-for-line for lossless write-back.
type RawSection struct {
	Name  string
	Lines []string
}

// Document is an ordered sequence of events plus named styles and metadata.
// Event order is the presentation order; it is never re-sorted unless
// SortByStart is called explicitly. A document always has a "Default" style,
// even when empty. Documents are not safe for concurrent mutation.
type Document struct {
	Events        []Event
	Info          Info
	ExtraSections []RawSection

	styles     map[string]Style
	styleNames []string
}

// NewDocument returns an empty document holding only the Default style.
func NewDocument() *Document {
	doc := &Document{styles: make(map[string]Style)}
	doc.styles[defaultStyleName] = DefaultStyle()
	doc.styleNames = []string{defaultStyleName}
	return doc
}

// AddStyle registers a new style. Duplicate names fail fast; use SetStyle to
// replace an existing definition.
func (d *Document) AddStyle(name string, st Style) error {
	if _, ok := d.styles[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStyle, name)
	}
	d.styles[name] = st
	d.styleNames = append(d.styleNames, name)
	return nil
}

// SetStyle adds or replaces a style definition. Replacing affects every
// event referencing the name.
func (d *Document) SetStyle(name string, st Style) {
	if _, ok := d.styles[name]; !ok {
		d.styleNames = append(d.styleNames, name)
	}
	d.styles[name] = st
}

// Style looks up a style by name.
func (d *Document) Style(name string) (Style, bool) {
	st, ok := d.styles[name]
	return st, ok
}

// StyleNames returns style names in insertion order.
func (d *Document) StyleNames() []string {
	return append([]string(nil), d.styleNames...)
}

// RenameStyle renames a style and updates every event referencing it.
// The Default style cannot be renamed away.
func (d *Document) RenameStyle(old, new string) error {
	if old == defaultStyleName {
		return fmt.Errorf("cannot rename the %s style", defaultStyleName)
	}
	st, ok := d.styles[old]
	if !ok {
		return fmt.Errorf("no such style %q", old)
	}
	if _, ok := d.styles[new]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStyle, new)
	}
	delete(d.styles, old)
	d.styles[new] = st
	for i, name := range d.styleNames {
		if name == old {
			d.styleNames[i] = new
		}
	}
	for i := range d.Events {
		if d.Events[i].Style == old {
			d.Events[i].Style = new
		}
	}
	return nil
}

// Append adds an event, enforcing end >= start. A dangling style reference
// is allowed here; write operations resolve it to Default with a warning.
func (d *Document) Append(ev Event) error {
	if ev.End < ev.Start {
		return fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, ev.Start, ev.End)
	}
	if ev.Style == "" {
		ev.Style = defaultStyleName
	}
	d.Events = append(d.Events, ev)
	return nil
}

// Shift moves every event by delta, clamping at zero.
func (d *Document) Shift(delta Time) {
	for i := range d.Events {
		d.Events[i] = d.Events[i].Shift(delta)
	}
}

// Scale retimes every event by factor around pivot.
func (d *Document) Scale(factor float64, pivot Time) {
	for i := range d.Events {
		d.Events[i] = d.Events[i].Scale(factor, pivot)
	}
}

// SortByStart orders events by start time, then end time. Only an explicit
// call re-sorts; parsing preserves source order.
func (d *Document) SortByStart() {
	sort.SliceStable(d.Events, func(i, j int) bool {
		if d.Events[i].Start != d.Events[j].Start {
			return d.Events[i].Start < d.Events[j].Start
		}
		return d.Events[i].End < d.Events[j].End
	})
}

// Duration returns the largest event end time.
func (d *Document) Duration() Time {
	var max Time
	for _, ev := range d.Events {
		if ev.End > max {
			max = ev.End
		}
	}
	return max
}

// Copy returns a deep copy sharing no state with the original, so styles
// never alias across documents.
func (d *Document) Copy() *Document {
	out := NewDocument()
	out.Events = append([]Event(nil), d.Events...)
	out.Info = d.Info.copy()
	for _, sec := range d.ExtraSections {
		out.ExtraSections = append(out.ExtraSections, RawSection{
			Name:  sec.Name,
			Lines: append([]string(nil), sec.Lines...),
		})
	}
	for _, name := range d.styleNames {
		out.SetStyle(name, d.styles[name])
	}
	return out
}

// Merge appends a deep copy of other's events and styles. Styles are
// deduplicated attribute-wise: an incoming style equal to an existing one
// reuses its name; a conflicting definition gets a unique suffixed name and
// the incoming events are re-keyed to it.
func (d *Document) Merge(other *Document) {
	rename := make(map[string]string)
	for _, name := range other.styleNames {
		incoming := other.styles[name]
		existing, ok := d.styles[name]
		switch {
		case !ok:
			d.SetStyle(name, incoming)
		case existing == incoming:
			// identical definition, share the name
		default:
			fresh := name
			for n := 2; ; n++ {
				fresh = fmt.Sprintf("%s (%d)", name, n)
				if _, taken := d.styles[fresh]; !taken {
					break
				}
			}
			d.SetStyle(fresh, incoming)
			rename[name] = fresh
		}
	}
	for _, ev := range other.Events {
		if fresh, ok := rename[ev.Style]; ok {
			ev.Style = fresh
		}
		d.Events = append(d.Events, ev)
	}
}

// resolveStyle returns the style for an event, falling back to Default when
// the reference is dangling. The fallback is recorded on the report rather
// than surfaced as an error: writes never fail on unresolved references.
func (d *Document) resolveStyle(ev Event, rep *WriteReport) (Style, string) {
	if st, ok := d.styles[ev.Style]; ok {
		return st, ev.Style
	}
	rep.StyleFallbacks++
	rep.warnf(0, "style %q not defined, using %s", ev.Style, defaultStyleName)
	return d.styles[defaultStyleName], defaultStyleName
}
