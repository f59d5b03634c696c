package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasDefaultStyle(t *testing.T) {
	doc := NewDocument()
	st, ok := doc.Style("Default")
	require.True(t, ok)
	assert.Equal(t, DefaultStyle(), st)
	assert.Equal(t, []string{"Default"}, doc.StyleNames())
}

func TestAddStyle(t *testing.T) {
	doc := NewDocument()
	alt := DefaultStyle()
	alt.Italic = true

	require.NoError(t, doc.AddStyle("Alt", alt))
	err := doc.AddStyle("Alt", alt)
	require.ErrorIs(t, err, ErrDuplicateStyle)

	// SetStyle replaces without complaint
	alt.Bold = true
	doc.SetStyle("Alt", alt)
	got, _ := doc.Style("Alt")
	assert.True(t, got.Bold)
	assert.Equal(t, []string{"Default", "Alt"}, doc.StyleNames())
}

func TestRenameStyle(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.AddStyle("Old", DefaultStyle()))
	ev, _ := NewEvent(0, 1000, "x")
	ev.Style = "Old"
	require.NoError(t, doc.Append(ev))

	require.NoError(t, doc.RenameStyle("Old", "New"))
	_, ok := doc.Style("Old")
	assert.False(t, ok)
	assert.Equal(t, "New", doc.Events[0].Style)

	require.Error(t, doc.RenameStyle("Default", "Other"))
	require.Error(t, doc.RenameStyle("Missing", "Other"))
}

func TestAppend(t *testing.T) {
	doc := NewDocument()
	err := doc.Append(Event{Start: 2000, End: 1000})
	require.ErrorIs(t, err, ErrNegativeDuration)
	assert.Empty(t, doc.Events)

	require.NoError(t, doc.Append(Event{Start: 0, End: 1000}))
	assert.Equal(t, "Default", doc.Events[0].Style, "empty style resolves to Default")
}

func TestShiftAndScale(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.Append(Event{Start: 1000, End: 2000}))
	require.NoError(t, doc.Append(Event{Start: 3000, End: 4000}))

	doc.Shift(-1500)
	assert.Equal(t, Time(0), doc.Events[0].Start)
	assert.Equal(t, Time(500), doc.Events[0].End)
	assert.Equal(t, Time(1500), doc.Events[1].Start)

	doc.Scale(2, 0)
	assert.Equal(t, Time(3000), doc.Events[1].Start)
}

func TestSortByStartIsExplicitAndStable(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.Append(Event{Start: 2000, End: 3000, Text: "b"}))
	require.NoError(t, doc.Append(Event{Start: 1000, End: 2000, Text: "a"}))
	require.NoError(t, doc.Append(Event{Start: 1000, End: 2000, Text: "a2"}))

	// insertion order is preserved until asked otherwise
	assert.Equal(t, "b", doc.Events[0].Text)

	doc.SortByStart()
	assert.Equal(t, []string{"a", "a2", "b"}, []string{
		doc.Events[0].Text, doc.Events[1].Text, doc.Events[2].Text,
	})
}

func TestDocumentDuration(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, Time(0), doc.Duration())
	require.NoError(t, doc.Append(Event{Start: 0, End: 5000}))
	require.NoError(t, doc.Append(Event{Start: 1000, End: 3000}))
	assert.Equal(t, Time(5000), doc.Duration())
}

func TestCopyIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Info.Set("Title", "Original")
	require.NoError(t, doc.AddStyle("Alt", DefaultStyle()))
	require.NoError(t, doc.Append(Event{Start: 0, End: 1000, Text: "x"}))
	doc.ExtraSections = append(doc.ExtraSections, RawSection{Name: "Fonts", Lines: []string{"a"}})

	cp := doc.Copy()
	alt, _ := cp.Style("Alt")
	alt.Bold = true
	cp.SetStyle("Alt", alt)
	cp.Events[0].Text = "changed"
	cp.Info.Set("Title", "Copy")
	cp.ExtraSections[0].Lines[0] = "b"

	orig, _ := doc.Style("Alt")
	assert.False(t, orig.Bold)
	assert.Equal(t, "x", doc.Events[0].Text)
	assert.Equal(t, "Original", doc.Info.Title())
	assert.Equal(t, "a", doc.ExtraSections[0].Lines[0])
}

func TestMergeDeduplicatesStyles(t *testing.T) {
	a := NewDocument()
	narrator := DefaultStyle()
	narrator.Italic = true
	require.NoError(t, a.AddStyle("Narrator", narrator))

	b := NewDocument()
	require.NoError(t, b.AddStyle("Narrator", narrator))
	ev, _ := NewEvent(0, 1000, "same definition")
	ev.Style = "Narrator"
	require.NoError(t, b.Append(ev))

	a.Merge(b)
	assert.Equal(t, []string{"Default", "Narrator"}, a.StyleNames())
	assert.Equal(t, "Narrator", a.Events[0].Style)
}

func TestMergeRenamesConflictingStyles(t *testing.T) {
	a := NewDocument()
	italic := DefaultStyle()
	italic.Italic = true
	require.NoError(t, a.AddStyle("Narrator", italic))

	b := NewDocument()
	bold := DefaultStyle()
	bold.Bold = true
	require.NoError(t, b.AddStyle("Narrator", bold))
	ev, _ := NewEvent(0, 1000, "conflicting definition")
	ev.Style = "Narrator"
	require.NoError(t, b.Append(ev))

	a.Merge(b)
	assert.Equal(t, []string{"Default", "Narrator", "Narrator (2)"}, a.StyleNames())
	assert.Equal(t, "Narrator (2)", a.Events[0].Style)
	got, _ := a.Style("Narrator (2)")
	assert.True(t, got.Bold)
}

func TestInfoPreservesOrder(t *testing.T) {
	var info Info
	info.Set("Title", "Movie")
	info.SetPlayRes(1920, 1080)
	info.Set("Title", "Movie 2")

	assert.Equal(t, []string{"Title", "PlayResX", "PlayResY"}, info.Keys())
	assert.Equal(t, "Movie 2", info.Title())
	w, h := info.PlayRes()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}
