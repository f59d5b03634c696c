package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMPL2Read(t *testing.T) {
	content := "[10][30]Hello\n[35][50]Two|lines\n"
	doc, rep, err := mpl2Codec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Warnings)
	require.Len(t, doc.Events, 2)

	assert.Equal(t, Time(1000), doc.Events[0].Start)
	assert.Equal(t, Time(3000), doc.Events[0].End)
	assert.Equal(t, "Hello", doc.Events[0].Text)
	assert.Equal(t, "Two\nlines", doc.Events[1].Text)
}

func TestMPL2ReadItalicLines(t *testing.T) {
	content := "[10][30]/all italic\n[35][50]plain|/second line italic\n"
	doc, _, err := mpl2Codec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{\i1}all italic{\i0}`, doc.Events[0].Text)
	assert.Equal(t, "plain\n{\\i1}second line italic{\\i0}", doc.Events[1].Text)
}

func TestMPL2ReadLenient(t *testing.T) {
	content := "not mpl2\n[10][30]good\n"
	_, _, err := mpl2Codec{}.Read(content, ReadOptions{})
	require.ErrorIs(t, err, ErrMalformedInput)

	doc, rep, err := mpl2Codec{}.Read(content, ReadOptions{Lenient: true})
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, 1, rep.Skipped)
}

func TestMPL2Write(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(1000, 3000, "Hello\nthere")
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := mpl2Codec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[10][30]Hello|there\n", out)
	assert.Zero(t, rep.Lossy())
}

func TestMPL2WriteItalicLines(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(1000, 3000, "{\\i1}whole line{\\i0}\nmixed {\\i1}partial{\\i0}")
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, _, err := mpl2Codec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[10][30]/whole line|mixed partial\n", out)
}

func TestMPL2WriteItalicStyle(t *testing.T) {
	doc := NewDocument()
	italic := DefaultStyle()
	italic.Italic = true
	require.NoError(t, doc.AddStyle("Em", italic))
	ev, err := NewEvent(1000, 3000, "slanted")
	require.NoError(t, err)
	ev.Style = "Em"
	require.NoError(t, doc.Append(ev))

	out, _, err := mpl2Codec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[10][30]/slanted\n", out)
}

func TestMPL2WriteDropsColor(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(1000, 3000, `{\c&H0000FF&}Red`)
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := mpl2Codec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[10][30]Red\n", out)
	assert.Equal(t, 1, rep.Dropped)
}

func TestMPL2RoundTrip(t *testing.T) {
	content := "[10][30]/italic line\n[35][50]plain\n"
	doc, _, err := mpl2Codec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	out, _, err := mpl2Codec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, content, out)
}
