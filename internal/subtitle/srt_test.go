package subtitle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSRTRead(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.
`
	doc, rep, err := srtCodec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Warnings)
	require.Len(t, doc.Events, 2)

	assert.Equal(t, Time(1000), doc.Events[0].Start)
	assert.Equal(t, Time(4000), doc.Events[0].End)
	assert.Equal(t, "Hello, world!", doc.Events[0].Text)
	assert.Equal(t, "This is a test.\nWith multiple lines.", doc.Events[1].Text)
}

func TestSRTReadWithoutIndexLines(t *testing.T) {
	content := "00:00:01,000 --> 00:00:02,000\nfirst\n\n00:00:03,000 --> 00:00:04,000\nsecond\n"
	doc, _, err := srtCodec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "second", doc.Events[1].Text)
}

func TestSRTReadEmptyCueBeforeNextIndex(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000

2
00:00:03,000 --> 00:00:04,000
Real text
`
	doc, _, err := srtCodec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "", doc.Events[0].Text)
	assert.Equal(t, "Real text", doc.Events[1].Text)
}

func TestSRTReadMalformed(t *testing.T) {
	content := `1
00:00:02,000 --> 00:00:01,000
Backwards
`
	_, _, err := srtCodec{}.Read(content, ReadOptions{})
	require.ErrorIs(t, err, ErrMalformedInput)

	doc, rep, err := srtCodec{}.Read(content, ReadOptions{Lenient: true})
	require.NoError(t, err)
	assert.Empty(t, doc.Events)
	assert.Equal(t, 1, rep.Skipped)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0].String(), "line 2")
}

func TestSRTReadLenientSkipDiscardsBlockText(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
Good text

2
00:00:70,000 --> 00:00:71,000
Bad block text

3
00:00:05,000 --> 00:00:06,000
After
`
	doc, rep, err := srtCodec{}.Read(content, ReadOptions{Lenient: true})
	require.NoError(t, err)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "Good text", doc.Events[0].Text)
	assert.Equal(t, "After", doc.Events[1].Text)
	assert.Equal(t, 1, rep.Skipped)
}

func TestSRTReadHTMLTags(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\n<i>Hello</i> <font color=\"red\">red</font>\n"

	doc, _, err := srtCodec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{\i1}Hello{\i0} red`, doc.Events[0].Text)

	doc, _, err = srtCodec{}.Read(content, ReadOptions{KeepUnknownHTML: true})
	require.NoError(t, err)
	assert.Equal(t, `{\i1}Hello{\i0} <font color="red">red</font>`, doc.Events[0].Text)

	doc, _, err = srtCodec{}.Read(content, ReadOptions{KeepHTML: true})
	require.NoError(t, err)
	assert.Equal(t, `<i>Hello</i> <font color="red">red</font>`, doc.Events[0].Text)
}

func TestSRTWriteExactOutput(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(1000, 2500, "Hello")
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n", out)
	assert.Zero(t, rep.Lossy())
}

func TestSRTRoundTrip(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n2\n00:00:03,000 --> 00:00:04,000\nTwo\nlines\n\n"
	doc, _, err := srtCodec{}.Read(content, ReadOptions{})
	require.NoError(t, err)
	out, _, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestSRTWriteDropsInlineColor(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(0, 1000, `{\c&H0000FF&}Red`)
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "\nRed\n")
	assert.Equal(t, 1, rep.Dropped)
	assert.Equal(t, 1, rep.Lossy())
}

func TestSRTWriteInlineFormattingAsHTML(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(0, 1000, `{\i1}Hello{\i0} there`)
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "<i>Hello</i> there")
	assert.Zero(t, rep.Lossy())
}

func TestSRTWriteStyledEvent(t *testing.T) {
	doc := NewDocument()
	italic := DefaultStyle()
	italic.Italic = true
	require.NoError(t, doc.AddStyle("Cursive", italic))
	ev, err := NewEvent(0, 1000, "slanted")
	require.NoError(t, err)
	ev.Style = "Cursive"
	require.NoError(t, doc.Append(ev))

	out, _, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "<i>slanted</i>")
}

func TestSRTWriteKeepSSATags(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(0, 1000, `{\i1}Hello{\i0}`)
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{KeepSSATags: true})
	require.NoError(t, err)
	assert.Contains(t, out, `{\i1}Hello{\i0}`)
	assert.Zero(t, rep.Lossy())
}

func TestSRTWriteSkipsCommentsAndDrawings(t *testing.T) {
	doc := NewDocument()
	comment, err := NewEvent(0, 1000, "note to self")
	require.NoError(t, err)
	comment.Comment = true
	require.NoError(t, doc.Append(comment))

	drawing, err := NewEvent(0, 1000, `{\p1}m 0 0 l 10 0{\p0}`)
	require.NoError(t, err)
	require.NoError(t, doc.Append(drawing))

	visible, err := NewEvent(1000, 2000, "shown")
	require.NoError(t, err)
	require.NoError(t, doc.Append(visible))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1\n"), "numbering restarts at 1 for the first written cue")
	assert.NotContains(t, out, "note to self")
	assert.Contains(t, out, "shown")
	assert.Equal(t, 1, rep.Dropped)
}

func TestSRTWriteDanglingStyleFallsBack(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(0, 1000, "orphan")
	require.NoError(t, err)
	ev.Style = "Missing"
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "orphan")
	assert.Equal(t, 1, rep.StyleFallbacks)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0].Message, `"Missing"`)
}

func TestSRTWriteClampsOverflow(t *testing.T) {
	doc := NewDocument()
	ev, err := NewEvent(NewTime(100, 0, 0, 0), NewTime(101, 0, 0, 0), "late")
	require.NoError(t, err)
	require.NoError(t, doc.Append(ev))

	out, rep, err := srtCodec{}.Write(doc, WriteOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "99:59:59,999 --> 99:59:59,999")
	assert.Equal(t, 1, rep.Approximated)
}
