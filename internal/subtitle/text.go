package subtitle

import (
	"strings"
)

// plain text: blank-line separated paragraphs, no timing in the syntax.
// Reading synthesizes sequential timings; writing keeps only the plaintext.
type textCodec struct{}

// synthesized duration of each paragraph when reading plain text
const textParagraphDuration Time = 4000

func (textCodec) Format() Format {
	return FormatText
}

func (c textCodec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.TrimPrefix(normalized, "\ufeff")

	var cursor Time
	for _, paragraph := range strings.Split(normalized, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		ev, err := NewEvent(cursor, cursor+textParagraphDuration, paragraph)
		if err != nil {
			return nil, nil, err
		}
		if opts.DetectLanguage != nil {
			ev.Language = opts.DetectLanguage(ev.Plaintext())
		}
		doc.Events = append(doc.Events, ev)
		cursor += textParagraphDuration
	}
	return doc, rep, nil
}

func (c textCodec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	rep := &WriteReport{}
	var paragraphs []string
	for _, ev := range doc.Events {
		if ev.Comment {
			continue
		}
		if ev.IsDrawing() {
			rep.drop("drawing event")
			continue
		}
		if strings.Contains(ev.Text, "{") {
			rep.drop("override tags")
		}
		paragraphs = append(paragraphs, strings.TrimSpace(ev.Plaintext()))
	}
	if len(paragraphs) == 0 {
		return "", rep, nil
	}
	return applyLineBreak(strings.Join(paragraphs, "\n\n")+"\n", opts), rep, nil
}
