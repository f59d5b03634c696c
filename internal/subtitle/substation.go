package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// SubStation Alpha / Advanced SubStation Alpha formats. One implementation
// serves both dialects; the SSA dialect uses the legacy style field set and
// alignment codes.
type substationCodec struct {
	format Format
}

var (
	assStyleColumns = []string{
		"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
		"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
		"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline", "Shadow",
		"Alignment", "MarginL", "MarginR", "MarginV", "Encoding",
	}
	ssaStyleColumns = []string{
		"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
		"TertiaryColour", "BackColour", "Bold", "Italic", "BorderStyle",
		"Outline", "Shadow", "Alignment", "MarginL", "MarginR", "MarginV",
		"AlphaLevel", "Encoding",
	}
	assEventColumns = []string{
		"Layer", "Start", "End", "Style", "Name",
		"MarginL", "MarginR", "MarginV", "Effect", "Text",
	}
	ssaEventColumns = []string{
		"Marked", "Start", "End", "Style", "Name",
		"MarginL", "MarginR", "MarginV", "Effect", "Text",
	}
)

func (c substationCodec) Format() Format {
	return c.format
}

func (c substationCodec) Read(text string, opts ReadOptions) (*Document, *ReadReport, error) {
	doc := NewDocument()
	rep := &ReadReport{}

	section := ""
	legacyStyles := false
	var styleCols, eventCols []string
	var extra *RawSection

	fail := func(lineNum int, err error) error {
		return fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNum, err)
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lineNum := i + 1
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			name := trimmed[1 : len(trimmed)-1]
			extra = nil
			switch strings.ToLower(name) {
			case "script info":
				section = "info"
			case "v4+ styles", "v4 styles":
				section = "styles"
				legacyStyles = strings.EqualFold(name, "v4 styles")
			case "events":
				section = "events"
			default:
				section = "extra"
				doc.ExtraSections = append(doc.ExtraSections, RawSection{Name: name})
				extra = &doc.ExtraSections[len(doc.ExtraSections)-1]
			}
			continue
		}

		if section == "extra" && extra != nil {
			if trimmed != "" {
				extra.Lines = append(extra.Lines, line)
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		value = strings.TrimLeft(value, " ")

		switch section {
		case "info":
			doc.Info.Set(strings.TrimSpace(key), value)
		case "styles":
			switch key {
			case "Format":
				styleCols = splitColumns(value)
			case "Style":
				cols := styleCols
				if cols == nil {
					if !opts.Lenient {
						return nil, nil, fail(lineNum, fmt.Errorf("Style before Format line"))
					}
					rep.warnf(lineNum, "missing Format line, assuming standard style fields")
					cols = c.styleColumns(legacyStyles)
				}
				name, st, err := parseStyleLine(value, cols, legacyStyles)
				if err == nil {
					if name == defaultStyleName {
						doc.SetStyle(name, st)
					} else {
						err = doc.AddStyle(name, st)
					}
				}
				if err != nil {
					if !opts.Lenient {
						return nil, nil, fail(lineNum, err)
					}
					rep.warnf(lineNum, "skipping style: %v", err)
					rep.Skipped++
				}
			}
		case "events":
			switch key {
			case "Format":
				eventCols = splitColumns(value)
				if len(eventCols) == 0 || !strings.EqualFold(eventCols[len(eventCols)-1], "Text") {
					return nil, nil, fail(lineNum, fmt.Errorf("event Format line must end with Text"))
				}
			case "Dialogue", "Comment":
				cols := eventCols
				if cols == nil {
					if !opts.Lenient {
						return nil, nil, fail(lineNum, fmt.Errorf("%s before Format line", key))
					}
					rep.warnf(lineNum, "missing Format line, assuming standard event fields")
					cols = c.eventColumns()
				}
				ev, err := parseEventLine(key, value, cols)
				if err != nil {
					if !opts.Lenient {
						return nil, nil, fail(lineNum, err)
					}
					rep.warnf(lineNum, "skipping event: %v", err)
					rep.Skipped++
					continue
				}
				if opts.DetectLanguage != nil {
					ev.Language = opts.DetectLanguage(ev.Plaintext())
				}
				doc.Events = append(doc.Events, ev)
			}
		}
	}
	return doc, rep, nil
}

func (c substationCodec) styleColumns(legacy bool) []string {
	if legacy || c.format == FormatSSA {
		return ssaStyleColumns
	}
	return assStyleColumns
}

func (c substationCodec) eventColumns() []string {
	if c.format == FormatSSA {
		return ssaEventColumns
	}
	return assEventColumns
}

func splitColumns(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitFields splits a comma-delimited field line into exactly numFields
// parts; commas beyond the last separator belong to the final field, which
// is how the free-form Text field survives embedded commas.
func splitFields(value string, numFields int) ([]string, error) {
	parts := strings.SplitN(value, ",", numFields)
	if len(parts) < numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(parts))
	}
	return parts, nil
}

func parseStyleLine(value string, cols []string, legacy bool) (string, Style, error) {
	st := DefaultStyle()
	name := ""
	fields, err := splitFields(value, len(cols))
	if err != nil {
		return "", st, err
	}
	for i, col := range cols {
		f := strings.TrimSpace(fields[i])
		switch strings.ToLower(col) {
		case "name":
			name = f
		case "fontname":
			st.FontName = f
		case "fontsize":
			st.FontSize, err = strconv.ParseFloat(f, 64)
		case "primarycolour":
			st.PrimaryColor, err = parseSSAColor(f)
		case "secondarycolour":
			st.SecondaryColor, err = parseSSAColor(f)
		case "outlinecolour", "tertiarycolour":
			st.OutlineColor, err = parseSSAColor(f)
		case "backcolour":
			st.BackColor, err = parseSSAColor(f)
		case "bold":
			st.Bold = ssaBool(f)
		case "italic":
			st.Italic = ssaBool(f)
		case "underline":
			st.Underline = ssaBool(f)
		case "strikeout":
			st.StrikeOut = ssaBool(f)
		case "scalex":
			st.ScaleX, err = strconv.ParseFloat(f, 64)
		case "scaley":
			st.ScaleY, err = strconv.ParseFloat(f, 64)
		case "spacing":
			st.Spacing, err = strconv.ParseFloat(f, 64)
		case "angle":
			st.Angle, err = strconv.ParseFloat(f, 64)
		case "borderstyle":
			st.BorderStyle, err = strconv.Atoi(f)
		case "outline":
			st.Outline, err = strconv.ParseFloat(f, 64)
		case "shadow":
			st.Shadow, err = strconv.ParseFloat(f, 64)
		case "alignment":
			var n int
			n, err = strconv.Atoi(f)
			if err == nil {
				if legacy {
					al, ok := legacyAlignment[n]
					if !ok {
						return "", st, fmt.Errorf("invalid legacy alignment %d", n)
					}
					st.Alignment = al
				} else {
					if n < 1 || n > 9 {
						return "", st, fmt.Errorf("invalid alignment %d", n)
					}
					st.Alignment = Alignment(n)
				}
			}
		case "marginl":
			st.MarginL, err = strconv.Atoi(f)
		case "marginr":
			st.MarginR, err = strconv.Atoi(f)
		case "marginv":
			st.MarginV, err = strconv.Atoi(f)
		case "encoding":
			st.Encoding, err = strconv.Atoi(f)
		case "alphalevel":
			// SSA alpha level has no ASS equivalent, ignored
		}
		if err != nil {
			return "", st, fmt.Errorf("field %s: %w", col, err)
		}
	}
	if name == "" {
		return "", st, fmt.Errorf("style line missing a name")
	}
	return name, st, nil
}

func parseEventLine(kind, value string, cols []string) (Event, error) {
	ev := Event{Style: defaultStyleName, Comment: kind == "Comment"}
	fields, err := splitFields(value, len(cols))
	if err != nil {
		return ev, err
	}
	for i, col := range cols {
		f := fields[i]
		if !strings.EqualFold(col, "Text") {
			f = strings.TrimSpace(f)
		}
		switch strings.ToLower(col) {
		case "layer":
			ev.Layer, err = strconv.Atoi(f)
		case "marked":
			var n int
			n, err = strconv.Atoi(strings.TrimPrefix(f, "Marked="))
			ev.Marked = n != 0
		case "start":
			ev.Start, err = ParseTime(f, FormatASS, 0)
		case "end":
			ev.End, err = ParseTime(f, FormatASS, 0)
		case "style":
			if f != "" {
				ev.Style = strings.TrimPrefix(f, "*")
			}
		case "name", "actor":
			ev.Name = f
		case "marginl":
			ev.MarginL, err = strconv.Atoi(f)
		case "marginr":
			ev.MarginR, err = strconv.Atoi(f)
		case "marginv":
			ev.MarginV, err = strconv.Atoi(f)
		case "effect":
			ev.Effect = f
		case "text":
			ev.SetText(f)
		}
		if err != nil {
			return ev, fmt.Errorf("field %s: %w", col, err)
		}
	}
	if ev.End < ev.Start {
		return ev, fmt.Errorf("%w: start=%s end=%s", ErrNegativeDuration, ev.Start, ev.End)
	}
	return ev, nil
}

// ssaBool reads SubStation boolean fields, where -1 is true.
func ssaBool(f string) bool {
	n, err := strconv.Atoi(f)
	return err == nil && n != 0
}

func ssaBoolField(v bool) string {
	if v {
		return "-1"
	}
	return "0"
}

func (c substationCodec) Write(doc *Document, opts WriteOptions) (string, *WriteReport, error) {
	rep := &WriteReport{}
	legacy := c.format == FormatSSA
	var sb strings.Builder

	scriptType := "v4.00+"
	if legacy {
		scriptType = "v4.00"
	}
	sb.WriteString("[Script Info]\n")
	if _, ok := doc.Info.Get("ScriptType"); !ok {
		sb.WriteString("ScriptType: " + scriptType + "\n")
	}
	for _, k := range doc.Info.Keys() {
		v, _ := doc.Info.Get(k)
		if k == "ScriptType" {
			v = scriptType
		}
		sb.WriteString(k + ": " + v + "\n")
	}
	sb.WriteString("\n")

	styleCols := assStyleColumns
	header := "[V4+ Styles]"
	if legacy {
		styleCols = ssaStyleColumns
		header = "[V4 Styles]"
	}
	sb.WriteString(header + "\n")
	sb.WriteString("Format: " + strings.Join(styleCols, ", ") + "\n")
	for _, name := range doc.styleNames {
		sb.WriteString(styleLine(name, doc.styles[name], styleCols, legacy, rep))
	}
	sb.WriteString("\n")

	eventCols := assEventColumns
	if legacy {
		eventCols = ssaEventColumns
	}
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: " + strings.Join(eventCols, ", ") + "\n")
	for _, ev := range doc.Events {
		sb.WriteString(c.eventLine(doc, ev, eventCols, legacy, rep))
	}

	for _, sec := range doc.ExtraSections {
		sb.WriteString("\n[" + sec.Name + "]\n")
		for _, line := range sec.Lines {
			sb.WriteString(line + "\n")
		}
	}
	return applyLineBreak(sb.String(), opts), rep, nil
}

func styleLine(name string, st Style, cols []string, legacy bool, rep *WriteReport) string {
	if legacy && (st.ScaleX != 100 || st.ScaleY != 100 || st.Spacing != 0 ||
		st.Angle != 0 || st.Underline || st.StrikeOut) {
		rep.drop("extended style attributes of " + name)
	}
	fields := make([]string, len(cols))
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "name":
			fields[i] = name
		case "fontname":
			fields[i] = st.FontName
		case "fontsize":
			fields[i] = formatFloat(st.FontSize)
		case "primarycolour":
			fields[i] = st.PrimaryColor.ssa()
		case "secondarycolour":
			fields[i] = st.SecondaryColor.ssa()
		case "outlinecolour", "tertiarycolour":
			fields[i] = st.OutlineColor.ssa()
		case "backcolour":
			fields[i] = st.BackColor.ssa()
		case "bold":
			fields[i] = ssaBoolField(st.Bold)
		case "italic":
			fields[i] = ssaBoolField(st.Italic)
		case "underline":
			fields[i] = ssaBoolField(st.Underline)
		case "strikeout":
			fields[i] = ssaBoolField(st.StrikeOut)
		case "scalex":
			fields[i] = formatFloat(st.ScaleX)
		case "scaley":
			fields[i] = formatFloat(st.ScaleY)
		case "spacing":
			fields[i] = formatFloat(st.Spacing)
		case "angle":
			fields[i] = formatFloat(st.Angle)
		case "borderstyle":
			fields[i] = strconv.Itoa(st.BorderStyle)
		case "outline":
			fields[i] = formatFloat(st.Outline)
		case "shadow":
			fields[i] = formatFloat(st.Shadow)
		case "alignment":
			if legacy {
				fields[i] = strconv.Itoa(numpadToLegacy[st.Alignment])
			} else {
				fields[i] = strconv.Itoa(int(st.Alignment))
			}
		case "marginl":
			fields[i] = strconv.Itoa(st.MarginL)
		case "marginr":
			fields[i] = strconv.Itoa(st.MarginR)
		case "marginv":
			fields[i] = strconv.Itoa(st.MarginV)
		case "alphalevel":
			fields[i] = "0"
		case "encoding":
			fields[i] = strconv.Itoa(st.Encoding)
		}
	}
	return "Style: " + strings.Join(fields, ",") + "\n"
}

func (c substationCodec) eventLine(doc *Document, ev Event, cols []string, legacy bool, rep *WriteReport) string {
	_, styleName := doc.resolveStyle(ev, rep)
	if legacy && ev.Layer != 0 {
		rep.drop("event layer")
	}
	kind := "Dialogue"
	if ev.Comment {
		kind = "Comment"
	}
	start, _ := FormatTime(ev.Start, c.format, 0)
	end, _ := FormatTime(ev.End, c.format, 0)
	text := strings.ReplaceAll(ev.Text, "\n", `\N`)

	fields := make([]string, len(cols))
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "layer":
			fields[i] = strconv.Itoa(ev.Layer)
		case "marked":
			if ev.Marked {
				fields[i] = "Marked=1"
			} else {
				fields[i] = "Marked=0"
			}
		case "start":
			fields[i] = start
		case "end":
			fields[i] = end
		case "style":
			fields[i] = styleName
		case "name", "actor":
			fields[i] = ev.Name
		case "marginl":
			fields[i] = strconv.Itoa(ev.MarginL)
		case "marginr":
			fields[i] = strconv.Itoa(ev.MarginR)
		case "marginv":
			fields[i] = strconv.Itoa(ev.MarginV)
		case "effect":
			fields[i] = ev.Effect
		case "text":
			fields[i] = text
		}
	}
	return kind + ": " + strings.Join(fields, ",") + "\n"
}
