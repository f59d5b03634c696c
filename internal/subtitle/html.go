package subtitle

import (
	"strings"

	"golang.org/x/net/html"
)

// convertHTMLTags rewrites the markup commonly embedded in SRT and WebVTT
// text into override tags: <i>, <b>, <u> and <s> map to their SubStation
// toggles. Other markup is kept verbatim when keepUnknown is set and
// stripped otherwise.
func convertHTMLTags(text string, keepUnknown bool) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	z := html.NewTokenizer(strings.NewReader(text))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			raw := append([]byte(nil), z.Raw()...)
			name, _ := z.TagName()
			open := raw[1] != '/'
			switch string(name) {
			case "i", "b", "u", "s":
				toggle := "0"
				if open {
					toggle = "1"
				}
				sb.WriteString(`{\` + string(name) + toggle + `}`)
			default:
				if keepUnknown {
					sb.Write(raw)
				}
			}
		case html.CommentToken, html.DoctypeToken:
			if keepUnknown {
				sb.Write(z.Raw())
			}
		}
	}
}
