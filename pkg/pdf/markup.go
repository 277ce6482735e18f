package pdf

import (
	"html"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Run is a span of text drawn with a single font style.
// A "\n" inside Text forces a line break.
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// fontStyle returns the gofpdf style string for the run
func (r Run) fontStyle() string {
	var sb strings.Builder
	if r.Bold {
		sb.WriteByte('B')
	}
	if r.Italic {
		sb.WriteByte('I')
	}
	if r.Underline {
		sb.WriteByte('U')
	}
	return sb.String()
}

func (r Run) sameStyle(o Run) bool {
	return r.Bold == o.Bold && r.Italic == o.Italic && r.Underline == o.Underline
}

// ParseMarkup converts basic HTML markup into styled runs.
//
// Supported tags are b/strong, i/em, u and br. Unknown tags are dropped.
// Text segments are entity-unescaped after tokenizing, so callers must escape
// untrusted input (html.EscapeString or html/template) before embedding it:
// escaped text never contains a tag and is restored verbatim here.
func ParseMarkup(markup string) []Run {
	var runs []Run
	var bold, italic, underline int

	for _, seg := range gofpdf.HTMLBasicTokenize(markup) {
		switch seg.Cat {
		case 'T':
			text := html.UnescapeString(seg.Str)
			if text == "" {
				continue
			}
			runs = append(runs, Run{
				Text:      text,
				Bold:      bold > 0,
				Italic:    italic > 0,
				Underline: underline > 0,
			})
		case 'O':
			switch tagName(seg.Str) {
			case "b", "strong":
				bold++
			case "i", "em":
				italic++
			case "u":
				underline++
			case "br":
				runs = append(runs, Run{Text: "\n"})
			}
		case 'C':
			switch tagName(seg.Str) {
			case "b", "strong":
				bold = max(bold-1, 0)
			case "i", "em":
				italic = max(italic-1, 0)
			case "u":
				underline = max(underline-1, 0)
			}
		}
	}

	return runs
}

func tagName(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "/"))
}

// PlainText joins runs back into unstyled text
func PlainText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
