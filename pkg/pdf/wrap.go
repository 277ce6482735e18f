package pdf

import (
	"strings"
	"unicode"
)

// Measurer reports the rendered width of text in a given style and size
type Measurer interface {
	TextWidth(text string, run Run, size float64) float64
}

// Line is one laid out line of a paragraph
type Line struct {
	Runs  []Run   `json:"runs"`
	Width float64 `json:"width"`
}

// Text returns the unstyled line content
func (l Line) Text() string {
	return PlainText(l.Runs)
}

// word is a whitespace-delimited token; it may span several styles,
// e.g. "hours</b>." keeps the trailing period glued to the bold text.
type word []Run

// Wrap lays runs out into lines no wider than maxWidth.
//
// Lines break only at whitespace and at "\n". Consecutive whitespace
// collapses to a single space. A word wider than maxWidth gets a line of its
// own and is not split. Hard breaks with nothing between them produce empty
// lines.
func Wrap(runs []Run, maxWidth, size float64, m Measurer) []Line {
	var lines []Line
	for _, hard := range splitHardBreaks(runs) {
		words := splitWords(hard)
		if len(words) == 0 {
			lines = append(lines, Line{})
			continue
		}

		space := m.TextWidth(" ", Run{}, size)
		var (
			current []word
			width   float64
		)
		for _, w := range words {
			ww := wordWidth(w, size, m)
			if len(current) > 0 && width+space+ww > maxWidth {
				lines = append(lines, buildLine(current, size, m))
				current, width = nil, 0
			}
			if len(current) > 0 {
				width += space
			}
			current = append(current, w)
			width += ww
		}
		lines = append(lines, buildLine(current, size, m))
	}
	return lines
}

func splitHardBreaks(runs []Run) [][]Run {
	out := [][]Run{nil}
	for _, r := range runs {
		parts := strings.Split(r.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, nil)
			}
			if part != "" {
				seg := r
				seg.Text = part
				out[len(out)-1] = append(out[len(out)-1], seg)
			}
		}
	}
	return out
}

func splitWords(runs []Run) []word {
	var (
		words []word
		cur   word
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, cur)
			cur = nil
		}
	}

	for _, r := range runs {
		start := -1
		for i, ch := range r.Text {
			if unicode.IsSpace(ch) {
				if start >= 0 {
					cur = append(cur, withText(r, r.Text[start:i]))
					start = -1
				}
				flush()
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			cur = append(cur, withText(r, r.Text[start:]))
		}
	}
	flush()
	return words
}

func withText(r Run, text string) Run {
	r.Text = text
	return r
}

func wordWidth(w word, size float64, m Measurer) float64 {
	var total float64
	for _, r := range w {
		total += m.TextWidth(r.Text, r, size)
	}
	return total
}

// buildLine joins words with single spaces and merges adjacent runs that
// share a style, so "Jane" + "Doe" in bold become one "Jane Doe" run.
func buildLine(words []word, size float64, m Measurer) Line {
	var runs []Run
	appendRun := func(r Run) {
		if n := len(runs); n > 0 && runs[n-1].sameStyle(r) {
			runs[n-1].Text += r.Text
			return
		}
		runs = append(runs, r)
	}

	for i, w := range words {
		if i > 0 {
			runs[len(runs)-1].Text += " "
		}
		for _, r := range w {
			appendRun(r)
		}
	}

	var width float64
	for _, r := range runs {
		width += m.TextWidth(r.Text, r, size)
	}
	return Line{Runs: runs, Width: width}
}
