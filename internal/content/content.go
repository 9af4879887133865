// Package content handles the rich-text payload of text-bearing elements.
//
// Content is an opaque HTML fragment or a plain label. It is sanitized when
// an edit session ends and projected to plain text for the terminal canvas
// and PNG export.
package content

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	md = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
)

// IsHTML reports whether s looks like markup rather than a plain label.
func IsHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

// Sanitize strips scripts, event handlers and anything else unsafe from an
// edited fragment. Plain labels pass through unchanged.
func Sanitize(s string) string {
	if !IsHTML(s) {
		return s
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText renders content as readable text: markup becomes Markdown and
// entities are decoded.
func PlainText(s string) string {
	if !IsHTML(s) {
		return html.UnescapeString(s)
	}
	out, err := md.ConvertString(ugc.Sanitize(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
	}
	return strings.TrimSpace(out)
}

// Lines splits the plain text projection into at most limit display lines of
// at most width runes each, breaking on spaces where it can.
func Lines(s string, width, limit int) []string {
	if width <= 0 || limit <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(PlainText(s), "\n") {
		for _, l := range wrap(para, width) {
			if len(out) == limit {
				return out
			}
			out = append(out, l)
		}
	}
	return out
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		r := []rune(w)
		for len(r) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		switch {
		case len(cur) == 0:
			cur = r
		case len(cur)+1+len(r) <= width:
			cur = append(append(cur, ' '), r...)
		default:
			lines = append(lines, string(cur))
			cur = r
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
