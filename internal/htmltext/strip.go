// Package htmltext strips HTML markup from free-text schema fields.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes all HTML tags from s, keeping the text nodes joined by
// single spaces. Malformed markup is tolerated; the tokenizer consumes
// whatever it can and the remaining text is kept.
func Strip(s string) string {
	tok := html.NewTokenizer(strings.NewReader(s))
	var parts []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.TextToken:
			if text := strings.TrimSpace(string(tok.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}
