// Package richtext cleans HTML produced by the site's rich-text editor before it is stored and
// derives plain-text excerpts from it.
package richtext

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultExcerptLength is the rune budget used for derived excerpts.
const DefaultExcerptLength = 200

// textlessElements hold no visible text for excerpts.
var textlessElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"template": {},
	"iframe":   {},
	"object":   {},
	"embed":    {},
	"svg":      {},
	"math":     {},
	"textarea": {},
	"select":   {},
	"head":     {},
	"title":    {},
}

var policy = newPolicy()

// newPolicy allows the markup the editor produces plus uploaded video embeds. Anything not
// listed, scripting elements and event handlers included, is removed; links accept only http,
// https, mailto and relative URLs.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("src", "controls", "loop", "muted", "playsinline").OnElements("video")
	p.AllowAttrs("src", "type").OnElements("source")
	return p
}

// Sanitize keeps the allowed formatting markup of editor HTML and strips everything else.
func Sanitize(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", nil
	}

	var builder strings.Builder
	if err := policy.SanitizeReaderToWriter(strings.NewReader(trimmed), &builder); err != nil {
		return "", eris.Wrap(err, "sanitizing rich-text html")
	}

	return strings.TrimSpace(builder.String()), nil
}

// Excerpt returns the visible text of content, whitespace-collapsed and cut to limit runes.
func Excerpt(content string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLength
	}

	nodes, err := parseFragment(content)
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for _, node := range nodes {
		collectText(&builder, node)
	}

	text := strings.Join(strings.Fields(builder.String()), " ")
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimSpace(string(runes[:limit]))
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// PlainText returns the visible text of content with markup removed.
func PlainText(content string) string {
	nodes, err := parseFragment(content)
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for _, node := range nodes {
		collectText(&builder, node)
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

func parseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, eris.Wrap(err, "parsing rich-text html")
	}
	return nodes, nil
}

func collectText(builder *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
		builder.WriteByte(' ')
		return
	case html.ElementNode:
		if _, textless := textlessElements[strings.ToLower(node.Data)]; textless {
			return
		}
	case html.CommentNode:
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(builder, child)
	}
}
