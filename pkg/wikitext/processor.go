package wikitext

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/matzehuels/categorycloud/pkg/cloud"
)

// TagName and FunctionName are the directive names recognized in documents.
const (
	TagName      = "category-cloud"
	FunctionName = "#category-cloud"
)

var (
	tagRe = regexp.MustCompile(`(?s)<category-cloud((?:\s+[^>]*?)?)\s*(?:/>|>(.*?)</category-cloud>)`)
	// Attribute values may be double-quoted, single-quoted or bare; an
	// attribute with no value at all is present with an empty value.
	attrRe     = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+)))?`)
	functionRe = regexp.MustCompile(`\{\{#category-cloud:([^{}]*)\}\}`)
)

// Processor renders every cloud directive in a document.
type Processor struct {
	Renderer *cloud.Renderer
}

// NewProcessor creates a processor that renders with r.
func NewProcessor(r *cloud.Renderer) *Processor {
	return &Processor{Renderer: r}
}

// Process replaces each tag and parser function in text with its rendered
// output, then expands the whole document through page. Store failures stop
// processing and are returned.
func (p *Processor) Process(ctx context.Context, page *Page, text string) (string, error) {
	var firstErr error

	text = tagRe.ReplaceAllStringFunc(text, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := tagRe.FindStringSubmatch(m)
		out, err := p.Renderer.RenderTag(ctx, page, sub[2], ParseAttributes(sub[1]))
		if err != nil {
			firstErr = err
			return m
		}
		return out
	})
	if firstErr != nil {
		return "", firstErr
	}

	text = functionRe.ReplaceAllStringFunc(text, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := functionRe.FindStringSubmatch(m)
		out, err := p.Renderer.RenderFunction(ctx, page, FunctionArgs(sub[1]))
		if err != nil {
			firstErr = err
			return m
		}
		return out
	})
	if firstErr != nil {
		return "", firstErr
	}

	return page.Expand(ctx, text)
}

// ParseAttributes parses the attribute part of a tag. Keys are lower-cased
// and values are entity-decoded; later duplicates win.
func ParseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		var value string
		switch {
		case m[2] != "":
			value = m[2]
		case m[3] != "":
			value = m[3]
		default:
			value = m[4]
		}
		attrs[strings.ToLower(m[1])] = html.UnescapeString(value)
	}
	return attrs
}

// FunctionArgs splits the body of a parser function call into the argument
// list the renderer expects: an empty input text followed by the
// pipe-separated arguments, trimmed.
func FunctionArgs(body string) []string {
	parts := strings.Split(body, "|")
	args := make([]string, 0, len(parts)+1)
	args = append(args, "")
	for _, part := range parts {
		args = append(args, strings.TrimSpace(part))
	}
	return args
}
