// Package wikitext is a small wiki markup host for category clouds.
//
// It understands just enough markup to embed clouds in a document:
//
//   - <category-cloud attr="value" ... /> tags, with or without a body
//   - {{#category-cloud:Category|key=value|...}} parser functions
//   - [[:Category:Title|Label]] and [[:Category:Title]] links
//
// [Page] implements [cloud.Host]: it records the cache-disable signal and
// expands links to HTML. All expanded output is passed through a
// bluemonday policy that admits only the elements and attributes a cloud
// produces.
package wikitext

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultBaseURL prefixes category link targets.
const DefaultBaseURL = "/wiki/"

// Page is the document being rendered.
type Page struct {
	Title   string
	BaseURL string

	mu        sync.Mutex
	uncached  bool
	expansion int
}

// NewPage creates a cacheable page. An empty baseURL selects DefaultBaseURL.
func NewPage(title, baseURL string) *Page {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Page{Title: title, BaseURL: baseURL}
}

// DisableCache marks the page as not cacheable.
func (p *Page) DisableCache() {
	p.mu.Lock()
	p.uncached = true
	p.mu.Unlock()
}

// Cacheable reports whether anything rendered into the page allowed caching.
func (p *Page) Cacheable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.uncached
}

// Expansions returns how many times Expand ran.
func (p *Page) Expansions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expansion
}

var categoryLinkRe = regexp.MustCompile(`\[\[:Category:([^\]|]+)(?:\|([^\]]*))?\]\]`)

// Expand converts category links to anchors and sanitizes the result.
func (p *Page) Expand(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	p.expansion++
	p.mu.Unlock()

	out := categoryLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := categoryLinkRe.FindStringSubmatch(m)
		target := strings.TrimSpace(sub[1])
		label := sub[2]
		if label == "" {
			label = strings.ReplaceAll(target, "_", " ")
		}
		href := p.BaseURL + url.PathEscape("Category:"+strings.ReplaceAll(target, " ", "_"))
		title := "Category:" + strings.ReplaceAll(target, "_", " ")
		return `<a href="` + html.EscapeString(href) + `" title="` + html.EscapeString(title) + `">` +
			html.EscapeString(label) + `</a>`
	})
	return Sanitize(out), nil
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

var (
	fontSizeStyle = regexp.MustCompile(`^font-size: -?[0-9]+(\.[0-9]+)?%;$`)
	inlineStyle   = regexp.MustCompile(`^[a-zA-Z0-9\s:;%#.,()-]*$`)
)

// Policy returns the sanitizer policy used for expanded output.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("div", "span", "a", "p", "br")
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("div")
		p.AllowAttrs("style").Matching(inlineStyle).OnElements("div")
		p.AllowAttrs("style").Matching(fontSizeStyle).OnElements("span")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("title").OnElements("a")
		p.AllowRelativeURLs(true)
		p.AllowURLSchemes("http", "https")
		policy = p
	})
	return policy
}

// Sanitize runs html through the page policy.
func Sanitize(s string) string {
	return Policy().Sanitize(s)
}
