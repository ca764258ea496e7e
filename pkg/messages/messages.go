// Package messages holds the localizable texts shown to page authors when a
// cloud cannot be rendered.
//
// A [Catalog] maps the three message keys to display strings in one
// language. Catalogs are loaded from TOML:
//
//	lang = "de"
//
//	[messages]
//	missing-category = "CategoryCloud: Kategorie-Attribut fehlt"
//	empty-category = "CategoryCloud: Kategorie ist leer: "
//	cannot-parse-parameter = "CategoryCloud: Parameter nicht lesbar: "
//
// A [Bundle] groups catalogs and picks one for an Accept-Language header.
// Keys missing from a catalog fall back to the English defaults.
package messages

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/matzehuels/categorycloud/pkg/errors"
)

// Message keys.
const (
	KeyMissingCategory = "missing-category"
	KeyEmptyCategory   = "empty-category"
	KeyCannotParse     = "cannot-parse-parameter"
)

// Keys lists every message key.
var Keys = []string{KeyMissingCategory, KeyEmptyCategory, KeyCannotParse}

var english = map[string]string{
	KeyMissingCategory: "CategoryCloud: Cannot find category attribute",
	KeyEmptyCategory:   "CategoryCloud: Category is empty: ",
	KeyCannotParse:     "CategoryCloud: Cannot parse parameter: ",
}

// Catalog is a set of messages in one language.
type Catalog struct {
	Lang     language.Tag
	Messages map[string]string
}

// Default returns the English catalog.
func Default() *Catalog {
	m := make(map[string]string, len(english))
	for k, v := range english {
		m[k] = v
	}
	return &Catalog{Lang: language.English, Messages: m}
}

// Message returns the text for key. Unknown keys resolve to the English
// default, and keys with no default resolve to themselves.
func (c *Catalog) Message(key string) string {
	if c != nil {
		if s, ok := c.Messages[key]; ok {
			return s
		}
	}
	if s, ok := english[key]; ok {
		return s
	}
	return key
}

type catalogFile struct {
	Lang     string            `toml:"lang"`
	Messages map[string]string `toml:"messages"`
}

// DecodeTOML reads a catalog. The lang field is required and must be a
// valid BCP 47 tag.
func DecodeTOML(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode message catalog")
	}
	if f.Lang == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "message catalog has no lang")
	}
	tag, err := language.Parse(f.Lang)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "message catalog lang %q", f.Lang)
	}
	if f.Messages == nil {
		f.Messages = map[string]string{}
	}
	return &Catalog{Lang: tag, Messages: f.Messages}, nil
}

// ReadFile reads a catalog file.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTOML(f)
}

// Bundle selects among catalogs by language.
type Bundle struct {
	catalogs []*Catalog
	matcher  language.Matcher
}

// NewBundle creates a bundle. The English default is always present and is
// the fallback; a later catalog with the same language replaces an earlier
// one.
func NewBundle(catalogs ...*Catalog) *Bundle {
	all := []*Catalog{Default()}
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		replaced := false
		for i, existing := range all {
			if existing.Lang == c.Lang {
				all[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			all = append(all, c)
		}
	}

	tags := make([]language.Tag, len(all))
	for i, c := range all {
		tags[i] = c.Lang
	}
	return &Bundle{catalogs: all, matcher: language.NewMatcher(tags)}
}

// LoadDir builds a bundle from every *.toml file in dir, in name order.
func LoadDir(dir string) (*Bundle, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	catalogs := make([]*Catalog, 0, len(paths))
	for _, p := range paths {
		c, err := ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(p), err)
		}
		catalogs = append(catalogs, c)
	}
	return NewBundle(catalogs...), nil
}

// Match returns the catalog that best fits an Accept-Language header value.
// An empty or unparsable header selects the English default.
func (b *Bundle) Match(acceptLanguage string) *Catalog {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return b.catalogs[0]
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.catalogs[0]
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.catalogs[0]
	}
	return b.catalogs[idx]
}

// Languages returns the languages in the bundle, English first.
func (b *Bundle) Languages() []language.Tag {
	tags := make([]language.Tag, len(b.catalogs))
	for i, c := range b.catalogs {
		tags[i] = c.Lang
	}
	return tags
}
