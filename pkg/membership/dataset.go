package membership

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/categorycloud/pkg/errors"
)

// Page is a row of the page table.
type Page struct {
	ID        int64  `json:"id" toml:"id" bson:"_id"`
	Namespace int    `json:"namespace" toml:"namespace" bson:"namespace"`
	Title     string `json:"title" toml:"title" bson:"title"`
}

// IsCategory reports whether the page lives in the category namespace.
func (p Page) IsCategory() bool { return p.Namespace == NamespaceCategory }

// Link is a row of the categorylinks table: page From is a member of the
// category titled To.
type Link struct {
	From int64  `json:"from" toml:"from" bson:"from"`
	To   string `json:"to" toml:"to" bson:"to"`
}

// Dataset is a set of page and category-link records.
//
// The TOML form uses array tables:
//
//	[[page]]
//	id = 1
//	namespace = 14
//	title = "Fruits"
//
//	[[link]]
//	from = 2
//	to = "Fruits"
//
// The JSON form is {"pages": [...], "links": [...]}.
type Dataset struct {
	Pages []Page `json:"pages" toml:"page"`
	Links []Link `json:"links" toml:"link"`
}

// Validate checks that page IDs and (namespace, title) pairs are unique and
// that every page has a title. Links may reference pages or categories that
// do not exist; the aggregation ignores them the same way a join would.
func (ds *Dataset) Validate() error {
	ids := make(map[int64]bool, len(ds.Pages))
	titles := make(map[string]bool, len(ds.Pages))
	for _, p := range ds.Pages {
		if p.Title == "" {
			return errors.New(errors.ErrCodeInvalidDataset, "page %d has no title", p.ID)
		}
		if ids[p.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate page id %d", p.ID)
		}
		ids[p.ID] = true
		key := fmt.Sprintf("%d:%s", p.Namespace, p.Title)
		if titles[key] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate page %s in namespace %d", p.Title, p.Namespace)
		}
		titles[key] = true
	}
	return nil
}

// Subcategories computes the aggregation in memory. It is the reference the
// database backends are tested against.
func (ds *Dataset) Subcategories(category string, order Order) []Entry {
	pages := make(map[int64]Page, len(ds.Pages))
	for _, p := range ds.Pages {
		pages[p.ID] = p
	}

	// categorylinks has a (from, to) primary key; collapse duplicates.
	members := make(map[string]map[int64]bool)
	for _, l := range ds.Links {
		if members[l.To] == nil {
			members[l.To] = make(map[int64]bool)
		}
		members[l.To][l.From] = true
	}

	counts := make(map[string]int)
	for from := range members[category] {
		sub, ok := pages[from]
		if !ok || !sub.IsCategory() {
			continue
		}
		for member := range members[sub.Title] {
			if _, exists := pages[member]; !exists || member == sub.ID {
				continue
			}
			counts[sub.Title]++
		}
	}

	entries := make([]Entry, 0, len(counts))
	for name, n := range counts {
		entries = append(entries, Entry{Name: name, Count: n})
	}
	SortEntries(entries, order)
	return entries
}

// ReadDataset reads a dataset file, choosing the decoder by extension
// (.toml or .json).
func ReadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(f)
	case ".json":
		return DecodeJSON(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q (must be .toml or .json)", filepath.Ext(path))
	}
}

// DecodeTOML decodes and validates a TOML dataset.
func DecodeTOML(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode toml")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// DecodeJSON decodes and validates a JSON dataset.
func DecodeJSON(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode json")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// EncodeTOML writes ds to w in the TOML dataset format.
func (ds *Dataset) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(ds)
}

// EncodeJSON writes ds to w as indented JSON.
func (ds *Dataset) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}
