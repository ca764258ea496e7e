package cloud

import (
	"context"
	"html"
	"strconv"
	"strings"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Item is one subcategory in a cloud with its computed size.
type Item struct {
	membership.Entry
	Size float64 `json:"size"`
}

// Label is the display form of the name: underscores become spaces.
func (it Item) Label() string {
	return strings.ReplaceAll(it.Name, "_", " ")
}

// SizeString formats Size as the shortest decimal that round-trips.
func (it Item) SizeString() string {
	return strconv.FormatFloat(it.Size, 'f', -1, 64)
}

// Cloud is a built cloud: the subcategories in store order with sizes, the
// count statistics, and the options it was built with.
type Cloud struct {
	Category string  `json:"category"`
	Items    []Item  `json:"items"`
	Stats    Stats   `json:"stats"`
	Options  Options `json:"-"`
}

// Build validates opts, queries store and sizes the result. An empty result
// is an EMPTY_CATEGORY error carrying the category as detail; store failures
// are STORE_ERROR.
func Build(ctx context.Context, store membership.Store, opts Options) (*Cloud, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := opts.Key()
	entries, err := store.Subcategories(ctx, key, opts.Order)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeStore {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query subcategories of %s", key)
	}
	if len(entries) == 0 {
		name := strings.TrimSpace(opts.Category)
		return nil, errors.New(errors.ErrCodeEmptyCategory, "category %q has no subcategories", name).WithDetail(name)
	}

	stats := ComputeStats(entries)
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e, Size: Size(e.Count, stats, opts.MinSize, opts.MaxSize)}
	}
	return &Cloud{Category: key, Items: items, Stats: stats, Options: opts}, nil
}

// Assemble writes the wikitext fragment for c:
//
//	<div class='category-cloud'> <span style='font-size: 80%;'>[[:Category:Apple|Apple]]</span>...</div>
//
// The class and style values are HTML-escaped. Link targets keep the stored
// title; link labels use spaces.
func Assemble(c *Cloud) string {
	var b strings.Builder
	b.WriteString("<div class='")
	b.WriteString(html.EscapeString(c.Options.Class))
	b.WriteString("'")
	if c.Options.Style != "" {
		b.WriteString(" style='")
		b.WriteString(html.EscapeString(c.Options.Style))
		b.WriteString("'")
	}
	b.WriteString(">")

	for _, it := range c.Items {
		b.WriteString(" <span style='font-size: ")
		b.WriteString(it.SizeString())
		b.WriteString("%;'>[[:Category:")
		b.WriteString(it.Name)
		b.WriteString("|")
		b.WriteString(it.Label())
		b.WriteString("]]</span>")
	}

	b.WriteString("</div>")
	return b.String()
}
