package membership

import (
	"cmp"
	"context"
	"slices"
)

// NamespaceCategory is the namespace number of category pages.
const NamespaceCategory = 14

// Entry is one subcategory of the queried category.
type Entry struct {
	// Name is the subcategory title without the namespace prefix, in its
	// stored form (underscores for spaces).
	Name string `json:"name" bson:"name" toml:"name"`

	// Count is the number of pages categorized into the subcategory.
	Count int `json:"count" bson:"count" toml:"count"`
}

// Order selects how a store sorts the entries it returns.
type Order int

const (
	// OrderByName sorts entries by name ascending.
	OrderByName Order = iota
	// OrderByCount sorts entries by count descending, ties by name ascending.
	OrderByCount
)

// ParseOrder normalizes an order argument. Only "count" selects
// OrderByCount; every other value, including the empty string, is
// OrderByName.
func ParseOrder(s string) Order {
	if s == "count" {
		return OrderByCount
	}
	return OrderByName
}

// String returns the argument form of the order.
func (o Order) String() string {
	if o == OrderByCount {
		return "count"
	}
	return "name"
}

// Store is the read capability the renderer needs from a membership backend.
type Store interface {
	// Subcategories returns the direct subcategories of category with their
	// member counts, sorted by order. An empty result is not an error.
	Subcategories(ctx context.Context, category string, order Order) ([]Entry, error)
}

// Loader is implemented by stores that can be seeded from a Dataset.
// Load adds the dataset's records to whatever the store already holds.
type Loader interface {
	Load(ctx context.Context, ds *Dataset) error
}

// SortEntries sorts entries in place according to order.
func SortEntries(entries []Entry, order Order) {
	if order == OrderByCount {
		slices.SortStableFunc(entries, func(a, b Entry) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		return
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Name, b.Name)
	})
}
