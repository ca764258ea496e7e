// Package memory provides an in-process membership store backed by a
// [membership.Dataset]. It is used for fixtures, tests and the CLI's
// memory: DSN.
package memory

import (
	"context"
	"sync"

	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Store holds a dataset in memory.
type Store struct {
	mu sync.RWMutex
	ds membership.Dataset
}

// New creates a store holding a copy of ds. A nil ds yields an empty store.
func New(ds *membership.Dataset) *Store {
	s := &Store{}
	if ds != nil {
		s.ds.Pages = append(s.ds.Pages, ds.Pages...)
		s.ds.Links = append(s.ds.Links, ds.Links...)
	}
	return s
}

// Open reads a dataset file and returns a store holding it.
func Open(path string) (*Store, error) {
	ds, err := membership.ReadDataset(path)
	if err != nil {
		return nil, err
	}
	return New(ds), nil
}

// Subcategories implements [membership.Store].
func (s *Store) Subcategories(ctx context.Context, category string, order membership.Order) ([]membership.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds.Subcategories(category, order), nil
}

// Load implements [membership.Loader]. The merged dataset must still validate.
func (s *Store) Load(ctx context.Context, ds *membership.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := membership.Dataset{
		Pages: append(append([]membership.Page{}, s.ds.Pages...), ds.Pages...),
		Links: append(append([]membership.Link{}, s.ds.Links...), ds.Links...),
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	s.ds = merged
	return nil
}

// Close does nothing for the memory store.
func (s *Store) Close() error { return nil }

var (
	_ membership.Store  = (*Store)(nil)
	_ membership.Loader = (*Store)(nil)
)
