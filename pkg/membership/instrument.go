package membership

import (
	"context"
	"time"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/observability"
)

// Instrumented wraps a Store and reports every query to the registered
// [observability.StoreHooks] under the given backend name.
type Instrumented struct {
	Store   Store
	Backend string
}

// Instrument returns s wrapped for observability. Wrapping an already
// instrumented store replaces the backend name.
func Instrument(s Store, backend string) *Instrumented {
	if in, ok := s.(*Instrumented); ok {
		s = in.Store
	}
	return &Instrumented{Store: s, Backend: backend}
}

// Subcategories implements [Store].
func (i *Instrumented) Subcategories(ctx context.Context, category string, order Order) ([]Entry, error) {
	start := time.Now()
	entries, err := i.Store.Subcategories(ctx, category, order)
	observability.Store().OnQuery(ctx, i.Backend, category, len(entries), time.Since(start), err)
	return entries, err
}

// Load forwards to the wrapped store if it is a [Loader].
func (i *Instrumented) Load(ctx context.Context, ds *Dataset) error {
	l, ok := i.Store.(Loader)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "%s store cannot load datasets", i.Backend)
	}
	start := time.Now()
	err := l.Load(ctx, ds)
	observability.Store().OnLoad(ctx, i.Backend, len(ds.Pages), len(ds.Links), time.Since(start), err)
	return err
}
