// Package membership models wiki category membership and the store
// capability the cloud renderer queries.
//
// # Records
//
// Membership is stored the way MediaWiki stores it: a [Page] table keyed by
// page ID (with namespace and title) and a [Link] table recording that page
// From is categorized into the category titled To. A category is itself a
// page in [NamespaceCategory].
//
// # Aggregation
//
// Every [Store] answers a single question: for category C, which pages in
// the category namespace are members of C, and how many existing pages are
// in turn members of each of them? The result is a slice of [Entry] values
// in the requested [Order]. Subcategories with no members are omitted.
//
// [Dataset.Subcategories] is the in-process reference implementation; the
// backend subpackages (memory, sqlite, postgres, redis, mongo) return the
// same entries for the same records.
//
// # Datasets
//
// A [Dataset] can be read from TOML or JSON and loaded into any backend
// that implements [Loader]:
//
//	ds, err := membership.ReadDataset("fixtures/wiki.toml")
//	if err != nil {
//	    return err
//	}
//	if err := store.Load(ctx, ds); err != nil {
//	    return err
//	}
package membership
