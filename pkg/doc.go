// Package pkg provides the libraries behind categorycloud.
//
// # Overview
//
// Categorycloud renders the direct subcategories of a wiki category as a
// tag cloud: each subcategory appears as a link whose font size grows with
// the number of pages it holds. The pkg directory is organized as:
//
//  1. [membership] - Category membership data and the store backends
//  2. [cloud] - Options, sizing, markup assembly and the renderer
//  3. [wikitext] - A small markup host that embeds clouds in documents
//  4. [server] - HTTP access to clouds and documents
//  5. [render/nodelink] - Clouds as Graphviz graphs (DOT, SVG, PNG, PDF)
//
// # Architecture
//
// The data flow for one cloud:
//
//	tag attributes / function arguments
//	         ↓
//	    [cloud] Options (normalize + validate)
//	         ↓
//	    [membership] Store.Subcategories (name, count pairs)
//	         ↓
//	    [cloud] Size + Assemble (markup)
//	         ↓
//	    Host.Expand, or the raw markup
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/categorycloud/pkg/cloud"
//	    "github.com/matzehuels/categorycloud/pkg/membership/sqlite"
//	    "github.com/matzehuels/categorycloud/pkg/wikitext"
//	)
//
//	store, _ := sqlite.Open(ctx, "wiki.db")
//	r := cloud.NewRenderer(store, nil, nil)
//
//	page := wikitext.NewPage("Main_Page", "")
//	html, _ := wikitext.NewProcessor(r).Process(ctx, page,
//	    `<category-cloud category="Fruits" order="count"/>`)
//
// # Main Packages
//
// [membership] - The Store interface, datasets (TOML and JSON), the shared
// SQL, and backends: memory, sqlite, postgres, redis and mongo. Every
// backend returns the same entries for the same dataset.
//
// [messages] - Localized texts for author-facing errors, loaded from TOML
// catalogs and matched against Accept-Language.
//
// [errors] - Code-typed errors and input validation.
//
// [observability] - Hooks for render, store and HTTP events; no-ops unless
// registered.
//
// [buildinfo] - Version metadata injected at build time.
//
// [render] - SVG to PDF/PNG conversion.
//
// [membership]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/membership
// [cloud]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/cloud
// [wikitext]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/wikitext
// [server]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/server
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/render/nodelink
// [messages]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/messages
// [errors]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/buildinfo
// [render]: https://pkg.go.dev/github.com/matzehuels/categorycloud/pkg/render
package pkg
