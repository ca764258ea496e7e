// Package nodelink renders a category cloud as a node-link diagram.
//
// # Overview
//
// The queried category is drawn as a single hub node with an arrow to each
// subcategory. Subcategory labels are scaled by the cloud size, so the
// diagram carries the same weighting as the markup cloud.
//
// # Usage
//
// Convert a built cloud to DOT format, then render to SVG:
//
//	c, err := cloud.Build(ctx, store, opts)
//	dot := nodelink.ToDOT(c, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the member count and size
//   - FontSize: Label size in points for a subcategory at 100%
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
