// Package render converts rendered clouds between output formats.
//
// The markup form of a cloud comes from [cloud.Assemble]. For a picture of
// the category and its subcategories, the [nodelink] subpackage produces
// Graphviz DOT and SVG; this package turns SVG into PDF or PNG with the
// external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(c, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [cloud.Assemble]: github.com/matzehuels/categorycloud/pkg/cloud#Assemble
// [nodelink]: github.com/matzehuels/categorycloud/pkg/render/nodelink
package render
