package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/render"
)

// DefaultFontSize is the label size of a subcategory rendered at 100%.
const DefaultFontSize = 14.0

// minFontSize keeps labels legible when inverted or tiny bounds produce very
// small or negative sizes.
const minFontSize = 4.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the member count and size to subcategory labels.
	// When false, only the display name is shown.
	Detailed bool

	// FontSize is the label size for a subcategory at 100%. Zero selects
	// DefaultFontSize.
	FontSize float64
}

// ToDOT converts a cloud to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// The category node is drawn bold on a grey fill; subcategories follow in
// cloud order.
func ToDOT(c *cloud.Cloud, opts Options) string {
	base := opts.FontSize
	if base <= 0 {
		base = DefaultFontSize
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=%s, margin=\"0.2,0.1\"];\n", fmtPoints(base))
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := categoryID(c.Category)
	fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,bold\", fillcolor=lightgrey];\n",
		root, strings.ReplaceAll(c.Category, "_", " "))

	for _, it := range c.Items {
		attrs := fmtAttrs(it, base, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", subcategoryID(it.Name), attrs)
	}

	buf.WriteString("\n")
	for _, it := range c.Items {
		fmt.Fprintf(&buf, "  %q -> %q;\n", root, subcategoryID(it.Name))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Node IDs are namespaced so a subcategory can share its parent's title.
func categoryID(name string) string    { return "category:" + name }
func subcategoryID(name string) string { return "sub:" + name }

func fmtLabel(it cloud.Item, detailed bool) string {
	if !detailed {
		return it.Label()
	}
	return fmt.Sprintf("%s\n%d pages\nsize: %s%%", it.Label(), it.Count, it.SizeString())
}

func fmtAttrs(it cloud.Item, base float64, detailed bool) string {
	size := max(base*it.Size/100, minFontSize)
	return fmt.Sprintf("label=%q, fontsize=%s", fmtLabel(it, detailed), fmtPoints(size))
}

func fmtPoints(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
