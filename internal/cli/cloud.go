package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/render/nodelink"
	"github.com/matzehuels/categorycloud/pkg/wikitext"
)

const (
	formatMarkup = "markup" // cloud markup, expanded to HTML unless --raw
	formatText   = "text"   // styled terminal preview
	formatJSON   = "json"
	formatDOT    = "dot"
	formatSVG    = "svg"
	formatPNG    = "png"
	formatPDF    = "pdf"

	defaultPreviewWidth = 80
	defaultPNGScale     = 2
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	formatMarkup: true, formatText: true, formatJSON: true,
	formatDOT: true, formatSVG: true, formatPNG: true, formatPDF: true,
}

// cloudOpts holds the command-line flags for the cloud command.
type cloudOpts struct {
	order    string
	minSize  float64
	maxSize  float64
	class    string
	style    string
	raw      bool
	format   string
	output   string
	lang     string
	baseURL  string
	detailed bool
}

func (c *CLI) cloudCommand() *cobra.Command {
	opts := cloudOpts{format: formatMarkup}

	cmd := &cobra.Command{
		Use:   "cloud <category>",
		Short: "Render the tag cloud of a category",
		Long: `Render the direct subcategories of a category as a tag cloud.

Each subcategory is sized between --min-size and --max-size percent by how
many pages it holds. The markup format prints what a wiki page would embed;
the other formats show the same cloud as a preview, data or a graph.`,
		Example: `  categorycloud cloud Fruits --order count
  categorycloud cloud "Banana Cultivars" --raw
  categorycloud cloud Fruits --format svg -o fruits.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be one of markup, text, json, dot, svg, png, pdf)", opts.format)
			}
			o := c.config.cloudOptions()
			o.Category = args[0]
			if err := applyCloudFlags(cmd.Flags().Changed, &o, &opts); err != nil {
				return err
			}
			return c.runCloud(cmd.Context(), o, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.order, "order", "", "entry order: name (default) or count")
	cmd.Flags().Float64Var(&opts.minSize, "min-size", cloud.DefaultMinSize, "font size in percent for the smallest count")
	cmd.Flags().Float64Var(&opts.maxSize, "max-size", cloud.DefaultMaxSize, "font size in percent for the largest count")
	cmd.Flags().StringVar(&opts.class, "class", "", "CSS class of the cloud container")
	cmd.Flags().StringVar(&opts.style, "style", "", "inline CSS of the cloud container")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print markup without expanding links")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: markup, text, json, dot, svg, png, pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language for error messages (e.g. de)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "link prefix for expanded markup (default /wiki/)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show page counts in graph output")

	return cmd
}

// applyCloudFlags copies explicitly set flags onto o and validates the result.
func applyCloudFlags(changed func(string) bool, o *cloud.Options, f *cloudOpts) error {
	if changed("order") {
		if err := o.Set("order", f.order); err != nil {
			return err
		}
	}
	if changed("min-size") {
		o.MinSize = f.minSize
	}
	if changed("max-size") {
		o.MaxSize = f.maxSize
	}
	if changed("class") {
		if err := o.Set("class", f.class); err != nil {
			return err
		}
	}
	if changed("style") {
		o.Style = f.style
	}
	if changed("raw") {
		o.Raw = f.raw
	}
	return o.Validate()
}

func (c *CLI) runCloud(ctx context.Context, o cloud.Options, f *cloudOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	renderer := c.newRenderer(store)
	if f.lang != "" {
		bundle, err := c.bundle()
		if err != nil {
			return err
		}
		renderer = renderer.WithMessages(bundle.Match(f.lang))
	}

	if f.format == formatMarkup {
		baseURL := f.baseURL
		if baseURL == "" {
			baseURL = c.config.Server.BaseURL
		}
		page := wikitext.NewPage("Category:"+o.Key(), baseURL)
		out, err := renderer.Execute(ctx, page, o)
		if err != nil {
			return reportError(renderer, err)
		}
		return c.writeOutput(f.output, []byte(out+"\n"))
	}

	cl, err := cloud.Build(ctx, store, o)
	if err != nil {
		return reportError(renderer, err)
	}
	logger.Debug("built cloud", "category", cl.Category, "entries", len(cl.Items))

	var data []byte
	switch f.format {
	case formatText:
		fmt.Fprintln(statusOut, StyleTitle.Render(strings.ReplaceAll(cl.Category, "_", " ")))
		printStats(cl.Stats)
		data = []byte(previewCloud(cl, defaultPreviewWidth) + "\n")
	case formatJSON:
		data, err = json.MarshalIndent(cl, "", "  ")
		data = append(data, '\n')
	case formatDOT:
		data = []byte(nodelink.ToDOT(cl, nodelink.Options{Detailed: f.detailed}))
	case formatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(cl, nodelink.Options{Detailed: f.detailed}))
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(cl, nodelink.Options{Detailed: f.detailed}), defaultPNGScale)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, nodelink.ToDOT(cl, nodelink.Options{Detailed: f.detailed}))
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", f.format, err)
	}
	return c.writeOutput(f.output, data)
}

// reportError turns author-facing conditions into a plain error carrying the
// localized message; other errors pass through.
func reportError(r *cloud.Renderer, err error) error {
	if !errors.IsReportable(err) {
		return err
	}
	return stderrors.New(html.UnescapeString(r.Report(err)))
}

// writeOutput writes data to path, or to c.Out when path is empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %d bytes", len(data))
	printFile(path)
	return nil
}
