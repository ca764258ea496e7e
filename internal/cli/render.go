package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/wikitext"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path; stdout when empty
	title   string // page title; derived from the input file name when empty
	baseURL string // prefix for category links
	lang    string // language for author-facing messages
}

// renderCommand processes a wikitext document, replacing every
// <category-cloud> tag and {{#category-cloud:...}} call.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a wikitext document with embedded clouds to HTML",
		Long: `Render a wikitext document to HTML.

Every <category-cloud category="..."/> tag and {{#category-cloud:...}} call
is replaced by its cloud and category links become anchors. Use "-" to read
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title (default: input file name)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "link prefix (default /wiki/)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "language for error messages (e.g. de)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	text, err := readInput(input)
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	renderer := c.newRenderer(store)
	if opts.lang != "" {
		bundle, err := c.bundle()
		if err != nil {
			return err
		}
		renderer = renderer.WithMessages(bundle.Match(opts.lang))
	}

	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = c.config.Server.BaseURL
	}
	page := wikitext.NewPage(pageTitle(input, opts.title), baseURL)

	out, err := wikitext.NewProcessor(renderer).Process(ctx, page, text)
	if err != nil {
		return err
	}
	logger.Debug("processed page", "title", page.Title, "cacheable", page.Cacheable())

	if err := c.writeOutput(opts.output, []byte(out)); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		prog.done("Rendered " + page.Title)
	}
	return nil
}

// readInput reads path, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// pageTitle returns title, or the input's base name without extension.
func pageTitle(input, title string) string {
	if title != "" {
		return title
	}
	if input == "-" {
		return "Main_Page"
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
