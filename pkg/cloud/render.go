package cloud

import (
	"context"
	"html"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
	"github.com/matzehuels/categorycloud/pkg/messages"
	"github.com/matzehuels/categorycloud/pkg/observability"
)

// Host is the markup processor a cloud is rendered into.
type Host interface {
	// DisableCache marks the enclosing document as not cacheable.
	DisableCache()

	// Expand runs text through the host's full markup pipeline.
	Expand(ctx context.Context, text string) (string, error)
}

// Messages resolves message keys to display text.
type Messages interface {
	Message(key string) string
}

// Renderer turns invocations into cloud markup.
//
// The Renderer holds no per-render state; one value can serve concurrent
// renders as long as its Store can.
type Renderer struct {
	Store    membership.Store
	Messages Messages
	Logger   *log.Logger
}

// NewRenderer creates a renderer. A nil msgs selects the English catalog;
// a nil logger discards output.
func NewRenderer(store membership.Store, msgs Messages, logger *log.Logger) *Renderer {
	if msgs == nil {
		msgs = messages.Default()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{Store: store, Messages: msgs, Logger: logger}
}

// WithMessages returns a copy of r that reports errors using msgs.
func (r *Renderer) WithMessages(msgs Messages) *Renderer {
	cp := *r
	cp.Messages = msgs
	return &cp
}

// RenderTag handles the tag form. input is the tag body and is not used.
func (r *Renderer) RenderTag(ctx context.Context, host Host, input string, attrs map[string]string) (string, error) {
	host.DisableCache()
	opts, err := FromAttributes(attrs)
	if err != nil {
		return r.report(err)
	}
	return r.Render(ctx, host, opts)
}

// RenderFunction handles the function form: args[0] is the input text,
// args[1] the category, the rest key=value parameters.
func (r *Renderer) RenderFunction(ctx context.Context, host Host, args []string) (string, error) {
	host.DisableCache()
	opts, err := FromArguments(args)
	if err != nil {
		return r.report(err)
	}
	return r.Render(ctx, host, opts)
}

// Render builds and assembles the cloud for opts. The host is marked
// uncacheable before anything else happens. Author-facing conditions are
// returned as escaped message text with a nil error; store and expansion
// failures are returned as errors.
func (r *Renderer) Render(ctx context.Context, host Host, opts Options) (string, error) {
	out, err := r.Execute(ctx, host, opts)
	if err != nil {
		return r.report(err)
	}
	return out, nil
}

// Execute is Render without the reporting step: author-facing conditions
// come back as errors (see [errors.IsReportable]) for callers that map them
// to something other than inline text, such as HTTP status codes.
func (r *Renderer) Execute(ctx context.Context, host Host, opts Options) (string, error) {
	host.DisableCache()

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Category)
	var (
		entries int
		failure error
	)
	defer func() {
		observability.Render().OnRenderComplete(ctx, opts.Category, entries, time.Since(start), failure)
	}()

	if opts.MinSize > opts.MaxSize {
		r.Logger.Debug("inverted size bounds", "minsize", opts.MinSize, "maxsize", opts.MaxSize)
	}

	c, err := Build(ctx, r.Store, opts)
	if err != nil {
		failure = err
		return "", err
	}
	entries = len(c.Items)

	text := Assemble(c)
	r.Logger.Debug("assembled cloud", "category", c.Category, "entries", entries, "min", c.Stats.Min, "max", c.Stats.Max)
	if opts.Raw {
		return text, nil
	}

	expanded, err := host.Expand(ctx, text)
	if err != nil {
		failure = errors.Wrap(errors.ErrCodeInternal, err, "expand cloud for %s", c.Category)
		return "", failure
	}
	return expanded, nil
}

func (r *Renderer) report(err error) (string, error) {
	if !errors.IsReportable(err) {
		return "", err
	}
	r.Logger.Debug("cloud not rendered", "code", errors.GetCode(err), "detail", errors.GetDetail(err))
	return r.Report(err), nil
}

// Report formats an author-facing error as escaped text: the localized
// message followed by the error's detail. Errors that are not author-facing
// report their plain message, escaped.
func (r *Renderer) Report(err error) string {
	var key string
	switch errors.GetCode(err) {
	case errors.ErrCodeMissingCategory:
		return html.EscapeString(r.Messages.Message(messages.KeyMissingCategory))
	case errors.ErrCodeEmptyCategory:
		key = messages.KeyEmptyCategory
	case errors.ErrCodeMalformedParameter:
		key = messages.KeyCannotParse
	default:
		return html.EscapeString(errors.UserMessage(err))
	}
	return html.EscapeString(r.Messages.Message(key) + errors.GetDetail(err))
}
