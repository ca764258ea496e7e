package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/categorycloud/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 42 pages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes every render, store and HTTP event to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnRenderStart(_ context.Context, category string) {
	h.logger.Debug("render start", "category", category)
}

func (h logHooks) OnRenderComplete(_ context.Context, category string, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "category", category, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("render done", "category", category, "entries", entries, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnQuery(_ context.Context, backend, category string, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store query failed", "backend", backend, "category", category, "err", err)
		return
	}
	h.logger.Debug("store query", "backend", backend, "category", category, "rows", rows, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnLoad(_ context.Context, backend string, pages, links int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store load failed", "backend", backend, "err", err)
		return
	}
	h.logger.Debug("store load", "backend", backend, "pages", pages, "links", links, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("http request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}

// registerLogHooks installs logHooks for every hook family.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetRenderHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}
