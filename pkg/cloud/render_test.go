package cloud

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
	"github.com/matzehuels/categorycloud/pkg/membership/membershiptest"
	"github.com/matzehuels/categorycloud/pkg/membership/memory"
	"github.com/matzehuels/categorycloud/pkg/observability"
)

type fakeHost struct {
	disabled int
	expanded []string
	err      error
}

func (h *fakeHost) DisableCache() { h.disabled++ }

func (h *fakeHost) Expand(_ context.Context, text string) (string, error) {
	h.expanded = append(h.expanded, text)
	if h.err != nil {
		return "", h.err
	}
	return "<p>" + text + "</p>", nil
}

type failingStore struct{ err error }

func (s failingStore) Subcategories(context.Context, string, membership.Order) ([]membership.Entry, error) {
	return nil, s.err
}

type fixedStore []membership.Entry

func (s fixedStore) Subcategories(context.Context, string, membership.Order) ([]membership.Entry, error) {
	return s, nil
}

func newTestRenderer() *Renderer {
	return NewRenderer(memory.New(membershiptest.Fixture()), nil, nil)
}

const fruitsCloud = "<div class='category-cloud'>" +
	" <span style='font-size: 80%;'>[[:Category:Apple|Apple]]</span>" +
	" <span style='font-size: 125%;'>[[:Category:Banana_Cultivars|Banana Cultivars]]</span>" +
	"</div>"

func TestRenderFruits(t *testing.T) {
	r := newTestRenderer()
	host := &fakeHost{}

	got, err := r.RenderTag(context.Background(), host, "", map[string]string{
		"category":   "Fruits",
		"minsize":    "80",
		"maxsize":    "125",
		"donotparse": "1",
	})
	if err != nil {
		t.Fatalf("RenderTag: %v", err)
	}
	if got != fruitsCloud {
		t.Errorf("RenderTag =\n%s\nwant\n%s", got, fruitsCloud)
	}
	if host.disabled == 0 {
		t.Error("cache was not disabled")
	}
	if len(host.expanded) != 0 {
		t.Error("raw output was expanded")
	}
}

func TestRenderExpandsByDefault(t *testing.T) {
	r := newTestRenderer()
	host := &fakeHost{}

	got, err := r.RenderTag(context.Background(), host, "", map[string]string{"category": "Fruits"})
	if err != nil {
		t.Fatalf("RenderTag: %v", err)
	}
	if got != "<p>"+fruitsCloud+"</p>" {
		t.Errorf("RenderTag = %q", got)
	}
	if len(host.expanded) != 1 || host.expanded[0] != fruitsCloud {
		t.Errorf("Expand called with %q", host.expanded)
	}
}

func TestRenderFunctionNeverExpands(t *testing.T) {
	r := newTestRenderer()
	host := &fakeHost{}

	got, err := r.RenderFunction(context.Background(), host, []string{"", "Fruits"})
	if err != nil {
		t.Fatalf("RenderFunction: %v", err)
	}
	if got != fruitsCloud {
		t.Errorf("RenderFunction = %q", got)
	}
	if len(host.expanded) != 0 {
		t.Error("function form was expanded")
	}
}

func TestRenderReportedConditions(t *testing.T) {
	tests := []struct {
		name  string
		run   func(r *Renderer, h Host) (string, error)
		want  string
		query bool
	}{
		{
			name: "empty category",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderTag(context.Background(), h, "", map[string]string{"category": "Empty"})
			},
			want: "CategoryCloud: Category is empty: Empty",
		},
		{
			name: "nonexistent category",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderFunction(context.Background(), h, []string{"", "Nope"})
			},
			want: "CategoryCloud: Category is empty: Nope",
		},
		{
			name: "malformed parameter",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderFunction(context.Background(), h, []string{"", "Fruits", "foo"})
			},
			want: "CategoryCloud: Cannot parse parameter: foo",
		},
		{
			name: "missing category",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderTag(context.Background(), h, "", map[string]string{})
			},
			want: "CategoryCloud: Cannot find category attribute",
		},
		{
			name: "escaped detail",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderFunction(context.Background(), h, []string{"", "<b>Nope</b>"})
			},
			want: "CategoryCloud: Category is empty: &lt;b&gt;Nope&lt;/b&gt;",
		},
		{
			name: "escaped parameter",
			run: func(r *Renderer, h Host) (string, error) {
				return r.RenderFunction(context.Background(), h, []string{"", "Fruits", "<script>"})
			},
			want: "CategoryCloud: Cannot parse parameter: &lt;script&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{}
			got, err := tt.run(newTestRenderer(), host)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "<") {
				t.Errorf("reported message contains markup: %q", got)
			}
			if host.disabled == 0 {
				t.Error("cache was not disabled on the error path")
			}
			if len(host.expanded) != 0 {
				t.Error("error message was expanded")
			}
		})
	}
}

func TestRenderOrderByCount(t *testing.T) {
	r := newTestRenderer()
	got, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Fruits", "order=count"})
	if err != nil {
		t.Fatal(err)
	}
	banana := strings.Index(got, "Banana_Cultivars")
	apple := strings.Index(got, "Apple")
	if banana < 0 || apple < 0 || banana > apple {
		t.Errorf("count order not applied: %s", got)
	}
}

func TestRenderEqualCounts(t *testing.T) {
	r := newTestRenderer()
	got, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Vegetables", "minsize=10", "maxsize=500"})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, "font-size: 100%;"); n != 2 {
		t.Errorf("expected both entries at 100%%, got %s", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	r := newTestRenderer()
	args := []string{"", "Fruits", "order=count", "style=border: 1px"}

	first, err := r.RenderFunction(context.Background(), &fakeHost{}, args)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.RenderFunction(context.Background(), &fakeHost{}, args)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n%s", first, second)
	}
}

func TestRenderStoreError(t *testing.T) {
	boom := stderrors.New("connection refused")
	r := NewRenderer(failingStore{err: boom}, nil, nil)
	host := &fakeHost{}

	got, err := r.RenderTag(context.Background(), host, "", map[string]string{"category": "Fruits"})
	if got != "" {
		t.Errorf("output = %q, want empty", got)
	}
	if !errors.Is(err, errors.ErrCodeStore) || !stderrors.Is(err, boom) {
		t.Errorf("error = %v, want STORE_ERROR wrapping cause", err)
	}
	if host.disabled == 0 {
		t.Error("cache was not disabled")
	}
}

func TestRenderExpandError(t *testing.T) {
	r := newTestRenderer()
	host := &fakeHost{err: stderrors.New("parser crashed")}

	_, err := r.RenderTag(context.Background(), host, "", map[string]string{"category": "Fruits"})
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error = %v, want INTERNAL_ERROR", err)
	}
}

func TestAssembleClassAndStyle(t *testing.T) {
	c := &Cloud{
		Items:   []Item{{Entry: membership.Entry{Name: "A_B", Count: 1}, Size: 102.5}},
		Options: Options{Class: "x' onclick='y", Style: "color: <red>"},
	}
	want := "<div class='x&#39; onclick=&#39;y' style='color: &lt;red&gt;'>" +
		" <span style='font-size: 102.5%;'>[[:Category:A_B|A B]]</span></div>"
	if got := Assemble(c); got != want {
		t.Errorf("Assemble =\n%s\nwant\n%s", got, want)
	}
}

func TestBuild(t *testing.T) {
	store := fixedStore{{Name: "A", Count: 2}, {Name: "B", Count: 4}, {Name: "C", Count: 6}}
	opts := DefaultOptions()
	opts.Category = "Letters"

	c, err := Build(context.Background(), store, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.Category != "Letters" || len(c.Items) != 3 {
		t.Fatalf("Build = %+v", c)
	}
	wantSizes := []float64{80, 102.5, 125}
	for i, it := range c.Items {
		if it.Size != wantSizes[i] {
			t.Errorf("item %s size = %v, want %v", it.Name, it.Size, wantSizes[i])
		}
	}
	if c.Stats.Average != 4 || c.Stats.Total != 12 {
		t.Errorf("Stats = %+v", c.Stats)
	}
}

func TestBuildUsesTitleKey(t *testing.T) {
	r := newTestRenderer()
	got, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Category:Fruits"})
	if err != nil {
		t.Fatal(err)
	}
	if got != fruitsCloud {
		t.Errorf("got %q", got)
	}
}

type germanMessages map[string]string

func (m germanMessages) Message(key string) string { return m[key] }

func TestWithMessages(t *testing.T) {
	r := newTestRenderer().WithMessages(germanMessages{"empty-category": "Leer: "})
	got, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Empty"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Leer: Empty" {
		t.Errorf("got %q", got)
	}
}

type recordingRenderHooks struct {
	observability.NoopRenderHooks
	started  []string
	entries  int
	complete int
	err      error
}

func (h *recordingRenderHooks) OnRenderStart(_ context.Context, category string) {
	h.started = append(h.started, category)
}

func (h *recordingRenderHooks) OnRenderComplete(_ context.Context, _ string, entries int, _ time.Duration, err error) {
	h.complete++
	h.entries = entries
	h.err = err
}

func TestRenderHooks(t *testing.T) {
	hooks := &recordingRenderHooks{}
	observability.SetRenderHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRenderer()
	if _, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Fruits"}); err != nil {
		t.Fatal(err)
	}
	if hooks.complete != 1 || hooks.entries != 2 || hooks.err != nil {
		t.Errorf("after success: %+v", hooks)
	}

	if _, err := r.RenderFunction(context.Background(), &fakeHost{}, []string{"", "Empty"}); err != nil {
		t.Fatal(err)
	}
	if hooks.complete != 2 || !errors.Is(hooks.err, errors.ErrCodeEmptyCategory) {
		t.Errorf("after empty: %+v", hooks)
	}
}

func TestExecuteReturnsReportableErrors(t *testing.T) {
	r := newTestRenderer()
	host := &fakeHost{}
	opts := DefaultOptions()
	opts.Category = "Empty"

	out, err := r.Execute(context.Background(), host, opts)
	if out != "" || !errors.Is(err, errors.ErrCodeEmptyCategory) {
		t.Fatalf("Execute = (%q, %v), want EMPTY_CATEGORY", out, err)
	}
	if got := r.Report(err); got != "CategoryCloud: Category is empty: Empty" {
		t.Errorf("Report = %q", got)
	}
	if host.disabled == 0 {
		t.Error("cache was not disabled")
	}
}
