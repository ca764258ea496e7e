package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

func testCloud() *cloud.Cloud {
	return &cloud.Cloud{
		Category: "Fruits",
		Items: []cloud.Item{
			{Entry: membership.Entry{Name: "Apple", Count: 3}, Size: 80},
			{Entry: membership.Entry{Name: "Banana_Cultivars", Count: 9}, Size: 125},
		},
		Stats: cloud.Stats{Min: 3, Max: 9, Total: 12, Count: 2, Average: 6},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testCloud(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"category:Fruits" [label="Fruits"`) {
		t.Error("ToDOT() output missing category node")
	}
	if !strings.Contains(dot, `"sub:Banana_Cultivars" [label="Banana Cultivars", fontsize=17.5]`) {
		t.Errorf("ToDOT() output missing scaled subcategory node:\n%s", dot)
	}
	if !strings.Contains(dot, `"sub:Apple" [label="Apple", fontsize=11.2]`) {
		t.Errorf("ToDOT() output missing scaled Apple node:\n%s", dot)
	}
	if !strings.Contains(dot, `"category:Fruits" -> "sub:Apple"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testCloud(), Options{Detailed: true})

	if !strings.Contains(dot, `9 pages`) {
		t.Error("ToDOT() detailed output missing count")
	}
	if !strings.Contains(dot, `size: 125%`) {
		t.Error("ToDOT() detailed output missing size")
	}
}

func TestToDOT_SelfNamedSubcategory(t *testing.T) {
	c := &cloud.Cloud{
		Category: "Apple",
		Items:    []cloud.Item{{Entry: membership.Entry{Name: "Apple", Count: 3}, Size: 100}},
	}
	dot := ToDOT(c, Options{})
	if !strings.Contains(dot, `"category:Apple" -> "sub:Apple"`) {
		t.Errorf("self-named subcategory collapsed into its parent:\n%s", dot)
	}
}

func TestToDOT_MinimumFontSize(t *testing.T) {
	c := &cloud.Cloud{
		Category: "Fruits",
		Items:    []cloud.Item{{Entry: membership.Entry{Name: "Tiny", Count: 1}, Size: -50}},
	}
	dot := ToDOT(c, Options{FontSize: 10})
	if !strings.Contains(dot, "fontsize=4]") {
		t.Errorf("negative size not clamped:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testCloud(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(s, "Banana Cultivars") {
		t.Error("RenderSVG() output missing label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("expected error for invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}
}
