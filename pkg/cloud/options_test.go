package cloud

import (
	"testing"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

func TestParseParam(t *testing.T) {
	tests := []struct {
		text    string
		key     string
		value   string
		failure ParseFailure
	}{
		{"order=count", "order", "count", ParseOK},
		{"style=a=b", "style", "a=b", ParseOK},
		{" minsize =90", "minsize", "90", ParseOK},
		{"foo", "", "", ParseNoEquals},
		{"", "", "", ParseNoEquals},
		{"=count", "", "", ParseEmptyKey},
		{"order=", "", "", ParseEmptyValue},
	}

	for _, tt := range tests {
		p := ParseParam(tt.text)
		if p.Text != tt.text {
			t.Errorf("ParseParam(%q).Text = %q", tt.text, p.Text)
		}
		if p.Failure != tt.failure || p.Key != tt.key || p.Value != tt.value {
			t.Errorf("ParseParam(%q) = {%q %q %v}, want {%q %q %v}",
				tt.text, p.Key, p.Value, p.Failure, tt.key, tt.value, tt.failure)
		}
		if p.OK() != (p.Err() == nil) {
			t.Errorf("ParseParam(%q): OK and Err disagree", tt.text)
		}
		if !p.OK() && errors.GetDetail(p.Err()) != tt.text {
			t.Errorf("ParseParam(%q).Err detail = %q", tt.text, errors.GetDetail(p.Err()))
		}
	}
}

func TestFromAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attrs   map[string]string
		want    Options
		errCode errors.Code
		detail  string
	}{
		{
			name:  "defaults",
			attrs: map[string]string{"category": "Fruits"},
			want:  Options{Category: "Fruits", MinSize: 80, MaxSize: 125, Class: "category-cloud"},
		},
		{
			name: "all attributes",
			attrs: map[string]string{
				"category":   "Fruits",
				"order":      "count",
				"minsize":    "50",
				"maxsize":    "150.5",
				"class":      "tags",
				"style":      "color: red",
				"donotparse": "",
			},
			want: Options{
				Category: "Fruits", Order: membership.OrderByCount,
				MinSize: 50, MaxSize: 150.5, Class: "tags", Style: "color: red", Raw: true,
			},
		},
		{
			name:  "donotparse false literal",
			attrs: map[string]string{"category": "Fruits", "donotparse": "no"},
			want:  Options{Category: "Fruits", MinSize: 80, MaxSize: 125, Class: "category-cloud"},
		},
		{
			name:  "unknown order and attribute",
			attrs: map[string]string{"category": "Fruits", "order": "random", "colour": "blue"},
			want:  Options{Category: "Fruits", MinSize: 80, MaxSize: 125, Class: "category-cloud"},
		},
		{
			name:  "upper-case keys",
			attrs: map[string]string{"Category": "Fruits", "ORDER": "count"},
			want:  Options{Category: "Fruits", Order: membership.OrderByCount, MinSize: 80, MaxSize: 125, Class: "category-cloud"},
		},
		{
			name:    "missing category",
			attrs:   map[string]string{"order": "count"},
			errCode: errors.ErrCodeMissingCategory,
		},
		{
			name:    "blank category",
			attrs:   map[string]string{"category": "   "},
			errCode: errors.ErrCodeMissingCategory,
		},
		{
			name:    "non-numeric size",
			attrs:   map[string]string{"category": "Fruits", "minsize": "big"},
			errCode: errors.ErrCodeMalformedParameter,
			detail:  "minsize=big",
		},
		{
			name:    "control character",
			attrs:   map[string]string{"category": "Fru\x00its"},
			errCode: errors.ErrCodeMalformedParameter,
			detail:  "Fru\x00its",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAttributes(tt.attrs)
			if tt.errCode != "" {
				if !errors.Is(err, tt.errCode) {
					t.Fatalf("error = %v, want %s", err, tt.errCode)
				}
				if tt.detail != "" && errors.GetDetail(err) != tt.detail {
					t.Errorf("detail = %q, want %q", errors.GetDetail(err), tt.detail)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromAttributes() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromArguments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Options
		errCode errors.Code
		detail  string
	}{
		{
			name: "category only",
			args: []string{"", "Fruits"},
			want: Options{Category: "Fruits", MinSize: 80, MaxSize: 125, Class: "category-cloud", Raw: true},
		},
		{
			name: "parameters",
			args: []string{"", "Fruits", "order=count", "maxsize=200"},
			want: Options{Category: "Fruits", Order: membership.OrderByCount, MinSize: 80, MaxSize: 200, Class: "category-cloud", Raw: true},
		},
		{
			name: "parameter overrides category",
			args: []string{"", "Fruits", "category=Vegetables"},
			want: Options{Category: "Vegetables", MinSize: 80, MaxSize: 125, Class: "category-cloud", Raw: true},
		},
		{
			name: "donotparse cannot disable raw",
			args: []string{"", "Fruits", "donotparse=0"},
			want: Options{Category: "Fruits", MinSize: 80, MaxSize: 125, Class: "category-cloud", Raw: true},
		},
		{
			name:    "no arguments",
			args:    nil,
			errCode: errors.ErrCodeMissingCategory,
		},
		{
			name:    "input only",
			args:    []string{"body"},
			errCode: errors.ErrCodeMissingCategory,
		},
		{
			name:    "missing equals",
			args:    []string{"", "Fruits", "foo"},
			errCode: errors.ErrCodeMalformedParameter,
			detail:  "foo",
		},
		{
			name:    "first malformed wins",
			args:    []string{"", "Fruits", "order=", "bar", "minsize=x"},
			errCode: errors.ErrCodeMalformedParameter,
			detail:  "order=",
		},
		{
			name:    "malformed before missing category",
			args:    []string{"", "", "foo"},
			errCode: errors.ErrCodeMalformedParameter,
			detail:  "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromArguments(tt.args)
			if tt.errCode != "" {
				if !errors.Is(err, tt.errCode) {
					t.Fatalf("error = %v, want %s", err, tt.errCode)
				}
				if tt.detail != "" && errors.GetDetail(err) != tt.detail {
					t.Errorf("detail = %q, want %q", errors.GetDetail(err), tt.detail)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromArguments() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	tests := map[string]string{
		"Fruits":                     "Fruits",
		"Banana Cultivars":           "Banana_Cultivars",
		"  Banana_Cultivars ":        "Banana_Cultivars",
		"Category:Banana Cultivars":  "Banana_Cultivars",
		"category: Fruits":           "Fruits",
		"Category:":                  "Category:",
		"Categoryless":               "Categoryless",
		"Fruit salad\t":              "Fruit_salad",
	}
	for in, want := range tests {
		if got := TitleKey(in); got != want {
			t.Errorf("TitleKey(%q) = %q, want %q", in, got, want)
		}
	}
}
