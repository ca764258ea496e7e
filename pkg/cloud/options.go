package cloud

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Defaults for unset options.
const (
	DefaultMinSize = 80.0
	DefaultMaxSize = 125.0
	DefaultClass   = "category-cloud"
)

// Options is the normalized form of a cloud invocation, whichever call
// shape it came from.
type Options struct {
	// Category is the category title without the "Category:" prefix.
	Category string

	// Order selects name or count ordering.
	Order membership.Order

	// MinSize and MaxSize bound the font size, in percent. MinSize greater
	// than MaxSize is allowed and inverts the scale.
	MinSize float64
	MaxSize float64

	// Class is the CSS class of the container. Style is an optional inline
	// style for it.
	Class string
	Style string

	// Raw returns the assembled fragment without host expansion.
	Raw bool
}

// DefaultOptions returns options with default sizes and class and no
// category.
func DefaultOptions() Options {
	return Options{
		Order:   membership.OrderByName,
		MinSize: DefaultMinSize,
		MaxSize: DefaultMaxSize,
		Class:   DefaultClass,
	}
}

// Set applies one named option. Keys are case-insensitive; unknown keys are
// ignored. Non-numeric sizes are a malformed parameter.
func (o *Options) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "category":
		o.Category = value
	case "order":
		o.Order = membership.ParseOrder(strings.TrimSpace(value))
	case "minsize":
		f, err := parseSize(key, value)
		if err != nil {
			return err
		}
		o.MinSize = f
	case "maxsize":
		f, err := parseSize(key, value)
		if err != nil {
			return err
		}
		o.MaxSize = f
	case "class":
		if value != "" {
			o.Class = value
		}
	case "style":
		o.Style = value
	case "donotparse":
		o.Raw = isTrue(value)
	}
	return nil
}

func parseSize(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		text := key + "=" + value
		return 0, errors.Wrap(errors.ErrCodeMalformedParameter, err, "size %q is not a number", text).WithDetail(text)
	}
	return f, nil
}

// isTrue reports whether a flag value enables the flag. An attribute that is
// present counts as set, so only explicit false literals disable it.
func isTrue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

// Validate checks the category. A blank category is missing; a category
// that cannot be a page title is malformed.
func (o Options) Validate() error {
	key := o.Key()
	if key == "" {
		return errors.New(errors.ErrCodeMissingCategory, "no category given")
	}
	return errors.ValidateCategoryName(key)
}

// Key is the stored title form of Category: trimmed, spaces as
// underscores, without a "Category:" prefix.
func (o Options) Key() string {
	return TitleKey(o.Category)
}

// TitleKey converts a category name as an author writes it to the form the
// membership store holds.
func TitleKey(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > len("category:") && strings.EqualFold(name[:len("category:")], "category:") {
		name = strings.TrimSpace(name[len("category:"):])
	}
	return strings.ReplaceAll(name, " ", "_")
}

// FromAttributes builds options from the tag form's attribute map.
// Attributes are applied in name order so the first malformed one reported
// is stable.
func FromAttributes(attrs map[string]string) (Options, error) {
	opts := DefaultOptions()

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := opts.Set(k, attrs[k]); err != nil {
			return opts, err
		}
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// FromArguments builds options from the function form's argument list:
// input text, category, then key=value parameters. The first malformed
// parameter stops processing. Function results are never expanded, so Raw
// is always set.
func FromArguments(args []string) (Options, error) {
	opts := DefaultOptions()
	if len(args) > 1 {
		opts.Category = args[1]
	}

	if len(args) > 2 {
		for _, arg := range args[2:] {
			p := ParseParam(arg)
			if !p.OK() {
				return opts, p.Err()
			}
			if err := opts.Set(p.Key, p.Value); err != nil {
				return opts, err
			}
		}
	}
	opts.Raw = true

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// ParseFailure says why a parameter could not be split.
type ParseFailure int

const (
	// ParseOK means the parameter split into a key and a value.
	ParseOK ParseFailure = iota
	// ParseNoEquals means the parameter has no "=".
	ParseNoEquals
	// ParseEmptyKey means nothing precedes the "=".
	ParseEmptyKey
	// ParseEmptyValue means nothing follows the "=".
	ParseEmptyValue
)

func (f ParseFailure) String() string {
	switch f {
	case ParseOK:
		return "ok"
	case ParseNoEquals:
		return "missing '='"
	case ParseEmptyKey:
		return "empty key"
	case ParseEmptyValue:
		return "empty value"
	}
	return "unknown"
}

// Param is the result of splitting a key=value parameter. Text is the
// literal argument in every case.
type Param struct {
	Text    string
	Key     string
	Value   string
	Failure ParseFailure
}

// OK reports whether the split succeeded.
func (p Param) OK() bool { return p.Failure == ParseOK }

// Err returns the malformed-parameter error for a failed split, or nil.
func (p Param) Err() error {
	if p.OK() {
		return nil
	}
	return errors.New(errors.ErrCodeMalformedParameter, "cannot parse parameter %q: %s", p.Text, p.Failure).WithDetail(p.Text)
}

// ParseParam splits text on its first "=". The value may itself contain
// "=".
func ParseParam(text string) Param {
	p := Param{Text: text}
	key, value, found := strings.Cut(text, "=")
	switch {
	case !found:
		p.Failure = ParseNoEquals
	case strings.TrimSpace(key) == "":
		p.Failure = ParseEmptyKey
	case value == "":
		p.Failure = ParseEmptyValue
	default:
		p.Key = strings.TrimSpace(key)
		p.Value = value
	}
	return p
}
