package params

import (
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

const (
	// CallerSeparator is the word separator accepted in caller-side keys.
	CallerSeparator = "-"
	// WireSeparator replaces CallerSeparator on the wire.
	WireSeparator = "_"
	// ListSeparator joins collection values.
	ListSeparator = ","
)

// CanonicalKey rewrites a caller-side key into its wire form.
func CanonicalKey(key string) string {
	return strings.ReplaceAll(key, CallerSeparator, WireSeparator)
}

// Stringify renders a parameter value for the wire. Slices and arrays are
// joined with ListSeparator in iteration order; []byte is treated as text.
// Everything else goes through cast.ToString, so nil becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ListSeparator)
	case []byte:
		return string(t)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = cast.ToString(rv.Index(i).Interface())
		}
		return strings.Join(parts, ListSeparator)
	}
	return cast.ToString(v)
}

// Transform returns the canonical form of params. The input map is not
// modified. When two caller keys collapse onto the same wire key the
// result is unspecified; callers should not mix "a-b" and "a_b".
func Transform(params map[string]any) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[CanonicalKey(k)] = Stringify(v)
	}
	return out
}

// Merge copies base and overlays the canonical params on top; on key
// collision the params win.
func Merge(base map[string]any, canonical map[string]string) map[string]any {
	out := make(map[string]any, len(base)+len(canonical))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range canonical {
		out[k] = v
	}
	return out
}
