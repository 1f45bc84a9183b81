package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Metadata is the string-keyed value mapping a template renders against.
type Metadata map[string]any

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String returns the rendered form of key, or "" when absent.
func (m Metadata) String(key string) string {
	return Stringify(m[key])
}

// Stringify renders a metadata value the way variable references print it.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	case []string:
		return strings.Join(val, ", ")
	case fmt.Stringer:
		return val.String()
	}
	if list, ok := asList(v); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func asList(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []Metadata:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = Metadata(m)
		}
		return out, true
	}
	return nil, false
}

func asObject(v any) (Metadata, bool) {
	switch val := v.(type) {
	case Metadata:
		return val, true
	case map[string]any:
		return Metadata(val), true
	}
	return nil, false
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	}
	if list, ok := asList(v); ok {
		return len(list) > 0
	}
	if obj, ok := asObject(v); ok {
		return len(obj) > 0
	}
	return true
}
