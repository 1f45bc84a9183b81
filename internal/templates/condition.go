package templates

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var comparisonPattern = regexp.MustCompile(`(?s)^(.+?)\s*(===|!==|>=|<=|>|<)\s*(.+)$`)

// evaluate reports whether an if-block condition holds.
//
// A bare key tests truthiness. A comparison needs one side to resolve as a
// name; the left side is tried first and the other side is read as a literal.
func (s *renderState) evaluate(condition string) bool {
	condition = strings.TrimSpace(condition)
	m := comparisonPattern.FindStringSubmatch(condition)
	if m == nil {
		v, _ := s.lookup(condition)
		return truthy(v)
	}
	lhs, op, rhs := strings.TrimSpace(m[1]), m[2], strings.TrimSpace(m[3])

	var left, right any
	if v, ok := s.lookup(lhs); ok {
		left, right = normalizeOperand(v), coerce(rhs)
	} else if v, ok := s.lookup(rhs); ok {
		left, right = coerce(lhs), normalizeOperand(v)
	} else {
		return false
	}

	c := compareValues(left, right)
	switch op {
	case "===":
		return c == 0
	case "!==":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// coerce interprets a literal operand: integer, float, boolean, quoted
// string, otherwise the raw text.
func coerce(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if len(raw) >= 2 {
		if q := raw[0]; (q == '"' || q == '\'') && raw[len(raw)-1] == q {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// normalizeOperand maps a resolved value onto the types coerce produces.
func normalizeOperand(v any) any {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float64:
		return val
	case string:
		return coerceUnquoted(val)
	}
	return coerceUnquoted(Stringify(v))
}

// coerceUnquoted converts numeric and boolean text but never strips quotes
// from a resolved value.
func coerceUnquoted(s string) any {
	v := coerce(s)
	if _, isString := v.(string); isString {
		return s
	}
	return v
}

func compareValues(a, b any) int {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
