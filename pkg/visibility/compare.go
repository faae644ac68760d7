package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

// LooseEqual compares model values the way form inputs are compared: a
// checkbox posting "1" matches the literal 1, and "true" matches true.
// Numbers compare numerically, booleans by truth value, everything else by
// its string form. nil only equals nil.
func LooseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa == sb
		}
	}
	if ba, ok := a.(bool); ok {
		bb, ok := CoerceBool(b)
		return ok && ba == bb
	}
	if bb, ok := b.(bool); ok {
		ba, ok := CoerceBool(a)
		return ok && ba == bb
	}
	na, okA := CoerceNumber(a)
	nb, okB := CoerceNumber(b)
	if okA && okB {
		return na == nb
	}
	return CoerceString(a) == CoerceString(b)
}

// Truthy mirrors how an unset form input is treated: empty strings, zero and
// empty collections are false.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := CoerceNumber(value); ok {
		return n != 0
	}
	return true
}

// CoerceBool converts value to a bool, accepting strconv.ParseBool strings and
// numbers.
func CoerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	if n, ok := CoerceNumber(value); ok {
		return n != 0, true
	}
	return false, false
}

// CoerceNumber converts numeric values and numeric strings to float64.
func CoerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CoerceString renders value as text.
func CoerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
