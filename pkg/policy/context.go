package policy

// ExecutionContext is the set of request-specific facts a rule is checked
// against: a flat mapping from field name to a string, number, or boolean
// value. Accessors are total: a missing or mistyped field reads as the
// zero/falsy value, never an error, so evaluation cannot be bypassed by
// withholding fields.
type ExecutionContext map[string]any

// Bool reads a field as a boolean. Missing fields and non-boolean values
// are falsy, except numeric non-zero and the strings "true"/"yes", which
// count as truthy so callers can pass form-style parameters.
func (c ExecutionContext) Bool(field string) bool {
	v, ok := c[field]
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "yes"
	default:
		n, ok := toFloat(v)
		return ok && n != 0
	}
}

// Number reads a field as a float64. Missing and non-numeric fields are 0.
func (c ExecutionContext) Number(field string) float64 {
	v, ok := c[field]
	if !ok {
		return 0
	}
	n, _ := toFloat(v)
	return n
}

// String reads a field as a string. Missing and non-string fields are "".
func (c ExecutionContext) String(field string) string {
	if v, ok := c[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether the field is present at all.
func (c ExecutionContext) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Clone returns a shallow copy of the context, used when snapshotting the
// context into an audit record so later caller mutations cannot rewrite
// history.
func (c ExecutionContext) Clone() ExecutionContext {
	out := make(ExecutionContext, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// toFloat converts JSON-ish scalar types to float64. Mirrors the numeric
// widening encoding/json performs, plus the integer types Go callers pass
// directly.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
