package halyard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// convertValue applies a declared kind to a raw candidate string. The raw
// value is trimmed first; surrounding whitespace is never significant.
func convertValue(kind Kind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch kind {
	case KindString:
		return raw, nil

	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q", raw)
		}
		return n, nil

	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", raw)
		}
		return f, nil

	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", raw)
		}
		return b, nil

	case KindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", raw)
		}
		return d, nil

	case KindTime:
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RFC 3339 time %q", raw)
		}
		return ts, nil

	case KindStrings:
		return splitList(raw), nil

	default:
		return nil, fmt.Errorf("unsupported kind %v", kind)
	}
}

// splitList splits a raw list value. Both the config-file bracket syntax
// "[a, b, c]" and a bare comma-separated list are accepted; elements are
// trimmed and empty elements dropped.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		raw = raw[1 : len(raw)-1]
	}

	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		elems = append(elems, p)
	}
	return elems
}

// formatValue renders a typed value back to its raw string form, the inverse
// of convertValue. Used for provenance, effective-value output and config
// write-out.
func formatValue(kind Kind, v any) string {
	switch kind {
	case KindStrings:
		elems, _ := v.([]string)
		return "[" + strings.Join(elems, ", ") + "]"
	case KindTime:
		if ts, ok := v.(time.Time); ok {
			return ts.Format(time.RFC3339)
		}
	case KindDuration:
		if d, ok := v.(time.Duration); ok {
			return d.String()
		}
	}
	return fmt.Sprintf("%v", v)
}
