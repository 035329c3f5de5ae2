package halyard

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ResolvedSet is the final merged, typed configuration for the process:
// exactly one effective value per declared parameter, each annotated with the
// source that supplied it. Constructed once per invocation by Resolve and
// read-only thereafter.
type ResolvedSet struct {
	order  []string
	params map[string]resolvedParam
}

type resolvedParam struct {
	spec   *Spec
	value  any
	origin Origin
	detail string
	raw    string
}

// Provenance describes where a parameter's effective value came from.
type Provenance struct {
	Origin Origin
	Detail string // Environment variable name or config file path, when applicable
	Raw    string // Raw value before conversion
}

func newResolvedSet() *ResolvedSet {
	return &ResolvedSet{params: make(map[string]resolvedParam)}
}

func (s *ResolvedSet) add(sp *Spec, rp resolvedParam) {
	s.order = append(s.order, sp.Name)
	s.params[sp.Name] = rp
}

// Names returns parameter names in declaration order.
func (s *ResolvedSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Each calls fn for every resolved parameter in declaration order.
func (s *ResolvedSet) Each(fn func(name string, value any, prov Provenance)) {
	for _, name := range s.order {
		rp := s.params[name]
		fn(name, rp.value, Provenance{Origin: rp.origin, Detail: rp.detail, Raw: rp.raw})
	}
}

// Value returns the effective value for name and whether it exists.
func (s *ResolvedSet) Value(name string) (any, bool) {
	rp, ok := s.params[name]
	if !ok {
		return nil, false
	}
	return rp.value, true
}

// Provenance returns source information for name.
func (s *ResolvedSet) Provenance(name string) (Provenance, bool) {
	rp, ok := s.params[name]
	if !ok {
		return Provenance{}, false
	}
	return Provenance{Origin: rp.origin, Detail: rp.detail, Raw: rp.raw}, true
}

// String returns the string value for name.
func (s *ResolvedSet) String(name string) (string, bool) {
	v, ok := s.params[name]
	if !ok {
		return "", false
	}
	sv, ok := v.value.(string)
	return sv, ok
}

// Int returns the integer value for name.
func (s *ResolvedSet) Int(name string) (int, bool) {
	v, ok := s.params[name]
	if !ok {
		return 0, false
	}
	n, ok := v.value.(int)
	return n, ok
}

// Float returns the float value for name.
func (s *ResolvedSet) Float(name string) (float64, bool) {
	v, ok := s.params[name]
	if !ok {
		return 0, false
	}
	f, ok := v.value.(float64)
	return f, ok
}

// Bool returns the boolean value for name.
func (s *ResolvedSet) Bool(name string) (bool, bool) {
	v, ok := s.params[name]
	if !ok {
		return false, false
	}
	b, ok := v.value.(bool)
	return b, ok
}

// Duration returns the duration value for name.
func (s *ResolvedSet) Duration(name string) (time.Duration, bool) {
	v, ok := s.params[name]
	if !ok {
		return 0, false
	}
	d, ok := v.value.(time.Duration)
	return d, ok
}

// Time returns the timestamp value for name.
func (s *ResolvedSet) Time(name string) (time.Time, bool) {
	v, ok := s.params[name]
	if !ok {
		return time.Time{}, false
	}
	ts, ok := v.value.(time.Time)
	return ts, ok
}

// Strings returns the string-list value for name.
func (s *ResolvedSet) Strings(name string) ([]string, bool) {
	v, ok := s.params[name]
	if !ok {
		return nil, false
	}
	elems, ok := v.value.([]string)
	return elems, ok
}

// Decode binds the resolved values into a struct. Fields match parameter
// names via `config` tags (falling back to case-insensitive field-name
// matching); typing is weak, so an int parameter decodes into a string field
// and vice versa, and durations decode from their string form.
//
//	type ServerConfig struct {
//	    Port int      `config:"port"`
//	    Tags []string `config:"tag"`
//	}
func (s *ResolvedSet) Decode(target any) error {
	data := make(map[string]any, len(s.params))
	for name, rp := range s.params {
		if rp.spec.internal {
			continue
		}
		data[name] = rp.value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode resolved configuration: %w", err)
	}
	return nil
}
