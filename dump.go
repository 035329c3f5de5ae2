package halyard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Azhovan/halyard/sourcefile"
)

const redactedValue = "***redacted***"

// DumpOption configures effective-value output.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	asJSON      bool
	indent      string
	showSecrets bool
}

// AsJSON outputs the effective configuration as JSON instead of text.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output. Default is two spaces.
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// ShowSecrets disables redaction of secret parameters.
func ShowSecrets() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.showSecrets = true
	}
}

// FormatValues renders every resolved parameter grouped by the source that
// supplied it, for startup diagnostics. Secret parameters are redacted unless
// ShowSecrets is given.
func (s *ResolvedSet) FormatValues(opts ...DumpOption) string {
	var b strings.Builder
	s.Fprint(&b, opts...)
	return b.String()
}

// Fprint writes FormatValues output to w.
func (s *ResolvedSet) Fprint(w io.Writer, opts ...DumpOption) error {
	cfg := dumpConfig{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.asJSON {
		return s.fprintJSON(w, cfg)
	}
	return s.fprintText(w, cfg)
}

func (s *ResolvedSet) fprintText(w io.Writer, cfg dumpConfig) error {
	type section struct {
		header string
		lines  []string
	}

	sections := make(map[string]*section)
	var order []string
	for _, name := range s.order {
		rp := s.params[name]
		header := sectionHeader(rp)
		sec, ok := sections[header]
		if !ok {
			sec = &section{header: header}
			sections[header] = sec
			order = append(order, header)
		}
		sec.lines = append(sec.lines, fmt.Sprintf("  %-19s%s", name+":", s.displayValue(rp, cfg)))
	}

	for _, header := range order {
		sec := sections[header]
		if _, err := fmt.Fprintln(w, sec.header); err != nil {
			return err
		}
		for _, line := range sec.lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ResolvedSet) fprintJSON(w io.Writer, cfg dumpConfig) error {
	type jsonParam struct {
		Value  any    `json:"value"`
		Source string `json:"source"`
		Detail string `json:"detail,omitempty"`
	}

	out := make(map[string]jsonParam, len(s.params))
	for name, rp := range s.params {
		value := rp.value
		if rp.spec.Secret && !cfg.showSecrets {
			value = redactedValue
		}
		out[name] = jsonParam{Value: value, Source: string(rp.origin), Detail: rp.detail}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", cfg.indent)
	return enc.Encode(out)
}

func (s *ResolvedSet) displayValue(rp resolvedParam, cfg dumpConfig) string {
	if rp.spec.Secret && !cfg.showSecrets {
		return redactedValue
	}
	return formatValue(rp.spec.Kind, rp.value)
}

func sectionHeader(rp resolvedParam) string {
	switch rp.origin {
	case OriginCommandLine:
		return "Command Line Args:"
	case OriginEnvironment:
		return "Environment Variables:"
	case OriginConfigFile:
		return fmt.Sprintf("Config File (%s):", rp.detail)
	default:
		return "Defaults:"
	}
}

// WriteConfig serializes the effective configuration as simple-format
// "key = value" lines such that resolving against the written file
// reproduces the same values. Secret values are written verbatim; the output
// is a working config file, not a report.
func (s *ResolvedSet) WriteConfig(w io.Writer) error {
	var entries []sourcefile.Entry
	for _, name := range s.order {
		rp := s.params[name]
		if rp.spec.internal || rp.spec.Positional {
			continue
		}
		value := formatValue(rp.spec.Kind, rp.value)
		if value == "" {
			// The simple format has no way to spell an empty value.
			continue
		}
		entries = append(entries, sourcefile.Entry{Key: name, Value: value})
	}
	return sourcefile.Serialize(w, entries)
}
