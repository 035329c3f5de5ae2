package sourcecli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ErrHelp is returned by Parse when --help or -h was given.
var ErrHelp = pflag.ErrHelp

// Flag describes one command-line flag to register.
type Flag struct {
	Name    string   // Primary long name
	Short   string   // Single-character shorthand, optional
	Usage   string   // Help text
	Aliases []string // Extra long names feeding the same parameter
	Bool    bool     // Bare --name means "true"; no value is consumed
	Multi   bool     // Repeatable; all occurrences are reported in order
	Hidden  bool     // Excluded from usage text
}

// Setting is one flag that was actually set on the command line. Alias
// occurrences report under the primary name.
type Setting struct {
	Name   string
	Values []string
}

// Result holds the outcome of tokenizing one argument list.
type Result struct {
	Settings []Setting // Flags set on the command line, in declaration order
	Rest     []string  // Positional arguments
	Unknown  []string  // Tokens naming flags that were not registered
}

// Parse tokenizes args against the declared flags. Unknown flags are
// collected in Result.Unknown rather than failing, so the resolver can decide
// whether they are errors; malformed input (e.g. a flag missing its value at
// the end of the line) fails immediately. Returns ErrHelp for --help / -h.
func Parse(app string, flags []Flag, args []string) (*Result, error) {
	fs := newFlagSet(app, flags)

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	res := &Result{
		Rest:    fs.Args(),
		Unknown: scanUnknown(flags, args),
	}

	for _, fl := range flags {
		values := changedValues(fs, fl.Name, fl.Multi)
		for _, alias := range fl.Aliases {
			values = append(values, changedValues(fs, alias, fl.Multi)...)
		}
		if len(values) == 0 {
			continue
		}
		if !fl.Multi {
			// Last occurrence wins within the command line.
			values = values[len(values)-1:]
		}
		res.Settings = append(res.Settings, Setting{Name: fl.Name, Values: values})
	}

	return res, nil
}

// Usages returns the aligned flag help text in declaration order.
func Usages(app string, flags []Flag) string {
	return newFlagSet(app, flags).FlagUsages()
}

// newFlagSet registers the declared flags on a fresh pflag set. Every flag is
// a raw string (or string array) flag; bool-like flags get NoOptDefVal so a
// bare --name parses without consuming a value.
func newFlagSet(app string, flags []Flag) *pflag.FlagSet {
	fs := pflag.NewFlagSet(app, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: true}

	for _, fl := range flags {
		register(fs, fl.Name, fl.Short, fl.Usage, fl, fl.Hidden)
		for _, alias := range fl.Aliases {
			register(fs, alias, "", fl.Usage, fl, true)
		}
	}

	return fs
}

func register(fs *pflag.FlagSet, name, short, usage string, fl Flag, hidden bool) {
	if fl.Multi {
		fs.StringArrayP(name, short, nil, usage)
	} else {
		fs.StringP(name, short, "", usage)
	}

	f := fs.Lookup(name)
	if fl.Bool {
		f.NoOptDefVal = "true"
	}
	if hidden {
		f.Hidden = true
	}
}

func changedValues(fs *pflag.FlagSet, name string, multi bool) []string {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}

	if multi {
		values, err := fs.GetStringArray(name)
		if err != nil {
			return nil
		}
		return values
	}

	return []string{f.Value.String()}
}

// scanUnknown walks the raw argument list and reports flag tokens that name
// no registered flag. It mirrors the value-consumption rules of the parser:
// non-bool flags swallow the following token, bool flags do not, and unknown
// long flags swallow a following non-flag token the same way the whitelist
// parser strips them.
func scanUnknown(flags []Flag, args []string) []string {
	long := make(map[string]Flag)
	short := make(map[string]Flag)
	for _, fl := range flags {
		long[fl.Name] = fl
		for _, alias := range fl.Aliases {
			long[alias] = fl
		}
		if fl.Short != "" {
			short[fl.Short] = fl
		}
	}

	var unknown []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return unknown

		case strings.HasPrefix(a, "--"):
			name := a[2:]
			hasValue := false
			if eq := strings.Index(name, "="); eq >= 0 {
				name = name[:eq]
				hasValue = true
			}
			if name == "help" {
				continue
			}
			fl, ok := long[name]
			if !ok {
				unknown = append(unknown, "--"+name)
				if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					i++ // the whitelist parser strips the unknown flag's value too
				}
				continue
			}
			if !hasValue && !fl.Bool {
				i++ // consume the value token
			}

		case strings.HasPrefix(a, "-") && len(a) > 1:
			group := a[1:]
			for j := 0; j < len(group); j++ {
				c := string(group[j])
				if c == "=" {
					break
				}
				if c == "h" {
					continue
				}
				fl, ok := short[c]
				if !ok {
					unknown = append(unknown, "-"+c)
					continue
				}
				if fl.Bool {
					continue
				}
				// Value flag: the rest of the group or the next token is
				// its value.
				if j == len(group)-1 && i+1 < len(args) {
					i++
				}
				j = len(group)
			}
		}
	}

	return unknown
}
