package halyard

import (
	"fmt"
	"strings"

	"github.com/Azhovan/halyard/sourcecli"
	"github.com/Azhovan/halyard/sourceenv"
)

// Usage builds the help text for the program: the flag table with env var
// annotations, positional arguments, and notes describing the config file
// mechanism and source precedence. Callers should print it and exit zero
// when Resolve returns ErrHelp.
func (r *Resolver) Usage() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Usage of %s:\n", r.name)
	if r.description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.description)
	}

	if positionals := r.positionalUsage(); positionals != "" {
		b.WriteString("\nPositional arguments:\n")
		b.WriteString(positionals)
	}

	b.WriteString("\nFlags:\n")
	b.WriteString(sourcecli.Usages(r.name, r.annotatedCLIFlags()))

	if note := r.configFileNote(); note != "" {
		b.WriteString("\n" + note + "\n")
	}

	return b.String()
}

// annotatedCLIFlags appends "[env var: X]" to the usage of each
// environment-settable flag, so the help table shows every way a value can be
// supplied.
func (r *Resolver) annotatedCLIFlags() []sourcecli.Flag {
	flags := r.cliFlags()
	for i := range flags {
		sp := r.byName[flags[i].Name]
		if v := r.envVarFor(sp); v != "" {
			flags[i].Usage += fmt.Sprintf(" [env var: %s]", v)
		}
	}
	return flags
}

func (r *Resolver) envVarFor(sp *Spec) string {
	if !sp.envSettable() {
		return ""
	}
	if sp.EnvVar != "" {
		return sp.EnvVar
	}
	if r.envAuto {
		return sourceenv.VarFor(r.envPrefix, sp.Name)
	}
	return ""
}

func (r *Resolver) positionalUsage() string {
	var b strings.Builder
	for _, sp := range r.specs {
		if !sp.Positional {
			continue
		}
		name := sp.Name
		if sp.Kind == KindStrings {
			name += "..."
		}
		fmt.Fprintf(&b, "  %-19s%s\n", name, sp.Usage)
	}
	return b.String()
}

// configFileNote explains where values can come from besides the command
// line, mirroring the flag table's env var annotations.
func (r *Resolver) configFileNote() string {
	var parts []string

	hasFiles := len(r.defaultFiles) > 0 || r.configFlag != "" || r.configEnv != ""
	if hasFiles {
		note := "Long flags can also be set in a config file"
		var locations []string
		locations = append(locations, r.defaultFiles...)
		if r.configFlag != "" {
			locations = append(locations, "specified via --"+r.configFlag)
		}
		if r.configEnv != "" {
			locations = append(locations, "specified via $"+r.configEnv)
		}
		if len(locations) > 0 {
			note += " (" + strings.Join(locations, " or ") + ")"
		}
		note += ". Config file syntax is key=value; # and ; start comments."
		parts = append(parts, note)
	}

	sources := []string{"defaults"}
	if hasFiles {
		sources = append([]string{"config file values"}, sources...)
	}
	if r.envAuto || r.anyExplicitEnv() {
		sources = append([]string{"environment variables"}, sources...)
	}
	if len(sources) > 1 {
		parts = append(parts, fmt.Sprintf(
			"If a value is given in more than one place, command-line values override %s.",
			strings.Join(sources, " which override ")))
	}

	return strings.Join(parts, " ")
}

func (r *Resolver) anyExplicitEnv() bool {
	for _, sp := range r.specs {
		if sp.envSettable() && sp.EnvVar != "" {
			return true
		}
	}
	return false
}
