// Package sourcecli tokenizes command-line arguments for the resolver using
// GNU-style flag conventions (--flag value, --flag=value, -f shorthand, --
// terminator, interspersed positionals).
//
// All flags are registered as raw string flags so that type conversion stays
// in the resolver and a bad value is reported identically regardless of which
// source supplied it. Boolean flags accept a bare --name form. A flag becomes
// a candidate only when it was actually set on the command line.
package sourcecli
