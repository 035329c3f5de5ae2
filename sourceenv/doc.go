// Package sourceenv looks up environment variables for the resolver.
//
// A parameter is environment-settable when it declares an explicit variable
// name or the resolver has an env prefix configured, in which case the name
// is derived as PREFIX plus the upper-snake form of the parameter name
// (e.g. prefix "APP_" makes --my-arg settable via APP_MY_ARG).
package sourceenv
