// Package overload implements runtime multiple dispatch for Go.
// Several implementations registered under one group are scored against the
// concrete arguments of each call, and the best matching one is invoked.
package overload
