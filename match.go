package overload

import (
	"math"
	"reflect"
)

var (
	// Always is the weight that wins over every finite weight.
	Always = math.Inf(1)

	// Never is the lowest possible weight.
	Never = math.Inf(-1)
)

// Call holds the arguments of one dispatch.
type Call struct {
	Args   []any
	Kwargs map[string]any
}

// Arg returns the value supplied for the parameter at position j named name.
// A keyword argument takes precedence over the positional one.
func (c Call) Arg(j int, name string) (any, bool) {
	if v, ok := c.Kwargs[name]; ok {
		return v, true
	}
	if j >= 0 && j < len(c.Args) {
		return c.Args[j], true
	}
	return nil, false
}

// ArgType returns the runtime type of the value supplied for the parameter at
// position j named name, or nil when no value (or a nil value) is supplied.
func (c Call) ArgType(j int, name string) reflect.Type {
	v, ok := c.Arg(j, name)
	if !ok {
		return nil
	}
	return reflect.TypeOf(v)
}

// MatchFunc weighs how well a candidate fits a call. The candidate with the
// greatest weight is invoked; NaN counts as Never.
type MatchFunc func(call Call, impl *Impl, sig Signature) float64

// Match is the default MatchFunc. It counts the parameters that are either
// unannotated or whose declared type is identical to the runtime type of the
// supplied value. Identity is exact: a named type does not match its
// underlying type and a concrete value does not match an interface.
func Match(call Call, _ *Impl, sig Signature) float64 {
	var weight float64
	for j := range sig.Len() {
		name := sig.Name(j)
		want, annotated := sig.Type(name)
		if !annotated || call.ArgType(j, name) == want {
			weight++
		}
	}
	return weight
}

// MatchTag returns a MatchFunc that forces the candidate whose default for
// param equals the call's keyword argument param. Other calls are weighed by
// fallback, or score zero when fallback is nil.
func MatchTag(param string, fallback MatchFunc) MatchFunc {
	return func(call Call, impl *Impl, sig Signature) float64 {
		if want, ok := call.Kwargs[param]; ok {
			if def, ok := sig.Default(param); ok && reflect.DeepEqual(def, want) {
				return Always
			}
		}
		if fallback == nil {
			return 0
		}
		return fallback(call, impl, sig)
	}
}
