package overload

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Signature describes a candidate's parameters.
// It is built once at registration and never modified afterwards; accessors
// that return slices or maps return copies.
type Signature struct {
	// names in declaration order. A bound receiver is not included.
	names []string

	// types by parameter name. Parameters of type any are unannotated and
	// have no entry.
	types map[string]reflect.Type

	// defaults of the trailing parameters that have one.
	defaults []any

	expectsReceiver bool
	variadic        bool
}

// Len returns the number of named parameters.
func (s Signature) Len() int {
	return len(s.names)
}

// Name returns the name of the parameter at position j.
func (s Signature) Name(j int) string {
	return s.names[j]
}

// Names returns the parameter names in declaration order.
func (s Signature) Names() []string {
	return slices.Clone(s.names)
}

// Type returns the declared type of the named parameter. It reports false for
// unannotated parameters.
func (s Signature) Type(name string) (reflect.Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Types returns the declared types of the annotated parameters.
func (s Signature) Types() map[string]reflect.Type {
	return maps.Clone(s.types)
}

// Defaults returns the default values of the trailing parameters that have one.
func (s Signature) Defaults() []any {
	return slices.Clone(s.defaults)
}

// ExpectsReceiver reports whether the implementation was bound when the
// signature was extracted, so its receiver is supplied on invocation.
func (s Signature) ExpectsReceiver() bool {
	return s.expectsReceiver
}

// Variadic reports whether a trailing ...T parameter absorbs extra positional
// arguments. It is not one of the named parameters.
func (s Signature) Variadic() bool {
	return s.variadic
}

// Default returns the default value of the named parameter.
func (s Signature) Default(name string) (any, bool) {
	j := slices.Index(s.names, name)
	if j < 0 {
		return nil, false
	}
	return s.defaultAt(j)
}

func (s Signature) defaultAt(j int) (any, bool) {
	first := len(s.names) - len(s.defaults)
	if j < first || j >= len(s.names) {
		return nil, false
	}
	return s.defaults[j-first], true
}

// Extract builds the Signature of an implementation.
func Extract(impl *Impl) (Signature, error) {
	if impl == nil || !impl.fn.IsValid() || impl.fn.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("overload: %w: implementation is not a function", ErrInvalidSignature)
	}

	typ := impl.fn.Type()
	sig := Signature{
		types:    make(map[string]reflect.Type),
		variadic: typ.IsVariadic(),
	}

	n := typ.NumIn()
	if sig.variadic {
		n--
	}

	lead := 0
	if impl.method {
		if n == 0 {
			return Signature{}, fmt.Errorf("overload: %w: %s has no receiver parameter", ErrInvalidSignature, impl)
		}
		lead = 1
	}
	if len(impl.params) > n-lead {
		return Signature{}, fmt.Errorf("overload: %w: %s declares %d parameters, has %d",
			ErrInvalidSignature, impl, len(impl.params), n-lead)
	}

	names := make([]string, 0, n)
	if impl.method {
		names = append(names, ReceiverName)
	}

	var defaults []any
	for k := lead; k < n; k++ {
		idx := k - lead
		var p Param
		if idx < len(impl.params) {
			p = impl.params[idx]
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("arg%d", idx)
		}
		if slices.Contains(names, p.Name) {
			return Signature{}, fmt.Errorf("overload: %w: %s repeats parameter %q", ErrInvalidSignature, impl, p.Name)
		}
		names = append(names, p.Name)

		switch {
		case p.HasDefault:
			if _, err := argValue(p.Default, typ.In(k)); err != nil {
				return Signature{}, fmt.Errorf("overload: %w: %s default for %q: %v", ErrInvalidSignature, impl, p.Name, err)
			}
			defaults = append(defaults, p.Default)
		case len(defaults) > 0:
			return Signature{}, fmt.Errorf("overload: %w: %s parameter %q without default follows a default",
				ErrInvalidSignature, impl, p.Name)
		}
	}

	for k, name := range names {
		if t := typ.In(k); !isWildcard(t) {
			sig.types[name] = t
		}
	}

	sig.expectsReceiver = impl.bound && len(names) > 0 && names[0] == ReceiverName
	if sig.expectsReceiver {
		names = names[1:]
		delete(sig.types, ReceiverName)
	}

	sig.names = names
	sig.defaults = defaults
	return sig, nil
}

// isWildcard reports whether t is the empty interface, which declares no type.
func isWildcard(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}
