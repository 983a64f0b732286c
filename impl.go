package overload

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
)

// ReceiverName is the parameter name given to the receiver of a Method implementation.
const ReceiverName = "self"

// Param declares the name and optional default value of one implementation parameter.
// Parameters are declared in order; undeclared parameters are named arg0, arg1, ...
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Arg declares a parameter without a default value.
func Arg(name string) Param {
	return Param{Name: name}
}

// Opt declares a parameter with a default value used when a call does not supply it.
func Opt(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Impl is an implementation that can be registered as a dispatch candidate.
// Its identity is the pointer: two Impl values wrapping the same function are
// distinct candidates.
type Impl struct {
	fn     reflect.Value
	method bool
	params []Param

	bound bool
	recv  reflect.Value
}

// Func wraps a plain function. Go does not keep parameter names at runtime, so
// names and defaults are declared by params, aligned to the function's inputs.
func Func(fn any, params ...Param) *Impl {
	return &Impl{fn: reflect.ValueOf(fn), params: slices.Clone(params)}
}

// Method wraps a function whose first input is a receiver, typically a method
// expression such as (*T).Resize. The receiver parameter is named ReceiverName;
// params declare the inputs that follow it.
func Method(fn any, params ...Param) *Impl {
	return &Impl{fn: reflect.ValueOf(fn), method: true, params: slices.Clone(params)}
}

// Bind returns a new implementation with recv supplied as the receiver.
func (i *Impl) Bind(recv any) (*Impl, error) {
	if !i.method {
		return nil, fmt.Errorf("overload: %w: %s is not a method", ErrNotBindable, i)
	}
	if i.bound {
		return nil, fmt.Errorf("overload: %w: %s is already bound", ErrNotBindable, i)
	}
	if !i.fn.IsValid() || i.fn.Kind() != reflect.Func || i.fn.Type().NumIn() == 0 {
		return nil, fmt.Errorf("overload: %w: %s has no receiver parameter", ErrNotBindable, i)
	}

	rv := reflect.ValueOf(recv)
	want := i.fn.Type().In(0)
	if !rv.IsValid() || !rv.Type().AssignableTo(want) {
		return nil, fmt.Errorf("overload: %w: %s expects receiver %v, got %T", ErrNotBindable, i, want, recv)
	}

	return &Impl{
		fn:     i.fn,
		method: true,
		params: i.params,
		bound:  true,
		recv:   rv,
	}, nil
}

// Bound reports whether the implementation carries a receiver.
func (i *Impl) Bound() bool {
	return i.bound
}

// Receiver returns the bound receiver, or nil when unbound.
func (i *Impl) Receiver() any {
	if !i.bound {
		return nil
	}
	return i.recv.Interface()
}

func (i *Impl) String() string {
	if i == nil || !i.fn.IsValid() || i.fn.Kind() != reflect.Func {
		return "<invalid>"
	}
	if f := runtime.FuncForPC(i.fn.Pointer()); f != nil {
		return f.Name()
	}
	return i.fn.Type().String()
}

// call binds the call's arguments to the implementation's inputs and invokes it.
// A trailing error result is returned as the error, unwrapped.
func (i *Impl) call(sig Signature, c Call) ([]any, error) {
	typ := i.fn.Type()
	start := 0
	in := make([]reflect.Value, 0, typ.NumIn()+max(0, len(c.Args)-len(sig.names)))
	if sig.expectsReceiver {
		start = 1
		in = append(in, i.recv)
	}

	for name := range c.Kwargs {
		if !slices.Contains(sig.names, name) {
			return nil, fmt.Errorf("overload: %w: %s has no parameter %q", ErrUnknownKeyword, i, name)
		}
	}

	for j, name := range sig.names {
		kv, byKeyword := c.Kwargs[name]
		var v any
		switch {
		case byKeyword && j < len(c.Args):
			return nil, fmt.Errorf("overload: %w: %s parameter %q", ErrDuplicateArgument, i, name)
		case byKeyword:
			v = kv
		case j < len(c.Args):
			v = c.Args[j]
		default:
			def, ok := sig.defaultAt(j)
			if !ok {
				return nil, fmt.Errorf("overload: %w: %s parameter %q", ErrMissingArgument, i, name)
			}
			v = def
		}

		rv, err := argValue(v, typ.In(start+j))
		if err != nil {
			return nil, fmt.Errorf("overload: %w: %s parameter %q: %v", ErrArgumentType, i, name, err)
		}
		in = append(in, rv)
	}

	if extra := len(c.Args) - len(sig.names); extra > 0 {
		if !sig.variadic {
			return nil, fmt.Errorf("overload: %w: %s takes %d, got %d", ErrTooManyArguments, i, len(sig.names), len(c.Args))
		}
		elem := typ.In(typ.NumIn() - 1).Elem()
		for k, v := range c.Args[len(sig.names):] {
			rv, err := argValue(v, elem)
			if err != nil {
				return nil, fmt.Errorf("overload: %w: %s variadic argument %d: %v", ErrArgumentType, i, k, err)
			}
			in = append(in, rv)
		}
	}

	out := i.fn.Call(in)
	return results(typ, out)
}

var errorType = reflect.TypeFor[error]()

func results(typ reflect.Type, out []reflect.Value) ([]any, error) {
	n := len(out)
	var err error
	if n > 0 && typ.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		n--
	}

	res := make([]any, n)
	for k := range n {
		res[k] = out[k].Interface()
	}
	return res, err
}

func argValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %v", t)
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("want %v, got %T", t, v)
	}
	return rv, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
