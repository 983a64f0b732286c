package overload

import "fmt"

// Group is a dispatched function: one name, several implementations.
//
//	area := overload.New(overload.Func(circleArea, overload.Arg("c"))).
//		Overload(overload.Func(rectArea, overload.Arg("r")))
//
//	a, err := overload.First[float64](area.Call(Circle{R: 1}))
type Group struct {
	reg *Registry
}

// New creates a group with impl as its first member. A nil impl creates an
// empty group that only carries its options; its first Call with a single
// *Impl registers it.
//
// New panics if impl's signature is invalid.
func New(impl *Impl, opts ...Option) *Group {
	g := &Group{reg: NewRegistry(opts...)}
	if impl != nil {
		g.Overload(impl)
	}
	return g
}

// Overload adds impl to the group and returns the group.
// It panics if impl's signature is invalid.
func (g *Group) Overload(impl *Impl) *Group {
	if err := g.reg.Register(impl); err != nil {
		panic(err)
	}
	return g
}

// Remove removes impl from the group and reports whether it was a member.
func (g *Group) Remove(impl *Impl) bool {
	return g.reg.Unregister(impl)
}

// Call dispatches positional arguments to the best matching member.
func (g *Group) Call(args ...any) ([]any, error) {
	return g.CallKw(nil, args...)
}

// CallKw dispatches positional and keyword arguments to the best matching member.
func (g *Group) CallKw(kwargs map[string]any, args ...any) ([]any, error) {
	if len(args) == 1 && len(kwargs) == 0 {
		if impl, ok := args[0].(*Impl); ok {
			added, err := g.reg.registerIfEmpty(impl)
			if err != nil {
				panic(err)
			}
			if added {
				return []any{g}, nil
			}
		}
	}
	return g.reg.Dispatch(args, kwargs)
}

// Registry returns the group's registry.
func (g *Group) Registry() *Registry {
	return g.reg
}

// MethodGroup is a dispatched method of receiver type R. Members are Method
// implementations; each receiver dispatches through its own bound registry,
// cached in the receiver's Bindings.
type MethodGroup[R Receiver] struct {
	reg *Registry
}

// NewMethod creates a method group with impl as its first member. A nil impl
// creates an empty group.
//
// NewMethod panics if impl is not a Method implementation or its signature
// is invalid.
func NewMethod[R Receiver](impl *Impl, opts ...Option) *MethodGroup[R] {
	m := &MethodGroup[R]{reg: NewRegistry(opts...)}
	if impl != nil {
		m.Overload(impl)
	}
	return m
}

// Overload adds impl to the group. Receivers already bound keep the members
// they were bound with.
// It panics if impl is not a Method implementation or its signature is invalid.
func (m *MethodGroup[R]) Overload(impl *Impl) *MethodGroup[R] {
	if impl == nil || !impl.method {
		panic(fmt.Errorf("overload: %w: %s is not a method", ErrNotBindable, impl))
	}
	if err := m.reg.Register(impl); err != nil {
		panic(err)
	}
	return m
}

// Remove removes impl from the group and reports whether it was a member.
func (m *MethodGroup[R]) Remove(impl *Impl) bool {
	return m.reg.Unregister(impl)
}

// Bound returns the registry bound to recv, binding it on first use.
func (m *MethodGroup[R]) Bound(recv R) (*Registry, error) {
	return recv.OverloadBindings().Resolve(m.reg, recv)
}

// Call dispatches positional arguments on recv.
func (m *MethodGroup[R]) Call(recv R, args ...any) ([]any, error) {
	return m.CallKw(recv, nil, args...)
}

// CallKw dispatches positional and keyword arguments on recv.
func (m *MethodGroup[R]) CallKw(recv R, kwargs map[string]any, args ...any) ([]any, error) {
	reg, err := m.Bound(recv)
	if err != nil {
		return nil, err
	}
	return reg.Dispatch(args, kwargs)
}

// Registry returns the group's unbound registry.
func (m *MethodGroup[R]) Registry() *Registry {
	return m.reg
}
