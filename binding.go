package overload

import "sync"

// Receiver is implemented by types that embed Bindings.
type Receiver interface {
	OverloadBindings() *Bindings
}

// Bindings caches, per receiver, the registries bound to that receiver.
// Embed it in a type whose methods are dispatched through a MethodGroup:
//
//	type Shape struct {
//		overload.Bindings
//		...
//	}
//
// A Bindings must not be copied after first use.
type Bindings struct {
	mu    sync.Mutex
	bound map[*Registry]*Registry
}

// OverloadBindings returns b. Embedding types satisfy Receiver through it.
func (b *Bindings) OverloadBindings() *Bindings {
	return b
}

// Resolve returns the registry bound to recv for origin, building it on first
// use. The bound registry is a snapshot of origin at that moment: later
// registrations on origin do not reach it.
func (b *Bindings) Resolve(origin *Registry, recv any) (*Registry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if reg, ok := b.bound[origin]; ok {
		return reg, nil
	}

	reg, err := origin.bind(recv)
	if err != nil {
		return nil, err
	}

	if b.bound == nil {
		b.bound = make(map[*Registry]*Registry)
	}
	b.bound[origin] = reg

	reg.t.logger.Debug().Int("candidates", reg.Len()).Msg("Bound group to receiver")
	return reg, nil
}

// Len returns the number of groups bound to the receiver.
func (b *Bindings) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.bound)
}
