package overload

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Candidate is a registered implementation with its extracted signature.
// Registries hand out copies; changing one does not affect dispatch.
type Candidate struct {
	Impl      *Impl
	Signature Signature

	// Index is the registration sequence number within the owning registry.
	Index int
}

func (c *Candidate) clone() *Candidate {
	cp := *c
	return &cp
}

// Registry holds an ordered set of candidates and dispatches calls to the
// best matching one. Use NewRegistry to create one.
type Registry struct {
	mu   sync.RWMutex
	t    table
	next int
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Match == nil {
		cfg.Match = Match
	}

	logger := cfg.Logger.With().Str("component", "overload").Logger()
	if cfg.Name != "" {
		logger = logger.With().Str("group", cfg.Name).Logger()
	}

	return &Registry{
		t: table{
			name:    cfg.Name,
			match:   cfg.Match,
			recover: cfg.RecoverMatchPanics,
			logger:  logger,
		},
	}
}

// Register extracts the implementation's signature and appends it as the
// last candidate. Registration order breaks ties between equal weights.
func (r *Registry) Register(impl *Impl) error {
	sig, err := Extract(impl)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.add(impl, sig)
	return nil
}

// registerIfEmpty registers impl only when the registry has no candidates,
// checking and appending under one lock. It reports whether impl was added.
// A non-empty registry ignores impl, valid or not.
func (r *Registry) registerIfEmpty(impl *Impl) (bool, error) {
	sig, err := Extract(impl)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.t.candidates) > 0 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.add(impl, sig)
	return true, nil
}

// add appends a candidate. r.mu must be held.
func (r *Registry) add(impl *Impl, sig Signature) {
	c := &Candidate{Impl: impl, Signature: sig, Index: r.next}
	r.next++
	// Clip forces append to copy, so snapshots taken by Dispatch stay intact.
	r.t.candidates = append(slices.Clip(r.t.candidates), c)

	r.t.logger.Debug().
		Stringer("impl", impl).
		Int("index", c.Index).
		Strs("params", sig.names).
		Msg("Registered candidate")
}

// Unregister removes the first candidate whose implementation is impl.
// It reports whether a candidate was removed; removing an implementation
// that is not registered does nothing.
func (r *Registry) Unregister(impl *Impl) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.t.candidates, func(c *Candidate) bool { return c.Impl == impl })
	if i < 0 {
		r.t.logger.Debug().Stringer("impl", impl).Msg("Unregister of unknown implementation ignored")
		return false
	}

	r.t.candidates = slices.Concat(r.t.candidates[:i], r.t.candidates[i+1:])
	r.t.logger.Debug().Stringer("impl", impl).Msg("Unregistered candidate")
	return true
}

// SetMatchFunc replaces the active match strategy. Nil restores Match.
func (r *Registry) SetMatchFunc(m MatchFunc) *Registry {
	if m == nil {
		m = Match
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.t.match = m
	return r
}

// Use appends call middleware. Middleware is applied outermost first.
func (r *Registry) Use(mw ...Middleware) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.t.middleware = append(slices.Clip(r.t.middleware), mw...)
	return r
}

// Dispatch invokes the candidate that best matches the arguments and returns
// its results. It returns ErrNoCandidates when the registry is empty.
func (r *Registry) Dispatch(args []any, kwargs map[string]any) ([]any, error) {
	t := r.snapshot()
	return t.dispatch(Call{Args: args, Kwargs: kwargs})
}

// Select returns the candidate Dispatch would invoke, without invoking it.
func (r *Registry) Select(args []any, kwargs map[string]any) (*Candidate, error) {
	t := r.snapshot()
	c, _, err := t.choose(Call{Args: args, Kwargs: kwargs})
	if err != nil {
		return nil, err
	}
	return c.clone(), nil
}

// Weights returns the weight of every candidate for a call, in registration order.
func (r *Registry) Weights(args []any, kwargs map[string]any) []float64 {
	t := r.snapshot()
	return t.weights(Call{Args: args, Kwargs: kwargs})
}

// Candidates returns the registered candidates in registration order.
func (r *Registry) Candidates() []*Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cands := make([]*Candidate, len(r.t.candidates))
	for i, c := range r.t.candidates {
		cands[i] = c.clone()
	}
	return cands
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.t.candidates)
}

// Seal returns an immutable copy of the registry that dispatches without locking.
func (r *Registry) Seal() *SealedRegistry {
	return &SealedRegistry{t: r.snapshot()}
}

func (r *Registry) snapshot() table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.t
}

// bind builds a registry whose candidates are this registry's
// implementations bound to recv, in the same order and with the same strategy.
func (r *Registry) bind(recv any) (*Registry, error) {
	t := r.snapshot()

	bound := &Registry{
		t: table{
			name:       t.name,
			match:      t.match,
			recover:    t.recover,
			middleware: t.middleware,
			logger:     t.logger.With().Str("receiver", fmt.Sprintf("%T", recv)).Logger(),
		},
	}
	for _, c := range t.candidates {
		impl, err := c.Impl.Bind(recv)
		if err != nil {
			return nil, err
		}
		if err := bound.Register(impl); err != nil {
			return nil, err
		}
	}
	return bound, nil
}

// SealedRegistry is an immutable registry, safe for concurrent use.
type SealedRegistry struct {
	t table
}

// Dispatch invokes the candidate that best matches the arguments.
func (s *SealedRegistry) Dispatch(args []any, kwargs map[string]any) ([]any, error) {
	return s.t.dispatch(Call{Args: args, Kwargs: kwargs})
}

// Select returns the candidate Dispatch would invoke.
func (s *SealedRegistry) Select(args []any, kwargs map[string]any) (*Candidate, error) {
	c, _, err := s.t.choose(Call{Args: args, Kwargs: kwargs})
	if err != nil {
		return nil, err
	}
	return c.clone(), nil
}

// Len returns the number of candidates.
func (s *SealedRegistry) Len() int {
	return len(s.t.candidates)
}

// table is the dispatch state shared by Registry snapshots and SealedRegistry.
// Its slices are never modified in place.
type table struct {
	name       string
	match      MatchFunc
	recover    bool
	middleware []Middleware
	candidates []*Candidate
	logger     zerolog.Logger
}

func (t *table) label() string {
	if t.name == "" {
		return "anonymous group"
	}
	return fmt.Sprintf("group %q", t.name)
}
