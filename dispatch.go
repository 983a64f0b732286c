package overload

import (
	"fmt"
	"math"
)

// Invoker runs the selected candidate with a call's arguments.
type Invoker func(call Call) ([]any, error)

// Middleware wraps the invocation of the selected candidate.
// Use for cross-cutting concerns like logging, timing and tracing.
type Middleware func(c *Candidate, call Call, next Invoker) ([]any, error)

// MiddlewareFunc creates middleware from a function that optionally
// short-circuits the call chain. When cont is false the call returns
// no results and err.
func MiddlewareFunc(f func(c *Candidate, call Call) (cont bool, err error)) Middleware {
	return func(c *Candidate, call Call, next Invoker) ([]any, error) {
		cont, err := f(c, call)
		if err != nil || !cont {
			return nil, err
		}
		return next(call)
	}
}

// First returns the first result of a call as a T.
//
// Example:
//
//	area, err := overload.First[float64](group.Call(Circle{R: 2}))
func First[T any](results []any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, fmt.Errorf("overload: %w: expected %T, got no results", ErrResultType, zero)
	}
	v, ok := results[0].(T)
	if !ok {
		return zero, fmt.Errorf("overload: %w: expected %T, got %T", ErrResultType, zero, results[0])
	}
	return v, nil
}

func (t *table) dispatch(call Call) ([]any, error) {
	c, weight, err := t.choose(call)
	if err != nil {
		return nil, err
	}

	t.logger.Debug().
		Stringer("impl", c.Impl).
		Int("index", c.Index).
		Float64("weight", weight).
		Msg("Dispatching")

	impl, sig := c.Impl, c.Signature
	invoke := func(call Call) ([]any, error) {
		return impl.call(sig, call)
	}
	if len(t.middleware) > 0 {
		// Middleware sees a copy so it cannot retarget the call.
		view := c.clone()
		for i := len(t.middleware) - 1; i >= 0; i-- {
			mw := t.middleware[i]
			next := invoke
			invoke = func(call Call) ([]any, error) {
				return mw(view, call, next)
			}
		}
	}

	return invoke(call)
}

// choose weighs every candidate in registration order and returns the first
// one with the greatest weight.
func (t *table) choose(call Call) (*Candidate, float64, error) {
	if len(t.candidates) == 0 {
		return nil, 0, fmt.Errorf("overload: %w in %s", ErrNoCandidates, t.label())
	}

	best, bestWeight := 0, Never
	for i, c := range t.candidates {
		w := t.weigh(call, c)
		if i == 0 || w > bestWeight {
			best, bestWeight = i, w
		}
	}
	return t.candidates[best], bestWeight, nil
}

func (t *table) weights(call Call) []float64 {
	ws := make([]float64, len(t.candidates))
	for i, c := range t.candidates {
		ws[i] = t.weigh(call, c)
	}
	return ws
}

func (t *table) weigh(call Call, c *Candidate) (w float64) {
	if t.recover {
		defer func() {
			if p := recover(); p != nil {
				t.logger.Warn().
					Interface("panic", p).
					Stringer("impl", c.Impl).
					Msg("Match function panicked, candidate scored Never")
				w = Never
			}
		}()
	}

	w = t.match(call, c.Impl, c.Signature)
	if math.IsNaN(w) {
		w = Never
	}

	t.logger.Trace().
		Stringer("impl", c.Impl).
		Int("index", c.Index).
		Float64("weight", w).
		Msg("Weighed candidate")
	return w
}
