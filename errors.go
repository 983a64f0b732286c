package overload

import "errors"

var (
	// ErrNoCandidates is returned when a registry with no candidates is dispatched.
	ErrNoCandidates = errors.New("no candidates registered")

	// ErrInvalidSignature is returned when an implementation's signature cannot be built.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrNotBindable is returned when an implementation cannot be bound to a receiver.
	ErrNotBindable = errors.New("implementation not bindable")

	// ErrTooManyArguments is returned when a call supplies more positional
	// arguments than the selected implementation accepts.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrUnknownKeyword is returned when a keyword argument names no parameter
	// of the selected implementation.
	ErrUnknownKeyword = errors.New("unknown keyword argument")

	// ErrMissingArgument is returned when a parameter without a default is not
	// supplied by the call.
	ErrMissingArgument = errors.New("missing argument")

	// ErrDuplicateArgument is returned when a parameter is supplied both
	// positionally and by keyword.
	ErrDuplicateArgument = errors.New("multiple values for argument")

	// ErrArgumentType is returned when a value cannot be passed as the Go type
	// of the selected implementation's parameter.
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrResultType is returned by First when a call's first result is absent
	// or of another type.
	ErrResultType = errors.New("result type mismatch")
)
