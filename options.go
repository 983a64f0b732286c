package overload

import "github.com/rs/zerolog"

// Config holds registry configuration.
type Config struct {
	// Name labels the group in errors and log events.
	Name string

	// Match weighs candidates. Nil means Match.
	Match MatchFunc

	// Logger receives registration and selection events.
	Logger zerolog.Logger

	// RecoverMatchPanics scores a candidate as Never when Match panics
	// instead of letting the panic reach the caller.
	RecoverMatchPanics bool
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Match:  Match,
		Logger: zerolog.Nop(),
	}
}

// Option configures a registry.
type Option func(*Config)

// WithName sets the group name used in errors and logs.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithMatchFunc replaces the default match strategy.
func WithMatchFunc(m MatchFunc) Option {
	return func(c *Config) {
		c.Match = m
	}
}

// WithLogger sets the logger for registration and selection events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithMatchRecovery makes a panicking match strategy score Never for the
// candidate being weighed. The panic is logged at warn level.
func WithMatchRecovery() Option {
	return func(c *Config) {
		c.RecoverMatchPanics = true
	}
}
