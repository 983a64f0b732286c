package overload

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFactoryNotFound means no argument factory is registered under a key.
	ErrFactoryNotFound = errors.New("factory not found")

	// ErrDataTypeNotSupported means the data handed to a factory is not the
	// type it was registered with.
	ErrDataTypeNotSupported = errors.New("data type not supported")
)

// Envelope tags raw data with the key of the factory that turns it into an argument.
type Envelope[KEY comparable, DATA any] struct {
	Type KEY  `json:"type" yaml:"type" toml:"type"`
	Data DATA `json:"data" yaml:"data" toml:"data"`
}

// Factories holds argument factories keyed by envelope type.
// Use NewFactories to create one, then RegisterFactory.
type Factories struct {
	mu    sync.RWMutex
	byKey map[any]factory
}

type factory struct {
	data  reflect.Type
	build func(data any) (any, error)
}

type factorySetter interface {
	setFactory(key any, f factory)
}

type factoryLookup interface {
	lookupFactory(key any) (factory, bool)
}

// NewFactories creates an empty factory set.
func NewFactories() *Factories {
	return &Factories{byKey: make(map[any]factory)}
}

func (f *Factories) setFactory(key any, fac factory) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.byKey == nil {
		f.byKey = make(map[any]factory)
	}
	f.byKey[key] = fac
}

func (f *Factories) lookupFactory(key any) (factory, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	fac, ok := f.byKey[key]
	return fac, ok
}

// DataType returns the data type the factory registered under key accepts.
func (f *Factories) DataType(key any) (reflect.Type, bool) {
	fac, ok := f.lookupFactory(key)
	return fac.data, ok
}

// Seal returns an immutable copy that resolves factories without locking.
func (f *Factories) Seal() *SealedFactories {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return &SealedFactories{byKey: maps.Clone(f.byKey)}
}

// SealedFactories is an immutable factory set.
type SealedFactories struct {
	byKey map[any]factory
}

func (s *SealedFactories) lookupFactory(key any) (factory, bool) {
	fac, ok := s.byKey[key]
	return fac, ok
}

// RegisterFactory teaches reg to turn DATA into a T under key. Documents
// decoded generically hold maps and scalars; the factory gives a value the
// concrete Go type that Match compares against declared parameter types.
// Registering key again replaces the earlier factory.
func RegisterFactory[KEY comparable, DATA any, T any](reg factorySetter, key KEY, build func(DATA) (T, error)) {
	want := reflect.TypeFor[DATA]()
	reg.setFactory(key, factory{
		data: want,
		build: func(raw any) (any, error) {
			d, ok := raw.(DATA)
			if !ok {
				return nil, fmt.Errorf("overload: %w: key %v takes %v, got %T", ErrDataTypeNotSupported, key, want, raw)
			}
			return build(d)
		},
	})
}

// CreateArg runs the factory registered under key on data and returns the
// dispatch argument it builds. An unregistered key yields ErrFactoryNotFound.
func CreateArg[KEY comparable, DATA any](reg factoryLookup, key KEY, data DATA) (any, error) {
	if fac, ok := reg.lookupFactory(key); ok {
		return fac.build(data)
	}
	return nil, fmt.Errorf("overload: %w for key %v", ErrFactoryNotFound, key)
}

// CreateArgs builds one argument per envelope, in order, ready to be passed
// to Dispatch or Call.
func CreateArgs[KEY comparable, DATA any](reg factoryLookup, envs []Envelope[KEY, DATA]) ([]any, error) {
	args := make([]any, 0, len(envs))
	for i, env := range envs {
		arg, err := CreateArg(reg, env.Type, env.Data)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

// JSONFactory decodes JSON bytes into a T, for envelopes whose data is
// kept as raw JSON:
//
//	overload.RegisterFactory(args, "rect", overload.JSONFactory[Rect]())
//	arg, err := overload.CreateArg(args, "rect", []byte(`{"w": 2, "h": 3}`))
func JSONFactory[T any]() func([]byte) (T, error) {
	return func(data []byte) (T, error) {
		var v T
		err := json.Unmarshal(data, &v)
		return v, err
	}
}

// YAMLFactory returns a factory function that unmarshals YAML data into type T.
func YAMLFactory[T any]() func([]byte) (T, error) {
	return func(data []byte) (T, error) {
		var v T
		return v, yaml.Unmarshal(data, &v)
	}
}

// YAMLNodeFactory returns a factory function that decodes a YAML node into
// type T, for envelopes decoded with yaml.v3 whose data was left undecoded.
func YAMLNodeFactory[T any]() func(yaml.Node) (T, error) {
	return func(node yaml.Node) (T, error) {
		var v T
		return v, node.Decode(&v)
	}
}

// TOMLFactory returns a factory function that unmarshals TOML data into type T.
// TOML documents are tables, so T is usually a struct or a map.
func TOMLFactory[T any]() func([]byte) (T, error) {
	return func(data []byte) (T, error) {
		var v T
		return v, toml.Unmarshal(data, &v)
	}
}
