package main

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/struct0x/overload"
)

type Circle struct {
	Radius float64 `yaml:"radius"`
}

type Rect struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Meters is a length that dispatches apart from a plain float64.
type Meters float64

// Canvas records what was drawn on it. Its draw method is dispatched per canvas.
type Canvas struct {
	overload.Bindings

	name string
	ops  []string
}

type app struct {
	factories *overload.SealedFactories
	groups    map[string]*overload.Group
	draw      *overload.MethodGroup[*Canvas]
	canvases  map[string]*Canvas
	logger    zerolog.Logger
}

func newApp(logger zerolog.Logger) *app {
	a := &app{
		groups:   make(map[string]*overload.Group),
		canvases: make(map[string]*Canvas),
		logger:   logger,
	}
	a.factories = newFactories()

	area := overload.New(overload.Func(func(c Circle) float64 { return math.Pi * c.Radius * c.Radius }, overload.Arg("shape")),
		overload.WithName("area"), overload.WithLogger(logger)).
		Overload(overload.Func(func(r Rect) float64 { return r.Width * r.Height }, overload.Arg("shape"))).
		Overload(overload.Func(func(side Meters) float64 { return float64(side * side) }, overload.Arg("side")))

	describe := overload.New(overload.Func(func(v int) string { return fmt.Sprintf("the integer %d", v) }, overload.Arg("v")),
		overload.WithName("describe"), overload.WithLogger(logger)).
		Overload(overload.Func(func(v string, style string) string {
			if style == "loud" {
				return strings.ToUpper(v)
			}
			return fmt.Sprintf("the string %q", v)
		}, overload.Arg("v"), overload.Opt("style", "plain"))).
		Overload(overload.Func(func(v any) string { return fmt.Sprintf("something of type %T", v) }, overload.Arg("v")))

	for _, g := range []*overload.Group{area, describe} {
		g.Registry().Use(a.logCalls, a.timeCalls)
	}
	a.groups["area"] = area
	a.groups["describe"] = describe

	a.draw = overload.NewMethod[*Canvas](overload.Method(func(c *Canvas, shape Circle) string {
		return c.record(fmt.Sprintf("circle r=%g", shape.Radius))
	}, overload.Arg("shape")), overload.WithName("canvas.draw"), overload.WithLogger(logger)).
		Overload(overload.Method(func(c *Canvas, shape Rect) string {
			return c.record(fmt.Sprintf("rect %gx%g", shape.Width, shape.Height))
		}, overload.Arg("shape"))).
		Overload(overload.Method(func(c *Canvas, label string, times int) string {
			return c.record(strings.Repeat(label, times))
		}, overload.Arg("label"), overload.Opt("times", 1)))
	a.draw.Registry().Use(a.logCalls)

	return a
}

func newFactories() *overload.SealedFactories {
	f := overload.NewFactories()
	overload.RegisterFactory(f, "circle", fromDocument[Circle]())
	overload.RegisterFactory(f, "rect", fromDocument[Rect]())
	overload.RegisterFactory(f, "meters", fromDocument[Meters]())
	overload.RegisterFactory(f, "int", fromDocument[int]())
	overload.RegisterFactory(f, "string", fromDocument[string]())
	overload.RegisterFactory(f, "bool", fromDocument[bool]())
	overload.RegisterFactory(f, "float", fromDocument[float64]())
	return f.Seal()
}

// fromDocument converts a value decoded generically from a YAML or TOML
// document into T by round-tripping it through YAML.
func fromDocument[T any]() func(any) (T, error) {
	decode := overload.YAMLFactory[T]()
	return func(data any) (T, error) {
		raw, err := yaml.Marshal(data)
		if err != nil {
			var zero T
			return zero, err
		}
		return decode(raw)
	}
}

func (a *app) call(group, receiver string, args []any, kwargs map[string]any) ([]any, error) {
	if group == "canvas.draw" {
		if receiver == "" {
			return nil, fmt.Errorf("%s needs a receiver", group)
		}
		return a.draw.CallKw(a.canvas(receiver), kwargs, args...)
	}

	g, ok := a.groups[group]
	if !ok {
		return nil, fmt.Errorf("unknown group %q", group)
	}
	return g.CallKw(kwargs, args...)
}

func (a *app) canvas(name string) *Canvas {
	c, ok := a.canvases[name]
	if !ok {
		c = &Canvas{name: name}
		a.canvases[name] = c
	}
	return c
}

func (a *app) canvasNames() []string {
	names := make([]string, 0, len(a.canvases))
	for name := range a.canvases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Canvas) record(op string) string {
	c.ops = append(c.ops, op)
	return fmt.Sprintf("%s drew %s", c.name, op)
}

func (a *app) logCalls(c *overload.Candidate, call overload.Call, next overload.Invoker) ([]any, error) {
	a.logger.Info().
		Stringer("impl", c.Impl).
		Int("args", len(call.Args)).
		Int("kwargs", len(call.Kwargs)).
		Msg("Calling candidate")
	return next(call)
}

func (a *app) timeCalls(c *overload.Candidate, call overload.Call, next overload.Invoker) ([]any, error) {
	start := time.Now()
	res, err := next(call)
	a.logger.Debug().
		Int("index", c.Index).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("Candidate returned")
	return res, err
}
