// Command example reads calls from a YAML or TOML file, builds typed
// arguments with argument factories and dispatches them to overloaded groups.
//
//	go run ./example -v example/calls.yaml
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/struct0x/overload"
)

type callFile struct {
	Calls []callSpec `yaml:"calls" toml:"calls"`
}

type callSpec struct {
	Group    string                                    `yaml:"group" toml:"group"`
	Receiver string                                    `yaml:"receiver" toml:"receiver"`
	Args     []overload.Envelope[string, any]          `yaml:"args" toml:"args"`
	Kwargs   map[string]overload.Envelope[string, any] `yaml:"kwargs" toml:"kwargs"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:          "example <calls file>",
		Short:        "Dispatch calls from a YAML or TOML file to overloaded groups",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(verbosity, cmd.ErrOrStderr())

			file, err := loadCalls(args[0])
			if err != nil {
				return err
			}

			return run(cmd.OutOrStdout(), newApp(logger), file.Calls)
		},
	}
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")

	return cmd
}

// setupLogger maps the verbosity count to a level and writes human readable
// output, colored only on a terminal.
func setupLogger(verbosity int, w io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}).Level(level).With().Timestamp().Logger()

	logger.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
	return logger
}

func loadCalls(path string) (callFile, error) {
	var file callFile

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("failed to read calls file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".toml":
		err = toml.Unmarshal(data, &file)
	default:
		return file, fmt.Errorf("unsupported calls file extension %q", ext)
	}
	if err != nil {
		return file, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return file, nil
}

func run(out io.Writer, a *app, calls []callSpec) error {
	for i, call := range calls {
		args, err := overload.CreateArgs(a.factories, call.Args)
		if err != nil {
			return fmt.Errorf("call %d (%s): %w", i, call.Group, err)
		}

		kwargs := make(map[string]any, len(call.Kwargs))
		for name, env := range call.Kwargs {
			kwargs[name], err = overload.CreateArg(a.factories, env.Type, env.Data)
			if err != nil {
				return fmt.Errorf("call %d (%s) keyword %q: %w", i, call.Group, name, err)
			}
		}

		res, err := a.call(call.Group, call.Receiver, args, kwargs)
		if err != nil {
			return fmt.Errorf("call %d (%s): %w", i, call.Group, err)
		}

		_, _ = fmt.Fprintf(out, "%s(%s) = %s\n", call.Group, describeArgs(args, kwargs), formatResults(res))
	}

	for _, name := range a.canvasNames() {
		_, _ = fmt.Fprintf(out, "canvas %s: %s\n", name, strings.Join(a.canvases[name].ops, ", "))
	}
	return nil
}

func describeArgs(args []any, kwargs map[string]any) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, arg := range args {
		parts = append(parts, fmt.Sprintf("%T", arg))
	}

	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%T", name, kwargs[name]))
	}

	return strings.Join(parts, ", ")
}

func formatResults(res []any) string {
	parts := make([]string, len(res))
	for i, r := range res {
		if f, ok := r.(float64); ok {
			parts[i] = fmt.Sprintf("%.2f", f)
			continue
		}
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ", ")
}
