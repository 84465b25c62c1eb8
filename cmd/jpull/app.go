// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/creachadair/jpull"
	"github.com/creachadair/jpull/ast"
	"github.com/creachadair/jpull/jpath"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"pkt.systems/pslog"
)

// errInvalidInput is reported when one or more inputs were rejected. The
// details have already been written to the error stream.
var errInvalidInput = errors.New("invalid input")

func submain(ctx context.Context) int {
	baseLogger := pslog.LoggerFromEnv(
		pslog.WithEnvPrefix("JPULL_LOG_"),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.InfoLevel}),
		pslog.WithEnvWriter(os.Stderr),
	).With("app", "jpull")
	cmd := newRootCommand(baseLogger)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errInvalidInput) {
			baseLogger.Error("command failed", "error", err)
		}
		return 1
	}
	return 0
}

// config holds the settings for a run, merged from flags and environment.
type config struct {
	Tokens   bool
	Select   string
	Indent   string
	Name     string
	MaxDepth int
	LogLevel string
}

func bindConfig(v *viper.Viper) config {
	return config{
		Tokens:   v.GetBool("tokens"),
		Select:   strings.TrimSpace(v.GetString("select")),
		Indent:   v.GetString("indent"),
		Name:     strings.TrimSpace(v.GetString("name")),
		MaxDepth: v.GetInt("max-depth"),
		LogLevel: strings.TrimSpace(v.GetString("log-level")),
	}
}

func newRootCommand(baseLogger pslog.Logger) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "jpull [file ...]",
		Short:         "jpull checks JSON documents and prints their values or tokens",
		SilenceErrors: true,
		Example: `
  # Check and pretty-print a file
  jpull config.json

  # Print the token stream of standard input, with locations
  echo '{"a": [1, 2]}' | jpull --tokens

  # Print the authors of all books, one per line
  jpull --indent= --select '$.store.book[*].author' store.json

  # Compact output, rejecting documents nested more than 64 levels
  JPULL_INDENT= jpull --max-depth 64 data.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg := bindConfig(v)

			logger := baseLogger
			if cfg.LogLevel != "" {
				level, ok := pslog.ParseLevel(cfg.LogLevel)
				if !ok {
					return fmt.Errorf("invalid log level %q", cfg.LogLevel)
				}
				logger = logger.LogLevel(level)
			}
			var sel jpath.Expr
			if cfg.Select != "" {
				if cfg.Tokens {
					return errors.New("--select cannot be combined with --tokens")
				}
				e, err := jpath.Parse(cfg.Select)
				if err != nil {
					return fmt.Errorf("invalid --select expression: %w", err)
				}
				sel = e
			}
			r := &runner{
				sel:    sel,
				cfg:    cfg,
				log:    logger.With("sys", "cli.run"),
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
			}
			return r.run(cmd.Context(), args)
		},
	}

	flags := cmd.Flags()
	flags.BoolP("tokens", "t", false, "print the token stream instead of the value")
	flags.StringP("select", "s", "", "print only the values selected by this JSONPath expression")
	flags.String("indent", "  ", "indentation for printed values (empty for compact output)")
	flags.String("name", "", `name of standard input in diagnostics (default "stdin")`)
	flags.Int("max-depth", 0, "maximum nesting depth of objects and arrays (0 means no limit)")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")

	v.SetEnvPrefix("JPULL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})
	return cmd
}

// A runner processes the inputs named on the command line.
type runner struct {
	cfg    config
	sel    jpath.Expr // if non-nil, print only the selected values
	log    pslog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *runner) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var failed int
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, data, err := r.readInput(arg)
		if err != nil {
			return err
		}
		r.log.Debug("read input", "name", name, "size", humanize.Bytes(uint64(len(data))))

		opts := &jpull.Options{Name: name, MaxDepth: r.cfg.MaxDepth}
		var ok bool
		if r.cfg.Tokens {
			ok, err = r.printTokens(string(data), opts)
		} else if r.sel != nil {
			ok, err = r.printSelected(string(data), opts)
		} else {
			ok, err = r.printValue(string(data), opts)
		}
		if err != nil {
			return err
		} else if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", errInvalidInput, failed, len(args))
	}
	return nil
}

// readInput returns the name and contents of the input named by arg, which is
// either a file path or "-" for standard input.
func (r *runner) readInput(arg string) (string, []byte, error) {
	if arg != "-" {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", nil, fmt.Errorf("read input: %w", err)
		}
		return arg, data, nil
	}
	name := r.cfg.Name
	if name == "" {
		name = "stdin"
	}
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", name, err)
	}
	return name, data, nil
}

// printTokens writes one line per token of text. It reports false if the
// text is not valid; the diagnostic is written to the error stream.
func (r *runner) printTokens(text string, opts *jpull.Options) (bool, error) {
	var n int
	for tok := range jpull.NewTokenizer(text, opts).All() {
		n++
		if tok.Kind == jpull.Error {
			r.reportError(tok.Err())
			return false, nil
		}
		if _, err := fmt.Fprintln(r.stdout, tok); err != nil {
			return false, err
		}
	}
	r.log.Debug("printed tokens", "name", opts.Name, "tokens", n)
	return true, nil
}

// printValue parses text and writes its value as JSON. It reports false if
// the text is not valid or its value cannot be written as JSON.
func (r *runner) printValue(text string, opts *jpull.Options) (bool, error) {
	start := time.Now()
	v, err := jpull.ParseWithOptions(text, opts)
	if err != nil {
		r.reportError(err)
		return false, nil
	}
	r.log.Debug("parsed input", "name", opts.Name, "elapsed", time.Since(start).String())

	return r.encode(v, opts.Name)
}

// printSelected parses text as a syntax tree and writes each value selected
// from it, in document order. Selecting nothing is not an error.
func (r *runner) printSelected(text string, opts *jpull.Options) (bool, error) {
	root, err := ast.ParseWithOptions(text, opts)
	if err != nil {
		r.reportError(err)
		return false, nil
	}
	vs := r.sel.Select(root)
	r.log.Debug("selected values", "name", opts.Name, "expr", r.sel.String(), "count", len(vs))
	for _, v := range vs {
		if ok, err := r.encode(ast.Native(v), opts.Name); !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}

// encode writes v to the output stream as JSON. It reports false if v cannot
// be written as JSON.
func (r *runner) encode(v any, name string) (bool, error) {
	enc := json.NewEncoder(r.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", r.cfg.Indent)
	if err := enc.Encode(v); err != nil {
		// A number too large for float64 has no JSON encoding.
		var uerr *json.UnsupportedValueError
		if errors.As(err, &uerr) {
			fmt.Fprintf(r.stderr, "%s: cannot print value: %v\n", name, err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *runner) reportError(err error) {
	var serr *jpull.SyntaxError
	if errors.As(err, &serr) {
		fmt.Fprintln(r.stderr, serr.Diagnostic())
	} else {
		fmt.Fprintln(r.stderr, err)
	}
	r.log.Debug("invalid input", "error", err)
}
