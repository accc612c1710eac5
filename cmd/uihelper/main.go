// SPDX-License-Identifier: MIT

// uihelper generates and checks the UIElements descriptors that CRYENGINE
// uses to bind Scaleform movies.
//
// Usage:
//
//	uihelper generate hud.yaml menu.yaml --jobs 4
//	uihelper validate Libs/UI/UIElements/*.xml
//	uihelper import MainPanel.xml --swf ui/hud.swf --out build -o hud.yaml
//
// Exit codes:
//   - 0: success
//   - 1: a descriptor, project or export failed
//   - 2: usage error (bad flags or arguments)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/uihelper/internal/config"
	"github.com/ManuGH/uihelper/internal/log"
	"github.com/ManuGH/uihelper/internal/metrics"
	"github.com/ManuGH/uihelper/internal/version"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks errors that should exit with code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// usageArgs turns cobra's positional-argument errors into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string

	loader   *config.Loader
	settings config.Settings
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, metrics: metrics.New()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	// Metrics are written for failed runs too.
	if werr := a.teardown(); werr != nil {
		fmt.Fprintf(errOut, "Error: %v\n", werr)
		if err == nil {
			return exitFailure
		}
	}
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)

	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(errOut, "Run '%s --help' for usage.\n", root.Name())
		return exitUsage
	}
	return exitFailure
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "uihelper",
		Short:         "Generate CRYENGINE UIElements descriptors and GFx movies",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "settings file (default: $"+config.EnvConfigPath+" or the user config dir)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "console", "log format: json or console")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here on exit")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newImportCmd(a),
		newSWFCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.logFormat != "json" && a.logFormat != "console" {
		return usagef("invalid --log-format %q (want json or console)", a.logFormat)
	}
	logCfg := log.Config{Level: a.logLevel, Format: a.logFormat, Output: a.errOut, Version: version.Version}
	log.Configure(logCfg)

	if a.configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.configPath = p
	}
	a.loader = config.NewLoader(a.configPath)
	settings, err := a.loader.LoadOrInit()
	if err != nil {
		return err
	}
	a.settings = settings

	// Settings may carry a level of their own; the flag still wins.
	if a.logLevel == "" {
		logCfg.Level = settings.LogLevel
		log.Configure(logCfg)
	}

	ctx := log.ContextWithRunID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)
	a.logger = log.WithComponentFromContext(ctx, cmd.Name())
	return nil
}

func (a *app) teardown() error {
	if a.metricsFile == "" {
		return nil
	}
	return a.metrics.WriteTextfile(a.metricsFile)
}
