// Package main provides the annotate-go command: a transparent,
// always-on-top overlay for drawing on the screen with pen, highlighter,
// eraser and a particle-emitting magic pen.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-annotate/internal/config"
	"github.com/opd-ai/go-annotate/internal/profiling"
	"github.com/opd-ai/go-annotate/pkg/annotate"
)

// Version is the current version of annotate-go.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// runOptions holds the flags of the run command.
type runOptions struct {
	configPath string
	cpuProfile string
	memProfile string
	logLevel   string
	logJSON    bool
	headless   bool
	watch      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:          "annotate-go",
		Short:        "Draw on top of your screen",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	addRunFlags(root, opts)

	run := &cobra.Command{
		Use:   "run",
		Short: "Open the annotation overlay (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverlay(opts, stdout, stderr)
		},
	}
	addRunFlags(run, opts)

	root.AddCommand(run)
	root.AddCommand(convertCmd(stdout))
	root.AddCommand(versionCmd(stdout))
	return root
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (Lua or key value format)")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	f.StringVar(&opts.memProfile, "memprofile", "", "write memory profile to file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")
	f.BoolVar(&opts.headless, "headless", false, "run without a window")
	f.BoolVar(&opts.watch, "watch", true, "reload the configuration file when it changes")
}

func versionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "annotate-go version %s\n", Version)
		},
	}
}

func convertCmd(stdout io.Writer) *cobra.Command {
	var noComments, keepDefaults bool

	cmd := &cobra.Command{
		Use:   "convert IN [OUT]",
		Short: "Convert a key value configuration to Lua",
		Long: "Convert a legacy key value configuration file to the Lua format.\n" +
			"The result is written to OUT, or to stdout when OUT is omitted.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.MigrateLegacyFile(args[0],
				config.WithComments(!noComments),
				config.WithDefaults(keepDefaults))
			if err != nil {
				return fmt.Errorf("converting %s: %w", args[0], err)
			}
			if len(args) == 1 {
				_, err = stdout.Write(content)
				return err
			}
			if err := os.WriteFile(args[1], content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[1], err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "omit section comments")
	cmd.Flags().BoolVar(&keepDefaults, "defaults", false, "also write settings equal to their defaults")
	return cmd
}

// newLogger builds the CLI logger from the log flags.
func newLogger(w io.Writer, level string, json bool) (annotate.Logger, error) {
	lvl, ok := annotate.ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	if json {
		return annotate.JSONLogger(w, lvl), nil
	}
	return annotate.TextLogger(w, lvl), nil
}

// defaultConfigPath returns the per-user configuration file, or "" if none
// exists.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.lua", "config"} {
		path := filepath.Join(dir, "go-annotate", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newOverlay loads path, or the built-in defaults when path is empty.
func newOverlay(path string, opts *annotate.Options) (annotate.Overlay, error) {
	if path == "" {
		return annotate.NewFromConfig(nil, opts)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("error accessing configuration file %s: %w", path, err)
	}
	return annotate.New(path, opts)
}

func runOverlay(ro *runOptions, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, ro.logLevel, ro.logJSON)
	if err != nil {
		return err
	}

	path := ro.configPath
	if path == "" {
		path = defaultConfigPath()
	}

	prof := profiling.New(profiling.Config{
		CPUProfilePath: ro.cpuProfile,
		MemProfilePath: ro.memProfile,
	})

	return prof.Run(func() error {
		opts := annotate.DefaultOptions()
		opts.Headless = ro.headless
		opts.Logger = logger
		opts.WatchConfig = ro.watch

		o, err := newOverlay(path, &opts)
		if err != nil {
			return err
		}
		if path == "" {
			logger.Info("no configuration file, using defaults")
		}

		o.SetEventHandler(func(e annotate.Event) {
			if e.Type == annotate.EventExported {
				fmt.Fprintln(stdout, e.Message)
			}
		})

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, watchedSignals...)
		defer signal.Stop(sigCh)

		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case sig := <-sigCh:
					handleSignal(o, sig, logger)
				case <-done:
					return
				}
			}
		}()

		logger.Info("annotate-go starting", "version", Version, "config", path, "headless", ro.headless)
		return o.Run()
	})
}

// controller is the part of an Overlay the signal handler drives.
type controller interface {
	Stop() error
	ReloadConfig() error
	Mode() annotate.Mode
	SetMode(m annotate.Mode)
	Export(format annotate.Format) (string, error)
}

// toggleMode flips between cursor mode and pen mode. Any drawing mode
// counts as pen.
func toggleMode(c controller) annotate.Mode {
	next := annotate.ModeCursor
	if c.Mode() == annotate.ModeCursor {
		next = annotate.ModePen
	}
	c.SetMode(next)
	return next
}
