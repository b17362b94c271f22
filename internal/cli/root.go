// Package cli implements the pointerdemo command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/petrijr/pointer/internal/config"
	"github.com/petrijr/pointer/internal/logging"
)

type command struct {
	name        string
	description string
	configure   func(fs *flag.FlagSet)
	run         func(fs *flag.FlagSet, args []string, app *AppContext, stdout io.Writer, stderr io.Writer) error
}

// AppContext carries the loaded configuration and logger to subcommands.
type AppContext struct {
	Config config.Config
	Logger *slog.Logger
}

// RootCommand parses global flags and dispatches to a subcommand.
type RootCommand struct {
	commands  map[string]command
	stdout    io.Writer
	stderr    io.Writer
	logLevel  string
	logFormat string
}

// NewRootCommand constructs the dispatcher with every subcommand.
func NewRootCommand() *RootCommand {
	rc := &RootCommand{
		commands: make(map[string]command),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}

	rc.register(newRunCommand())
	rc.register(newSendCommand())
	rc.register(newJournalCommand())

	return rc
}

func (rc *RootCommand) register(cmd command) {
	rc.commands[cmd.name] = cmd
}

// Execute evaluates the supplied arguments, parses global flags, and
// dispatches to a subcommand.
func (rc *RootCommand) Execute(args []string) error {
	rootFlags := flag.NewFlagSet("pointerdemo", flag.ContinueOnError)
	rootFlags.SetOutput(rc.stderr)
	rootFlags.Usage = func() { rc.printHelp() }

	rootFlags.StringVar(&rc.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootFlags.StringVar(&rc.logFormat, "log-format", "", "Override log output format (json, text)")

	if err := rootFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	remaining := rootFlags.Args()
	if len(remaining) == 0 {
		rc.printHelp()
		return nil
	}

	sub, ok := rc.commands[remaining[0]]
	if !ok {
		fmt.Fprintf(rc.stderr, "Unknown command %q\n\n", remaining[0])
		rc.printHelp()
		return fmt.Errorf("unknown command %q", remaining[0])
	}

	fs := flag.NewFlagSet(sub.name, flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.Usage = func() {
		fmt.Fprintf(rc.stdout, "Usage: pointerdemo %s [flags]\n", sub.name)
		fmt.Fprintln(rc.stdout, sub.description)
		fs.PrintDefaults()
	}
	if sub.configure != nil {
		sub.configure(fs)
	}
	if err := fs.Parse(remaining[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	app, err := rc.appContext()
	if err != nil {
		fmt.Fprintln(rc.stderr, err)
		return err
	}

	if err := sub.run(fs, fs.Args(), app, rc.stdout, rc.stderr); err != nil {
		app.Logger.Error("command_failed", slog.String("command", sub.name), slog.Any("error", err))
		return err
	}
	return nil
}

func (rc *RootCommand) appContext() (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rc.logLevel != "" {
		if cfg.LogLevel, err = config.NormalizeLogLevel(rc.logLevel); err != nil {
			return nil, err
		}
	}
	if rc.logFormat != "" {
		if cfg.LogFormat, err = config.NormalizeFormat(rc.logFormat); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: rc.stderr,
	})
	if err != nil {
		return nil, err
	}
	return &AppContext{Config: cfg, Logger: logger}, nil
}

func (rc *RootCommand) printHelp() {
	fmt.Fprintln(rc.stdout, "pointerdemo - scripted pointer actors in the terminal")
	fmt.Fprintln(rc.stdout, "")
	fmt.Fprintln(rc.stdout, "Usage: pointerdemo [global flags] <command> [command flags]")
	fmt.Fprintln(rc.stdout, "Global flags:")
	fmt.Fprintln(rc.stdout, "  --log-level string   Override log level (debug, info, warn, error)")
	fmt.Fprintln(rc.stdout, "  --log-format string  Override log output format (json, text)")
	fmt.Fprintln(rc.stdout, "")
	fmt.Fprintln(rc.stdout, "Available commands:")

	names := make([]string, 0, len(rc.commands))
	for name := range rc.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(rc.stdout, "  %-10s %s\n", name, rc.commands[name].description)
	}
}

func boolFlag(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	value, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return false
	}
	return value
}

func stringFlag(fs *flag.FlagSet, name string) string {
	f := fs.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}
