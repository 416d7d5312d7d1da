// Command devcon is the developer console CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"nickandperla.net/devcon/internal/config"
	"nickandperla.net/devcon/internal/logging"
	"nickandperla.net/devcon/pkg/devcon"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		evalStr   = flag.String("e", "", "Run one console line")
		file      = flag.String("f", "", "Run console lines from a file")
		dbPath    = flag.String("db", cfg.HistoryDB, "SQLite history database path")
		noHistory = flag.Bool("no-history", false, "Keep history in memory only")
		timeout   = flag.Duration("timeout", cfg.EvalTimeout, "Code block evaluation timeout")
		debug     = flag.Bool("debug", cfg.Debug, "Print debug lines and logs")
		player    = flag.String("player", cfg.Player, "Local player name")
		logFile   = flag.String("log", cfg.LogFile, "Write JSON logs to this file")
		noColor   = flag.Bool("no-color", cfg.NoColor, "Disable colored output")
	)
	flag.Parse()

	logger, closeLog := logging.New(logging.Options{Debug: *debug, File: *logFile})
	defer closeLog()

	quit := false
	opts := []devcon.Option{
		devcon.WithWriter(os.Stdout),
		devcon.WithHistoryLimit(cfg.HistoryLimit),
		devcon.WithTimeout(*timeout),
		devcon.WithLogger(logger),
		devcon.WithDebug(*debug),
		devcon.WithPrompt(cfg.Prompt),
		devcon.WithScrollback(cfg.Scrollback),
		devcon.WithWorld(*player),
		devcon.WithAttach(func(r *devcon.Runtime) {
			registerHostCommands(r, &quit)
		}),
	}
	if *noHistory {
		opts = append(opts, devcon.WithMemoryHistory())
	} else {
		opts = append(opts, devcon.WithSQLiteHistory(*dbPath))
	}
	if *noColor {
		opts = append(opts, devcon.WithColor(false))
	}

	runtime, err := devcon.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer runtime.Close()

	switch {
	case *file != "":
		err = runtime.RunFile(*file)

	case *evalStr != "":
		if err = runtime.Dispatch(*evalStr); err != nil {
			runtime.Report(err)
		}

	case !isTerminal(os.Stdin):
		runtime.SetEcho(false)
		err = runtime.RunReader(os.Stdin)

	default:
		runREPL(runtime, &quit)
		return
	}

	if err != nil {
		runtime.Close()
		os.Exit(1)
	}
}

// registerHostCommands adds the commands that only make sense in the CLI.
func registerHostCommands(r *devcon.Runtime, quit *bool) {
	r.Register(devcon.NewCommand("exit", "Leaves the console.", func(string, []*devcon.Token, int) error {
		*quit = true
		return nil
	}), false)

	startup := devcon.NewCommand("startup", "Shows or saves the lines run at every start.", func(_ string, args []*devcon.Token, shape int) error {
		if shape == 1 {
			src := strings.ReplaceAll(args[0].Value().String(), ";", "\n")
			if err := r.SaveStartup(src); err != nil {
				return err
			}
			r.Output().PrintLine("Startup saved.")
			return nil
		}
		r.Output().PrintLine("Use: startup \"line; line\"")
		return nil
	})
	startup.AddShape()
	startup.AddShape(devcon.Arg("lines", "Lines separated by ';'", devcon.String))
	r.Register(startup, false)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
