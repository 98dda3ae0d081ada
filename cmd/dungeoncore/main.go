// DungeonCore is a deterministic, turn-based dungeon simulation.
// Usage: dungeoncore [--version] [--plain] [--script <file>] [--trace]
//
//	[--mode <mode>] [--seed <n>] [--log <file>] [scenario]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nathoo/dungeoncore/cli"
	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/loader"
	"github.com/nathoo/dungeoncore/logging"
	"github.com/nathoo/dungeoncore/telemetry"
	"github.com/nathoo/dungeoncore/tui"
	"github.com/nathoo/dungeoncore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: dungeoncore [--version] [--plain] [--script <file>] [--trace] [--mode <mode>] [--seed <n>] [--log <file>] [scenario]"

// errUsage reports a malformed command line.
var errUsage = errors.New(usage)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options is the parsed command line.
type options struct {
	plain        bool
	trace        bool
	mode         types.Mode
	seed         string
	logPath      string
	scenarioPath string
	scriptFile   string
}

func parseArgs(args []string) (options, bool, error) {
	opts := options{
		mode:    types.ModeTreasureHunt,
		seed:    os.Getenv("DUNGEONCORE_SEED"),
		logPath: os.Getenv("DUNGEONCORE_LOG"),
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("dungeoncore %s (commit %s, built %s)\n", version, commit, date)
			return opts, true, nil
		case "-h", "--help":
			fmt.Println(usage)
			return opts, true, nil
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script", "--mode", "--seed", "--log", "--scenario":
			if i+1 >= len(args) {
				return opts, false, fmt.Errorf("%s requires a value: %w", args[i], errUsage)
			}
			i++
			switch args[i-1] {
			case "--script":
				opts.scriptFile = args[i]
			case "--mode":
				opts.mode = types.Mode(args[i])
			case "--seed":
				opts.seed = args[i]
			case "--log":
				opts.logPath = args[i]
			case "--scenario":
				opts.scenarioPath = args[i]
			}
		default:
			if opts.scenarioPath == "" {
				opts.scenarioPath = args[i]
			}
		}
	}
	return opts, false, nil
}

// run plays one session. Deferred cleanup (log sync, span flush) always
// runs before it returns, errors included.
func run(args []string) error {
	opts, done, err := parseArgs(args)
	if err != nil || done {
		return err
	}

	seed := time.Now().UnixNano()
	if opts.seed != "" {
		n, err := strconv.ParseInt(opts.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", opts.seed, err)
		}
		seed = n
	}

	logger, err := logging.New(opts.logPath, os.Getenv("DUNGEONCORE_LOG_LEVEL"))
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, version)
		if err != nil {
			logger.Warn("telemetry disabled", zap.Error(err))
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(flushCtx); err != nil {
					logger.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
		}
	}

	title := "DungeonCore"
	intro := ""
	var cfg engine.Config
	if opts.scenarioPath != "" {
		sc, err := loader.Load(opts.scenarioPath)
		if err != nil {
			logger.Error("scenario rejected", zap.String("path", opts.scenarioPath), zap.Error(err))
			return fmt.Errorf("loading scenario: %w", err)
		}
		for _, w := range sc.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		cfg = sc.Config
		if opts.seed != "" || !sc.Seeded {
			cfg.Seed = seed
		}
		if sc.Title != "" {
			title = sc.Title
		}
		intro = sc.Intro
		if sc.Author != "" {
			title += " by " + sc.Author
		}
	} else {
		cfg = engine.DefaultConfig(opts.mode, seed)
	}

	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		logger.Error("session rejected", zap.Error(err))
		return fmt.Errorf("starting game: %w", err)
	}
	logger.Info("session started",
		zap.String("mode", string(cfg.Mode)),
		zap.Int64("seed", cfg.Seed),
		zap.String("scenario", opts.scenarioPath),
	)

	// Script mode: open file, force plain, echo commands.
	if opts.scriptFile != "" {
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		fmt.Printf("%s\n\n", title)
		c := cli.New(eng, intro)
		c.In = f
		c.EchoInput = true
		c.Trace = opts.trace
		c.Run(ctx)
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if opts.plain || !isTerminal() {
		fmt.Printf("%s\n\n", title)
		c := cli.New(eng, intro)
		c.Trace = opts.trace
		c.Run(ctx)
		return nil
	}

	return tui.Run(ctx, eng, title, intro)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
