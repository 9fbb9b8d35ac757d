package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinofav/internal/bus"
	"github.com/mmcdole/kinofav/internal/config"
	"github.com/mmcdole/kinofav/internal/favorites"
	"github.com/mmcdole/kinofav/internal/log"
	"github.com/mmcdole/kinofav/internal/store"
	"github.com/mmcdole/kinofav/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("kinofav %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: kinofav [flags] [command]

Commands:
  (none)            open the favorites panel
  list              print favorites, most recently saved first
  add               save a favorite
  remove <query>    remove the favorite matching a key or title
  progress          record the episode being watched
  clear             remove every favorite
  init              write a default config file

Flags:
`)
	flag.PrintDefaults()
}

// app holds everything a command needs
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	bus    *bus.Bus
	svc    *favorites.Service
	out    io.Writer
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting kinofav", "version", Version, "store", cfg.Storage.Path)

	b := bus.New(logger)
	s, err := store.Open(store.Options{
		Path:        cfg.Storage.Path,
		OpenTimeout: cfg.Storage.OpenTimeout,
		Publisher:   b,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  s,
		bus:    b,
		svc:    favorites.NewService(s, s, logger),
		out:    os.Stdout,
	}

	if len(args) == 0 {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return a.list(nil)
		}
		return a.runTUI()
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return a.list(rest)
	case "add":
		return a.add(rest)
	case "remove", "rm":
		return a.remove(rest)
	case "progress":
		return a.progress(rest)
	case "clear":
		return a.clear(rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) runTUI() error {
	model := tui.NewModel(a.svc, a.bus, a.cfg.UI.GridColumns, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Shutdown()
	}
	if n := a.bus.Len(); n > 0 {
		a.logger.Warn("bus subscribers left after TUI exit", "count", n)
	}
	if err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

func runInit() error {
	path, err := config.SaveConfig(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
