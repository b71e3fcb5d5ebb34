package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"github.com/lepinkainen/bestlastyear/internal/cache"
	"github.com/lepinkainen/bestlastyear/internal/config"
)

const cliDescription = "Browse the best rated movies and anime of the last year."

// CLI represents the complete command structure for the bestlastyear application
type CLI struct {
	LogLevel string `help:"Log level: debug, info, warn or error (overrides log_level in config)"`

	Browse BrowseCmd `cmd:"" default:"withargs" help:"Browse the ranked lists interactively (default)"`
	Top    TopCmd    `cmd:"" help:"Print the ranked list once"`
	Serve  ServeCmd  `cmd:"" help:"Run the best-last-year API server"`
	Cache  CacheCmd  `cmd:"" help:"Manage the master list cache"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Clear cache.ClearCmd `cmd:"" help:"Remove cached master lists"`
}

// Execute runs the Kong-based CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initLogging("info", os.Stderr)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, opts ...kong.Option) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var cli CLI
	parser, err := newParser(&cli, append([]kong.Option{kong.Writers(stdout, os.Stderr)}, opts...)...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return err
	}

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	initLogging(cfg.LogLevel, os.Stderr)

	var store cache.Cache
	defer func() {
		if store != nil {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close cache", "error", err)
			}
		}
	}()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(cfg)
	if err := kctx.BindSingletonProvider(func() (cache.Cache, error) {
		var err error
		store, err = cache.New(cfg.Cache.Provider, cfg.CacheProvider("master_list"))
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		return store, nil
	}); err != nil {
		return err
	}

	return kctx.Run()
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("bestlastyear"),
		kong.Description(cliDescription),
		kong.UsageOnError(),
	}, opts...)
	return kong.New(cli, opts...)
}

// initLogging installs the human readable handler at the named level.
// Unknown levels fall back to info.
func initLogging(level string, w io.Writer) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}
