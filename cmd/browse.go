package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/bestlastyear/internal/browse"
	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/config"
	"github.com/lepinkainen/bestlastyear/internal/tui"
)

var runBrowser = tui.Run

// BrowseCmd represents the interactive browser command
type BrowseCmd struct {
	Type string `short:"t" enum:"movie,anime" default:"movie" help:"Content type to start with: movie or anime"`
	API  string `help:"Base URL of the best-last-year API (defaults to api.base in config)"`
}

func (b *BrowseCmd) Run(ctx context.Context, cfg *config.Config) error {
	ct, err := catalog.ParseContentType(b.Type)
	if err != nil {
		return err
	}

	// log lines would corrupt the alt screen
	logOut, closeLog, err := openLogFile(cfg.TUI.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	initLogging(cfg.LogLevel, logOut)

	fetcher := browse.NewFetcher(cmp.Or(b.API, cfg.API.Base), browse.WithTimeout(cfg.Client.Timeout))
	return runBrowser(ctx, tui.Options{
		ContentType: ct,
		Fetch:       fetcher.Fetch,
	})
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
