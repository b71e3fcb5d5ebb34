package cmd

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bestlastyear/internal/browse"
	"github.com/lepinkainen/bestlastyear/internal/catalog"
	"github.com/lepinkainen/bestlastyear/internal/config"
)

// TopCmd prints one ranked list without the interactive browser
type TopCmd struct {
	Type   string   `short:"t" enum:"movie,anime" default:"movie" help:"Content type: movie or anime"`
	Genre  []string `short:"g" help:"Only items carrying every listed genre (repeatable)"`
	Format string   `short:"f" enum:"table,json,yaml" default:"table" help:"Output format: table, json or yaml"`
	Limit  int      `short:"n" default:"20" help:"Maximum number of items to print (0 prints all)"`
	API    string   `help:"Base URL of the best-last-year API (defaults to api.base in config)"`
}

// topReport is the json and yaml output of the top command.
type topReport struct {
	Type   string               `json:"type" yaml:"type"`
	Genres []string             `json:"selected_genres" yaml:"selected_genres"`
	Items  []catalog.Item       `json:"items" yaml:"items"`
	Facets []catalog.GenreFacet `json:"available_genres" yaml:"available_genres"`
}

func (c *TopCmd) Run(ctx context.Context, cfg *config.Config, kctx *kong.Context) error {
	ct, err := catalog.ParseContentType(c.Type)
	if err != nil {
		return err
	}

	fetcher := browse.NewFetcher(cmp.Or(c.API, cfg.API.Base), browse.WithTimeout(cfg.Client.Timeout))
	items, err := fetcher.Fetch(ctx, ct, c.Genre)
	if err != nil {
		return err
	}

	report := topReport{
		Type:   ct.String(),
		Genres: c.Genre,
		Items:  items,
		Facets: catalog.BuildFacets(items),
	}
	if report.Genres == nil {
		report.Genres = []string{}
	}
	if c.Limit > 0 && len(report.Items) > c.Limit {
		report.Items = report.Items[:c.Limit]
	}

	return writeReport(kctx.Stdout, c.Format, ct, report)
}

func writeReport(w io.Writer, format string, ct catalog.ContentType, report topReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return writeTable(w, ct, report)
	}
}

func writeTable(w io.Writer, ct catalog.ContentType, report topReport) error {
	if len(report.Items) == 0 {
		_, err := fmt.Fprintf(w, "No %s found.\n", strings.ToLower(ct.Label()))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tRATING\tVOTES\tRELEASED\tGENRES")
	for i, item := range report.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%d\t%s\t%s\n", i+1, item.Title, item.Rating, item.Votes, item.ReleaseDate, item.GenreList())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	facets := make([]string, len(report.Facets))
	for i, f := range report.Facets {
		facets[i] = fmt.Sprintf("%s (%d)", f.Name, f.Count)
	}
	_, err := fmt.Fprintf(w, "\nGenres: %s\nData provided by %s\n", strings.Join(facets, ", "), ct.Source())
	return err
}
