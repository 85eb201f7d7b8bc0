// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs the fetch → extract → write pipeline once.
package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pubmed-export/internal/archive"
	"github.com/pdiddy/pubmed-export/internal/browser"
	"github.com/pdiddy/pubmed-export/internal/extract"
	"github.com/pdiddy/pubmed-export/internal/pubmed"
	"github.com/pdiddy/pubmed-export/internal/tabular"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Summary holds the outcome of one run.
type Summary struct {
	QueryURL string
	Output   string
	Written  int
	Skipped  int
	RunID    int64

	// Records are the written records, in document order.
	Records []types.Record
}

// Runner wires the pipeline stages together.
type Runner struct {
	Fetcher  pubmed.Fetcher
	Notifier browser.Notifier
	Writer   *tabular.Writer
	Logger   zerolog.Logger

	// Progress receives one human-readable line per stage.
	Progress io.Writer
}

// NewRunner returns a Runner that fetches over HTTP, writes XLSX, opens
// the system browser when asked, and logs to logger.
func NewRunner(cfg types.HarvestConfig, logger zerolog.Logger, progress io.Writer) *Runner {
	return &Runner{
		Fetcher:  pubmed.NewHTTPFetcher(cfg.HTTPConfig),
		Notifier: browser.NewLauncher(),
		Writer:   tabular.NewWriter(),
		Logger:   logger,
		Progress: progress,
	}
}

// Run fetches the result page, extracts its records and writes them to
// cfg.OutputFile. A page with no articles still produces a header-only
// file. Malformed articles follow cfg.OnMalformed. When cfg.ArchivePath is
// set the written records are also archived; an archive failure is logged
// and does not fail the run, since the spreadsheet is already in place.
func (r *Runner) Run(ctx context.Context, cfg types.HarvestConfig) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}
	progress := r.Progress
	if progress == nil {
		progress = io.Discard
	}
	started := time.Now()

	page, err := r.Fetcher.Fetch(ctx, cfg)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{QueryURL: page.URL, Output: cfg.OutputFile}
	fmt.Fprintf(progress, "fetched: %s (%d bytes)\n", page.URL, len(page.Body))
	r.Logger.Debug().Str("url", page.URL).Int("bytes", len(page.Body)).Msg("fetched result page")

	if cfg.OpenBrowser && r.Notifier != nil {
		if err := r.Notifier.Open(page.URL); err != nil {
			r.Logger.Warn().Err(err).Msg("could not open browser")
		}
	}

	records, skipped, err := Extract(page.Body, cfg, r.Logger)
	summary.Skipped = skipped
	if err != nil {
		return summary, err
	}

	writer := r.Writer
	if writer == nil {
		writer = tabular.NewWriter()
	}
	n, err := writer.Write(tabular.Slice(records), types.Headers(), cfg.OutputFile)
	if err != nil {
		return summary, err
	}
	summary.Written = n
	summary.Records = records

	if n == 0 {
		r.Logger.Info().Str("output", cfg.OutputFile).Msg("no articles matched; wrote header row only")
	}
	fmt.Fprintf(progress, "wrote: %s (%d rows)\n", cfg.OutputFile, n)
	if skipped > 0 {
		fmt.Fprintf(progress, "skipped: %d malformed article(s)\n", skipped)
	}

	if cfg.ArchivePath != "" {
		runID, err := archiveRun(ctx, cfg.ArchivePath, archive.Run{
			StartedAt: started,
			QueryURL:  summary.QueryURL,
			Output:    summary.Output,
			Written:   summary.Written,
			Skipped:   summary.Skipped,
		}, records)
		if err != nil {
			r.Logger.Warn().Err(err).Str("archive", cfg.ArchivePath).Msg("archiving run failed")
		} else {
			summary.RunID = runID
			fmt.Fprintf(progress, "archived: run %d in %s\n", runID, cfg.ArchivePath)
		}
	}

	return summary, nil
}

// Extract parses document with cfg's base URL and malformed policy and
// returns the records with the number of skipped articles.
func Extract(document []byte, cfg types.HarvestConfig, logger zerolog.Logger) ([]types.Record, int, error) {
	policy, err := types.ParseMalformedPolicy(string(cfg.OnMalformed))
	if err != nil {
		return nil, 0, err
	}
	parser, err := extract.New(cfg.BaseURL, extract.WithPolicy(policy), extract.WithLogger(logger))
	if err != nil {
		return nil, 0, err
	}
	records, err := extract.Collect(parser.Parse(document))
	if err != nil {
		return nil, parser.Skipped(), fmt.Errorf("extracting articles: %w", err)
	}
	return records, parser.Skipped(), nil
}

func archiveRun(ctx context.Context, path string, run archive.Run, records []types.Record) (int64, error) {
	store, err := archive.Open(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.Save(ctx, run, records)
}
