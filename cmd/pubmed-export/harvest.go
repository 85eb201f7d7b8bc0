package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-export/internal/harvest"
	"github.com/pdiddy/pubmed-export/internal/tabular"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch the result page and write its articles to a spreadsheet",
	Long: `Harvest requests one PubMed result page for the configured search term,
extracts every article's title, link and keywords, and writes them to the
output XLSX file, replacing any previous file.

Articles whose markup lacks a title heading or link are skipped and counted
by default; --on-malformed=fail-fast aborts the run at the first one instead.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(),
			keyBaseURL, keyPageSize, keyTerm, keyFilter, keyFormat, keyOutput,
			keyTimeout, keyUserAgent, keyOnMalformed, keyOpenBrowser, keyArchive)
	},
	RunE: runHarvest,
}

func init() {
	d := types.DefaultHarvestConfig()
	harvestCmd.Flags().String("base-url", d.BaseURL, "search service base URL")
	harvestCmd.Flags().Int("page-size", d.PageSize, "number of results requested on the page")
	harvestCmd.Flags().String("term", "", "literal search expression (default: the built-in term groups)")
	harvestCmd.Flags().String("filter", d.Filter, "result filter")
	harvestCmd.Flags().String("format", d.Format, "result display format")
	harvestCmd.Flags().StringP("output", "o", d.OutputFile, "spreadsheet destination")
	harvestCmd.Flags().Duration("timeout", d.Timeout, "HTTP request timeout")
	harvestCmd.Flags().String("user-agent", d.UserAgent, "User-Agent header")
	harvestCmd.Flags().String("on-malformed", string(d.OnMalformed), "malformed article policy: skip or fail-fast")
	harvestCmd.Flags().Bool("open", false, "open the query URL in a browser")
	harvestCmd.Flags().String("archive", "", "SQLite archive that also records this run")
	harvestCmd.Flags().Bool("preview", false, "print the extracted articles as a table")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := harvestConfig(viper.GetViper())
	if err != nil {
		return err
	}

	runner := harvest.NewRunner(cfg, log.Logger, os.Stdout)
	summary, err := runner.Run(cmd.Context(), cfg)
	if err != nil {
		if summary.Skipped > 0 {
			log.Warn().Int("skipped", summary.Skipped).Msg("malformed articles skipped before failure")
		}
		return err
	}

	log.Info().
		Str("output", summary.Output).
		Int("written", summary.Written).
		Int("skipped", summary.Skipped).
		Msg("harvest complete")

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		tabular.FormatTable(summary.Records, os.Stdout)
	}
	return nil
}
