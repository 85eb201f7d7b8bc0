package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-export/internal/harvest"
	"github.com/pdiddy/pubmed-export/internal/tabular"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <page.html|->",
	Short: "Extract articles from a saved result page",
	Long: `Extract runs the article extractor over a result page saved to disk (or
read from stdin with "-") and prints the records, without any network access.
Use it to check the extractor against PubMed's current markup.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(), keyBaseURL, keyOnMalformed)
	},
	RunE: runExtract,
}

func init() {
	d := types.DefaultHarvestConfig()
	extractCmd.Flags().String("base-url", d.BaseURL, "base URL for resolving relative links")
	extractCmd.Flags().String("on-malformed", string(d.OnMalformed), "malformed article policy: skip or fail-fast")
	extractCmd.Flags().String("out-format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := harvestConfig(viper.GetViper())
	if err != nil {
		return err
	}

	document, err := readInput(args[0])
	if err != nil {
		return err
	}

	records, skipped, err := harvest.Extract(document, cfg, log.Logger)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("malformed articles skipped")
	}

	outFormat, _ := cmd.Flags().GetString("out-format")
	return printRecords(records, outFormat, os.Stdout)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// printRecords writes records to w as a table, indented JSON, or YAML.
func printRecords(records []types.Record, format string, w io.Writer) error {
	switch format {
	case "table", "":
		tabular.FormatTable(records, w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []types.Record{}
		}
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}
