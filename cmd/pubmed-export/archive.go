package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-export/internal/archive"
	"github.com/pdiddy/pubmed-export/internal/tabular"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query the run archive (search, runs)",
	Long: `Archive reads the SQLite database that harvest --archive writes to. Each
harvest run is stored with its records, so earlier result pages stay
searchable after the spreadsheet is overwritten.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return bindFlags(viper.GetViper(), cmd.Flags(), keyArchive)
	},
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Find archived articles by title or keyword",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		maxResults, _ := cmd.Flags().GetInt("max-results")
		hits, err := store.Search(cmd.Context(), strings.Join(args, " "), maxResults)
		if err != nil {
			return err
		}

		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return yaml.NewEncoder(os.Stdout).Encode(hits)
		}
		records := make([]types.Record, len(hits))
		for i, h := range hits {
			records[i] = h.Record
		}
		tabular.FormatTable(records, os.Stdout)
		return nil
	},
}

// --- runs subcommand ---

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived harvest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs archived.")
			return nil
		}
		fmt.Printf("%-5s  %-20s  %-7s  %-7s  %s\n", "Run", "Started", "Written", "Skipped", "Output")
		fmt.Println(strings.Repeat("-", 70))
		for _, r := range runs {
			fmt.Printf("%-5d  %-20s  %-7d  %-7d  %s\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime), r.Written, r.Skipped, r.Output)
		}
		return nil
	},
}

func openArchive() (*archive.Store, error) {
	path := viper.GetString(keyArchive)
	if path == "" {
		return nil, fmt.Errorf("no archive configured: pass --archive or set archive in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}
	return archive.Open(path)
}

func init() {
	archiveCmd.PersistentFlags().String("archive", "", "SQLite archive written by harvest --archive")

	archiveSearchCmd.Flags().Int("max-results", 20, "maximum number of results")
	archiveSearchCmd.Flags().Bool("yaml", false, "output results as YAML")

	archiveCmd.AddCommand(archiveSearchCmd, archiveRunsCmd)
	rootCmd.AddCommand(archiveCmd)
}
