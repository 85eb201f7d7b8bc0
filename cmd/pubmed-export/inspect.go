package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-export/internal/tabular"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.xlsx]",
	Short: "Print the rows of a produced spreadsheet",
	Long: `Inspect reads the first worksheet of an XLSX file written by harvest and
prints its rows. With no argument it reads the default output file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := types.DefaultOutputFile
		if len(args) == 1 {
			path = args[0]
		}

		rows, err := tabular.ReadRows(path)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		tabular.FormatRows(rows, os.Stdout)
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output rows as JSON")

	rootCmd.AddCommand(inspectCmd)
}
