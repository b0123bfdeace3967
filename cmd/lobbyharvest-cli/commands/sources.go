package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lobbyharvest-backend/cmd/lobbyharvest-cli/utils"
	"lobbyharvest-backend/lib/scrapers"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists the registries the aggregator queries.",
	Run: func(cmd *cobra.Command, args []string) {
		t := utils.NewTable()
		t.AppendHeader(table.Row{"name"})
		for _, source := range scrapers.DefaultSources() {
			t.AppendRow(table.Row{source.Name()})
		}
		t.Render()
	},
}
