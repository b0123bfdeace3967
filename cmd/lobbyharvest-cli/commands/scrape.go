package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lobbyharvest-backend/cmd/lobbyharvest-cli/utils"
	"lobbyharvest-backend/lib/scrapers"
	"lobbyharvest-backend/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <source> <firm name>",
	Short: "Queries a single registry and prints its raw records, without validation or merging.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		source, ok := scrapers.SourceByName(args[0])
		if !ok {
			serviceutil.Fatal("unknown source", fmt.Errorf("%q is not a known source, see 'sources'", args[0]))
		}
		firmName := args[1]

		t1 := time.Now()
		records, err := source.FetchClients(cmd.Context(), firmName)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}
		slog.Info("scrape time", "seconds", t2.Sub(t1).Seconds(), "records", len(records))

		t := utils.NewTable()
		t.AppendHeader(table.Row{"firm", "firm reg #", "client", "client id", "client reg #", "start", "end"})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.FirmName, r.FirmRegistrationNumber,
				r.ClientName, r.ClientID, r.ClientRegistrationNumber,
				r.StartDate, r.EndDate,
			})
		}
		t.Render()
	},
}
