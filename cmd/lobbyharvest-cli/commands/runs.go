package commands

import (
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lobbyharvest-backend/cmd/lobbyharvest-cli/utils"
	"lobbyharvest-backend/lib/recordstore"
	"lobbyharvest-backend/lib/serviceutil"
	"lobbyharvest-backend/lib/sqliteutil"
)

var runsDb *string

func init() {
	runsDb = runsCmd.Flags().String("db", "results.db", "The database runs were archived to.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [firm name]",
	Short: "Lists archived aggregation runs, optionally for one firm.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		firmName := ""
		if len(args) == 1 {
			firmName = args[0]
		}

		db, err := sqliteutil.OpenDB(recordstore.Schema, *runsDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		store := recordstore.NewStore(db)
		runs, err := store.Runs(cmd.Context(), firmName)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"id", "firm", "time", "sources", "rejected"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.Id,
				run.FirmName,
				run.Time.Format(time.DateTime),
				strings.Join(run.Sources, ", "),
				run.Rejected,
			})
		}
		t.Render()
	},
}
