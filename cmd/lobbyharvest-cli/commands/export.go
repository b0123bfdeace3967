package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lobbyharvest-backend/lib/recordstore"
	"lobbyharvest-backend/lib/serviceutil"
	"lobbyharvest-backend/lib/sqliteutil"
)

var exportDb *string
var exportOutput *string
var exportOutputFile *string

func init() {
	exportDb = exportCmd.Flags().String("db", "results.db", "The database runs were archived to.")
	exportOutput = exportCmd.Flags().String("output", "table", "Output format: table, csv or json.")
	exportOutputFile = exportCmd.Flags().String("output-file", "", "Write csv/json output to this file. '-' writes to stdout.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <run id>",
	Short: "Re-exports an archived run's merged records without hitting the registries.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			serviceutil.Fatal("invalid run id", err)
		}

		switch *exportOutput {
		case "table", "csv", "json":
		default:
			serviceutil.Fatal("unknown output format", fmt.Errorf("%q is not one of table, csv, json", *exportOutput))
		}

		db, err := sqliteutil.OpenDB(recordstore.Schema, *exportDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		store := recordstore.NewStore(db)
		records, err := store.RunRecords(cmd.Context(), runId)
		if err != nil {
			serviceutil.Fatal("failed to read run records", err)
		}
		if len(records) == 0 {
			serviceutil.Fatal("run has no records", fmt.Errorf("no records stored for run %d", runId))
		}

		writeRecords(records, *exportOutput, *exportOutputFile)
	},
}
