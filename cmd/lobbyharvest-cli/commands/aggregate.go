package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lobbyharvest-backend/cmd/lobbyharvest-cli/utils"
	"lobbyharvest-backend/lib/configutil"
	"lobbyharvest-backend/lib/recordstore"
	"lobbyharvest-backend/lib/scrapers"
	"lobbyharvest-backend/lib/serviceutil"
	"lobbyharvest-backend/lib/sqliteutil"
	"lobbyharvest-backend/services/aggregator"
)

var aggregateOutput *string
var aggregateOutputFile *string
var aggregateDb *string
var aggregateEmailTo *string
var aggregateReview *float64

func init() {
	aggregateOutput = aggregateCmd.Flags().String("output", "table", "Output format: table, csv or json.")
	aggregateOutputFile = aggregateCmd.Flags().String("output-file", "", "Write csv/json output to this file instead of a timestamped one. '-' writes to stdout.")
	aggregateDb = aggregateCmd.Flags().String("db", "", "Also archive the run to this sqlite database.")
	aggregateEmailTo = aggregateCmd.Flags().String("email-to", "", "Mail the finished report to this address, using smtp.json5 for credentials.")
	aggregateReview = aggregateCmd.Flags().Float64("review", 0, "Report near-matching client names at or above this similarity (0 disables, 0.9 is a sane start).")
	rootCmd.AddCommand(aggregateCmd)
}

func writeRecords(records []aggregator.CanonicalRecord, format, outputFile string) {
	if format == "table" {
		t := utils.NewTable()
		t.AppendHeader(table.Row{"key", "client", "client id", "client reg #", "start", "end"})
		for _, r := range records {
			t.AppendRow(table.Row{r.Key, r.ClientName, r.ClientID, r.ClientRegistrationNumber, r.StartDate, r.EndDate})
		}
		t.Render()
		return
	}

	write := aggregator.WriteCSV
	if format == "json" {
		write = aggregator.WriteJSON
	}

	if outputFile == "-" {
		err := write(os.Stdout, records)
		if err != nil {
			serviceutil.Fatal("failed to write output", err)
		}
		return
	}

	if outputFile == "" {
		outputFile = aggregator.OutputFilename(records[0].FirmName, format, time.Now())
	}
	f, err := os.Create(outputFile)
	if err != nil {
		serviceutil.Fatal("failed to create output file", err)
	}
	defer f.Close()

	err = write(f, records)
	if err != nil {
		serviceutil.Fatal("failed to write output", err)
	}
	slog.Info("wrote output", "file", outputFile)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <firm name>",
	Short: "Queries every registry for a firm's clients and merges the results.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		firmName := args[0]

		switch *aggregateOutput {
		case "table", "csv", "json":
		default:
			serviceutil.Fatal("unknown output format", fmt.Errorf("%q is not one of table, csv, json", *aggregateOutput))
		}

		svc := aggregator.NewService(scrapers.DefaultSources())

		t1 := time.Now()
		report := svc.Aggregate(cmd.Context(), firmName)
		t2 := time.Now()
		slog.Info("aggregation time", "seconds", t2.Sub(t1).Seconds())

		for _, res := range report.Sources {
			if res.Err != nil {
				slog.Warn("source failed", "source", res.Source, "err", res.Err)
			}
		}

		if len(report.Records) == 0 {
			slog.Info("no client records found", "firm", firmName)
		} else {
			writeRecords(report.Records, *aggregateOutput, *aggregateOutputFile)
		}

		if *aggregateReview > 0 {
			matches := aggregator.NearMatches(report.Records, *aggregateReview)
			if len(matches) > 0 {
				fmt.Println("\nPossible duplicate clients to review:")
				t := utils.NewTable()
				t.AppendHeader(table.Row{"client", "similar to", "correlation"})
				for _, m := range matches {
					t.AppendRow(table.Row{m.Left, m.Right, fmt.Sprintf("%.3f", m.Correlation)})
				}
				t.Render()
			}
		}

		if *aggregateDb != "" {
			db, err := sqliteutil.OpenDB(recordstore.Schema, *aggregateDb)
			if err != nil {
				serviceutil.Fatal("failed to open db", err)
			}
			defer db.Close()

			store := recordstore.NewStore(db)
			runId, err := store.SaveRun(cmd.Context(), time.Now(), report)
			if err != nil {
				serviceutil.Fatal("failed to archive run", err)
			}
			slog.Info("archived run", "id", runId, "db", *aggregateDb)
		}

		if *aggregateEmailTo != "" {
			cfg, err := configutil.ReadConfig[aggregator.SmtpConfig]("smtp.json5")
			if err != nil {
				serviceutil.Fatal("failed to read smtp config", err)
			}
			err = aggregator.MailReport(cmd.Context(), cfg, *aggregateEmailTo, report)
			if err != nil {
				serviceutil.Fatal("failed to mail report", err)
			}
			slog.Info("mailed report", "to", *aggregateEmailTo)
		}
	},
}
