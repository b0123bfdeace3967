// Package recordstore persists aggregation runs so past results can be
// listed and re-exported without hitting the registries again.
package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"lobbyharvest-backend/services/aggregator"
)

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    firm_name TEXT NOT NULL,
    time INTEGER NOT NULL,
    sources TEXT NOT NULL,
    rejected INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_firm_name ON runs(firm_name);

CREATE TABLE IF NOT EXISTS run_records (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    firm_name TEXT NOT NULL,
    firm_registration_number TEXT NOT NULL,
    client_name TEXT NOT NULL,
    client_id TEXT NOT NULL,
    client_registration_number TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_records_run_id ON run_records(run_id);
`

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Run is the stored header of one aggregation run. Sources holds the
// names of the sources that answered without error.
type Run struct {
	Id       int64
	FirmName string
	Time     time.Time
	Sources  []string
	Rejected int64
}

// SaveRun writes the run header and its merged records in one
// transaction and returns the new run id.
func (s Store) SaveRun(ctx context.Context, at time.Time, report aggregator.RunReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var sources []string
	for _, res := range report.Sources {
		if res.Err == nil {
			sources = append(sources, res.Source)
		}
	}
	sourcesJson, err := json.Marshal(sources)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (firm_name, time, sources, rejected) VALUES (?, ?, ?, ?)`,
		report.FirmName, at.Unix(), string(sourcesJson), len(report.Rejected),
	)
	if err != nil {
		return 0, err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, record := range report.Records {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_records (
				run_id, key,
				firm_name, firm_registration_number,
				client_name, client_id, client_registration_number,
				start_date, end_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runId, record.Key,
			record.FirmName, record.FirmRegistrationNumber,
			record.ClientName, record.ClientID, record.ClientRegistrationNumber,
			record.StartDate, record.EndDate,
		)
		if err != nil {
			return 0, err
		}
	}

	return runId, tx.Commit()
}

// Runs lists stored run headers for a firm, most recent first. An empty
// firm name lists every run.
func (s Store) Runs(ctx context.Context, firmName string) ([]Run, error) {
	query := `SELECT id, firm_name, time, sources, rejected FROM runs ORDER BY time DESC`
	args := []any{}
	if firmName != "" {
		query = `SELECT id, firm_name, time, sources, rejected FROM runs WHERE firm_name = ? ORDER BY time DESC`
		args = append(args, firmName)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var unix int64
		var sourcesJson string
		err := rows.Scan(&run.Id, &run.FirmName, &unix, &sourcesJson, &run.Rejected)
		if err != nil {
			return nil, err
		}
		run.Time = time.Unix(unix, 0)
		err = json.Unmarshal([]byte(sourcesJson), &run.Sources)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRecords returns the merged records of one run in their stored order.
func (s Store) RunRecords(ctx context.Context, runId int64) ([]aggregator.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT key,
			firm_name, firm_registration_number,
			client_name, client_id, client_registration_number,
			start_date, end_date
		FROM run_records WHERE run_id = ? ORDER BY rowid`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []aggregator.CanonicalRecord
	for rows.Next() {
		var record aggregator.CanonicalRecord
		err := rows.Scan(
			&record.Key,
			&record.FirmName, &record.FirmRegistrationNumber,
			&record.ClientName, &record.ClientID, &record.ClientRegistrationNumber,
			&record.StartDate, &record.EndDate,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
