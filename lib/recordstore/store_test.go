package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lobbyharvest-backend/lib/testutil"
	"lobbyharvest-backend/services/aggregator"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "recordstore",
		DbSchema: Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		runs, err := store.Runs(ctx, "Acme Advocacy")
		require.NoError(t, err)
		require.Len(t, runs, 0)
	}

	report := aggregator.RunReport{
		FirmName: "Acme Advocacy",
		Sources: []aggregator.SourceResult{
			{Source: "fara", Records: []aggregator.RawRecord{{FirmName: "Acme Advocacy", ClientName: "Northwind"}}},
			{Source: "uklobbying", Err: errors.New("timeout")},
		},
		Rejected: []aggregator.Rejected{
			{Record: aggregator.RawRecord{FirmName: "Acme Advocacy"}, Err: aggregator.ErrMissingClientName},
		},
		Records: []aggregator.CanonicalRecord{
			{
				Key: "a1b2c3d4e5f6",
				RawRecord: aggregator.RawRecord{
					FirmName:   "Acme Advocacy",
					ClientName: "Northwind",
					StartDate:  "2023-01-01",
				},
			},
			{
				Key: "f6e5d4c3b2a1",
				RawRecord: aggregator.RawRecord{
					FirmName:   "Acme Advocacy",
					ClientName: "Fabrikam",
				},
			},
		},
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	runId, err := store.SaveRun(ctx, at, report)
	require.NoError(t, err)

	{
		runs, err := store.Runs(ctx, "Acme Advocacy")
		require.NoError(t, err)
		require.Len(t, runs, 1)
		require.Equal(t, runId, runs[0].Id)
		require.Equal(t, "Acme Advocacy", runs[0].FirmName)
		require.Equal(t, at.Unix(), runs[0].Time.Unix())
		// only sources that answered without error are recorded
		require.Equal(t, []string{"fara"}, runs[0].Sources)
		require.Equal(t, int64(1), runs[0].Rejected)
	}
	{
		records, err := store.RunRecords(ctx, runId)
		require.NoError(t, err)
		require.Equal(t, report.Records, records)
	}
	{
		runs, err := store.Runs(ctx, "Unknown Firm")
		require.NoError(t, err)
		require.Len(t, runs, 0)
	}
}

func TestStoreListsAllFirms(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "recordstore:all",
		DbSchema: Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.SaveRun(ctx, base, aggregator.RunReport{FirmName: "Acme Advocacy"})
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, base.Add(time.Hour), aggregator.RunReport{FirmName: "Fabrikam Affairs"})
	require.NoError(t, err)

	runs, err := store.Runs(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// most recent first
	require.Equal(t, "Fabrikam Affairs", runs[0].FirmName)
	require.Equal(t, "Acme Advocacy", runs[1].FirmName)
}
