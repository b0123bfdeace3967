package aggregator

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lobbyharvest.services.aggregator")

// Source is one registry scraper. Implementations live under lib/scrapers
// and are registered statically; the orchestrator never discovers them at
// runtime.
type Source interface {
	Name() string
	FetchClients(ctx context.Context, firmName string) ([]RawRecord, error)
}

// SourceResult is the independent outcome of one source during a run:
// either a list of raw records or an error, never both.
type SourceResult struct {
	Source  string
	Records []RawRecord
	Err     error
}

// RunReport is everything a single aggregation run produced, including
// the per-source outcomes and the records dropped by validation.
type RunReport struct {
	FirmName string
	Sources  []SourceResult
	Rejected []Rejected
	Records  []CanonicalRecord
}

type Service struct {
	sources []Source
}

func NewService(sources []Source) Service {
	return Service{sources: sources}
}

// Aggregate queries every source concurrently for the firm, gathers all
// outcomes, then validates and merges the concatenated successes in one
// synchronous pass. A failed source degrades to zero records; it never
// aborts the run. Zero records across all sources is a normal outcome.
func (s Service) Aggregate(ctx context.Context, firmName string) RunReport {
	ctx, span := tracer.Start(ctx, "Aggregate")
	defer span.End()
	span.SetAttributes(attribute.String("firm_name", firmName))

	results := make([]SourceResult, len(s.sources))
	wg := sync.WaitGroup{}

	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			slog.InfoContext(ctx, "running source", "source", src.Name(), "firm", firmName)
			records, err := src.FetchClients(ctx, firmName)
			if err != nil {
				slog.ErrorContext(ctx, "source failed", "source", src.Name(), "err", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "one or more sources failed")
				results[i] = SourceResult{Source: src.Name(), Err: err}
				return
			}

			slog.InfoContext(ctx, "source finished", "source", src.Name(), "records", len(records))
			results[i] = SourceResult{Source: src.Name(), Records: records}
		}(i, src)
	}

	wg.Wait()

	var all []RawRecord
	for _, res := range results {
		all = append(all, res.Records...)
	}

	valid, rejected := FilterValid(all)
	if len(rejected) > 0 {
		slog.WarnContext(ctx, "dropped invalid records", "count", len(rejected))
	}

	merged := Merge(valid)
	slog.InfoContext(ctx, "aggregation finished",
		"firm", firmName,
		"raw", len(all),
		"valid", len(valid),
		"unique", len(merged),
	)
	span.SetAttributes(attribute.Int("unique_records", len(merged)))

	return RunReport{
		FirmName: firmName,
		Sources:  results,
		Rejected: rejected,
		Records:  merged,
	}
}
