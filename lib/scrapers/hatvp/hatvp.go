package hatvp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"lobbyharvest-backend/lib/telemetry"
	"lobbyharvest-backend/lib/textutil"
	"lobbyharvest-backend/services/aggregator"
)

var tracer = otel.Tracer("lobbyharvest.scrapers.hatvp")

// Client reads the French HATVP repertoire through its open-data JSON
// export rather than the JavaScript search UI. Clients of a consultancy
// are published as "mandants" on each declared activity.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://www.hatvp.fr
	BaseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.hatvp.fr"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 60)
	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.hatvp.http")

	return Client{http: client}
}

func (c Client) Name() string {
	return "hatvp"
}

type publication struct {
	Denomination string `json:"denomination"`
	NationalID   string `json:"identifiantNational"`
	Activities   []struct {
		Mandants []struct {
			Denomination string `json:"denomination"`
			Identifiant  string `json:"identifiant"`
			DateDebut    string `json:"dateDebut"`
			DateFin      string `json:"dateFin"`
		} `json:"mandants"`
	} `json:"activites"`
}

type repertoire struct {
	Publications []publication `json:"publications"`
}

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/agora/opendata/agora_repertoire_opendata.json")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to fetch repertoire export: status %d", res.StatusCode())
	}

	return ParseRepertoire(res.Body(), firmName)
}

// ParseRepertoire filters the full repertoire export down to the queried
// firm's declared mandants.
func ParseRepertoire(body []byte, firmName string) ([]aggregator.RawRecord, error) {
	var data repertoire
	err := json.Unmarshal(body, &data)
	if err != nil {
		return nil, err
	}

	var records []aggregator.RawRecord
	seen := map[string]struct{}{}

	for _, pub := range data.Publications {
		if !textutil.MatchName(pub.Denomination, firmName) {
			continue
		}

		for _, activity := range pub.Activities {
			for _, mandant := range activity.Mandants {
				if mandant.Denomination == "" {
					continue
				}
				dedupKey := mandant.Denomination + "|" + mandant.DateDebut
				if _, ok := seen[dedupKey]; ok {
					continue
				}
				seen[dedupKey] = struct{}{}

				records = append(records, aggregator.RawRecord{
					FirmName:                 pub.Denomination,
					FirmRegistrationNumber:   pub.NationalID,
					ClientName:               mandant.Denomination,
					ClientRegistrationNumber: mandant.Identifiant,
					StartDate:                mandant.DateDebut,
					EndDate:                  mandant.DateFin,
				})
			}
		}
	}

	return records, nil
}
