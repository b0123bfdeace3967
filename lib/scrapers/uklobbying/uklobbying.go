package uklobbying

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"lobbyharvest-backend/lib/htmlutil"
	"lobbyharvest-backend/lib/telemetry"
	"lobbyharvest-backend/lib/textutil"
	"lobbyharvest-backend/services/aggregator"
)

var tracer = otel.Tracer("lobbyharvest.scrapers.uklobbying")

// Client scrapes the UK consultant lobbyists register. The search
// endpoint answers with JSON or HTML depending on deployment, so both
// shapes are handled.
type Client struct {
	baseUrl string
	http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://lobbying-register.uk
	BaseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://lobbying-register.uk"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetHeader("accept", "application/json, text/html, */*")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.uklobbying.http")

	return Client{baseUrl: baseUrl, http: client}
}

func (c Client) Name() string {
	return "uklobbying"
}

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", firmName).
		Get("/search")
	if err != nil {
		return nil, err
	}

	contentType := res.Header().Get("content-type")
	if strings.Contains(contentType, "application/json") {
		return ParseJSONResults(res.Body(), firmName)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	return ParseHTMLResults(doc, firmName), nil
}

type jsonEntry struct {
	ClientName   string `json:"client_name"`
	Client       string `json:"client"`
	Organisation string `json:"organisation"`
	Registrant   string `json:"registrant"`
	Number       string `json:"registration_number"`
	QuarterStart string `json:"quarter_start"`
	QuarterEnd   string `json:"quarter_end"`
}

func (e jsonEntry) clientName() string {
	if e.ClientName != "" {
		return e.ClientName
	}
	if e.Client != "" {
		return e.Client
	}
	return e.Organisation
}

// ParseJSONResults handles the API-shaped response: either a bare array
// or an object wrapping one under a well-known key.
func ParseJSONResults(body []byte, firmName string) ([]aggregator.RawRecord, error) {
	var entries []jsonEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, err
		}
		for _, key := range []string{"results", "data", "items", "clients"} {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, err
			}
			break
		}
	}

	var records []aggregator.RawRecord
	for _, e := range entries {
		clientName := e.clientName()
		if clientName == "" {
			continue
		}
		if e.Registrant != "" && !textutil.MatchName(e.Registrant, firmName) {
			continue
		}
		records = append(records, aggregator.RawRecord{
			FirmName:               firmName,
			FirmRegistrationNumber: e.Number,
			ClientName:             clientName,
			StartDate:              e.QuarterStart,
			EndDate:                e.QuarterEnd,
		})
	}
	return records, nil
}

// ParseHTMLResults walks a rendered search result page, following the
// register's convention of one list item or table row per declared client.
func ParseHTMLResults(doc *goquery.Document, firmName string) []aggregator.RawRecord {
	var records []aggregator.RawRecord
	seen := map[string]struct{}{}

	appendClient := func(clientName string) {
		clientName = strings.TrimSpace(clientName)
		if len(clientName) < 3 {
			return
		}
		if _, ok := seen[clientName]; ok {
			return
		}
		seen[clientName] = struct{}{}
		records = append(records, aggregator.RawRecord{
			FirmName:   firmName,
			ClientName: clientName,
		})
	}

	doc.Find(".client-name, [data-field=client], .result .client").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			appendClient(htmlutil.CleanText(n))
		}
	})

	// fall back to sections headed by "Clients"
	if len(records) == 0 {
		doc.Find("h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
			if !strings.Contains(strings.ToLower(heading.Text()), "client") {
				return
			}
			heading.NextUntil("h2, h3, h4").Find("li").Each(func(_ int, item *goquery.Selection) {
				for _, n := range item.Nodes {
					appendClient(htmlutil.CleanText(n))
				}
			})
		})
	}

	return records
}
