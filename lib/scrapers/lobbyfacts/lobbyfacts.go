package lobbyfacts

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"lobbyharvest-backend/lib/htmlutil"
	"lobbyharvest-backend/lib/telemetry"
	"lobbyharvest-backend/lib/textutil"
	"lobbyharvest-backend/services/aggregator"
)

var tracer = otel.Tracer("lobbyharvest.scrapers.lobbyfacts")

// Client scrapes the EU Transparency Register mirror at lobbyfacts.eu.
// Datacard pages list an organisation's declared clients as plain html
// lists with no stable markup, so extraction is heuristic.
type Client struct {
	baseUrl     string
	datacardUrl string
	http        *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://www.lobbyfacts.eu
	BaseUrl string
	// DatacardUrl pins the firm's datacard page directly. When empty the
	// client locates it through the site search.
	DatacardUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.lobbyfacts.eu"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.lobbyfacts.http")

	return Client{
		baseUrl:     baseUrl,
		datacardUrl: opts.DatacardUrl,
		http:        client,
	}
}

func (c Client) Name() string {
	return "lobbyfacts"
}

var ridRegex = regexp.MustCompile(`rid=([^&]+)`)

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	datacard := c.datacardUrl
	if datacard == "" {
		found, err := c.findDatacard(ctx, firmName)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to locate datacard")
			return nil, err
		}
		datacard = found
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(datacard)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to fetch datacard: status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	firmID := ""
	groups := ridRegex.FindStringSubmatch(datacard)
	if len(groups) == 2 {
		firmID = groups[1]
	}

	return ParseDatacard(doc, firmName, firmID), nil
}

func (c Client) findDatacard(ctx context.Context, firmName string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", firmName).
		Get("/search")
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return "", err
	}

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		if !strings.Contains(anchor.Href, "datacard") {
			continue
		}
		if textutil.MatchName(anchor.Name, firmName) {
			return anchor.Href, nil
		}
	}

	return "", fmt.Errorf("no datacard found for '%s'", firmName)
}

var navigationWords = []string{"search", "about", "disclaimer", "how to", "info", "people", "employment"}
var skipWords = []string{"search", "about", "disclaimer", "cabinet", "member"}

func containsAny(text string, words []string) bool {
	text = strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ParseDatacard pulls client names out of a datacard page. Client lists
// are the longer ul/ol blocks; short lists and anything that reads like
// site navigation is skipped.
func ParseDatacard(doc *goquery.Document, firmName, firmID string) []aggregator.RawRecord {
	var records []aggregator.RawRecord
	seen := map[string]struct{}{}

	doc.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		items := list.Find("li")
		if items.Length() < 3 {
			return
		}

		looksLikeClients := false
		items.EachWithBreak(func(i int, item *goquery.Selection) bool {
			if i >= 3 {
				return false
			}
			for _, n := range item.Nodes {
				text := htmlutil.CleanText(n)
				if len(text) > 10 && !containsAny(text, navigationWords) {
					looksLikeClients = true
					return false
				}
			}
			return true
		})
		if !looksLikeClients {
			return
		}

		items.Each(func(_ int, item *goquery.Selection) {
			for _, n := range item.Nodes {
				clientName := htmlutil.CleanText(n)
				if len(clientName) <= 5 || containsAny(clientName, skipWords) {
					continue
				}
				if _, ok := seen[clientName]; ok {
					continue
				}
				seen[clientName] = struct{}{}

				records = append(records, aggregator.RawRecord{
					FirmName:               firmName,
					FirmRegistrationNumber: firmID,
					ClientName:             clientName,
				})
			}
		})
	})

	return records
}
