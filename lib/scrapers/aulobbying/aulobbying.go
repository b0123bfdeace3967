package aulobbying

import (
	"bytes"
	"context"
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

var tracer = otel.Tracer("lobbyharvest.scrapers.aulobbying")

// Client scrapes the Australian Government Register of Lobbyists. Firm
// detail pages list third-party clients in tables or plain lists under a
// "Clients" heading.
type Client struct {
	baseUrl string
	http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://lobbyists.ag.gov.au
	BaseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://lobbyists.ag.gov.au"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.aulobbying.http")

	return Client{baseUrl: baseUrl, http: client}
}

func (c Client) Name() string {
	return "aulobbying"
}

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("search", firmName).
		Get("/register")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	// search results link through to one detail page per lobbyist
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		if !textutil.MatchName(anchor.Name, firmName) {
			continue
		}

		link := anchor.Href
		if !strings.HasPrefix(link, "http") {
			link = c.baseUrl + link
		}
		detailRes, err := c.http.R().
			SetContext(ctx).
			Get(link)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch detail page")
			continue
		}

		detailDoc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(detailRes.Body()))
		if err != nil {
			continue
		}
		records := ParseDetailPage(detailDoc, firmName)
		if len(records) > 0 {
			return records, nil
		}
	}

	return nil, nil
}

var abnRegex = regexp.MustCompile(`\b\d{2}\s?\d{3}\s?\d{3}\s?\d{3}\b`)

// ParseDetailPage extracts clients from a lobbyist detail page: every
// table or list that follows a heading mentioning clients, until the next
// heading. The firm's ABN is picked out of the page body when present.
func ParseDetailPage(doc *goquery.Document, firmName string) []aggregator.RawRecord {
	var records []aggregator.RawRecord

	firmABN := ""
	if match := abnRegex.FindString(doc.Text()); match != "" {
		firmABN = strings.ReplaceAll(match, " ", "")
	}

	appendRecord := func(clientName, clientABN, startDate, endDate string) {
		clientName = strings.TrimSpace(clientName)
		if len(clientName) <= 3 {
			return
		}
		records = append(records, aggregator.RawRecord{
			FirmName:                 firmName,
			FirmRegistrationNumber:   firmABN,
			ClientName:               clientName,
			ClientRegistrationNumber: clientABN,
			StartDate:                startDate,
			EndDate:                  endDate,
		})
	}

	doc.Find("h2, h3, h4, strong").Each(func(_ int, heading *goquery.Selection) {
		if !strings.Contains(strings.ToLower(heading.Text()), "client") {
			return
		}

		heading.NextUntil("h2, h3, h4").Each(func(_ int, sibling *goquery.Selection) {
			if sibling.Is("table") {
				sibling.Find("tr").Each(func(i int, row *goquery.Selection) {
					if i == 0 && row.Find("th").Length() > 0 {
						return
					}
					cells := htmlutil.CellTexts(row)
					if len(cells) == 0 || cells[0] == "" {
						return
					}
					var clientABN, startDate, endDate string
					if len(cells) > 1 {
						clientABN = cells[1]
					}
					if len(cells) > 2 {
						startDate = cells[2]
					}
					if len(cells) > 3 {
						endDate = cells[3]
					}
					appendRecord(cells[0], clientABN, startDate, endDate)
				})
				return
			}

			sibling.Find("li").Each(func(_ int, item *goquery.Selection) {
				for _, n := range item.Nodes {
					appendRecord(htmlutil.CleanText(n), "", "", "")
				}
			})
		})
	})

	return records
}
