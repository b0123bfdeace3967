package cyprus

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"lobbyharvest-backend/lib/dateutil"
	"lobbyharvest-backend/lib/telemetry"
	"lobbyharvest-backend/lib/textutil"
	"lobbyharvest-backend/services/aggregator"
)

var tracer = otel.Tracer("lobbyharvest.scrapers.cyprus")

// Client scrapes the Cypriot IAAC lobbying registry, a single Domino
// notes form rendering the whole register as one table. Column layout:
// number, firm, type, registration date, registration number, areas of
// interest, clients, then contact columns.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://www.iaac.org.cy
	BaseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://www.iaac.org.cy"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.cyprus.http")

	return Client{http: client}
}

func (c Client) Name() string {
	return "cyprus"
}

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/iaac/iaac.nsf/table3_el/table3_el?openform")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	return ParseRegister(doc, firmName), nil
}

var numberedItemRegex = regexp.MustCompile(`^\d+\.\s*`)

// ParseRegister scans the register table for the queried firm and splits
// its clients cell, which packs one client per line, often numbered.
func ParseRegister(doc *goquery.Document, firmName string) []aggregator.RawRecord {
	var records []aggregator.RawRecord

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellLines(cell))
		})
		if len(cells) < 7 {
			return
		}

		if !textutil.MatchName(cells[1], firmName) {
			return
		}

		registrationDate := dateutil.NormalizeDate(strings.TrimSpace(strings.ReplaceAll(cells[3], "\n", " ")))
		registrationNumber := strings.TrimSpace(strings.ReplaceAll(cells[4], "\n", " "))

		for _, line := range strings.Split(cells[6], "\n") {
			clientName := numberedItemRegex.ReplaceAllString(strings.TrimSpace(line), "")
			if len(clientName) <= 2 {
				continue
			}
			records = append(records, aggregator.RawRecord{
				FirmName:               firmName,
				FirmRegistrationNumber: registrationNumber,
				ClientName:             clientName,
				StartDate:              registrationDate,
			})
		}
	})

	return records
}

// cellLines renders a cell's text with <br> and block children as line
// breaks, which is how the clients column separates entries.
func cellLines(cell *goquery.Selection) string {
	html, err := cell.Html()
	if err != nil {
		return cell.Text()
	}
	html = regexp.MustCompile(`(?i)<br\s*/?>`).ReplaceAllString(html, "\n")
	stripped, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cell.Text()
	}
	return stripped.Text()
}
