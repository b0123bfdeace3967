package fara

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"regexp"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"lobbyharvest-backend/lib/htmlutil"
	"lobbyharvest-backend/lib/telemetry"
	"lobbyharvest-backend/lib/textutil"
	"lobbyharvest-backend/services/aggregator"
)

var tracer = otel.Tracer("lobbyharvest.scrapers.fara")

// Client scrapes the US FARA registry at efile.fara.gov. The site is an
// Oracle APEX application, so every request has to carry the instance id
// scraped off the landing page.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// BaseUrl defaults to https://efile.fara.gov/ords/fara
	BaseUrl string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://efile.fara.gov/ords/fara"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetTimeout(time.Second * 30)
	// the registry serves an incomplete certificate chain
	client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "lobbyharvest.scrapers.fara.http")

	return Client{http: client}
}

func (c Client) Name() string {
	return "fara"
}

var apexInstanceRegex = regexp.MustCompile(`p_instance["']?\s*[:=]\s*["']?(\d+)`)

// ExtractInstanceID finds the APEX session instance in a landing page.
func ExtractInstanceID(page string) string {
	groups := apexInstanceRegex.FindStringSubmatch(page)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

func (c Client) FetchClients(ctx context.Context, firmName string) ([]aggregator.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "FetchClients")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/f?p=1381:200")
	if err != nil {
		return nil, err
	}

	instance := ExtractInstanceID(res.String())
	if instance == "" {
		err := fmt.Errorf("could not find APEX instance id")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err = c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/f?p=1381:200:%s::NO:200:P200_SEARCH:%s", instance, firmName))
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("search failed: status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	return ParseReport(doc, firmName), nil
}

// ParseReport walks the APEX interactive report table. Observed column
// order: registrant, registration number, foreign principal (the client),
// registration date, termination date.
func ParseReport(doc *goquery.Document, firmName string) []aggregator.RawRecord {
	var records []aggregator.RawRecord

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		cells := htmlutil.CellTexts(row)
		if len(cells) < 3 {
			return
		}

		registrant := cells[0]
		if !textutil.MatchName(registrant, firmName) {
			return
		}
		clientName := cells[2]
		if clientName == "" {
			return
		}

		record := aggregator.RawRecord{
			FirmName:               registrant,
			FirmRegistrationNumber: cells[1],
			ClientName:             clientName,
		}
		if len(cells) > 3 {
			record.StartDate = cells[3]
		}
		if len(cells) > 4 {
			record.EndDate = cells[4]
		}
		records = append(records, record)
	})

	return records
}
