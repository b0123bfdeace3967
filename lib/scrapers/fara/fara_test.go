package fara_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"lobbyharvest-backend/lib/scrapers/fara"
	"lobbyharvest-backend/services/aggregator"
)

func TestExtractInstanceID(t *testing.T) {
	page := `<script>
var apex = {};
apex.jQuery = jQuery;
{"p_instance":"13553466808741","p_flow_id":"1381"}
</script>`
	require.Equal(t, "13553466808741", fara.ExtractInstanceID(page))

	require.Equal(t, "", fara.ExtractInstanceID("<html><body>no session here</body></html>"))
}

const reportPage = `
<html><body>
<table class="a-IRR-table">
	<tr><th>Registrant</th><th>Reg #</th><th>Foreign Principal</th><th>Registration Date</th><th>Termination Date</th></tr>
	<tr><td>FTI Government Affairs LLC</td><td>5774</td><td>Republic of Exampleland</td><td>01/15/2021</td><td></td></tr>
	<tr><td>FTI Government Affairs LLC</td><td>5774</td><td>Exampleland Trade Board</td><td>03/02/2022</td><td>03/02/2023</td></tr>
	<tr><td>Other Registrant Inc</td><td>6001</td><td>Somebody Else</td><td>05/05/2020</td><td></td></tr>
</table>
</body></html>
`

func TestParseReport(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(reportPage))
	require.NoError(t, err)

	records := fara.ParseReport(doc, "FTI Government Affairs")
	require.Equal(t, []aggregator.RawRecord{
		{
			FirmName:               "FTI Government Affairs LLC",
			FirmRegistrationNumber: "5774",
			ClientName:             "Republic of Exampleland",
			StartDate:              "01/15/2021",
		},
		{
			FirmName:               "FTI Government Affairs LLC",
			FirmRegistrationNumber: "5774",
			ClientName:             "Exampleland Trade Board",
			StartDate:              "03/02/2022",
			EndDate:                "03/02/2023",
		},
	}, records)
}

func TestParseReportNoMatches(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(reportPage))
	require.NoError(t, err)

	records := fara.ParseReport(doc, "Unregistered Consulting Group")
	require.Empty(t, records)
}
