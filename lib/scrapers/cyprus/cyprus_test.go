package cyprus_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"lobbyharvest-backend/lib/scrapers/cyprus"
)

const registerPage = `
<html><body>
<table>
	<tr>
		<td>A/A</td><td>Name</td><td>Type</td><td>Registration Date</td>
		<td>Registration Number</td><td>Areas</td><td>Clients</td><td>Contact</td>
	</tr>
	<tr>
		<td>1</td>
		<td>Acme Consulting Ltd</td>
		<td>Legal Entity</td>
		<td>15/03/2023</td>
		<td>MEL 42</td>
		<td>Energy, Health</td>
		<td>1. Northwind Energy Plc<br>2. Fabrikam Health<br>3. Contoso Shipping Ltd</td>
		<td>acme@example.com</td>
	</tr>
	<tr>
		<td>2</td>
		<td>Other Firm Ltd</td>
		<td>Legal Entity</td>
		<td>01/01/2022</td>
		<td>MEL 7</td>
		<td>Tourism</td>
		<td>Somebody Else Ltd</td>
		<td>other@example.com</td>
	</tr>
</table>
</body></html>
`

func TestParseRegister(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(registerPage))
	require.NoError(t, err)

	records := cyprus.ParseRegister(doc, "Acme Consulting")
	require.Len(t, records, 3)

	for _, r := range records {
		require.Equal(t, "Acme Consulting", r.FirmName)
		require.Equal(t, "MEL 42", r.FirmRegistrationNumber)
		require.Equal(t, "2023-03-15", r.StartDate)
	}
	require.Equal(t, "Northwind Energy Plc", records[0].ClientName)
	require.Equal(t, "Fabrikam Health", records[1].ClientName)
	require.Equal(t, "Contoso Shipping Ltd", records[2].ClientName)
}

func TestParseRegisterNoMatch(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(registerPage))
	require.NoError(t, err)

	records := cyprus.ParseRegister(doc, "Missing Firm")
	require.Empty(t, records)
}
