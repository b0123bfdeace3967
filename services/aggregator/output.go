package aggregator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Column order is the union of fields any source can report; fields a
// record lacks are written as empty cells.
var csvHeader = []string{
	"firm_name",
	"firm_registration_number",
	"client_name",
	"client_id",
	"client_registration_number",
	"start_date",
	"end_date",
}

func WriteCSV(w io.Writer, records []CanonicalRecord) error {
	out := csv.NewWriter(w)
	err := out.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, r := range records {
		err := out.Write([]string{
			r.FirmName,
			r.FirmRegistrationNumber,
			r.ClientName,
			r.ClientID,
			r.ClientRegistrationNumber,
			r.StartDate,
			r.EndDate,
		})
		if err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func WriteJSON(w io.Writer, records []CanonicalRecord) error {
	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

// OutputFilename names a run's output file the way runs are archived:
// <firm>_<timestamp>.<ext> with filesystem-hostile characters replaced.
func OutputFilename(firmName, ext string, now time.Time) string {
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(firmName)
	return fmt.Sprintf("%s_%s.%s", safe, now.Format("20060102_150405"), ext)
}
