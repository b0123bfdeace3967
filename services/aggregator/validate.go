package aggregator

import "errors"

var (
	ErrMissingFirmName   = errors.New("record is missing firm_name")
	ErrMissingClientName = errors.New("record is missing client_name")
)

// Validate reports why a record may not enter the merge. Records from
// imperfect sources routinely fail this; it is expected noise, not a run
// failure.
func (r RawRecord) Validate() error {
	if r.FirmName == "" {
		return ErrMissingFirmName
	}
	if r.ClientName == "" {
		return ErrMissingClientName
	}
	return nil
}

// Rejected pairs a dropped record with the reason it was dropped.
type Rejected struct {
	Record RawRecord
	Err    error
}

// FilterValid partitions records into those allowed into the merge and
// those rejected, so drops stay visible to the caller instead of being
// silently swallowed.
func FilterValid(records []RawRecord) ([]RawRecord, []Rejected) {
	var valid []RawRecord
	var rejected []Rejected
	for _, r := range records {
		if err := r.Validate(); err != nil {
			rejected = append(rejected, Rejected{Record: r, Err: err})
			continue
		}
		valid = append(valid, r)
	}
	return valid, rejected
}
