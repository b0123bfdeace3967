package aggregator

// RawRecord is one source's report of a single firm-client relationship.
// Only the two names are mandatory; everything else depends on what the
// registry happens to publish. Dates are kept as strings since sources
// report them in locale-specific or partial forms.
type RawRecord struct {
	FirmName                 string `json:"firm_name"`
	FirmRegistrationNumber   string `json:"firm_registration_number,omitempty"`
	ClientName               string `json:"client_name"`
	ClientID                 string `json:"client_id,omitempty"`
	ClientRegistrationNumber string `json:"client_registration_number,omitempty"`
	StartDate                string `json:"start_date,omitempty"`
	EndDate                  string `json:"end_date,omitempty"`
}

// CanonicalRecord is the merged, deduplicated record for one identity key.
// The firm/client names keep the raw text of the first record seen for the
// key; normalization is for matching only and never rewrites display text.
type CanonicalRecord struct {
	Key string `json:"-"`
	RawRecord
}
