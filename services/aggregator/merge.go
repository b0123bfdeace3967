package aggregator

import "lobbyharvest-backend/lib/dateutil"

// Merge folds valid raw records into one canonical record per identity
// key. The first record seen for a key becomes the base and keeps its
// literal firm/client text; every later record for the key only reconciles
// fields:
//
//   - start_date: earliest valid ISO date wins
//   - end_date: latest valid ISO date wins
//   - identifiers: a later record can fill an empty field, never overwrite
//     a populated one
//
// Dates are normalized on the way in, so a canonical record carries ISO
// dates whenever any source's surface form parses; unparseable date text
// is preserved rather than dropped. The reconciled fields are independent
// of input order; only the base record's name text depends on which record
// arrived first. Malformed dates never fail the merge, they just stay out
// of reconciliation.
func Merge(records []RawRecord) []CanonicalRecord {
	merged := map[string]*CanonicalRecord{}
	var order []string

	for _, r := range records {
		key := IdentityKey(r.FirmName, r.ClientName)

		existing, ok := merged[key]
		if !ok {
			r.StartDate = dateutil.NormalizeDate(r.StartDate)
			r.EndDate = dateutil.NormalizeDate(r.EndDate)
			merged[key] = &CanonicalRecord{Key: key, RawRecord: r}
			order = append(order, key)
			continue
		}
		reconcile(existing, r)
	}

	out := make([]CanonicalRecord, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

func reconcile(existing *CanonicalRecord, r RawRecord) {
	existing.StartDate = earliestDate(existing.StartDate, r.StartDate)
	existing.EndDate = latestDate(existing.EndDate, r.EndDate)

	if existing.ClientID == "" && r.ClientID != "" {
		existing.ClientID = r.ClientID
	}
	if existing.ClientRegistrationNumber == "" && r.ClientRegistrationNumber != "" {
		existing.ClientRegistrationNumber = r.ClientRegistrationNumber
	}
	if existing.FirmRegistrationNumber == "" && r.FirmRegistrationNumber != "" {
		existing.FirmRegistrationNumber = r.FirmRegistrationNumber
	}
}

// ISO dates sort chronologically as strings, so min/max comparisons below
// are date comparisons.
func earliestDate(existing, incoming string) string {
	a := dateutil.NormalizeDate(existing)
	b := dateutil.NormalizeDate(incoming)
	aISO := dateutil.IsISO(a)
	bISO := dateutil.IsISO(b)

	switch {
	case aISO && bISO:
		if b < a {
			return b
		}
		return a
	case bISO:
		return b
	default:
		return existing
	}
}

func latestDate(existing, incoming string) string {
	a := dateutil.NormalizeDate(existing)
	b := dateutil.NormalizeDate(incoming)
	aISO := dateutil.IsISO(a)
	bISO := dateutil.IsISO(b)

	switch {
	case aISO && bISO:
		if b > a {
			return b
		}
		return a
	case bISO:
		return b
	default:
		return existing
	}
}
