package aggregator

import (
	"github.com/antzucaro/matchr"

	"lobbyharvest-backend/lib/textutil"
)

// NearMatch flags two canonical records whose client names are similar
// enough that they may be the same organization hiding behind formatting
// the normalizer doesn't strip (translations, abbreviations, typos).
type NearMatch struct {
	Left        string
	Right       string
	Correlation float64
}

// NearMatches compares every pair of canonical records and reports those
// whose normalized client names score at or above the threshold under
// JaroWinkler. Records sharing an identity key were already merged, so
// pairs here are review candidates, not automatic merges.
func NearMatches(records []CanonicalRecord, threshold float64) []NearMatch {
	var result []NearMatch
	matched := make(map[string]struct{})

	for i, left := range records {
		if _, ok := matched[left.Key]; ok {
			continue
		}

		var mostSimilarity float64
		var mostSimilar *CanonicalRecord

		for j := i + 1; j < len(records); j++ {
			right := records[j]
			if _, ok := matched[right.Key]; ok {
				continue
			}

			similarity := matchr.JaroWinkler(
				textutil.NormalizeName(left.ClientName),
				textutil.NormalizeName(right.ClientName),
				false,
			)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = &records[j]
			}
		}

		if mostSimilar != nil && mostSimilarity >= threshold {
			result = append(result, NearMatch{
				Left:        left.ClientName,
				Right:       mostSimilar.ClientName,
				Correlation: mostSimilarity,
			})
			matched[left.Key] = struct{}{}
			matched[mostSimilar.Key] = struct{}{}
		}
	}

	return result
}
