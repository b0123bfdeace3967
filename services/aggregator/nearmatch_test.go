package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func canonical(firm, client string) CanonicalRecord {
	return CanonicalRecord{
		Key:       IdentityKey(firm, client),
		RawRecord: RawRecord{FirmName: firm, ClientName: client},
	}
}

func TestNearMatches(t *testing.T) {
	records := []CanonicalRecord{
		canonical("FTI Consulting", "ACME Holdings"),
		canonical("FTI Consulting", "ACME Holdings Group"),
		canonical("FTI Consulting", "Volkswagen AG"),
	}

	matches := NearMatches(records, 0.92)
	require.Len(t, matches, 1)
	require.Equal(t, "ACME Holdings", matches[0].Left)
	require.Equal(t, "ACME Holdings Group", matches[0].Right)
	require.GreaterOrEqual(t, matches[0].Correlation, 0.92)
}

func TestNearMatchesNoFalsePairs(t *testing.T) {
	records := []CanonicalRecord{
		canonical("FTI Consulting", "Acme Corp"),
		canonical("FTI Consulting", "Volkswagen AG"),
		canonical("FTI Consulting", "Médecins Sans Frontières"),
	}
	require.Empty(t, NearMatches(records, 0.92))
}

func TestNearMatchesEmpty(t *testing.T) {
	require.Empty(t, NearMatches(nil, 0.92))
	require.Empty(t, NearMatches([]CanonicalRecord{canonical("F", "C")}, 0.92))
}
