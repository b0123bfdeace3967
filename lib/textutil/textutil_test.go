package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Acme Inc.", "ACME"},
		{"Acme Inc", "ACME"},
		{"ACME", "ACME"},
		{"acme corporation", "ACME"},
		{"FTI Consulting LLC", "FTI CONSULTING"},
		{"  FTI   Consulting  ", "FTI CONSULTING"},
		{"O'Neill & Partners Ltd", "ONEILL PARTNERS"},
		{"Acme Holdings Ltd Inc", "ACME HOLDINGS"},
		{"Acme (LLC)", "ACME"},
		{"Société Générale", "SOCIÉTÉ GÉNÉRALE"},
		{"Plc", "PLC"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.input), "input: %q", test.input)
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Inc.",
		"Acme Holdings Ltd Inc",
		"Acme (LLC)",
		"FTI Consulting, Inc.",
		"plain name",
		"",
	}
	for _, s := range inputs {
		once := NormalizeName(s)
		require.Equal(t, once, NormalizeName(once), "input: %q", s)
	}
}

func TestNormalizeNameSuffixInsensitive(t *testing.T) {
	require.Equal(t, NormalizeName("ACME"), NormalizeName("Acme Inc."))
	require.Equal(t, NormalizeName("ACME"), NormalizeName("acme corp"))
	require.Equal(t, NormalizeName("ACME"), NormalizeName("Acme Corporation"))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("FTI Consulting LLC", "fti consulting"))
	require.True(t, MatchName("FTI Consulting Belgium", "FTI Consulting"))
	require.False(t, MatchName("Edelman", "FTI Consulting"))
	require.False(t, MatchName("", "FTI Consulting"))
}
