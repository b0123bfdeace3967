package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.ErrorIs(
		t,
		RawRecord{FirmName: "", ClientName: "X"}.Validate(),
		ErrMissingFirmName,
	)
	require.ErrorIs(
		t,
		RawRecord{FirmName: "X", ClientName: ""}.Validate(),
		ErrMissingClientName,
	)
	require.NoError(t, RawRecord{FirmName: "X", ClientName: "Y"}.Validate())
}

func TestFilterValid(t *testing.T) {
	valid, rejected := FilterValid([]RawRecord{
		{FirmName: "X", ClientName: "Y"},
		{FirmName: "", ClientName: "Y"},
		{FirmName: "X", ClientName: ""},
		{FirmName: "A", ClientName: "B"},
	})

	require.Len(t, valid, 2)
	require.Len(t, rejected, 2)
	require.ErrorIs(t, rejected[0].Err, ErrMissingFirmName)
	require.ErrorIs(t, rejected[1].Err, ErrMissingClientName)
}

func TestFilterValidEmpty(t *testing.T) {
	valid, rejected := FilterValid(nil)
	require.Empty(t, valid)
	require.Empty(t, rejected)
}
