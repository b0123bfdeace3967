package aggregator

import (
	"crypto/sha256"
	"encoding/hex"

	"lobbyharvest-backend/lib/textutil"
)

// IdentityKey fingerprints a (firm, client) pair. Records whose names
// normalize to the same strings collapse to the same key regardless of
// casing, punctuation or corporate suffix variants, which is what lets
// records from different registries merge.
func IdentityKey(firmName, clientName string) string {
	combined := textutil.NormalizeName(firmName) + ":" + textutil.NormalizeName(clientName)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:6])
}
