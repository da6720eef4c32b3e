package domain

import "regexp"

var (
	btcLegacyRe = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32Re = regexp.MustCompile(`^bc1[ac-hj-np-z02-9]{39,59}$`)
	ethAddrRe   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// IsBTCAddress accepts legacy/P2SH (base58, leading 1 or 3) and SegWit
// bech32 (bc1 prefix) address shapes. Syntactic check only; no checksum.
func IsBTCAddress(s string) bool {
	return btcLegacyRe.MatchString(s) || btcBech32Re.MatchString(s)
}

// IsETHAddress accepts 0x followed by exactly 40 hex characters.
func IsETHAddress(s string) bool {
	return ethAddrRe.MatchString(s)
}

// DetectAddressAsset classifies a destination string as a crypto address.
// Returns false when the string matches neither shape (e.g. a card number).
func DetectAddressAsset(s string) (Asset, bool) {
	switch {
	case IsBTCAddress(s):
		return AssetBTC, true
	case IsETHAddress(s):
		return AssetETH, true
	}
	return "", false
}
