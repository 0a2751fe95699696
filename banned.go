package vocab

import "strings"

// BannedCodes is a set of code ids excluded from all aggregation
type BannedCodes map[uint32]struct{}

// Has returns true iff the given code is banned. Safe to call on a nil set.
func (b BannedCodes) Has(code uint32) bool {
	_, ok := b[code]
	return ok
}

// Add bans the given code
func (b BannedCodes) Add(code uint32) {
	b[code] = struct{}{}
}

// CodeNames resolves a code id to its display name, returning false when the
// code is unknown
type CodeNames func(code uint32) (string, bool)

// BanPrefix bans every code in [0, numCodes) whose display name starts with
// the given prefix. Site-specific observation codes are typically excluded
// from vocabularies this way.
func BanPrefix(names CodeNames, numCodes uint32, prefix string) BannedCodes {
	banned := make(BannedCodes)
	for code := uint32(0); code < numCodes; code++ {
		if name, ok := names(code); ok && strings.HasPrefix(name, prefix) {
			banned.Add(code)
		}
	}
	return banned
}
