package model

import "strings"

const (
	caseSensitiveIDLength   = 15
	caseInsensitiveIDLength = 18

	checksumAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"
)

// CaseSafeID returns the canonical 15-character, case-sensitive form of a
// platform record id. The 18-character form returned by some query surfaces
// only appends a checksum, so it is truncated. Any other input, including the
// empty string used for "absent", is returned unchanged. CaseSafeID is
// idempotent.
func CaseSafeID(raw string) string {
	if len(raw) == caseInsensitiveIDLength {
		return raw[:caseSensitiveIDLength]
	}
	return raw
}

// CaseInsensitiveID returns the 18-character form of an id. Ids that are not
// 15 or 18 characters long are returned unchanged.
func CaseInsensitiveID(id string) string {
	switch len(id) {
	case caseInsensitiveIDLength:
		return id
	case caseSensitiveIDLength:
	default:
		return id
	}

	var suffix strings.Builder
	suffix.Grow(3)
	for chunk := 0; chunk < 3; chunk++ {
		bits := 0
		for i := 0; i < 5; i++ {
			c := id[chunk*5+i]
			if c >= 'A' && c <= 'Z' {
				bits |= 1 << i
			}
		}
		suffix.WriteByte(checksumAlphabet[bits])
	}
	return id + suffix.String()
}

// SameID reports whether two ids, in any format, designate the same record.
func SameID(a, b string) bool {
	return CaseSafeID(a) == CaseSafeID(b)
}
