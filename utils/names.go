package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxDisplayNameLen = 64

// NormalizeDisplayName collapses whitespace, NFC-normalizes and truncates a
// player-supplied display name. Returns "" for effectively empty input so
// callers can fall back to the account ID.
func NormalizeDisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = norm.NFC.String(name)
	if len(name) > maxDisplayNameLen {
		name = name[:maxDisplayNameLen]
	}
	return name
}
