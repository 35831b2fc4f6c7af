package util

import "regexp"

// objectIDRegex matches the 24 hex character identifiers the content backend
// assigns to every stored document.
var objectIDRegex = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// IsObjectID reports whether s looks like a server assigned identifier
func IsObjectID(s string) bool {
	return objectIDRegex.MatchString(s)
}

const abbreviatedIDSuffixLength = 6

// AbbreviateID shortens a server identifier for text output. The tail is
// kept because backend ids share a timestamp prefix. Values that are not
// identifiers are returned unchanged.
func AbbreviateID(id string) string {
	if !IsObjectID(id) {
		return id
	}
	return "…" + id[len(id)-abbreviatedIDSuffixLength:]
}
