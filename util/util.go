package util

// Character classes for the scanner. The identifier alphabet of the language
// is plain ASCII, so these are deliberately narrower than the unicode package.

func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func IsUnderScore(r rune) bool {
	return r == '_'
}

func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func IsIdentStart(r rune) bool {
	return IsLetter(r) || IsUnderScore(r)
}

func IsIdentPart(r rune) bool {
	return IsLetter(r) || IsUnderScore(r) || IsDigit(r)
}

// IsInlineSpace reports whitespace that does not terminate a line. A carriage
// return belongs here because it only acts as part of a line break when a
// newline follows it directly.
func IsInlineSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v' || r == '\r'
}
