package util

// Truncate shortens s to at most max runes, appending a single ellipsis rune
// when anything was cut. Counting runes keeps multi-byte titles intact.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
