package shape

// Truncate limits text to at most max runes. Longer text is cut to
// exactly max runes, the last three of which are an ellipsis. Text
// already within the limit is returned unchanged.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 0 {
		return ""
	}
	if max <= 3 {
		return "..."[:max]
	}
	return string(runes[:max-3]) + "..."
}
