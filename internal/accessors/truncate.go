package accessors

// ellipsis joins the retained prefix and suffix of a truncated string.
const ellipsis = "..."

// TruncateMiddle shortens s to at most max bytes by keeping a prefix
// and suffix of the original joined by an ellipsis. Inputs at or below
// max are returned unchanged. Budgets too small to fit the ellipsis
// (three bytes or fewer) degrade to a bare prefix.
func TruncateMiddle(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return s[:max]
	}

	keep := max - len(ellipsis)
	head := (keep + 1) / 2
	tail := keep / 2
	return s[:head] + ellipsis + s[len(s)-tail:]
}
