package match

// Levenshtein computes the edit distance between two strings: the minimum
// number of single byte insertions, deletions or substitutions.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// keep the row over the shorter string
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}

	return row[len(a)]
}

// LevenshteinNormalized returns a similarity in [0, 1]:
// 1 - distance / max(len(a), len(b)). Two empty strings are identical.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(a, b))/float64(longest)
}

// NormalizedLevenshteinScore compares two identifiers after normalization,
// taking the better of the plain and suffix stripped forms.
func NormalizedLevenshteinScore(a, b string) float64 {
	score := LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
	stripped := LevenshteinNormalized(NormalizeIdentWithSuffixStrip(a), NormalizeIdentWithSuffixStrip(b))

	return max(score, stripped)
}
