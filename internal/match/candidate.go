package match

import "sort"

// Candidate is a source member name scored against a destination member name.
type Candidate struct {
	Name  string
	Score float64
	// Exact is set when both names normalize to the same identifier.
	Exact bool
}

// CandidateList is sorted by descending score, then by name.
type CandidateList []Candidate

// Confidence thresholds for suggestions.
const (
	// DefaultMinScore is the minimum similarity for a name to be suggested.
	DefaultMinScore = 0.5
	// DefaultSuggestions is the number of names reported for an unmapped member.
	DefaultSuggestions = 3
)

// RankCandidates scores every source name against target.
func RankCandidates(target string, sources []string) CandidateList {
	norm := NormalizeIdent(target)

	list := make(CandidateList, 0, len(sources))
	for _, name := range sources {
		list = append(list, Candidate{
			Name:  name,
			Score: NormalizedLevenshteinScore(target, name),
			Exact: NormalizeIdent(name) == norm,
		})
	}

	sort.Sort(list)

	return list
}

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Exact returns the normalized matches.
func (c CandidateList) Exact() CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Exact {
			result = append(result, cand)
		}
	}

	return result
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Names lists candidate names in rank order.
func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, cand := range c {
		names = append(names, cand.Name)
	}

	return names
}

// Suggest returns up to DefaultSuggestions similar names for an unmapped target.
func Suggest(target string, sources []string) []string {
	return RankCandidates(target, sources).AboveThreshold(DefaultMinScore).Top(DefaultSuggestions).Names()
}
