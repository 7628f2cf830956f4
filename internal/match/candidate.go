package match

import (
	"cmp"
	"slices"
)

// MinSuggestScore is the similarity a name needs to be suggested.
const MinSuggestScore = 0.5

// Candidate is a declared name scored against a wanted one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// Rank scores every name against target after normalization.
// Candidates are ordered by score descending, then by name.
func Rank(target string, names []string) CandidateList {
	norm := NormalizeIdent(target)

	out := make(CandidateList, 0, len(names))
	for _, name := range names {
		out = append(out, Candidate{Name: name, Score: Similarity(norm, NormalizeIdent(name))})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.Name, b.Name))
	})

	return out
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
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

// Names returns the candidate names.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Suggest returns up to limit names closest to target that score at least
// MinSuggestScore.
func Suggest(target string, names []string, limit int) []string {
	return Rank(target, names).AboveThreshold(MinSuggestScore).Top(limit).Names()
}
