package matcher

import (
	"errors"
	"math"
)

// ErrNoDocuments is returned when there is nothing to match against.
var ErrNoDocuments = errors.New("no words were extracted: no documents to match")

// Threshold returns the number of documents a word must appear in:
// ratio * documents, truncated toward zero. Negative and NaN products give
// zero; products beyond the int range saturate.
func Threshold(ratio float64, documents int) int {
	product := ratio * float64(documents)
	switch {
	case !(product > 0): // also catches NaN
		return 0
	case product >= float64(math.MaxInt):
		return math.MaxInt
	default:
		return int(product)
	}
}

// Fold maps ASCII upper-case letters to lower case and leaves every other
// byte alone, so two words fold equal exactly when they are equal under
// ASCII case-insensitive comparison.
func Fold(word string) string {
	for i := 0; i < len(word); i++ {
		if 'A' <= word[i] && word[i] <= 'Z' {
			b := []byte(word)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return word
}

// vocabularies returns the set of folded tokens of each document.
func vocabularies(documents [][]string) []map[string]struct{} {
	sets := make([]map[string]struct{}, len(documents))
	for i, tokens := range documents {
		set := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			set[Fold(token)] = struct{}{}
		}
		sets[i] = set
	}
	return sets
}

// Count returns, for each token of reference in order, the number of
// documents it appears in: one for the reference plus one per document in
// others containing it.
func Count(reference []string, others [][]string) []int {
	sets := vocabularies(others)

	counts := make([]int, len(reference))
	for i, word := range reference {
		key := Fold(word)
		occurrences := 1
		for _, set := range sets {
			if _, ok := set[key]; ok {
				occurrences++
			}
		}
		counts[i] = occurrences
	}
	return counts
}

// Match returns the tokens of reference that appear in at least
// Threshold(ratio, 1+len(others)) documents. The result follows reference
// order and keeps repeated tokens; use Dedupe to collapse them.
func Match(reference []string, others [][]string, ratio float64) []string {
	threshold := Threshold(ratio, 1+len(others))
	counts := Count(reference, others)

	common := make([]string, 0)
	for i, word := range reference {
		if counts[i] >= threshold {
			common = append(common, word)
		}
	}
	return common
}

// MatchDocuments uses the first document as the reference and the rest as
// the comparison set. It returns ErrNoDocuments when documents is empty.
func MatchDocuments(documents [][]string, ratio float64) ([]string, error) {
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}
	return Match(documents[0], documents[1:], ratio), nil
}

// Dedupe removes every word equal, under ASCII case folding, to an earlier
// one. The first spelling of each word is kept and order is preserved.
func Dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	unique := make([]string, 0, len(words))
	for _, word := range words {
		key := Fold(word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, word)
	}
	return unique
}
