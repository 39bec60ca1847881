package blacklist

import "github.com/nao1215/commonword/internal/matcher"

// Diff lists the words that differ between two blacklists. Words are
// compared case-insensitively, the same way the generator deduplicates.
type Diff struct {
	// Added holds words of the new list missing from the old one.
	Added []string `json:"added"`

	// Removed holds words of the old list missing from the new one.
	Removed []string `json:"removed"`

	// Kept is the number of words present in both lists.
	Kept int `json:"kept"`
}

// Empty reports whether both lists hold the same words.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Compare returns the difference from before to after, in list order.
func Compare(before, after []string) Diff {
	d := Diff{Added: []string{}, Removed: []string{}}

	inBefore := foldSet(before)
	inAfter := foldSet(after)

	for _, word := range matcher.Dedupe(after) {
		if _, ok := inBefore[matcher.Fold(word)]; ok {
			d.Kept++
			continue
		}
		d.Added = append(d.Added, word)
	}
	for _, word := range matcher.Dedupe(before) {
		if _, ok := inAfter[matcher.Fold(word)]; !ok {
			d.Removed = append(d.Removed, word)
		}
	}
	return d
}

func foldSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[matcher.Fold(w)] = struct{}{}
	}
	return set
}
