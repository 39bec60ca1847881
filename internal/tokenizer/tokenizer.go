// Package tokenizer extracts candidate words from cleaned text.
package tokenizer

import "regexp"

// DefaultMinLength is the length a token must exceed to be kept.
const DefaultMinLength = 4

// WordPattern matches maximal runs of Unicode word characters: letters,
// letter numbers, marks, decimal digits, connector punctuation and the
// zero-width joiners. Unlike RE2's \w it is not limited to ASCII.
const WordPattern = `[\p{L}\p{Nl}\p{M}\p{Nd}\p{Pc}\x{200C}\x{200D}]+`

var wordPattern = regexp.MustCompile(WordPattern)

// Tokenize returns every maximal run of word characters in text that is
// longer than minLength bytes, in order of appearance. Repeated words are
// kept.
func Tokenize(text string, minLength int) []string {
	matches := wordPattern.FindAllString(text, -1)

	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > minLength {
			tokens = append(tokens, m)
		}
	}
	return tokens
}
