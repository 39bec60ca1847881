// Package cleaner strips markup and numbers from fetched pages so that only
// the running text is left for tokenizing.
//
// The default PatternCleaner applies five substitution passes in a fixed
// order: script elements, style elements, remaining tags, character
// references, numbers. The order matters. Script and style bodies often
// contain "<" and ">" characters, so they must be removed as whole elements
// before the generic tag pass runs; otherwise their contents would leak into
// the text as words.
//
// DOMCleaner is an alternative that parses the page with golang.org/x/net/html
// and keeps the text nodes outside script and style elements. It copes with
// malformed markup better but does not reproduce the pattern semantics
// exactly, so it is opt-in.
package cleaner
