package cleaner

import (
	"fmt"
	"regexp"
)

// Patterns for the substitution passes, in the order they are applied.
const (
	// ScriptPattern matches a whole script element, shortest span, across lines.
	ScriptPattern = `<script[\s\S]*?>[\s\S]*?</script>`

	// StylePattern matches a whole style element, shortest span, across lines.
	StylePattern = `<style[\s\S]*?>[\s\S]*?</style>`

	// TagPattern matches any remaining tag, shortest span, across lines.
	TagPattern = `<[\s\S]*?>`

	// EntityPattern matches a character reference from "&" to the next ";"
	// on the same line.
	EntityPattern = `&.*?;`

	// NumberPattern matches an integer or a decimal number written in any
	// script's decimal digits.
	NumberPattern = `\p{Nd}+(?:\.\p{Nd}+)?`
)

// Mode names accepted by New.
const (
	ModePattern = "pattern"
	ModeDOM     = "dom"
)

// Cleaner turns a raw page into plain text.
type Cleaner interface {
	Clean(text string) string
}

// Pass is one named substitution step.
type Pass struct {
	Name    string
	Pattern *regexp.Regexp
}

// Apply removes every match of the pass pattern from text.
func (p Pass) Apply(text string) string {
	return p.Pattern.ReplaceAllLiteralString(text, "")
}

var (
	scriptPass = Pass{Name: "script", Pattern: regexp.MustCompile(ScriptPattern)}
	stylePass  = Pass{Name: "style", Pattern: regexp.MustCompile(StylePattern)}
	tagPass    = Pass{Name: "tag", Pattern: regexp.MustCompile(TagPattern)}
	entityPass = Pass{Name: "entity", Pattern: regexp.MustCompile(EntityPattern)}
	numberPass = Pass{Name: "number", Pattern: regexp.MustCompile(NumberPattern)}
)

// Passes returns the substitution passes in application order.
func Passes() []Pass {
	return []Pass{scriptPass, stylePass, tagPass, entityPass, numberPass}
}

// PatternCleaner applies Passes in order.
type PatternCleaner struct {
	passes []Pass
}

// NewPatternCleaner creates a PatternCleaner with the standard passes.
func NewPatternCleaner() *PatternCleaner {
	return &PatternCleaner{passes: Passes()}
}

// Clean applies every pass to the output of the previous one.
func (c *PatternCleaner) Clean(text string) string {
	for _, pass := range c.passes {
		text = pass.Apply(text)
	}
	return text
}

// Clean runs the standard passes on text.
func Clean(text string) string {
	return NewPatternCleaner().Clean(text)
}

// New returns the cleaner for mode.
func New(mode string) (Cleaner, error) {
	switch mode {
	case ModePattern, "":
		return NewPatternCleaner(), nil
	case ModeDOM:
		return NewDOMCleaner(), nil
	default:
		return nil, fmt.Errorf("unknown clean mode %q", mode)
	}
}
