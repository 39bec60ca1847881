package cleaner

import (
	"strings"

	"golang.org/x/net/html"
)

// DOMCleaner extracts text nodes with an HTML parser. Character references
// are decoded by the parser; numbers are removed with the number pass.
type DOMCleaner struct{}

// NewDOMCleaner creates a DOMCleaner.
func NewDOMCleaner() *DOMCleaner {
	return &DOMCleaner{}
}

// Clean returns the text outside script and style elements, one text node
// per line, with numbers removed. Comments and doctype nodes are dropped.
func (c *DOMCleaner) Clean(text string) string {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		// html.Parse only fails on reader errors, which a strings.Reader never returns.
		return numberPass.Apply(text)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte('\n')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return numberPass.Apply(sb.String())
}
