// Package main provides the entry point for the commonword CLI.
//
// commonword fetches a list of web pages and writes the words that appear
// in enough of them to a blacklist file, one word per line.
//
// Usage:
//
//	commonword LINK_FILE [OUTPUT_FILE] [-r RATIO]
//	commonword history [--diff]
//
// See --help for all available options.
package main

// main is the entry point for commonword.
func main() {
	Execute()
}
