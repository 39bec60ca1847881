package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/commonword/internal/config"
)

// NewRootCmd creates the root command. Run with a link file it generates
// a blacklist; subcommands manage configuration and history.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commonword LINK_FILE [OUTPUT_FILE]",
		Short: "Generate a blacklist of words common to a set of web pages",
		Long: `commonword fetches every URL listed in LINK_FILE (one per line), strips the
markup from each page and writes the words that appear in enough of the pages
to OUTPUT_FILE (default: blacklist.txt), one word per line.

A word is kept when the number of fetched pages containing it, ignoring case,
is at least int(RATIO * pages). Words are taken from the first page that was
fetched successfully and must be longer than four bytes.

A LINK_FILE named like a subcommand (init, history, version) runs that
subcommand; put "--" before it, or write it as ./history.

Examples:
  # Words that appear on every page
  commonword links.txt

  # Words that appear on at least half of the pages
  commonword links.txt common.txt -r 0.5

  # Write a Markdown report and record the run in the history database
  commonword links.txt --report report.md --history

  # Read links from stdin
  cat links.txt | commonword -

  # Link file called "history"
  commonword -- history`,
		Version:       getVersion(),
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerateCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Matching flags
	cmd.Flags().StringP("match-ratio", "r", "1.00",
		"Fraction of pages a word must appear in (invalid values fall back to 1.00)")
	cmd.Flags().Int("min-length", config.DefaultMinWordLength,
		"Words must be longer than this many bytes")
	cmd.Flags().String("mode", config.CleanModePattern,
		`How markup is removed: "pattern" or "dom"`)

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Pause between two requests")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header in "Key: Value" form (repeatable)`)
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .commonword in current directory or XDG config dir)")

	// Output flags
	cmd.Flags().StringArray("report", nil,
		"Write a run report to this file (.md for Markdown, .json for JSON, .txt for text; repeatable)")
	cmd.Flags().Bool("history", false,
		"Record the run in the history database")
	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().String("log-format", config.LogFormatText,
		`Log format: "text" or "json"`)

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
