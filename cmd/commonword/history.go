package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/commonword/internal/blacklist"
	"github.com/nao1215/commonword/internal/config"
	"github.com/nao1215/commonword/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists and compares runs recorded with --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and compare recorded runs",
		Long: `History shows the runs recorded with 'commonword --history'.

Without flags it lists the recorded runs, most recent first. With --diff it
shows the words added to and removed from the blacklist between two runs.

Examples:
  # List recorded runs
  commonword history

  # Compare the latest two successful runs
  commonword history --diff

  # Compare two specific runs
  commonword history --diff --id 3 --with 7

  # Compare the latest successful run with a blacklist on disk
  commonword history --diff --against blacklist.txt

  # Output the comparison as JSON
  commonword history --diff --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")

	cmd.Flags().BoolP("diff", "d", false,
		"Show words added and removed between two runs")
	cmd.Flags().Int64("id", 0,
		"Older run to compare (default: second latest successful run)")
	cmd.Flags().Int64("with", 0,
		"Newer run to compare (default: latest successful run)")
	cmd.Flags().String("against", "",
		"Compare the newer run with this blacklist file instead of a recorded run")
	cmd.Flags().BoolP("json", "j", false,
		"Output the comparison in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	dir, err := flags.GetString("history-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.ReadOnlyOptions())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	diff, err := flags.GetBool("diff")
	if err != nil {
		return err
	}
	if !diff {
		limit, err := flags.GetInt("limit")
		if err != nil {
			return err
		}
		return listRuns(ctx, out, db, limit)
	}

	olderID, err := flags.GetInt64("id")
	if err != nil {
		return err
	}
	newerID, err := flags.GetInt64("with")
	if err != nil {
		return err
	}
	against, err := flags.GetString("against")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}

	result, err := compareRuns(ctx, db, olderID, newerID, against)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeComparisonJSON(out, result)
	}
	writeComparison(out, result)
	return nil
}

// listRuns prints the recorded runs, most recent first.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		fmt.Fprintln(out, "\nUse 'commonword --history LINK_FILE' to record a run.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %-9s  %-6s  %s\n", "ID", "Date", "Ratio", "Fetched", "Words", "Link File")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, r := range runs {
		words := fmt.Sprintf("%d", len(r.Words))
		if !r.Succeeded() {
			words = "failed"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-6.2f  %-9s  %-6s  %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.MatchRatio,
			fmt.Sprintf("%d/%d", r.Fetched, r.URLCount),
			words,
			r.LinkFile,
		)
	}

	fmt.Fprintln(out, "\nUse 'commonword history --diff' to compare the latest two runs.")
	return nil
}

// comparison is the result of comparing two word lists.
type comparison struct {
	// Before and After name the compared lists ("run 3", a file path).
	Before string `json:"before"`
	After  string `json:"after"`

	blacklist.Diff
}

// compareRuns resolves the two word lists to compare and diffs them.
// When against is set, the newer run is compared with that file.
func compareRuns(ctx context.Context, db *database.HistoryDB, olderID, newerID int64, against string) (*comparison, error) {
	newer, err := resolveNewerRun(ctx, db, newerID)
	if err != nil {
		return nil, err
	}

	if against != "" {
		words, err := blacklist.ReadFile(against)
		if err != nil {
			return nil, err
		}
		return &comparison{
			Before: against,
			After:  fmt.Sprintf("run %d", newer.ID),
			Diff:   blacklist.Compare(words, newer.Words),
		}, nil
	}

	older, err := resolveOlderRun(ctx, db, olderID, newer.ID)
	if err != nil {
		return nil, err
	}

	return &comparison{
		Before: fmt.Sprintf("run %d", older.ID),
		After:  fmt.Sprintf("run %d", newer.ID),
		Diff:   blacklist.Compare(older.Words, newer.Words),
	}, nil
}

// resolveNewerRun returns run id, or the latest successful run when id is zero.
func resolveNewerRun(ctx context.Context, db *database.HistoryDB, id int64) (*database.RunRecord, error) {
	if id != 0 {
		return db.GetRun(ctx, id)
	}
	runs, err := db.LatestSuccessfulRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, errors.New("no successful runs recorded")
	}
	return runs[0], nil
}

// resolveOlderRun returns run id, or the latest successful run recorded
// before newerID when id is zero.
func resolveOlderRun(ctx context.Context, db *database.HistoryDB, id, newerID int64) (*database.RunRecord, error) {
	if id != 0 {
		return db.GetRun(ctx, id)
	}
	runs, err := db.LatestSuccessfulRuns(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		if r.ID < newerID {
			return r, nil
		}
	}
	return nil, errors.New("at least two successful runs are needed for a comparison (use --against to compare with a file)")
}

// writeComparison prints a comparison for the terminal.
func writeComparison(out io.Writer, c *comparison) {
	fmt.Fprintf(out, "Comparing %s with %s\n\n", c.Before, c.After)

	if c.Empty() {
		fmt.Fprintf(out, "No changes (%d words in both).\n", c.Kept)
		return
	}

	fmt.Fprintf(out, "Added (%d):\n", len(c.Added))
	for _, w := range c.Added {
		fmt.Fprintf(out, "  + %s\n", w)
	}
	fmt.Fprintf(out, "\nRemoved (%d):\n", len(c.Removed))
	for _, w := range c.Removed {
		fmt.Fprintf(out, "  - %s\n", w)
	}
	fmt.Fprintf(out, "\nUnchanged: %d\n", c.Kept)
}

// writeComparisonJSON prints a comparison as indented JSON.
func writeComparisonJSON(out io.Writer, c *comparison) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
