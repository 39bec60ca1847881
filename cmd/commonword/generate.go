package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/commonword/internal/config"
	"github.com/nao1215/commonword/internal/database"
	"github.com/nao1215/commonword/internal/fetcher"
	applog "github.com/nao1215/commonword/internal/log"
	"github.com/nao1215/commonword/internal/model"
	"github.com/nao1215/commonword/internal/pipeline"
	"github.com/nao1215/commonword/internal/report"
)

// Banners printed around a generation run.
const (
	startBanner    = "-=<|[[[ COMMON WORD GENERATOR STARTED ]]]|>=-"
	completeBanner = "-=<|[[[ COMMON WORD GENERATOR COMPLETED ]]]|>=-"
)

// runGenerateCmd executes the root command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runGenerate(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the command line, in that order. Only flags that were set explicitly
// override values from the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file is fine.
	if found := config.FindConfigFile(configPath); found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", found, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	cfg.LinkFile = args[0]
	if len(args) > 1 {
		cfg.OutputFile = args[1]
	}

	if flags.Changed("match-ratio") {
		ratio, err := flags.GetString("match-ratio")
		if err != nil {
			return nil, err
		}
		cfg.MatchRatio = config.ParseMatchRatio(ratio)
	}
	if flags.Changed("min-length") {
		if cfg.MinWordLength, err = flags.GetInt("min-length"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("mode") {
		if cfg.CleanMode, err = flags.GetString("mode"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		key, value, err := config.ParseHeader(h)
		if err != nil {
			return nil, err
		}
		cfg.Headers[key] = value
	}

	if cfg.ReportFiles, err = flags.GetStringArray("report"); err != nil {
		return nil, err
	}
	if cfg.SaveHistory, err = flags.GetBool("history"); err != nil {
		return nil, err
	}
	if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
		return nil, err
	}
	if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setupLogger creates a structured logger that masks credentials.
func setupLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	if format == config.LogFormatJSON {
		return applog.NewSecureJSONLogger(w, verbose)
	}
	return applog.NewSecureLogger(w, verbose)
}

// runGenerate builds the blacklist described by cfg, then writes the
// report and history entry if requested. Both are produced for failed runs
// too; the generation error is returned afterwards.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	fmt.Fprintln(out, startBanner)

	logger.Debug("starting generation",
		"linkFile", cfg.LinkFile,
		"outputFile", cfg.OutputFile,
		"matchRatio", cfg.MatchRatio,
		"mode", cfg.CleanMode,
	)

	f, err := fetcher.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	run, genErr := pipeline.Generate(ctx, cfg, f,
		pipeline.WithLogger(logger),
		pipeline.WithProgress(out),
	)

	// The run context may already be cancelled; finishing the bookkeeping
	// for a cancelled run is still wanted.
	bookkeeping := context.WithoutCancel(ctx)

	var reportErr error
	if len(cfg.ReportFiles) > 0 {
		if reportErr = report.WriteFiles(cfg.ReportFiles, run); reportErr != nil {
			logger.Error("failed to write report", "paths", cfg.ReportFiles, "error", reportErr)
		} else {
			fmt.Fprintf(out, "Report written to %s\n", strings.Join(cfg.ReportFiles, ", "))
		}
	}

	if cfg.SaveHistory {
		if id, err := saveRun(bookkeeping, cfg.HistoryDir, run); err != nil {
			logger.Warn("failed to record run in history", "dir", cfg.HistoryDir, "error", err)
		} else {
			logger.Debug("run recorded in history", "id", id, "dir", cfg.HistoryDir)
		}
	}

	if genErr != nil {
		return genErr
	}
	if reportErr != nil {
		return reportErr
	}

	fmt.Fprintf(out, "%d common words from %d of %d links written to %s\n",
		len(run.Words), run.FetchedCount(), len(run.Sources), cfg.OutputFile)
	fmt.Fprintln(out, completeBanner)
	return nil
}

// saveRun stores run in the history database under dir.
func saveRun(ctx context.Context, dir string, run *model.Run) (int64, error) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.SaveRun(ctx, run)
}
