package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index/store"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/searcher/query"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/searcher/runfile"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/searcher/scorer"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/tokenizer"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/config"
	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/logger"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting query scoring",
		"dictionary", cfg.Indexer.DictionaryPath(),
		"postings", cfg.Indexer.PostingsPath(),
		"queries", cfg.Searcher.QueryPath,
		"output", cfg.Searcher.OutputPath,
	)

	var m *metrics.Metrics
	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	start := time.Now()
	dict, err := store.ReadDictionary(cfg.Indexer.DictionaryPath())
	if err != nil {
		fatal("loading dictionary", err)
	}
	reader, err := store.OpenPostings(cfg.Indexer.PostingsPath(), dict.Lexicon)
	if err != nil {
		fatal("opening postings file", err)
	}
	defer reader.Close()

	// Query tokenization follows the index: a truncated build is always
	// queried with truncated terms, whatever the local config says.
	tok := tokenizer.Tokenizer{TruncateLongTerms: dict.TruncatedTerms}

	qf, err := os.Open(cfg.Searcher.QueryPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = apperrors.Newf(apperrors.ErrMissingResource, "searcher", "query file %s", cfg.Searcher.QueryPath)
		}
		fatal("opening query file", err)
	}
	batch, err := query.ParseBatch(qf, tok)
	qf.Close()
	if err != nil {
		fatal("parsing query batch", err)
	}

	s := scorer.New(dict, reader, cfg.Searcher)
	if m != nil {
		s.SetMetrics(m)
	}
	results, err := s.ScoreBatch(context.Background(), batch)
	if err != nil {
		fatal("scoring queries", err)
	}

	if err := runfile.WriteFile(cfg.Searcher.OutputPath, results, cfg.Searcher.RunTag); err != nil {
		fatal("writing run file", err)
	}

	slog.Info("scoring complete",
		"queries", batch.Len(),
		"documents", dict.DocumentCount,
		"vocabulary_size", len(dict.Lexicon),
		"truncated_terms", dict.TruncatedTerms,
		"elapsed", time.Since(start),
	)

	if shutdownMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(ctx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(apperrors.ExitCode(err))
}
