package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index/store"
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
	slog.Info("starting index build",
		"corpus", cfg.Indexer.CorpusPath,
		"data_dir", cfg.Indexer.DataDir,
		"truncate_long_terms", cfg.Indexer.TruncateLongTerms,
	)

	var m *metrics.Metrics
	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	start := time.Now()
	f, err := os.Open(cfg.Indexer.CorpusPath)
	if err != nil {
		if os.IsNotExist(err) {
			err = apperrors.Newf(apperrors.ErrMissingResource, "indexer", "corpus file %s", cfg.Indexer.CorpusPath)
		}
		fatal("opening corpus", err)
	}

	tok := tokenizer.Tokenizer{TruncateLongTerms: cfg.Indexer.TruncateLongTerms}
	invertStart := time.Now()
	idx, err := index.NewBuilder(tok).Build(f)
	f.Close()
	if err != nil {
		fatal("building lexicon", err)
	}
	if m != nil {
		m.BuildStageDuration.WithLabelValues("invert").Observe(time.Since(invertStart).Seconds())
		m.DocsIndexedTotal.Add(float64(idx.Stats.DocumentCount))
		m.TokensIndexedTotal.Add(float64(idx.Stats.CollectionSize))
		m.VocabularySize.Set(float64(idx.Stats.VocabularySize))
	}

	if err := os.MkdirAll(cfg.Indexer.DataDir, 0755); err != nil {
		fatal("creating index data directory", err)
	}

	entries := idx.Entries()
	writeStart := time.Now()
	if err := store.WritePostings(cfg.Indexer.PostingsPath(), entries, idx.Lexicon); err != nil {
		fatal("writing postings file", err)
	}
	if m != nil {
		m.BuildStageDuration.WithLabelValues("write_postings").Observe(time.Since(writeStart).Seconds())
		var postings int
		for _, entry := range entries {
			postings += len(entry.Postings)
		}
		m.PostingsWrittenTotal.Add(float64(postings))
	}

	// The dictionary is written last so every recorded offset is final.
	dictStart := time.Now()
	dict := &store.Dictionary{
		Lexicon:        idx.Lexicon,
		DocumentCount:  idx.Stats.DocumentCount,
		TruncatedTerms: cfg.Indexer.TruncateLongTerms,
	}
	if err := store.WriteDictionary(cfg.Indexer.DictionaryPath(), dict); err != nil {
		fatal("writing dictionary file", err)
	}
	if m != nil {
		m.BuildStageDuration.WithLabelValues("write_dictionary").Observe(time.Since(dictStart).Seconds())
	}

	logFileSizes(cfg.Indexer)
	slog.Info("index build complete",
		"documents", idx.Stats.DocumentCount,
		"vocabulary_size", idx.Stats.VocabularySize,
		"collection_size", idx.Stats.CollectionSize,
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

// logFileSizes reports the on-disk footprint of the finished index and
// which of the two files dominates it.
func logFileSizes(cfg config.IndexerConfig) {
	postingsInfo, err := os.Stat(cfg.PostingsPath())
	if err != nil {
		slog.Error("statting postings file", "error", err)
		return
	}
	dictInfo, err := os.Stat(cfg.DictionaryPath())
	if err != nil {
		slog.Error("statting dictionary file", "error", err)
		return
	}
	larger := "postings"
	if dictInfo.Size() > postingsInfo.Size() {
		larger = "dictionary"
	}
	slog.Info("index files written",
		"postings_bytes", postingsInfo.Size(),
		"dictionary_bytes", dictInfo.Size(),
		"larger_file", larger,
	)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(apperrors.ExitCode(err))
}
