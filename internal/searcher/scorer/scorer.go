// Package scorer ranks corpus documents against queries using
// TF-IDF-weighted cosine similarity, with postings fetched on demand from
// the inverted file.
package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index/store"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/searcher/query"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/config"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/metrics"
)

// ScoredDoc is one ranked document for a query.
type ScoredDoc struct {
	DocID int32
	Score float64
}

// Result is a query's ranked document list, best first.
type Result struct {
	QueryID int
	Docs    []ScoredDoc
}

// Scorer computes cosine scores against one finished build. The lexicon
// and postings file are never mutated, so a single Scorer may rank many
// queries concurrently; the only shared mutable state is the document
// length cache, computed exactly once per run.
type Scorer struct {
	lexicon       index.Lexicon
	docCount      int
	reader        *store.PostingsReader
	topK          int
	maxConcurrent int
	logger        *slog.Logger
	metrics       *metrics.Metrics

	lengthsOnce sync.Once
	lengthsErr  error
	docLengths  map[int32]float64
}

func New(dict *store.Dictionary, reader *store.PostingsReader, cfg config.SearcherConfig) *Scorer {
	maxConcurrent := cfg.MaxConcurrentQueries
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Scorer{
		lexicon:       dict.Lexicon,
		docCount:      dict.DocumentCount,
		reader:        reader,
		topK:          cfg.TopK,
		maxConcurrent: maxConcurrent,
		logger:        slog.Default().With("component", "scorer"),
	}
}

// SetMetrics attaches Prometheus collectors. Optional; a nil receiver
// field disables instrumentation.
func (s *Scorer) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// idf returns log2(N/df). A term never indexed has idf 0 rather than an
// undefined value; it is an expected state, not an error.
func (s *Scorer) idf(term string) float64 {
	entry, ok := s.lexicon[term]
	if !ok || entry.DocumentFrequency == 0 {
		return 0
	}
	return math.Log2(float64(s.docCount) / float64(entry.DocumentFrequency))
}

// computeDocumentLengths walks every lexicon term's full posting list and
// accumulates squared TF-IDF weights per document, then takes square
// roots. Lengths need a second pass over the whole lexicon because
// document frequencies are only final after the complete corpus scan.
// Documents that never accumulate weight are absent from the cache and
// read back as length 0.
func (s *Scorer) computeDocumentLengths() error {
	start := time.Now()
	acc := make(map[int32]float64)
	for term := range s.lexicon {
		postings, err := s.reader.Postings(term)
		if err != nil {
			return err
		}
		idf := s.idf(term)
		for _, p := range postings {
			weight := float64(p.TermFrequency) * idf
			acc[p.DocID] += weight * weight
		}
	}
	s.docLengths = make(map[int32]float64, len(acc))
	for docID, squared := range acc {
		s.docLengths[docID] = math.Sqrt(squared)
	}
	s.logger.Info("document vector lengths computed",
		"documents", len(s.docLengths),
		"terms", len(s.lexicon),
		"elapsed", time.Since(start),
	)
	return nil
}

func (s *Scorer) ensureDocumentLengths() error {
	s.lengthsOnce.Do(func() {
		s.lengthsErr = s.computeDocumentLengths()
	})
	return s.lengthsErr
}

func (s *Scorer) queryVectorLength(q *query.Query) float64 {
	var sum float64
	for term, count := range q.BagOfWords {
		weight := float64(count) * s.idf(term)
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// ScoreQuery ranks documents for one query. Cosine scores are built one
// term at a time: each query term's posting list contributes partial dot
// products into a per-document accumulator, and accumulated products are
// normalised by the two vector lengths. Only documents sharing at least
// one term with the query are materialised; a zero denominator yields a
// defined score of 0. Ties are broken by ascending document id so ranked
// output is a total order.
func (s *Scorer) ScoreQuery(q *query.Query) (Result, error) {
	if err := s.ensureDocumentLengths(); err != nil {
		return Result{}, err
	}
	queryLength := s.queryVectorLength(q)

	acc := make(map[int32]float64)
	for term, count := range q.BagOfWords {
		queryWeight := float64(count) * s.idf(term)
		postings, err := s.reader.Postings(term)
		if err != nil {
			return Result{}, err
		}
		if s.metrics != nil {
			s.metrics.PostingsReadTotal.Add(float64(len(postings)))
		}
		idf := s.idf(term)
		for _, p := range postings {
			docWeight := float64(p.TermFrequency) * idf
			acc[p.DocID] += queryWeight * docWeight
		}
	}

	docs := make([]ScoredDoc, 0, len(acc))
	for docID, dot := range acc {
		denominator := s.docLengths[docID] * queryLength
		var score float64
		if denominator != 0 {
			score = dot / denominator
		}
		docs = append(docs, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].DocID < docs[j].DocID
	})
	if s.topK > 0 && len(docs) > s.topK {
		docs = docs[:s.topK]
	}
	return Result{QueryID: q.ID, Docs: docs}, nil
}

// ScoreBatch ranks every query in the batch and returns results in the
// batch's original file order. Queries are scored in parallel with
// bounded concurrency; each goroutine only reads the shared lexicon and
// postings file and writes its own result slot.
func (s *Scorer) ScoreBatch(ctx context.Context, batch *query.Batch) ([]Result, error) {
	if err := s.ensureDocumentLengths(); err != nil {
		return nil, err
	}

	results := make([]Result, len(batch.Queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, q := range batch.Queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			result, err := s.ScoreQuery(q)
			if err != nil {
				return fmt.Errorf("scoring query %d: %w", q.ID, err)
			}
			results[i] = result
			if s.metrics != nil {
				s.metrics.QueriesScoredTotal.Inc()
				s.metrics.QueryScoringDuration.Observe(time.Since(start).Seconds())
			}
			s.logger.Debug("query scored",
				"query_id", q.ID,
				"scored_documents", len(result.Docs),
				"elapsed", time.Since(start),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
