// Package index performs the memory-based inversion of a paragraph-tagged
// corpus: all documents are scanned before any postings are laid out, so
// document frequencies are final when the postings file is written.
package index

import (
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/corpus"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/tokenizer"
	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

// Builder scans a tagged corpus once and produces the in-memory index.
type Builder struct {
	tok    tokenizer.Tokenizer
	logger *slog.Logger
}

func NewBuilder(tok tokenizer.Tokenizer) *Builder {
	return &Builder{
		tok:    tok,
		logger: slog.Default().With("component", "index-builder"),
	}
}

// Index is the completed inversion: the lexicon plus each term's postings
// in document-scan order.
type Index struct {
	Lexicon  Lexicon
	postings map[string]PostingList
	Stats    Stats
}

// Build reads every <P ID=n> block from r, accumulating a per-document
// bag-of-words and folding it into the lexicon at the block's close tag.
// A document contributes at most 1 to a term's document frequency no
// matter how often the term repeats within it. Malformed input aborts the
// build; the index is all-or-nothing.
func (b *Builder) Build(r io.Reader) (*Index, error) {
	idx := &Index{
		Lexicon:  make(Lexicon),
		postings: make(map[string]PostingList),
	}
	err := corpus.Scan(r, "P", func(blk corpus.Block) error {
		if blk.ID < 0 || blk.ID > math.MaxInt32 {
			return apperrors.Newf(apperrors.ErrMalformedInput, "index.Build",
				"document id %d outside 32-bit range", blk.ID)
		}
		idx.Stats.DocumentCount++

		bag := make(map[string]int)
		for _, line := range blk.Lines {
			for _, token := range b.tok.Tokenize(line) {
				idx.Stats.CollectionSize++
				bag[token]++
			}
		}
		for token, count := range bag {
			term, seen := idx.Lexicon[token]
			if !seen {
				term = &Term{Text: token}
				idx.Lexicon[token] = term
			}
			term.DocumentFrequency++
			idx.postings[token] = append(idx.postings[token], Posting{
				DocID:         int32(blk.ID),
				TermFrequency: int32(count),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	idx.Stats.VocabularySize = len(idx.Lexicon)
	b.logger.Info("corpus inverted",
		"documents", idx.Stats.DocumentCount,
		"vocabulary_size", idx.Stats.VocabularySize,
		"collection_size", idx.Stats.CollectionSize,
	)
	return idx, nil
}

// Entries returns the postings table in ascending term order, the layout
// order of the postings file.
func (idx *Index) Entries() []TermEntry {
	terms := make([]string, 0, len(idx.postings))
	for term := range idx.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	entries := make([]TermEntry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: idx.postings[term],
		})
	}
	return entries
}

// Postings returns the in-memory posting list for a term, in the order
// documents were scanned. Unknown terms yield an empty list.
func (idx *Index) Postings(term string) PostingList {
	return idx.postings[term]
}
