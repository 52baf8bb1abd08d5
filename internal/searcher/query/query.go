// Package query parses tagged query batches into bag-of-words form.
package query

import (
	"io"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/corpus"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/tokenizer"
)

// Query is one tagged query block reduced to term counts.
type Query struct {
	ID         int
	BagOfWords map[string]int
}

// Batch holds a query file's queries in original file order, with lookup
// by id. Output enumeration must follow file order even though scoring
// addresses queries by id.
type Batch struct {
	Queries []*Query
	byID    map[int]*Query
}

// ParseBatch reads every <Q ID=n> block from r. The tokenizer must carry
// the same truncation setting as the index being queried.
func ParseBatch(r io.Reader, tok tokenizer.Tokenizer) (*Batch, error) {
	b := &Batch{byID: make(map[int]*Query)}
	err := corpus.Scan(r, "Q", func(blk corpus.Block) error {
		q := &Query{
			ID:         blk.ID,
			BagOfWords: make(map[string]int),
		}
		for _, line := range blk.Lines {
			for _, term := range tok.Tokenize(line) {
				q.BagOfWords[term]++
			}
		}
		b.Queries = append(b.Queries, q)
		b.byID[blk.ID] = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns the query with the given id.
func (b *Batch) Get(id int) (*Query, bool) {
	q, ok := b.byID[id]
	return q, ok
}

func (b *Batch) Len() int {
	return len(b.Queries)
}
