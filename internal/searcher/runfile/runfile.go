// Package runfile emits ranked results in the fixed run format:
// one line per (query, ranked document) pair.
package runfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/searcher/scorer"
)

// Write emits one line per ranked pair: query id, the literal Q0 field,
// document id, 1-based rank, the score to six decimal places, and the run
// tag. Results are written in the order given (original query-file order),
// rank ascending within each query.
func Write(w io.Writer, results []scorer.Result, tag string) error {
	bw := bufio.NewWriter(w)
	for _, result := range results {
		for i, doc := range result.Docs {
			_, err := fmt.Fprintf(bw, "%d Q0 %d %d %.6f %s\n",
				result.QueryID, doc.DocID, i+1, doc.Score, tag)
			if err != nil {
				return fmt.Errorf("writing run line for query %d: %w", result.QueryID, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing run output: %w", err)
	}
	return nil
}

// WriteFile writes the run output to path, replacing any existing file.
func WriteFile(path string, results []scorer.Result, tag string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating run file: %w", err)
	}
	if err := Write(f, results, tag); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing run file: %w", err)
	}
	return nil
}
