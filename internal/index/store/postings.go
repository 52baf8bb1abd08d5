// Package store persists the index: a flat binary postings file read by
// offset, and a versioned dictionary file carrying the lexicon and build
// metadata. The two files are written by one build and are only valid as
// a pair.
package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index"
	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

// postingSize is the encoded width of one (docID, tf) pair: two
// big-endian int32 values. The postings file has no header; an offset is
// only meaningful alongside the dictionary from the same build.
const postingSize = 8

// WritePostings lays out each term's posting run contiguously, in the
// order entries are given (ascending term order), postings within a run
// in document-scan order. The starting byte offset of every run is
// recorded on the term's lexicon entry. The file is written to a .tmp
// path and renamed on success.
func WritePostings(path string, entries []index.TermEntry, lexicon index.Lexicon) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating postings file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var buf [postingSize]byte
	var offset int64
	for _, entry := range entries {
		term, ok := lexicon[entry.Term]
		if !ok {
			return apperrors.Newf(apperrors.ErrInternal, "store.WritePostings",
				"term %q has postings but no lexicon entry", entry.Term)
		}
		term.PostingsOffset = offset
		for _, p := range entry.Postings {
			binary.BigEndian.PutUint32(buf[0:4], uint32(p.DocID))
			binary.BigEndian.PutUint32(buf[4:8], uint32(p.TermFrequency))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("writing postings for term %q: %w", entry.Term, err)
			}
			offset += postingSize
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing postings file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing postings file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming postings file: %w", err)
	}
	return nil
}

// PostingsReader serves random-access posting list reads against a
// finished postings file. The file is opened once and never mutated, so
// concurrent Postings calls are safe.
type PostingsReader struct {
	file    *os.File
	size    int64
	lexicon index.Lexicon
}

// OpenPostings opens the postings file and validates every lexicon
// entry's run against the file size. A dictionary paired with the wrong
// postings file fails here rather than producing garbage postings.
func OpenPostings(path string, lexicon index.Lexicon) (*PostingsReader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrMissingResource, "store.OpenPostings",
				"postings file %s", path)
		}
		return nil, fmt.Errorf("opening postings file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("statting postings file: %w", err)
	}
	r := &PostingsReader{
		file:    f,
		size:    info.Size(),
		lexicon: lexicon,
	}
	for text, term := range lexicon {
		end := term.PostingsOffset + int64(term.DocumentFrequency)*postingSize
		if term.PostingsOffset < 0 || end > r.size {
			f.Close()
			return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.OpenPostings",
				"term %q postings run [%d, %d) exceeds file size %d",
				text, term.PostingsOffset, end, r.size)
		}
	}
	return r, nil
}

// Postings reads the full run for a term: exactly documentFrequency
// (docID, tf) pairs starting at the term's offset. A term absent from
// the lexicon yields an empty list.
func (r *PostingsReader) Postings(term string) (index.PostingList, error) {
	entry, ok := r.lexicon[term]
	if !ok {
		return nil, nil
	}
	buf := make([]byte, entry.DocumentFrequency*postingSize)
	if _, err := r.file.ReadAt(buf, entry.PostingsOffset); err != nil {
		return nil, fmt.Errorf("reading postings for term %q at offset %d: %w",
			term, entry.PostingsOffset, err)
	}
	list := make(index.PostingList, 0, entry.DocumentFrequency)
	for i := 0; i < len(buf); i += postingSize {
		list = append(list, index.Posting{
			DocID:         int32(binary.BigEndian.Uint32(buf[i : i+4])),
			TermFrequency: int32(binary.BigEndian.Uint32(buf[i+4 : i+8])),
		})
	}
	return list, nil
}

// Size returns the postings file size in bytes.
func (r *PostingsReader) Size() int64 {
	return r.size
}

func (r *PostingsReader) Close() error {
	return r.file.Close()
}
