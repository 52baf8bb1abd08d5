// Package corpus reads paragraph-tagged text files. A block opens with a
// line like <P ID=42>, ends at the matching </P> line, and every line
// strictly between the two is content. Query batches use the same framing
// with a Q tag.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

const maxLineSize = 1024 * 1024

// Block is one tagged region of the input: its integer id and content lines.
type Block struct {
	ID    int
	Lines []string
}

// Scan frames <TAG ID=n> ... </TAG> regions and calls fn for each block in
// file order. Lines outside any block are ignored. Unmatched tags and
// unparseable ids are malformed input: the scan aborts with the offending
// line number and nothing already consumed is considered valid.
func Scan(r io.Reader, tag string, fn func(Block) error) error {
	openPrefix := "<" + tag + " ID="
	closeTag := "</" + tag + ">"

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		current Block
		inBlock bool
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, openPrefix):
			if inBlock {
				return apperrors.Newf(apperrors.ErrMalformedInput, "corpus.Scan",
					"line %d: open tag inside unclosed %s block %d", lineNo, tag, current.ID)
			}
			idText := strings.TrimSuffix(strings.TrimPrefix(line, openPrefix), ">")
			id, err := strconv.Atoi(idText)
			if err != nil {
				return apperrors.Newf(apperrors.ErrMalformedInput, "corpus.Scan",
					"line %d: unparseable %s id %q", lineNo, tag, idText)
			}
			current = Block{ID: id}
			inBlock = true
		case strings.HasPrefix(line, closeTag):
			if !inBlock {
				return apperrors.Newf(apperrors.ErrMalformedInput, "corpus.Scan",
					"line %d: close tag %s with no matching open tag", lineNo, closeTag)
			}
			if err := fn(current); err != nil {
				return err
			}
			current = Block{}
			inBlock = false
		case inBlock:
			current.Lines = append(current.Lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading tagged input at line %d: %w", lineNo, err)
	}
	if inBlock {
		return apperrors.Newf(apperrors.ErrMalformedInput, "corpus.Scan",
			"unexpected end of input inside %s block %d", tag, current.ID)
	}
	return nil
}
