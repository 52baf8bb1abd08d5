package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"sort"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index"
	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

// Dictionary file layout, all integers big-endian:
//
//	header:  magic(4) version(4) flags(4) docCount(4) termCount(4)
//	records: termLen(2) term docFreq(4) postingsOffset(8), ascending term order
//	footer:  crc32(4) over the record section
const (
	DictMagic      uint32 = 0x52454458 // "REDX"
	DictVersion    uint32 = 1
	dictHeaderSize        = 20

	flagTruncatedTerms uint32 = 1 << 0
)

// Dictionary is the durable snapshot of a build: the lexicon plus the
// metadata the scoring phase needs without rescanning the corpus.
type Dictionary struct {
	Lexicon        index.Lexicon
	DocumentCount  int
	TruncatedTerms bool
}

// WriteDictionary serialises the dictionary after the postings file is
// finalised, so every recorded offset is valid. Records are written in
// ascending term order; identical builds produce byte-identical files.
func WriteDictionary(path string, d *Dictionary) error {
	terms := make([]string, 0, len(d.Lexicon))
	for term := range d.Lexicon {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var body bytes.Buffer
	var scratch [8]byte
	for _, text := range terms {
		term := d.Lexicon[text]
		if len(text) > math.MaxUint16 {
			return apperrors.Newf(apperrors.ErrInternal, "store.WriteDictionary",
				"term of %d bytes exceeds record limit", len(text))
		}
		binary.BigEndian.PutUint16(scratch[:2], uint16(len(text)))
		body.Write(scratch[:2])
		body.WriteString(text)
		binary.BigEndian.PutUint32(scratch[:4], uint32(term.DocumentFrequency))
		body.Write(scratch[:4])
		binary.BigEndian.PutUint64(scratch[:8], uint64(term.PostingsOffset))
		body.Write(scratch[:8])
	}

	header := make([]byte, dictHeaderSize)
	binary.BigEndian.PutUint32(header[0:4], DictMagic)
	binary.BigEndian.PutUint32(header[4:8], DictVersion)
	var flags uint32
	if d.TruncatedTerms {
		flags |= flagTruncatedTerms
	}
	binary.BigEndian.PutUint32(header[8:12], flags)
	binary.BigEndian.PutUint32(header[12:16], uint32(d.DocumentCount))
	binary.BigEndian.PutUint32(header[16:20], uint32(len(terms)))

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating dictionary file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("writing dictionary header: %w", err)
	}
	if _, err := f.Write(body.Bytes()); err != nil {
		return fmt.Errorf("writing dictionary records: %w", err)
	}
	binary.BigEndian.PutUint32(scratch[:4], crc32.ChecksumIEEE(body.Bytes()))
	if _, err := f.Write(scratch[:4]); err != nil {
		return fmt.Errorf("writing dictionary checksum: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing dictionary file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming dictionary file: %w", err)
	}
	return nil
}

// ReadDictionary loads the full dictionary into memory. The read is
// all-or-nothing: a missing file, bad magic, wrong version, checksum
// failure, or truncated record section is fatal for the scoring phase.
func ReadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrMissingResource, "store.ReadDictionary",
				"dictionary file %s", path)
		}
		return nil, fmt.Errorf("reading dictionary file: %w", err)
	}
	if len(data) < dictHeaderSize+4 {
		return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
			"file of %d bytes is shorter than header and checksum", len(data))
	}
	if magic := binary.BigEndian.Uint32(data[0:4]); magic != DictMagic {
		return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
			"bad magic %#x", magic)
	}
	if version := binary.BigEndian.Uint32(data[4:8]); version != DictVersion {
		return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
			"unsupported format version %d", version)
	}
	flags := binary.BigEndian.Uint32(data[8:12])
	docCount := binary.BigEndian.Uint32(data[12:16])
	termCount := binary.BigEndian.Uint32(data[16:20])

	body := data[dictHeaderSize : len(data)-4]
	checksum := binary.BigEndian.Uint32(data[len(data)-4:])
	if actual := crc32.ChecksumIEEE(body); actual != checksum {
		return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
			"checksum mismatch: file %#x, computed %#x", checksum, actual)
	}

	d := &Dictionary{
		Lexicon:        make(index.Lexicon, termCount),
		DocumentCount:  int(docCount),
		TruncatedTerms: flags&flagTruncatedTerms != 0,
	}
	pos := 0
	for i := uint32(0); i < termCount; i++ {
		if pos+2 > len(body) {
			return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
				"record %d overruns record section", i)
		}
		termLen := int(binary.BigEndian.Uint16(body[pos : pos+2]))
		pos += 2
		if pos+termLen+12 > len(body) {
			return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
				"record %d overruns record section", i)
		}
		text := string(body[pos : pos+termLen])
		pos += termLen
		df := int(binary.BigEndian.Uint32(body[pos : pos+4]))
		pos += 4
		offset := int64(binary.BigEndian.Uint64(body[pos : pos+8]))
		pos += 8
		d.Lexicon[text] = &index.Term{
			Text:              text,
			DocumentFrequency: df,
			PostingsOffset:    offset,
		}
	}
	if pos != len(body) {
		return nil, apperrors.Newf(apperrors.ErrFormatMismatch, "store.ReadDictionary",
			"%d trailing bytes after %d records", len(body)-pos, termCount)
	}
	return d, nil
}
