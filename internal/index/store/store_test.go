package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/index"
	"github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/internal/tokenizer"
	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

const storeTestCorpus = "<P ID=1>\n" +
	"apple banana apple\n" +
	"</P>\n" +
	"<P ID=2>\n" +
	"banana cherry\n" +
	"</P>\n" +
	"<P ID=3>\n" +
	"apple\n" +
	"</P>\n"

func buildAndWrite(t *testing.T, dir string, input string) (*index.Index, string, string) {
	t.Helper()
	idx, err := index.NewBuilder(tokenizer.Tokenizer{}).Build(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	postingsPath := filepath.Join(dir, "inverted-file.bin")
	dictPath := filepath.Join(dir, "dictionary.dat")
	if err := WritePostings(postingsPath, idx.Entries(), idx.Lexicon); err != nil {
		t.Fatalf("WritePostings failed: %v", err)
	}
	dict := &Dictionary{
		Lexicon:       idx.Lexicon,
		DocumentCount: idx.Stats.DocumentCount,
	}
	if err := WriteDictionary(dictPath, dict); err != nil {
		t.Fatalf("WriteDictionary failed: %v", err)
	}
	return idx, postingsPath, dictPath
}

func TestPostingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, postingsPath, _ := buildAndWrite(t, dir, storeTestCorpus)

	reader, err := OpenPostings(postingsPath, idx.Lexicon)
	if err != nil {
		t.Fatalf("OpenPostings failed: %v", err)
	}
	defer reader.Close()

	for term := range idx.Lexicon {
		got, err := reader.Postings(term)
		if err != nil {
			t.Fatalf("Postings(%q) failed: %v", term, err)
		}
		want := idx.Postings(term)
		if !reflect.DeepEqual(got, index.PostingList(want)) {
			t.Errorf("Postings(%q) = %v, want %v", term, got, want)
		}
		if len(got) != idx.Lexicon[term].DocumentFrequency {
			t.Errorf("Postings(%q) length %d != df %d",
				term, len(got), idx.Lexicon[term].DocumentFrequency)
		}
	}
}

func TestPostingsUnknownTermEmpty(t *testing.T) {
	dir := t.TempDir()
	idx, postingsPath, _ := buildAndWrite(t, dir, storeTestCorpus)

	reader, err := OpenPostings(postingsPath, idx.Lexicon)
	if err != nil {
		t.Fatalf("OpenPostings failed: %v", err)
	}
	defer reader.Close()

	got, err := reader.Postings("zebra")
	if err != nil {
		t.Fatalf("Postings for unknown term errored: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty posting list, got %v", got)
	}
}

func TestPostingsMissingFile(t *testing.T) {
	_, err := OpenPostings(filepath.Join(t.TempDir(), "nope.bin"), index.Lexicon{})
	if !errors.Is(err, apperrors.ErrMissingResource) {
		t.Fatalf("expected ErrMissingResource, got %v", err)
	}
}

func TestPostingsOffsetOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	idx, postingsPath, _ := buildAndWrite(t, dir, storeTestCorpus)

	// Simulate pairing the dictionary with a postings file from a
	// different build: push one offset past the end of the file.
	for _, term := range idx.Lexicon {
		term.PostingsOffset += 1 << 20
		break
	}
	_, err := OpenPostings(postingsPath, idx.Lexicon)
	if !errors.Is(err, apperrors.ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, _, dictPath := buildAndWrite(t, dir, storeTestCorpus)

	got, err := ReadDictionary(dictPath)
	if err != nil {
		t.Fatalf("ReadDictionary failed: %v", err)
	}
	if got.DocumentCount != idx.Stats.DocumentCount {
		t.Errorf("DocumentCount = %d, want %d", got.DocumentCount, idx.Stats.DocumentCount)
	}
	if got.TruncatedTerms {
		t.Error("TruncatedTerms set on an untruncated build")
	}
	if len(got.Lexicon) != len(idx.Lexicon) {
		t.Fatalf("lexicon size = %d, want %d", len(got.Lexicon), len(idx.Lexicon))
	}
	for text, want := range idx.Lexicon {
		term, ok := got.Lexicon[text]
		if !ok {
			t.Errorf("term %q missing after round trip", text)
			continue
		}
		if term.DocumentFrequency != want.DocumentFrequency || term.PostingsOffset != want.PostingsOffset {
			t.Errorf("term %q = %+v, want %+v", text, term, want)
		}
	}
}

func TestDictionaryTruncationFlag(t *testing.T) {
	dictPath := filepath.Join(t.TempDir(), "dictionary.dat")
	in := &Dictionary{
		Lexicon:        index.Lexicon{"infor": {Text: "infor", DocumentFrequency: 1}},
		DocumentCount:  1,
		TruncatedTerms: true,
	}
	if err := WriteDictionary(dictPath, in); err != nil {
		t.Fatalf("WriteDictionary failed: %v", err)
	}
	got, err := ReadDictionary(dictPath)
	if err != nil {
		t.Fatalf("ReadDictionary failed: %v", err)
	}
	if !got.TruncatedTerms {
		t.Error("truncation flag lost in round trip")
	}
}

func TestDictionaryCorruption(t *testing.T) {
	dir := t.TempDir()
	_, _, dictPath := buildAndWrite(t, dir, storeTestCorpus)

	data, err := os.ReadFile(dictPath)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("flipped record byte", func(t *testing.T) {
		corrupt := append([]byte(nil), data...)
		corrupt[dictHeaderSize+3] ^= 0xFF
		path := filepath.Join(dir, "corrupt.dat")
		if err := os.WriteFile(path, corrupt, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadDictionary(path); !errors.Is(err, apperrors.ErrFormatMismatch) {
			t.Fatalf("expected ErrFormatMismatch, got %v", err)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		corrupt := append([]byte(nil), data...)
		corrupt[0] = 0x00
		path := filepath.Join(dir, "badmagic.dat")
		if err := os.WriteFile(path, corrupt, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadDictionary(path); !errors.Is(err, apperrors.ErrFormatMismatch) {
			t.Fatalf("expected ErrFormatMismatch, got %v", err)
		}
	})

	t.Run("truncated file", func(t *testing.T) {
		path := filepath.Join(dir, "short.dat")
		if err := os.WriteFile(path, data[:10], 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadDictionary(path); !errors.Is(err, apperrors.ErrFormatMismatch) {
			t.Fatalf("expected ErrFormatMismatch, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadDictionary(filepath.Join(dir, "absent.dat")); !errors.Is(err, apperrors.ErrMissingResource) {
			t.Fatalf("expected ErrMissingResource, got %v", err)
		}
	})
}

func TestStoreDeterminism(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	_, postingsA, dictA := buildAndWrite(t, dirA, storeTestCorpus)
	_, postingsB, dictB := buildAndWrite(t, dirB, storeTestCorpus)

	for _, pair := range [][2]string{{postingsA, postingsB}, {dictA, dictB}} {
		a, err := os.ReadFile(pair[0])
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("repeated builds produced different %s", filepath.Base(pair[0]))
		}
	}
}
