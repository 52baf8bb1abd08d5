package corpus

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/Rohan-Venkatesh-M/Paragraph-Retrieval-Engine/pkg/errors"
)

func collectBlocks(t *testing.T, input string, tag string) []Block {
	t.Helper()
	var blocks []Block
	err := Scan(strings.NewReader(input), tag, func(b Block) error {
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return blocks
}

func TestScanBlocks(t *testing.T) {
	input := "<P ID=1>\nthe cat sat\non the mat\n</P>\n<P ID=7>\ndogs bark\n</P>\n"

	blocks := collectBlocks(t, input, "P")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].ID != 1 || blocks[1].ID != 7 {
		t.Errorf("block ids = %d, %d; want 1, 7", blocks[0].ID, blocks[1].ID)
	}
	if len(blocks[0].Lines) != 2 || blocks[0].Lines[0] != "the cat sat" {
		t.Errorf("unexpected content for block 1: %v", blocks[0].Lines)
	}
	if len(blocks[1].Lines) != 1 || blocks[1].Lines[0] != "dogs bark" {
		t.Errorf("unexpected content for block 7: %v", blocks[1].Lines)
	}
}

func TestScanIgnoresLinesOutsideBlocks(t *testing.T) {
	input := "preamble junk\n<P ID=3>\ncontent\n</P>\ntrailing junk\n"

	blocks := collectBlocks(t, input, "P")
	if len(blocks) != 1 || blocks[0].ID != 3 {
		t.Fatalf("expected single block 3, got %v", blocks)
	}
	if len(blocks[0].Lines) != 1 {
		t.Errorf("junk outside blocks leaked into content: %v", blocks[0].Lines)
	}
}

func TestScanQueryTag(t *testing.T) {
	input := "<Q ID=76>\nplutonium production\n</Q>\n"

	blocks := collectBlocks(t, input, "Q")
	if len(blocks) != 1 || blocks[0].ID != 76 {
		t.Fatalf("expected query block 76, got %v", blocks)
	}
}

func TestScanMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"close tag without open", "some text\n</P>\n"},
		{"unparseable id", "<P ID=abc>\ntext\n</P>\n"},
		{"open tag inside block", "<P ID=1>\n<P ID=2>\n</P>\n"},
		{"eof inside block", "<P ID=1>\ntext with no close tag\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Scan(strings.NewReader(tt.input), "P", func(Block) error { return nil })
			if !errors.Is(err, apperrors.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestScanPropagatesCallbackError(t *testing.T) {
	sentinel := errors.New("stop")
	err := Scan(strings.NewReader("<P ID=1>\nx\n</P>\n"), "P", func(Block) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
