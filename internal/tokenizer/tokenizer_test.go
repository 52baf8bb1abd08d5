package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "lowercases and splits on whitespace",
			line:     "The  QUICK\tbrown Fox",
			expected: []string{"the", "quick", "brown", "fox"},
		},
		{
			name:     "strips external punctuation",
			line:     `"Hello," she said.`,
			expected: []string{"hello", "she", "said"},
		},
		{
			name:     "keeps interior punctuation",
			line:     "it's a state-of-the-art system",
			expected: []string{"it's", "a", "state-of-the-art", "system"},
		},
		{
			name:     "strips leading digits and trailing symbols",
			line:     "...123abc!! 42nd",
			expected: []string{"abc", "nd"},
		},
		{
			name:     "drops tokens with no letters",
			line:     "42 --- 3.14",
			expected: []string{},
		},
		{
			name:     "empty line",
			line:     "",
			expected: []string{},
		},
	}
	var tok Tokenizer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.line)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestTokenizeTruncation(t *testing.T) {
	tok := Tokenizer{TruncateLongTerms: true}

	got := tok.Tokenize("information informational INFO cat")
	expected := []string{"infor", "infor", "info", "cat"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("Tokenize = %v, want %v", got, expected)
	}
}

func TestTokenizeTruncationMergesInflectedForms(t *testing.T) {
	tok := Tokenizer{TruncateLongTerms: true}

	a := tok.Tokenize("information")
	b := tok.Tokenize("informational")
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("expected matching stems, got %v and %v", a, b)
	}
	if a[0] != "infor" {
		t.Fatalf("expected stem %q, got %q", "infor", a[0])
	}
}

func TestTokenizeExactCutoffNotTruncated(t *testing.T) {
	tok := Tokenizer{TruncateLongTerms: true}

	got := tok.Tokenize("hello")
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("five-character token must be kept whole, got %v", got)
	}
}
