// Package tokenizer provides text tokenisation for the retrieval engine.
// It splits lines on whitespace, lower-cases each piece, and strips
// leading and trailing characters that are not ASCII letters.
package tokenizer

import "strings"

// truncateLength is the cutoff applied in truncation mode: any longer
// token is reduced to its first five characters, folding inflected
// forms onto a shared prefix stem.
const truncateLength = 5

// Tokenizer normalises raw text lines into index terms. The zero value
// tokenizes without truncation.
//
// A single index/query session must use one consistent setting: the
// dictionary produced with truncation enabled can only be queried with
// truncation enabled.
type Tokenizer struct {
	TruncateLongTerms bool
}

// Tokenize breaks a line into normalised terms, preserving order.
// Tokens that are empty after stripping are discarded.
func (t Tokenizer) Tokenize(line string) []string {
	words := strings.Fields(line)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		token := trimNonLetters(strings.ToLower(word))
		if token == "" {
			continue
		}
		if t.TruncateLongTerms {
			token = truncate(token, truncateLength)
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// trimNonLetters strips the leading run and the trailing run of bytes
// that are not ASCII letters. Interior punctuation is kept.
func trimNonLetters(s string) string {
	start := 0
	for start < len(s) && !isASCIILetter(s[start]) {
		start++
	}
	end := len(s)
	for end > start && !isASCIILetter(s[end-1]) {
		end--
	}
	return s[start:end]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
