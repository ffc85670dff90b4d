// Package tokenize splits record text into tokens. Per the design
// note on dynamic dispatch, there are exactly two variants and they
// are modeled as a tagged struct rather than an interface, so the
// per-record hot loop never indirects through a vtable.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Kind selects which of the two tokenizer variants a Tokenizer uses.
type Kind int

const (
	// Whitespace splits on Unicode whitespace and strips leading and
	// trailing punctuation from each resulting token.
	Whitespace Kind = iota
	// Pretrained splits each whitespace token into the longest
	// vocabulary prefixes it can find, emitting a single rune for any
	// position where no vocabulary entry matches.
	Pretrained
)

// Tokenizer is the sum type described above: exactly one of the two
// Kind values is active, and Pretrained additionally carries a
// vocabulary.
type Tokenizer struct {
	kind  Kind
	vocab map[string]struct{}
}

// NewWhitespace returns the default whitespace/punctuation tokenizer.
func NewWhitespace() Tokenizer {
	return Tokenizer{kind: Whitespace}
}

// NewPretrained returns a tokenizer backed by the given vocabulary
// name's word list. vocab must be non-empty.
func NewPretrained(name string, words []string) (Tokenizer, error) {
	if len(words) == 0 {
		return Tokenizer{}, errors.Errorf("pretrained tokenizer %q has an empty vocabulary", name)
	}
	vocab := make(map[string]struct{}, len(words))
	for _, w := range words {
		vocab[w] = struct{}{}
	}
	return Tokenizer{kind: Pretrained, vocab: vocab}, nil
}

// Tokenize splits text into tokens according to the tokenizer's kind.
func (t Tokenizer) Tokenize(text string) []string {
	switch t.kind {
	case Pretrained:
		return t.tokenizePretrained(text)
	default:
		return tokenizeWhitespace(text)
	}
}

func tokenizeWhitespace(text string) []string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimFunc(f, unicode.IsPunct)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// tokenizePretrained greedily matches the longest vocabulary prefix
// of each whitespace-delimited word, falling back rune-by-rune
// through any span it cannot match — a simplified stand-in for a
// trained sub-word merge table.
func (t Tokenizer) tokenizePretrained(text string) []string {
	words := tokenizeWhitespace(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, t.splitWord(w)...)
	}
	return out
}

func (t Tokenizer) splitWord(w string) []string {
	if _, ok := t.vocab[w]; ok {
		return []string{w}
	}
	var out []string
	for len(w) > 0 {
		matched := false
		for end := len(w); end > 0; end-- {
			if _, ok := t.vocab[w[:end]]; ok {
				out = append(out, w[:end])
				w = w[end:]
				matched = true
				break
			}
		}
		if !matched {
			// No vocabulary prefix matches at all: emit one rune as
			// an unknown unit and continue past it.
			r := []rune(w)[0]
			out = append(out, string(r))
			w = w[len(string(r)):]
		}
	}
	return out
}
