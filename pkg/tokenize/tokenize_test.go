package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitespaceSplitsAndStripsPunctuation(t *testing.T) {
	tok := NewWhitespace()
	got := tok.Tokenize("Hello, world! Foo-bar.")
	assert.Equal(t, []string{"Hello", "world", "Foo-bar"}, got)
}

func TestWhitespaceHandlesEmptyAndBlank(t *testing.T) {
	tok := NewWhitespace()
	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   \t\n  "))
}

func TestPretrainedMatchesWholeVocabWords(t *testing.T) {
	tok, err := NewPretrained("tiny", []string{"un", "break", "able"})
	require.NoError(t, err)

	got := tok.Tokenize("unbreakable")
	assert.Equal(t, []string{"un", "break", "able"}, got)
}

func TestPretrainedFallsBackToRunesOnNoMatch(t *testing.T) {
	tok, err := NewPretrained("tiny", []string{"cat"})
	require.NoError(t, err)

	got := tok.Tokenize("dog")
	assert.Equal(t, []string{"d", "o", "g"}, got)
}

func TestNewPretrainedRejectsEmptyVocab(t *testing.T) {
	_, err := NewPretrained("empty", nil)
	assert.Error(t, err)
}
