package sizeparse

import (
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBareNumberDefaultsToGiB(t *testing.T) {
	got, err := Parse("4")
	require.NoError(t, err)
	assert.Equal(t, uint64(4*humanize.GiByte), got)
}

func TestParseHumanSuffixes(t *testing.T) {
	got, err := Parse("500MB")
	require.NoError(t, err)
	assert.Equal(t, uint64(500*humanize.MByte), got)

	got, err = Parse("4GiB")
	require.NoError(t, err)
	assert.Equal(t, uint64(4*humanize.GiByte), got)
}

func TestParseRejectsEmptyAndGarbage(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("not-a-size")
	assert.Error(t, err)
}
