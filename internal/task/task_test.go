package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wimbd-go/wimbd/internal/config"
)

func writeShard(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	for _, l := range lines {
		_, err := gz.Write([]byte(l + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	return path
}

func testResolved(t *testing.T) *config.Resolved {
	t.Helper()
	resolved, err := (&config.Global{LogLevel: "error"}).Build()
	require.NoError(t, err)
	return resolved
}

func TestRunTopKFindsMostFrequentBigram(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "a b a b a"}`,
		`{"text": "x y z"}`,
	})

	opts := CommonOptions{
		Paths: []string{dir}, N: 2, K: 3, Size: "1MiB", Hashes: 4, PKeep: 1.0, Limit: -1,
	}
	res, err := RunTopK(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesOK)
	require.NotEmpty(t, res.Entries)
	assert.Equal(t, "a b", res.Entries[0].String)
}

func TestRunBottomKReturnsKEntries(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "x y z"}`,
		`{"text": "x y z"}`,
	})

	opts := CommonOptions{
		Paths: []string{dir}, N: 2, K: 2, Size: "1MiB", Hashes: 4, PKeep: 1.0, Limit: -1,
	}
	res, err := RunBottomK(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
}

func TestRunUniqueEstimatesDistinctCount(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "a b c d e f g h"}`,
	})

	opts := CommonOptions{Paths: []string{dir}, N: 1, Size: "1MiB", Hashes: 4, Limit: -1}
	res, err := RunUnique(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.NotNil(t, res.UniqueCount)
	assert.InEpsilon(t, 8.0, *res.UniqueCount, 0.3)
}

func TestRunCountTalliesExactPhraseOccurrences(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "the quick brown fox"}`,
		`{"text": "the quick brown dog, the quick brown fox"}`,
	})

	opts := CountOptions{
		CommonOptions: CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: -1},
		Terms:         []string{"the quick brown"},
	}
	res, err := RunCount(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, uint64(3), res.Entries[0].Count)
}

func TestRunCountRespectsZeroRecordLimit(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "the quick brown fox"}`,
	})

	opts := CountOptions{
		CommonOptions: CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: 0},
		Terms:         []string{"the quick brown"},
	}
	res, err := RunCount(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, uint64(0), res.Entries[0].Count, "limit=0 must consume zero records")
}

func TestRunSearchCountsEveryMatchNotJustMatchingRecords(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "1 22 333"}`,
		`{"text": "no digits here"}`,
	})

	opts := SearchOptions{
		CommonOptions: CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: -1},
		Pattern:       `\d+`,
	}
	res, err := RunSearch(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.NotNil(t, res.UniqueCount)
	assert.Equal(t, 3.0, *res.UniqueCount)
}

func TestRunSearchWithLocationsRecordsByteOffsets(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "1 22 333"}`,
	})

	opts := SearchOptions{
		CommonOptions: CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: -1},
		Pattern:       `\d+`,
		WithLocations: true,
	}
	res, err := RunSearch(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Locations, 3)
	assert.Equal(t, MatchLocation{Path: res.Locations[0].Path, Start: 0, End: 1}, res.Locations[0])
	assert.Equal(t, MatchLocation{Path: res.Locations[0].Path, Start: 2, End: 4}, res.Locations[1])
	assert.Equal(t, MatchLocation{Path: res.Locations[0].Path, Start: 5, End: 8}, res.Locations[2])
}

func TestRunStatsCountsLinesTokensBytes(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "one two"}`,
		`{"text": "three"}`,
	})

	opts := CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: -1}
	res, err := RunStats(context.Background(), testResolved(t), opts)
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	byName := map[string]uint64{}
	for _, e := range res.Entries {
		byName[e.String] = e.Count
	}
	assert.Equal(t, uint64(2), byName["lines"])
	assert.Equal(t, uint64(3), byName["tokens"])
}

func TestRunStatsTracksExtremeTokenDocuments(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "a.jsonl.gz", []string{
		`{"text": "one two three four"}`,
		`{"text": "one"}`,
		`{"text": "one two"}`,
	})

	opts := CommonOptions{Paths: []string{dir}, Size: "1MiB", Hashes: 4, Limit: -1}
	res, err := RunStats(context.Background(), testResolved(t), opts)
	require.NoError(t, err)

	require.Len(t, res.MaxTokenDocs, 1)
	assert.Equal(t, 4, res.MaxTokenDocs[0].NumTokens)
	assert.Equal(t, 0, res.MaxTokenDocs[0].Line)

	require.Len(t, res.MinTokenDocs, 1)
	assert.Equal(t, 1, res.MinTokenDocs[0].NumTokens)
	assert.Equal(t, 1, res.MinTokenDocs[0].Line)
}
