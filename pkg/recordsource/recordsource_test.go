package recordsource

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wimbd-go/wimbd/pkg/dedup"
)

func writeGzipCorpus(t *testing.T, dir string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, "shard.jsonl.gz")
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

func TestOpenSkipsMissingTextAndDecodesPresent(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipCorpus(t, dir, []string{
		`{"text": "hello world"}`,
		`{"other": "no text field"}`,
		`{"text": "second line"}`,
	})

	src, err := Open(context.Background(), path, nil, nil)
	require.NoError(t, err)
	defer src.Close()

	var texts []string
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		texts = append(texts, *rec.Text)
	}
	assert.Equal(t, []string{"hello world", "second line"}, texts)
}

func TestOpenHandlesMultistreamGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.jsonl.gz")

	var buf bytes.Buffer
	for _, chunk := range [][]string{{`{"text": "a"}`}, {`{"text": "b"}`}} {
		gz := gzip.NewWriter(&buf)
		for _, l := range chunk {
			_, err := gz.Write([]byte(l + "\n"))
			require.NoError(t, err)
		}
		require.NoError(t, gz.Close())
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err := Open(context.Background(), path, nil, nil)
	require.NoError(t, err)
	defer src.Close()

	var texts []string
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		texts = append(texts, *rec.Text)
	}
	assert.Equal(t, []string{"a", "b"}, texts)
}

func TestOpenSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipCorpus(t, dir, []string{
		`{"text": "one"}`,
		``,
		`{"text": "two"}`,
	})

	src, err := Open(context.Background(), path, nil, nil)
	require.NoError(t, err)
	defer src.Close()

	var n int
	for {
		_, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
}

func TestOpenWithDedupFilterSkipsRepeatedLine(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipCorpus(t, dir, []string{
		`{"text": "dup"}`,
		`{"text": "dup"}`,
		`{"text": "unique"}`,
	})

	filter := dedup.NewLineFilter(100, 0.01)
	src, err := Open(context.Background(), path, nil, filter)
	require.NoError(t, err)
	defer src.Close()

	var texts []string
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		texts = append(texts, *rec.Text)
	}
	assert.Equal(t, []string{"dup", "unique"}, texts)
}
