package objstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsS3(t *testing.T) {
	assert.True(t, IsS3("s3://bucket/key.jsonl.gz"))
	assert.False(t, IsS3("/local/path.jsonl.gz"))
}

func TestSplitS3(t *testing.T) {
	bucket, key, err := splitS3("s3://my-bucket/prefix/shard-0.jsonl.gz")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "prefix/shard-0.jsonl.gz", key)

	_, _, err = splitS3("s3://bucket-only")
	assert.Error(t, err)
}

func TestExpandLocalFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.jsonl.gz")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	out, err := (&Client{}).Expand(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{f}, out)
}

func TestExpandLocalDirFiltersBySuffix(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "shard-0.jsonl.gz")
	skip := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(skip, []byte("x"), 0o644))

	out, err := (&Client{}).Expand(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, out)
}

func TestExpandS3WithoutClientErrors(t *testing.T) {
	var c *Client
	_, err := c.Expand(context.Background(), "s3://bucket/prefix/")
	assert.Error(t, err)
}
