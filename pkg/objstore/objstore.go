// Package objstore resolves and fetches corpus inputs that live
// either on the local filesystem or in S3, and expands directory and
// S3-prefix arguments into concrete file lists.
package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const s3Scheme = "s3://"

// IsS3 reports whether path names an S3 object or prefix.
func IsS3(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

// suffixes accepted as corpus shards when expanding a directory or
// S3 prefix.
var corpusSuffixes = []string{".jsonl.gz", ".json.gz", ".jsonl.zstd", ".jsonl"}

func hasCorpusSuffix(name string) bool {
	for _, suf := range corpusSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

// splitS3 splits "s3://bucket/key/prefix" into (bucket, key).
func splitS3(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Scheme)
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return "", "", errors.Errorf("s3 path %q has no key or prefix after the bucket name", path)
	}
	return rest[:idx], rest[idx+1:], nil
}

// Client wraps a minio client for the single AWS-style endpoint
// resolved from the standard AWS_* environment variables.
type Client struct {
	mc *minio.Client
}

// NewClient builds a Client from the standard AWS environment
// credential chain against the given endpoint (e.g. "s3.amazonaws.com").
func NewClient(endpoint string, useSSL bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvAWS(),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "constructing minio client")
	}
	return &Client{mc: mc}, nil
}

// Expand resolves a single input argument into a list of concrete
// corpus file paths: a plain file passes through unchanged, a local
// directory is walked recursively, and an s3:// prefix is paginated
// and listed. Only files matching a known corpus suffix are returned
// when expanding a directory or prefix; a literal file path is always
// returned regardless of suffix.
func (c *Client) Expand(ctx context.Context, arg string) ([]string, error) {
	if IsS3(arg) {
		return c.expandS3(ctx, arg)
	}
	return expandLocal(arg)
}

func expandLocal(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %q", arg)
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	var out []string
	err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if hasCorpusSuffix(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking directory %q", arg)
	}
	sort.Strings(out)
	return out, nil
}

// expandS3 lists every object under the prefix named by an s3://
// argument, keeping those with a recognized corpus suffix.
func (c *Client) expandS3(ctx context.Context, arg string) ([]string, error) {
	if c == nil {
		return nil, errors.New("no S3 client configured: pass an AWS endpoint via --s3-endpoint")
	}
	bucket, prefix, err := splitS3(arg)
	if err != nil {
		return nil, err
	}

	var out []string
	for obj := range c.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, "listing s3 objects")
		}
		if !hasCorpusSuffix(obj.Key) {
			continue
		}
		out = append(out, s3Scheme+bucket+"/"+obj.Key)
	}
	sort.Strings(out)
	return out, nil
}

// Fetch retrieves the entire object named by an s3:// path into
// memory; there is no streaming path here. The caller decompresses
// the returned bytes the same way it would a local file of the same
// suffix.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("no S3 client configured: pass an AWS endpoint via --s3-endpoint")
	}
	bucket, key, err := splitS3(path)
	if err != nil {
		return nil, err
	}

	obj, err := c.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "getting s3 object %q", path)
	}
	defer obj.Close()

	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "reading s3 object %q", path)
	}
	return buf, nil
}
