// Package recordsource opens a corpus shard — local or S3, gzip or
// zstd compressed — and iterates its JSON-lines records.
package recordsource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/wimbd-go/wimbd/pkg/dedup"
	"github.com/wimbd-go/wimbd/pkg/objstore"
)

// Record is one decoded corpus line. Only Text is consumed by the
// counting engine; other JSON fields are ignored.
type Record struct {
	Text *string `json:"text"`
}

// Source iterates the decoded records of one corpus shard.
type Source struct {
	scanner *bufio.Scanner
	closer  io.Closer
	path    string
	dedup   *dedup.LineFilter
}

// Open dispatches on the path's scheme and suffix, wraps the payload
// in a streaming decompressor, and returns a Source ready to iterate.
// An s3:// object is fetched whole into memory first; a local file is
// read as iteration proceeds. s3 may be nil if path is not an s3:// path.
// dedupFilter may be nil; when set, an exact-duplicate raw line
// within this shard is skipped before JSON decoding, per the
// --dedup-lines supplemented feature.
func Open(ctx context.Context, path string, s3 *objstore.Client, dedupFilter *dedup.LineFilter) (*Source, error) {
	raw, closer, err := rawReader(ctx, path, s3)
	if err != nil {
		return nil, err
	}

	decompressed, err := decompress(path, raw)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	scanner := bufio.NewScanner(decompressed)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Source{scanner: scanner, closer: closer, path: path, dedup: dedupFilter}, nil
}

func rawReader(ctx context.Context, path string, s3 *objstore.Client) (io.Reader, io.Closer, error) {
	if objstore.IsS3(path) {
		buf, err := s3.Fetch(ctx, path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fetching %q", path)
		}
		return bytes.NewReader(buf), nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %q", path)
	}
	return f, f, nil
}

func decompress(path string, raw io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".zstd"):
		dec, err := zstd.NewReader(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "opening zstd stream %q", path)
		}
		return zstdReader{dec}, nil
	case strings.HasSuffix(path, ".gz"):
		// Multistream mode (the default) transparently handles
		// concatenated gzip members.
		gz, err := gzip.NewReader(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "opening gzip stream %q", path)
		}
		return gz, nil
	default:
		return raw, nil
	}
}

// zstdReader adapts *zstd.Decoder (whose Close takes no error, unlike
// gzip.Reader) to a plain io.Reader so decompress can return a
// uniform io.Reader regardless of codec.
type zstdReader struct{ *zstd.Decoder }

// Next decodes and returns the next record whose text field is
// present, or io.EOF when the shard is exhausted. Lines with a
// missing or null text field are skipped without error.
func (s *Source) Next() (Record, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if s.dedup != nil && s.dedup.SeenBefore(line) {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return Record{}, errors.Wrapf(err, "decoding record in %q", s.path)
		}
		if rec.Text == nil {
			continue
		}
		return rec, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Record{}, errors.Wrapf(err, "reading %q", s.path)
	}
	return Record{}, io.EOF
}

// Close releases the underlying file handle, if any (S3 sources are
// already fully buffered in memory and have nothing to close).
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
