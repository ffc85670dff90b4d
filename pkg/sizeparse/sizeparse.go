// Package sizeparse parses the human byte-size strings accepted by
// --size (e.g. "4GiB", "500M"), defaulting a bare number to GiB.
package sizeparse

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Parse converts s into a byte count. A string containing only
// digits (optionally with surrounding whitespace) is interpreted as a
// count of gibibytes; anything else is handed to go-humanize's byte
// parser, which understands both IEC ("GiB") and SI ("GB") suffixes.
func Parse(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.New("size string is empty")
	}

	if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return n * humanize.GiByte, nil
	}

	bytes, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing size %q", s)
	}
	return bytes, nil
}
