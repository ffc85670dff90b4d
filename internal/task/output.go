package task

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// NameOptions parameterizes the generated output filename:
// n{n}-k{k}-h{hashes}[-limit{l}][-seed{s}].jsonl
type NameOptions struct {
	N      int
	K      int
	Hashes int
	Limit  int // per-file record cap; <= 0 omits the -limit segment
	Seed   *uint64
}

// GeneratedName builds the filename for a directory-valued --out.
func GeneratedName(opts NameOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "n%d-k%d-h%d", opts.N, opts.K, opts.Hashes)
	if opts.Limit > 0 {
		fmt.Fprintf(&b, "-limit%d", opts.Limit)
	}
	if opts.Seed != nil {
		fmt.Fprintf(&b, "-seed%d", *opts.Seed)
	}
	b.WriteString(".jsonl")
	return b.String()
}

// ResolveOutputPath turns the user's --out argument into a concrete
// file path: if out names an existing directory, a generated
// filename (GeneratedName) is appended; either way, an existing
// regular file at the resolved path is refused unless force is set.
func ResolveOutputPath(out string, force bool, opts NameOptions) (string, error) {
	if out == "" {
		return "", nil
	}

	path := out
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, GeneratedName(opts))
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", errors.Errorf("output file %q already exists; pass --force to overwrite", path)
	}
	return path, nil
}

// WriteJSONLines writes one JSON object per line for each entry.
func WriteJSONLines(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return errors.Wrap(err, "encoding output entry")
		}
	}
	return nil
}

// WriteLocationLines writes one JSON object per line for each match
// location recorded by a --with-locations search.
func WriteLocationLines(w io.Writer, locations []MatchLocation) error {
	enc := json.NewEncoder(w)
	for _, loc := range locations {
		if err := enc.Encode(loc); err != nil {
			return errors.Wrap(err, "encoding match location")
		}
	}
	return nil
}

// documentPointerLine tags a DocumentPointer with which extreme it
// represents, so a reader scanning the stats task's output can tell
// the longest-document lines from the shortest-document ones.
type documentPointerLine struct {
	Extreme string `json:"extreme"`
	DocumentPointer
}

// WriteDocumentPointerLines writes one JSON object per line for each
// document pointer in maxDocs (tagged "max") and then minDocs (tagged
// "min").
func WriteDocumentPointerLines(w io.Writer, maxDocs, minDocs []DocumentPointer) error {
	enc := json.NewEncoder(w)
	for _, doc := range maxDocs {
		if err := enc.Encode(documentPointerLine{Extreme: "max", DocumentPointer: doc}); err != nil {
			return errors.Wrap(err, "encoding max-token document pointer")
		}
	}
	for _, doc := range minDocs {
		if err := enc.Encode(documentPointerLine{Extreme: "min", DocumentPointer: doc}); err != nil {
			return errors.Wrap(err, "encoding min-token document pointer")
		}
	}
	return nil
}

// uniqueLine is the single-line shape emitted by the unique task.
type uniqueLine struct {
	UniqueCount float64 `json:"unique_count"`
}

// WriteUniqueLine writes the unique task's single summary line.
func WriteUniqueLine(w io.Writer, uniqueCount float64) error {
	return errors.Wrap(json.NewEncoder(w).Encode(uniqueLine{UniqueCount: uniqueCount}), "encoding unique_count line")
}

// RenderSummary writes a human-readable tablewriter summary to w: an
// olekukonko/tablewriter table plus a short preamble.
func RenderSummary(w io.Writer, res *Result) {
	fmt.Fprintf(w, "task: %s, files ok: %d, files failed: %d\n", res.Task, res.FilesOK, res.FilesFailed)
	if res.UniqueCount != nil {
		fmt.Fprintf(w, "unique_count: %.2f\n", *res.UniqueCount)
	}
	if len(res.Locations) > 0 {
		fmt.Fprintf(w, "locations: %d\n", len(res.Locations))
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	if len(res.MaxTokenDocs) > 0 || len(res.MinTokenDocs) > 0 {
		fmt.Fprintln(w, "max token documents:")
		for _, doc := range res.MaxTokenDocs {
			fmt.Fprintf(w, "  - %s:%d (%d tokens)\n", doc.Path, doc.Line, doc.NumTokens)
		}
		fmt.Fprintln(w, "min token documents:")
		for _, doc := range res.MinTokenDocs {
			fmt.Fprintf(w, "  - %s:%d (%d tokens)\n", doc.Path, doc.Line, doc.NumTokens)
		}
	}

	if len(res.Entries) == 0 {
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"rank", "string", "count"})
	for _, e := range res.Entries {
		row := []string{strconv.Itoa(e.Rank), e.String, strconv.FormatUint(e.Count, 10)}
		tbl.Append(row)
	}
	tbl.Render()
}
