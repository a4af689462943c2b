// Package vizfile reads the per-dimension visualization files produced by
// the upstream top-example selection step.
//
// Each file is named after the latent dimension it describes (12.json,
// optionally gzip-compressed as 12.json.gz) and holds, per activation range,
// the top examples with their per-residue activations.
package vizfile

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvandessel/saescope/internal/models"
)

// MaxFileSize bounds the decoded size of a single viz file (512MB).
const MaxFileSize = 512 * 1024 * 1024

var (
	// ErrMissingRange is returned when a file has no entry for the requested range.
	ErrMissingRange = errors.New("activation range not present")

	// ErrNoExamples is returned when the requested range holds no examples.
	ErrNoExamples = errors.New("activation range has no examples")
)

// File is the decoded content of one viz file.
type File struct {
	// FreqActive is the fraction of all scanned sequences on which the dimension fires.
	FreqActive float64 `json:"freq_active"`

	// NumSeqs is the number of scanned sequences with non-zero activation.
	NumSeqs int `json:"n_seqs,omitempty"`

	// MaxAct is the raw maximum activation seen across all scanned sequences.
	MaxAct float64 `json:"max_act,omitempty"`

	TopPfam []string `json:"top_pfam,omitempty"`

	// Ranges maps a normalized activation range such as "0.75-1" to its examples.
	Ranges map[string]Range `json:"ranges"`
}

// Range is the example list of one activation range.
type Range struct {
	Examples []Example `json:"examples"`
}

// Example is one top-activating sequence.
type Example struct {
	SAEActs      []float64 `json:"sae_acts"`
	UniprotID    string    `json:"uniprot_id"`
	Sequence     string    `json:"sequence,omitempty"`
	StructureSeq *string   `json:"3di_sequence,omitempty"`
	AlphaFoldID  string    `json:"alphafold_id,omitempty"`
	Name         string    `json:"name,omitempty"`
}

// Examples returns the examples of rangeKey.
func (f *File) Examples(rangeKey string) ([]Example, error) {
	r, ok := f.Ranges[rangeKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingRange, rangeKey)
	}
	if len(r.Examples) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoExamples, rangeKey)
	}
	return r.Examples, nil
}

// NormalizedTraces returns the activations of rangeKey's examples divided by
// the largest activation among them, so the strongest example peaks at 1.0.
// When every activation is zero the traces are returned unscaled.
func (f *File) NormalizedTraces(rangeKey string) ([]models.ActivationTrace, error) {
	examples, err := f.Examples(rangeKey)
	if err != nil {
		return nil, err
	}

	var maxAct float64
	for _, ex := range examples {
		for _, v := range ex.SAEActs {
			if v > maxAct {
				maxAct = v
			}
		}
	}

	traces := make([]models.ActivationTrace, len(examples))
	for i, ex := range examples {
		trace := make(models.ActivationTrace, len(ex.SAEActs))
		for j, v := range ex.SAEActs {
			if maxAct > 0 {
				trace[j] = v / maxAct
			} else {
				trace[j] = v
			}
		}
		traces[i] = trace
	}
	return traces, nil
}

// Read decodes the viz file at path. Gzip-compressed files are detected by
// their magic bytes, not their extension.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a viz file from r.
func Decode(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzr.Close()
		src = gzr
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", MaxFileSize)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if file.Ranges == nil {
		return nil, fmt.Errorf("parsing JSON: missing \"ranges\"")
	}
	return &file, nil
}

// DimFromPath returns the dimension index encoded in a viz file name.
func DimFromPath(path string) (int, error) {
	stem := Stem(path)
	dim, err := strconv.Atoi(stem)
	if err != nil || dim < 0 {
		return 0, fmt.Errorf("file name %q is not a dimension index", filepath.Base(path))
	}
	return dim, nil
}

// Stem strips the directory and the .json / .json.gz extension from path.
func Stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, ".json")
}

// IsVizFile reports whether name has a viz file extension.
func IsVizFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz")
}

// List returns the viz files in dir, sorted by name. Subdirectories, hidden
// files and files with other extensions are left out.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsVizFile(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
