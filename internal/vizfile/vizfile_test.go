package vizfile

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleJSON = `{
  "freq_active": 0.015,
  "n_seqs": 240,
  "max_act": 4.2,
  "ranges": {
    "0.75-1": {
      "examples": [
        {"sae_acts": [0, 2, 4, 0], "uniprot_id": "P1", "sequence": "MKTA", "3di_sequence": null},
        {"sae_acts": [1, 0, 0, 3], "uniprot_id": "P2", "name": "Kinase"}
      ]
    },
    "0-0.25": {"examples": []}
  }
}`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	if _, err := gzw.Write(data); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestRead_PlainJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "7.json", []byte(sampleJSON))

	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if f.FreqActive != 0.015 || f.NumSeqs != 240 || f.MaxAct != 4.2 {
		t.Errorf("header fields not decoded: %+v", f)
	}

	examples, err := f.Examples("0.75-1")
	if err != nil {
		t.Fatalf("Examples failed: %v", err)
	}
	if len(examples) != 2 || examples[0].UniprotID != "P1" || examples[1].Name != "Kinase" {
		t.Errorf("unexpected examples: %+v", examples)
	}
	if examples[0].StructureSeq != nil {
		t.Error("null 3di_sequence should decode to nil")
	}
}

func TestRead_Gzip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "7.json.gz", gzipBytes(t, []byte(sampleJSON)))

	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if f.FreqActive != 0.015 {
		t.Errorf("FreqActive = %v, want 0.015", f.FreqActive)
	}
}

func TestRead_Malformed(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"truncated.json": `{"freq_active": 0.1, "ranges": {`,
		"noranges.json":  `{"freq_active": 0.1}`,
		"wrongtype.json": `{"ranges": {"0.75-1": {"examples": [{"sae_acts": "abc"}]}}}`,
		"emptyfile.json": ``,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name, []byte(content))
			if _, err := Read(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestExamples_Errors(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if _, err := f.Examples("0.5-0.75"); !errors.Is(err, ErrMissingRange) {
		t.Errorf("expected ErrMissingRange, got %v", err)
	}
	if _, err := f.Examples("0-0.25"); !errors.Is(err, ErrNoExamples) {
		t.Errorf("expected ErrNoExamples, got %v", err)
	}
}

func TestNormalizedTraces(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	traces, err := f.NormalizedTraces("0.75-1")
	if err != nil {
		t.Fatalf("NormalizedTraces failed: %v", err)
	}

	want := [][]float64{{0, 0.5, 1, 0}, {0.25, 0, 0, 0.75}}
	for i := range want {
		if !reflect.DeepEqual([]float64(traces[i]), want[i]) {
			t.Errorf("trace %d = %v, want %v", i, traces[i], want[i])
		}
	}
}

func TestNormalizedTraces_AllZero(t *testing.T) {
	f := &File{Ranges: map[string]Range{
		"0.75-1": {Examples: []Example{{SAEActs: []float64{0, 0, 0}, UniprotID: "Z"}}},
	}}

	traces, err := f.NormalizedTraces("0.75-1")
	if err != nil {
		t.Fatalf("NormalizedTraces failed: %v", err)
	}
	for _, v := range traces[0] {
		if v != 0 {
			t.Errorf("all-zero trace should stay zero, got %v", traces[0])
		}
	}
}

func TestDimFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    int
		wantErr bool
	}{
		{path: "/data/viz/12.json", want: 12},
		{path: "0.json.gz", want: 0},
		{path: "4095.json", want: 4095},
		{path: "abc.json", wantErr: true},
		{path: "-3.json", wantErr: true},
		{path: "1.5.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DimFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DimFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DimFromPath(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2.json", "10.json.gz", "1.json", "notes.txt", ".hidden.json", "decisions.jsonl"} {
		writeFile(t, dir, name, []byte("{}"))
	}
	if err := os.Mkdir(filepath.Join(dir, "3.json"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	want := []string{"1.json", "10.json.gz", "2.json"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestList_MissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
