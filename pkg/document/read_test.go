package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sampleJSON = `{"b": 1, "a": {"c": "x"}}`

var sampleMap = Map{{"b", 1}, {"a", Map{{"c", "x"}}}}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
		want any
	}{
		{"plain.json", []byte(sampleJSON), sampleMap},
		{"data.json.gz", gzipBytes(t, []byte(sampleJSON)), sampleMap},
		{"data.json.zst", zstdBytes(t, []byte(sampleJSON)), sampleMap},
		{"data.yaml", []byte("b: 1\na:\n  c: x\n"), sampleMap},
		{"data", []byte("b: 1\na:\n  c: x\n"), sampleMap},
		{"data.toml", []byte("b = 1\n[a]\nc = \"x\"\n"), Map{{"b", int64(1)}, {"a", Map{{"c", "x"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.data, 0644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	notGzip := filepath.Join(dir, "x.yaml.gz")
	if err := os.WriteFile(notGzip, []byte("a: 1"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.yaml")},
		{"unsupported extension", filepath.Join(dir, "data.ini")},
		{"malformed", bad},
		{"corrupt gzip", notGzip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadFile(tt.path); err == nil {
				t.Error("ReadFile() expected error")
			}
		})
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{filepath.Join(dir, "a.yaml"), filepath.Join(sub, "b.yaml")} {
		if err := os.WriteFile(p, []byte("k: v\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "skip.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a document"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ReadFiles(dir, "*.yaml")
	if err != nil {
		t.Fatalf("ReadFiles() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ReadFiles() returned %d files, want 2", len(files))
	}
	for _, f := range files {
		if diff := cmp.Diff(Map{{"k", "v"}}, f.Data); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", f.Path, diff)
		}
	}

	files, err = ReadFiles(dir, "")
	if err != nil {
		t.Fatalf("ReadFiles(all) error: %v", err)
	}
	var got []string
	for _, f := range files {
		got = append(got, filepath.Base(f.Path))
	}
	if diff := cmp.Diff([]string{"a.yaml", "skip.json", "b.yaml"}, got); diff != "" {
		t.Errorf("ReadFiles(all) mismatch (-want +got):\n%s", diff)
	}

	files, err = ReadFiles(filepath.Join(dir, "a.yaml"), "")
	if err != nil {
		t.Fatalf("ReadFiles(file) error: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("ReadFiles(file) returned %d files, want 1", len(files))
	}
}
