package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// makeTree creates the following layout under a temporary directory and
// returns its resolved path:
//
//	shared/
//	    linked.yaml
//	docs/
//	    a.yaml
//	    notes.txt
//	    linked.yaml -> ../shared/linked.yaml
//	    shared -> ../shared
//	    nested/
//	        b.json
//	        c.yaml.gz
//	        deeper/
//	            d.yaml
func makeTree(t *testing.T) string {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"shared", "docs/nested/deeper"} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{
		"shared/linked.yaml",
		"docs/a.yaml",
		"docs/notes.txt",
		"docs/nested/b.json",
		"docs/nested/c.yaml.gz",
		"docs/nested/deeper/d.yaml",
	} {
		if err := os.WriteFile(filepath.Join(base, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	links := map[string]string{
		"docs/linked.yaml": "shared/linked.yaml",
		"docs/shared":      "shared",
	}
	for link, target := range links {
		if err := os.Symlink(filepath.Join(base, target), filepath.Join(base, link)); err != nil {
			t.Fatal(err)
		}
	}
	return base
}

func TestRecursiveFilesLookup(t *testing.T) {
	base := makeTree(t)
	docs := filepath.Join(base, "docs")

	tests := []struct {
		name    string
		root    string
		pattern string
		want    []string
	}{
		{
			name:    "yaml files",
			root:    docs,
			pattern: "*.yaml",
			want: []string{
				filepath.Join(docs, "a.yaml"),
				filepath.Join(docs, "nested/deeper/d.yaml"),
				filepath.Join(base, "shared/linked.yaml"),
			},
		},
		{
			name:    "all files",
			root:    filepath.Join(docs, "nested"),
			pattern: "*",
			want: []string{
				filepath.Join(docs, "nested/b.json"),
				filepath.Join(docs, "nested/c.yaml.gz"),
				filepath.Join(docs, "nested/deeper/d.yaml"),
			},
		},
		{
			name:    "single file root",
			root:    filepath.Join(docs, "a.yaml"),
			pattern: "*.json",
			want:    []string{filepath.Join(docs, "a.yaml")},
		},
		{
			name:    "no match",
			root:    docs,
			pattern: "*.toml",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecursiveFilesLookup(tt.root, tt.pattern)
			if err != nil {
				t.Fatalf("RecursiveFilesLookup() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RecursiveFilesLookup() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecursiveFilesLookup_Errors(t *testing.T) {
	base := makeTree(t)
	if _, err := RecursiveFilesLookup(filepath.Join(base, "missing"), "*"); err == nil {
		t.Error("expected error for missing root")
	}
	if _, err := RecursiveFilesLookup(base, "["); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestRecursiveDirsLookup(t *testing.T) {
	base := makeTree(t)
	docs := filepath.Join(base, "docs")

	got, err := RecursiveDirsLookup(docs, "*")
	if err != nil {
		t.Fatalf("RecursiveDirsLookup() error: %v", err)
	}
	want := []string{
		docs,
		filepath.Join(docs, "nested"),
		filepath.Join(docs, "nested/deeper"),
		filepath.Join(base, "shared"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RecursiveDirsLookup() mismatch (-want +got):\n%s", diff)
	}

	got, err = RecursiveDirsLookup(filepath.Join(docs, "a.yaml"), "*")
	if err != nil {
		t.Fatalf("RecursiveDirsLookup(file) error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("RecursiveDirsLookup(file) = %v, want none", got)
	}
}

func TestIsDirectory(t *testing.T) {
	base := makeTree(t)

	tests := []struct {
		path    string
		want    bool
		wantErr bool
	}{
		{filepath.Join(base, "docs"), true, false},
		{filepath.Join(base, "docs/shared"), true, false},
		{filepath.Join(base, "docs/a.yaml"), false, false},
		{filepath.Join(base, "docs/linked.yaml"), false, false},
		{filepath.Join(base, "missing"), false, true},
	}
	for _, tt := range tests {
		got, err := IsDirectory(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("IsDirectory(%s) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("IsDirectory(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsFileExist(t *testing.T) {
	base := makeTree(t)
	if !IsFileExist(filepath.Join(base, "docs/a.yaml")) {
		t.Error("IsFileExist() = false for existing file, want true")
	}
	if !IsFileExist(filepath.Join(base, "docs")) {
		t.Error("IsFileExist() = false for existing directory, want true")
	}
	if IsFileExist(filepath.Join(base, "docs/missing.yaml")) {
		t.Error("IsFileExist() = true for non-existent file, want false")
	}
}
