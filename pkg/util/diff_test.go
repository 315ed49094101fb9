package util

import (
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name          string
		oldContent    string
		newContent    string
		expectEmpty   bool
		expectAdded   bool
		expectRemoved bool
	}{
		{
			name:        "identical texts",
			oldContent:  "line1\nline2\nline3\n",
			newContent:  "line1\nline2\nline3\n",
			expectEmpty: true,
		},
		{
			name:        "line added",
			oldContent:  "line1\nline2\n",
			newContent:  "line1\nline2\nline3\n",
			expectAdded: true,
		},
		{
			name:          "line removed",
			oldContent:    "line1\nline2\nline3\n",
			newContent:    "line1\nline2\n",
			expectRemoved: true,
		},
		{
			name:          "line changed",
			oldContent:    "line1\nline2\nline3\n",
			newContent:    "line1\nmodified\nline3\n",
			expectAdded:   true,
			expectRemoved: true,
		},
		{
			name:        "empty old text",
			oldContent:  "",
			newContent:  "new content\n",
			expectAdded: true,
		},
		{
			name:        "only line endings differ",
			oldContent:  "a\r\nb\r\n",
			newContent:  "a\nb\n",
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := Diff("old", "new", []byte(tt.oldContent), []byte(tt.newContent), 3)

			if tt.expectEmpty {
				if diff != "" {
					t.Errorf("Expected empty diff, got:\n%s", diff)
				}
				return
			}
			if !strings.HasPrefix(diff, "--- old\n+++ new\n") {
				t.Errorf("Expected unified diff headers, got:\n%s", diff)
			}
			if tt.expectAdded && !strings.Contains(diff, "\n+") {
				t.Error("Expected added lines (+) in diff")
			}
			if tt.expectRemoved && !strings.Contains(diff, "\n-") {
				t.Error("Expected removed lines (-) in diff")
			}
		})
	}
}

func TestDiff_SortedDocument(t *testing.T) {
	before := "zeta: 1\nalpha: 2\n"
	after := "alpha: 2\nzeta: 1\n"

	diff := Diff("input.yaml", "sorted", []byte(before), []byte(after), 3)
	if !strings.HasPrefix(diff, "--- input.yaml\n+++ sorted\n@@ -1,2 +1,2 @@\n") {
		t.Fatalf("unexpected diff header:\n%s", diff)
	}
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")[3:]
	if len(lines) != 3 {
		t.Fatalf("expected 3 hunk lines, got %d:\n%s", len(lines), diff)
	}
	var added, removed, context int
	for _, l := range lines {
		switch l[0] {
		case '+':
			added++
		case '-':
			removed++
		case ' ':
			context++
		}
	}
	if added != 1 || removed != 1 || context != 1 {
		t.Errorf("added=%d removed=%d context=%d, want 1 each:\n%s", added, removed, context, diff)
	}
}

func TestDiff_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := 0; i < 20; i++ {
		line := "line" + string(rune('a'+i))
		oldLines = append(oldLines, line)
		switch i {
		case 1:
			newLines = append(newLines, "changed-first")
		case 18:
			newLines = append(newLines, "changed-last")
		default:
			newLines = append(newLines, line)
		}
	}
	oldText := strings.Join(oldLines, "\n") + "\n"
	newText := strings.Join(newLines, "\n") + "\n"

	diff := Diff("a", "b", []byte(oldText), []byte(newText), 2)
	if n := strings.Count(diff, "@@ -"); n != 2 {
		t.Errorf("Expected 2 hunks, got %d:\n%s", n, diff)
	}
	if !strings.Contains(diff, "@@ -1,4 +1,4 @@") {
		t.Errorf("Expected first hunk to start at line 1, got:\n%s", diff)
	}
}

func TestColorizeDiff(t *testing.T) {
	diff := `--- input.yaml
+++ sorted
@@ -1,3 +1,3 @@
-zeta: 1
 alpha: 2
+zeta: 1
`

	colorized := ColorizeDiff(diff)

	// Check that color codes are present
	if !strings.Contains(colorized, "\033[32m+") {
		t.Error("Expected green color for added lines")
	}
	if !strings.Contains(colorized, "\033[31m-") {
		t.Error("Expected red color for removed lines")
	}
	if !strings.Contains(colorized, "\033[36m@@") {
		t.Error("Expected cyan color for hunk headers")
	}
	if !strings.Contains(colorized, "\033[1m---") {
		t.Error("Expected bold for file headers")
	}
	if !strings.Contains(colorized, "\n alpha: 2\n") {
		t.Error("Expected context lines without color")
	}
}

func TestColorizeDiff_Empty(t *testing.T) {
	result := ColorizeDiff("")
	if result != "" {
		t.Errorf("Expected empty string, got: %s", result)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "unix endings",
			input:    "line1\nline2\nline3\n",
			expected: []string{"line1", "line2", "line3"},
		},
		{
			name:     "windows endings",
			input:    "line1\r\nline2\r\nline3\r\n",
			expected: []string{"line1", "line2", "line3"},
		},
		{
			name:     "mixed endings",
			input:    "line1\r\nline2\nline3\r\n",
			expected: []string{"line1", "line2", "line3"},
		},
		{
			name:     "no trailing newline",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines([]byte(tt.input))
			if len(result) != len(tt.expected) {
				t.Errorf("Expected %d lines, got %d: %v", len(tt.expected), len(result), result)
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("Line %d: expected %q, got %q", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

func TestDiff_ZeroContextHunkHeaders(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{
			name: "insertion",
			old:  "l1\nl2\n",
			new:  "l1\nadded\nl2\n",
			want: "--- a\n+++ b\n@@ -1,0 +2,1 @@\n+added\n",
		},
		{
			name: "deletion",
			old:  "l1\nl2\nl3\n",
			new:  "l1\nl3\n",
			want: "--- a\n+++ b\n@@ -2,1 +1,0 @@\n-l2\n",
		},
		{
			name: "insertion at start",
			old:  "l1\n",
			new:  "l0\nl1\n",
			want: "--- a\n+++ b\n@@ -0,0 +1,1 @@\n+l0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff("a", "b", []byte(tt.old), []byte(tt.new), 0)
			if got != tt.want {
				t.Errorf("Diff() = %q, want %q", got, tt.want)
			}
		})
	}
}
