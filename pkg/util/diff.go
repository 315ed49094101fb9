package util

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a unified diff between two texts, such as a document before
// and after sorting. contextLines specifies how many unchanged lines to keep
// around each change. It returns "" when the texts have the same lines.
func Diff(oldName, newName string, oldText, newText []byte, contextLines int) string {
	lines := lineDiff(splitLines(oldText), splitLines(newText))
	hunks := buildHunks(lines, contextLines)
	if len(hunks) == 0 {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", oldName)
	fmt.Fprintf(&buf, "+++ %s\n", newName)

	for _, h := range hunks {
		oldCount := 0
		newCount := 0
		for _, l := range h.lines {
			switch l.kind {
			case ' ':
				oldCount++
				newCount++
			case '-':
				oldCount++
			case '+':
				newCount++
			}
		}
		// An empty side names the line before the change.
		oldStart, newStart := h.oldStart, h.newStart
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, l := range h.lines {
			fmt.Fprintf(&buf, "%c%s\n", l.kind, l.content)
		}
	}
	return buf.String()
}

// ColorizeDiff adds ANSI color codes to a diff string.
// Added lines (+) are green, removed lines (-) are red,
// and headers (@@) are cyan.
func ColorizeDiff(diff string) string {
	if diff == "" {
		return diff
	}

	header := color.New(color.Bold)
	hunkHeader := color.New(color.FgCyan)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	for _, c := range []*color.Color{header, hunkHeader, added, removed} {
		c.EnableColor()
	}

	var buf bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader(diff))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			buf.WriteString(header.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			buf.WriteString(hunkHeader.Sprint(line))
		case strings.HasPrefix(line, "+"):
			buf.WriteString(added.Sprint(line))
		case strings.HasPrefix(line, "-"):
			buf.WriteString(removed.Sprint(line))
		default:
			buf.WriteString(line)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// splitLines splits content into lines, handling various line endings.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return []string{}
	}
	s := string(content)
	// Normalize line endings
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	// Remove trailing empty line if file ends with newline
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type diffLine struct {
	kind    rune // ' ', '+', or '-'
	content string
}

type hunk struct {
	oldStart int
	newStart int
	lines    []diffLine
}

// lineDiff computes a line-level edit script between two sets of lines.
func lineDiff(oldLines, newLines []string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(joinLines(oldLines), joinLines(newLines))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var out []diffLine
	for _, d := range diffs {
		kind := ' '
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = '+'
		case diffmatchpatch.DiffDelete:
			kind = '-'
		}
		for _, line := range splitLines([]byte(d.Text)) {
			out = append(out, diffLine{kind: kind, content: line})
		}
	}
	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// buildHunks groups changed lines with up to contextLines of surrounding
// context. Changes separated by at most twice that much context share a hunk.
func buildHunks(lines []diffLine, contextLines int) []hunk {
	type position struct{ old, new int }
	pos := make([]position, len(lines))
	oldNo, newNo := 1, 1
	for i, l := range lines {
		pos[i] = position{oldNo, newNo}
		switch l.kind {
		case ' ':
			oldNo++
			newNo++
		case '-':
			oldNo++
		case '+':
			newNo++
		}
	}

	var hunks []hunk
	i := 0
	for i < len(lines) {
		for i < len(lines) && lines[i].kind == ' ' {
			i++
		}
		if i == len(lines) {
			break
		}
		start := max(i-contextLines, 0)
		end := i
		for {
			for end < len(lines) && lines[end].kind != ' ' {
				end++
			}
			next := end
			for next < len(lines) && lines[next].kind == ' ' {
				next++
			}
			if next < len(lines) && next-end <= 2*contextLines {
				end = next
				continue
			}
			break
		}
		stop := min(end+contextLines, len(lines))
		hunks = append(hunks, hunk{
			oldStart: pos[start].old,
			newStart: pos[start].new,
			lines:    lines[start:stop],
		})
		i = stop
	}
	return hunks
}
