package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abtreece/dotconf/pkg/log"
	"github.com/abtreece/dotconf/pkg/util"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// File is a parsed document together with the path it was read from.
type File struct {
	Path string
	Data any
}

// ReadFile reads and parses a document, picking the format from the file
// extension. Files ending in .gz or .zst are decompressed first.
func ReadFile(path string) (any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err := readAll(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	v, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Debug("Parsed %s as %s (%d bytes)", path, format, len(data))
	return v, nil
}

// ReadFiles reads every document under root whose base name matches
// filter. Files with no known format are skipped. A root naming a single
// file reads just that file.
func ReadFiles(root, filter string) ([]File, error) {
	if filter == "" {
		filter = "*"
	}
	paths, err := util.RecursiveFilesLookup(root, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup files in %s: %w", root, err)
	}
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		if _, err := FormatFromPath(p); err != nil {
			log.Debug("Skipping %s: %v", p, err)
			continue
		}
		v, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Data: v})
	}
	return files, nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(f)
}
