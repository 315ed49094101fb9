package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/abtreece/dotconf/pkg/bench"
	"github.com/abtreece/dotconf/pkg/document"
	"github.com/abtreece/dotconf/pkg/log"
	"github.com/abtreece/dotconf/pkg/metrics"
	"github.com/abtreece/dotconf/pkg/nested"
	"github.com/abtreece/dotconf/pkg/util"
	"github.com/alecthomas/kong"
)

const (
	defaultFile    = "data.yaml"
	defaultVariant = "dotmap"
	defaultNumber  = 100
)

// CLI is the root command structure
type CLI struct {
	// Global flags
	ConfigFile  string `name:"config-file" help:"dotconf config file" default:"dotconf.toml" env:"DOTCONF_CONFIG_FILE"`
	LogLevel    string `name:"log-level" help:"log level (debug, info, warn, error)" default:"" env:"DOTCONF_LOG_LEVEL"`
	LogFormat   string `name:"log-format" help:"log format (text, json)" default:"" env:"DOTCONF_LOG_FORMAT"`
	MetricsFile string `name:"metrics-file" help:"write Prometheus metrics to this file on exit" env:"DOTCONF_METRICS_FILE"`

	Version VersionFlag `help:"print version and exit"`

	Bench BenchCmd `cmd:"" help:"Time the read, write and sort scenario for each accessor implementation"`
	Get   GetCmd   `cmd:"" help:"Print the value at a dotted path"`
	Keys  KeysCmd  `cmd:"" help:"Print mapping keys in document order"`
	Sort  SortCmd  `cmd:"" help:"Print the document with keys sorted at every level"`

	stdout io.Writer
}

func (cli *CLI) out() io.Writer {
	if cli.stdout == nil {
		return os.Stdout
	}
	return cli.stdout
}

// VersionFlag is a custom flag type that prints version and exits
type VersionFlag bool

func (v VersionFlag) BeforeApply(app *kong.Kong) error {
	fmt.Printf("dotconf %s (Git SHA: %s, Go Version: %s)\n", Version, GitSHA, runtime.Version())
	os.Exit(0)
	return nil
}

// setup loads the config file and applies the global flags.
func setup(cli *CLI) (*TOMLConfig, error) {
	cfg, err := loadConfigFile(cli)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		if err := log.SetLevel(cli.LogLevel); err != nil {
			return nil, err
		}
	}
	if cli.LogFormat != "" {
		if err := log.SetFormat(cli.LogFormat); err != nil {
			return nil, err
		}
	}
	if cli.MetricsFile != "" && !metrics.Enabled() {
		metrics.Initialize()
	}
	return cfg, nil
}

func writeMetrics(cli *CLI) error {
	if cli.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(cli.MetricsFile); err != nil {
		return fmt.Errorf("cannot write metrics: %w", err)
	}
	log.Debug("Metrics written to %s", cli.MetricsFile)
	return nil
}

// loadDocument reads path and returns the mapping it describes.
func loadDocument(path string) (any, error) {
	format, _ := document.FormatFromPath(path)
	v, err := document.ReadFile(path)
	metrics.RecordDocumentLoad(string(format), err == nil)
	if err != nil {
		return nil, err
	}
	return document.Root(v), nil
}

// loadDocuments reads path, or every document under it when path is a
// directory.
func loadDocuments(path, filter string) ([]document.File, error) {
	isDir, err := util.IsDirectory(path)
	if err != nil || !isDir {
		v, err := loadDocument(path)
		if err != nil {
			return nil, err
		}
		return []document.File{{Path: path, Data: v}}, nil
	}
	files, err := document.ReadFiles(path, filter)
	if err != nil {
		metrics.RecordDocumentLoad("unknown", false)
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no documents matching %q in %s", filter, path)
	}
	for i, f := range files {
		format, _ := document.FormatFromPath(f.Path)
		metrics.RecordDocumentLoad(string(format), true)
		files[i].Data = document.Root(f.Data)
	}
	return files, nil
}

// Shared flag groups

type DocumentFlags struct {
	File    string `short:"f" help:"document to read (yaml, json or toml, optionally .gz or .zst)" default:"data.yaml" env:"DOTCONF_FILE"`
	Variant string `help:"accessor implementation (dotmap, boxmap)" default:"dotmap" env:"DOTCONF_VARIANT"`
}

func (d *DocumentFlags) load() (nested.Accessor, error) {
	v, err := bench.Lookup(d.Variant)
	if err != nil {
		return nil, err
	}
	src, err := loadDocument(d.File)
	if err != nil {
		return nil, err
	}
	return v.New(src), nil
}

// Commands

type BenchCmd struct {
	File      string   `short:"f" help:"document, or directory of documents, to benchmark" default:"data.yaml" env:"DOTCONF_FILE"`
	Filter    string   `help:"file name pattern when --file is a directory" default:"*"`
	Number    int      `short:"n" help:"iterations per variant" default:"100" env:"DOTCONF_NUMBER"`
	Variants  []string `name:"variant" help:"variants to run (default: all)" env:"DOTCONF_VARIANTS"`
	ReadPath  string   `name:"read-path" help:"dotted path to read" default:"Test1.KueTwVaOzF.IMNaOXFnhj.JSfOMwNdIt.BUCvSDjfsc"`
	WritePath string   `name:"write-path" help:"dotted path to write the read value to" default:"c.e"`
	Watch     bool     `help:"rerun whenever the document changes"`
}

func (b *BenchCmd) Run(cli *CLI) error {
	cfg, err := setup(cli)
	if err != nil {
		return err
	}
	b.applyConfig(cfg)

	var variants []bench.Variant
	for _, name := range b.Variants {
		v, err := bench.Lookup(name)
		if err != nil {
			return err
		}
		variants = append(variants, v)
	}

	runner := &bench.Runner{
		Number:   b.Number,
		Scenario: bench.Scenario{ReadPath: b.ReadPath, WritePath: b.WritePath},
		Logger:   log.Logger(),
	}
	runOnce := func(ctx context.Context) error {
		docs, err := loadDocuments(b.File, b.Filter)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if len(docs) > 1 {
				fmt.Fprintf(cli.out(), "# %s\n", doc.Path)
			}
			report, err := runner.Run(ctx, doc.Data, variants...)
			if err != nil {
				return err
			}
			printReport(cli.out(), report)
		}
		return writeMetrics(cli)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runOnce(ctx); err != nil {
		if !b.Watch {
			return err
		}
		log.Error("%s", err.Error())
	}
	if !b.Watch {
		return nil
	}

	log.Info("Watching %s for changes", b.File)
	dir, pattern := filepath.Dir(b.File), filepath.Base(b.File)
	if isDir, _ := util.IsDirectory(b.File); isDir {
		dir, pattern = b.File, b.Filter
	}
	err = document.Watch(ctx, []string{dir}, func(name string) {
		if ok, _ := filepath.Match(pattern, filepath.Base(name)); !ok {
			return
		}
		metrics.RecordReload()
		log.Info("%s changed, rerunning", name)
		if err := runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("%s", err.Error())
		}
	})
	log.Info("Exiting...")
	return err
}

// printReport prints one name=seconds line per variant followed by the
// fastest variant.
func printReport(w io.Writer, report *bench.Report) {
	for _, res := range report.Results {
		fmt.Fprintf(w, "%s=%.6f\n", res.Variant, res.Total.Seconds())
	}
	if best, ok := report.Fastest(); ok {
		fmt.Fprintf(w, "fastest=%s per_op=%s iterations=%d\n", best.Variant, best.PerOp, best.Iterations)
	}
}

type GetCmd struct {
	DocumentFlags
	Strict bool   `help:"fail when the path does not exist"`
	Path   string `arg:"" help:"dotted path, e.g. a.b.c"`
}

func (g *GetCmd) Run(cli *CLI) error {
	cfg, err := setup(cli)
	if err != nil {
		return err
	}
	g.applyConfig(cfg)

	root, err := g.load()
	if err != nil {
		return err
	}
	r := nested.Path(root, g.Path)
	if !r.Exists() && g.Strict {
		return &nested.PathError{Path: g.Path, Err: nested.ErrNotExist}
	}
	switch v := r.Value(); v.(type) {
	case nested.Accessor, []any:
		out, err := document.Encode(v, document.YAML)
		if err != nil {
			return err
		}
		if _, err := cli.out().Write(out); err != nil {
			return err
		}
	default:
		fmt.Fprintln(cli.out(), r.String())
	}
	return writeMetrics(cli)
}

type KeysCmd struct {
	DocumentFlags
	Path string `arg:"" optional:"" help:"dotted path of the mapping (default: the root)"`
}

func (k *KeysCmd) Run(cli *CLI) error {
	cfg, err := setup(cli)
	if err != nil {
		return err
	}
	k.applyConfig(cfg)

	root, err := k.load()
	if err != nil {
		return err
	}
	r := nested.Path(root, k.Path)
	if !r.Exists() {
		return &nested.PathError{Path: k.Path, Err: nested.ErrNotExist}
	}
	a, ok := r.Accessor()
	if !ok {
		return &nested.PathError{Path: k.Path, Err: nested.ErrNotAccessor}
	}
	for _, key := range a.Keys() {
		fmt.Fprintln(cli.out(), key)
	}
	return writeMetrics(cli)
}

type SortCmd struct {
	DocumentFlags
	Reverse     bool   `help:"sort in descending order"`
	FoldCase    bool   `name:"fold-case" xor:"compare" help:"compare keys case-insensitively"`
	KeyExpr     string `name:"key-expr" xor:"compare" help:"expression over key producing the sort key, e.g. lower(key)"`
	Output      string `short:"o" help:"output format (yaml, json)" enum:"yaml,json" default:"yaml"`
	Diff        bool   `help:"show a diff between the original and the sorted document"`
	DiffContext int    `name:"diff-context" help:"lines of context for diff" default:"3"`
	Color       string `help:"colorize diff output (auto, always, never)" enum:"auto,always,never" default:"auto"`
}

func (s *SortCmd) Run(cli *CLI) error {
	cfg, err := setup(cli)
	if err != nil {
		return err
	}
	s.applyConfig(cfg)

	format, err := document.ParseFormat(s.Output)
	if err != nil {
		return err
	}
	var opts []nested.SortOption
	if s.FoldCase {
		opts = append(opts, nested.WithCompare(nested.FoldCase))
	}
	if s.KeyExpr != "" {
		compare, err := keyExprCompare(s.KeyExpr)
		if err != nil {
			return err
		}
		opts = append(opts, nested.WithCompare(compare))
	}
	if s.Reverse {
		opts = append(opts, nested.Reversed())
	}

	root, err := s.load()
	if err != nil {
		return err
	}
	start := time.Now()
	sorted := root.Sort(opts...)
	metrics.RecordSort(s.Variant, time.Since(start).Seconds())

	out, err := document.Encode(sorted, format)
	if err != nil {
		return err
	}
	if !s.Diff {
		if _, err := cli.out().Write(out); err != nil {
			return err
		}
		return writeMetrics(cli)
	}

	orig, err := document.Encode(root, format)
	if err != nil {
		return err
	}
	diff := util.Diff(s.File, s.File+" (sorted)", orig, out, s.DiffContext)
	if diff == "" {
		log.Info("%s is already sorted", s.File)
		return writeMetrics(cli)
	}
	if useColor(s.Color, cli.out()) {
		diff = util.ColorizeDiff(diff)
	}
	if _, err := io.WriteString(cli.out(), diff); err != nil {
		return err
	}
	return writeMetrics(cli)
}
