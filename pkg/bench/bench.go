// Package bench runs the load, read, write, sort and compare scenario
// against accessor implementations and times it.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abtreece/dotconf/pkg/log"
	"github.com/abtreece/dotconf/pkg/metrics"
	"github.com/abtreece/dotconf/pkg/nested"
	"github.com/google/uuid"
)

const (
	DefaultReadPath  = "Test1.KueTwVaOzF.IMNaOXFnhj.JSfOMwNdIt.BUCvSDjfsc"
	DefaultWritePath = "c.e"
	DefaultNumber    = 100
)

var (
	// ErrValuePresent is returned when the write target already holds a
	// truthy value.
	ErrValuePresent = errors.New("write target already holds a value")
	// ErrNotSorted is returned when sorting leaves the tree unchanged.
	ErrNotSorted = errors.New("sorted tree equals the unsorted tree")
	// ErrUnknownVariant is returned by Lookup for unknown names.
	ErrUnknownVariant = errors.New("unknown variant")
)

// ScenarioError reports a failed scenario iteration.
type ScenarioError struct {
	Variant   string
	Iteration int
	Err       error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("%s: iteration %d: %v", e.Variant, e.Iteration, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ScenarioError) Unwrap() error {
	return e.Err
}

// Scenario names the paths one iteration reads from and writes to.
type Scenario struct {
	ReadPath  string
	WritePath string
}

// DefaultScenario returns the scenario for the sample document.
func DefaultScenario() Scenario {
	return Scenario{ReadPath: DefaultReadPath, WritePath: DefaultWritePath}
}

func (s Scenario) withDefaults() Scenario {
	if s.ReadPath == "" {
		s.ReadPath = DefaultReadPath
	}
	if s.WritePath == "" {
		s.WritePath = DefaultWritePath
	}
	return s
}

// Run executes one iteration: build a tree from src, read ReadPath, check
// that WritePath is falsy, copy the read value there, list the keys, sort
// and check that the sorted tree differs from the unsorted one.
func (s Scenario) Run(v Variant, src any) error {
	s = s.withDefaults()
	root := v.New(src)

	a := nested.Path(root, s.ReadPath)
	if nested.Path(root, s.WritePath).Bool() {
		return &nested.PathError{Path: s.WritePath, Err: ErrValuePresent}
	}
	if err := nested.SetPath(root, s.WritePath, a.Value()); err != nil {
		return err
	}
	_ = root.Keys()

	if root.Sort().Equal(root) {
		return ErrNotSorted
	}
	return nil
}

// Result holds the timings of one variant.
type Result struct {
	Variant    string
	Iterations int
	Total      time.Duration
	PerOp      time.Duration
}

// Report is the outcome of Runner.Run.
type Report struct {
	RunID   string
	Number  int
	Results []Result
}

// Fastest returns the result with the lowest time per iteration.
func (r *Report) Fastest() (Result, bool) {
	if r == nil || len(r.Results) == 0 {
		return Result{}, false
	}
	best := r.Results[0]
	for _, res := range r.Results[1:] {
		if res.PerOp < best.PerOp {
			best = res
		}
	}
	return best, true
}

// Runner runs a Scenario Number times per variant.
type Runner struct {
	Number   int
	Scenario Scenario
	Logger   *slog.Logger
}

// Run times the scenario against each variant in turn, all built-in
// variants when none are given. Variants run sequentially and ctx is
// checked between iterations. On failure the partial report is returned
// with the error.
func (r *Runner) Run(ctx context.Context, src any, variants ...Variant) (*Report, error) {
	if len(variants) == 0 {
		variants = Variants()
	}
	n := r.Number
	if n <= 0 {
		n = DefaultNumber
	}
	sc := r.Scenario.withDefaults()
	logger := r.Logger
	if logger == nil {
		logger = log.Logger()
	}

	report := &Report{RunID: uuid.NewString(), Number: n}
	logger = logger.With("run_id", report.RunID)
	logger.Debug("starting run", "number", n, "read_path", sc.ReadPath, "write_path", sc.WritePath)

	for _, v := range variants {
		res := Result{Variant: v.Name}
		for i := 1; i <= n; i++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			start := time.Now()
			err := sc.Run(v, src)
			elapsed := time.Since(start)
			metrics.RecordScenario(v.Name, err == nil, elapsed.Seconds())
			if err != nil {
				logger.Error("scenario failed", "variant", v.Name, "iteration", i, "error", err)
				return report, &ScenarioError{Variant: v.Name, Iteration: i, Err: err}
			}
			res.Iterations++
			res.Total += elapsed
		}
		res.PerOp = res.Total / time.Duration(res.Iterations)
		logger.Info("variant finished", "variant", v.Name, "iterations", res.Iterations, "total", res.Total, "per_op", res.PerOp)
		report.Results = append(report.Results, res)
	}
	return report, nil
}
