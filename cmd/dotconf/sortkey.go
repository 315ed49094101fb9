package main

import (
	"cmp"
	"fmt"
	"io"
	"os"

	"github.com/abtreece/dotconf/pkg/log"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mattn/go-isatty"
)

type keyEnv struct {
	Key string `expr:"key"`
}

// keyExprCompare compiles an expression over key into a key comparator.
// Numeric results compare as numbers, everything else as strings. Keys
// whose expression fails at run time compare by the key itself.
func keyExprCompare(code string) (func(a, b string) int, error) {
	program, err := expr.Compile(code, expr.Env(keyEnv{}))
	if err != nil {
		return nil, fmt.Errorf("invalid key expression %q: %w", code, err)
	}
	cache := make(map[string]any)
	keyOf := func(k string) any {
		if v, ok := cache[k]; ok {
			return v
		}
		v := evalKey(program, k)
		cache[k] = v
		return v
	}
	return func(a, b string) int {
		return compareKeys(keyOf(a), keyOf(b))
	}, nil
}

func evalKey(program *vm.Program, key string) any {
	out, err := expr.Run(program, keyEnv{Key: key})
	if err != nil {
		log.Debug("key expression failed for %q: %v", key, err)
		return key
	}
	return out
}

func compareKeys(a, b any) int {
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(fa, fb)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// useColor resolves a --color mode for w. auto colors terminals unless
// NO_COLOR is set.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
