package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/reactive"
)

// LoadDefinition reads a form definition fixture from disk. Testing helpers
// fail the test on error to keep table tests concise.
func LoadDefinition(t *testing.T, path string) *formdef.Definition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath returns a Definition without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDefinitionFromPath(path string) (*formdef.Definition, error) {
	if path == "" {
		return nil, errors.New("testsupport: definition path is required")
	}
	def, err := formdef.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// Recorder collects every value a cell notifies its subscribers with.
type Recorder[T any] struct {
	values []T
	cancel func()
}

// Record subscribes to cell until the test ends.
func Record[T any](t *testing.T, cell *reactive.Cell[T]) *Recorder[T] {
	t.Helper()

	r := &Recorder[T]{}
	r.cancel = cell.Subscribe(func(value T) {
		r.values = append(r.values, value)
	})
	t.Cleanup(r.Stop)
	return r
}

// Values returns the recorded notifications in order.
func (r *Recorder[T]) Values() []T {
	return append([]T(nil), r.values...)
}

// Len reports how many notifications were recorded.
func (r *Recorder[T]) Len() int { return len(r.values) }

// Last returns the latest notification.
func (r *Recorder[T]) Last() (T, bool) {
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Reset drops the recorded values and keeps recording.
func (r *Recorder[T]) Reset() { r.values = nil }

// Stop unsubscribes. It is safe to call more than once.
func (r *Recorder[T]) Stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareJSONGolden marshals got and compares it with the JSON golden at path
// structurally, so formatting differences do not fail the test. The golden is
// rewritten instead when UPDATE_GOLDENS is set.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	payload, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if WriteMaybeGolden(t, path, append(payload, '\n')) {
		return ""
	}

	var want, have any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	if err := json.Unmarshal(payload, &have); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return cmp.Diff(want, have)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
