package transpile

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Operations a Failure can be attributed to.
const (
	OpReadDir = "read_dir"
	OpMkdir   = "mkdir"
	OpRead    = "read"
	OpOracle  = "oracle"
	OpWrite   = "write"
)

// Failure is one entry that could not be processed. The run continued.
type Failure struct {
	Path string `json:"path"`
	Op   string `json:"op"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Path, f.Err)
}

func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{f.Path, f.Op, msg})
}

// Summary accounts for every entry a run looked at. Paths are relative to
// the source root and slash separated; Converted lists source paths.
type Summary struct {
	RunID     string    `json:"run_id"`
	Converted []string  `json:"converted"`
	Skipped   []string  `json:"skipped"`
	Ignored   []string  `json:"ignored"`
	Failures  []Failure `json:"failures"`
}

// OK is true when nothing failed.
func (s Summary) OK() bool { return len(s.Failures) == 0 }

func (s Summary) String() string {
	return fmt.Sprintf("run %s: %d converted, %d skipped dirs, %d ignored, %d failed",
		s.RunID, len(s.Converted), len(s.Skipped), len(s.Ignored), len(s.Failures))
}

// recorder is the only state shared between the walker and the workers.
type recorder struct {
	mu sync.Mutex
	s  Summary
}

func (r *recorder) converted(p string) {
	r.mu.Lock()
	r.s.Converted = append(r.s.Converted, p)
	r.mu.Unlock()
}

func (r *recorder) skipped(p string) {
	r.mu.Lock()
	r.s.Skipped = append(r.s.Skipped, p)
	r.mu.Unlock()
}

func (r *recorder) ignored(p string) {
	r.mu.Lock()
	r.s.Ignored = append(r.s.Ignored, p)
	r.mu.Unlock()
}

func (r *recorder) failed(f Failure) {
	r.mu.Lock()
	r.s.Failures = append(r.s.Failures, f)
	r.mu.Unlock()
}

// snapshot orders worker-produced lists so a summary is reproducible.
func (r *recorder) snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.s
	out.Converted = append([]string(nil), r.s.Converted...)
	out.Skipped = append([]string(nil), r.s.Skipped...)
	out.Ignored = append([]string(nil), r.s.Ignored...)
	out.Failures = append([]Failure(nil), r.s.Failures...)
	sort.Strings(out.Converted)
	sort.SliceStable(out.Failures, func(i, j int) bool { return out.Failures[i].Path < out.Failures[j].Path })
	return out
}
