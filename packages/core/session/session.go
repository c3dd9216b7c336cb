package session

import "fmt"

// TestResult is the outcome of one client.test invocation (or of a script
// fault attributed to the whole request).
type TestResult struct {
	Request string
	Name    string
	Passed  bool
	Message string
}

// GlobalStore holds the cross-request variables written by response scripts
// via client.global.set. Values keep the type the script gave them.
type GlobalStore struct {
	values map[string]any
}

func NewGlobalStore() *GlobalStore {
	return &GlobalStore{values: make(map[string]any)}
}

func (s *GlobalStore) Set(key string, value any) {
	s.values[key] = value
}

func (s *GlobalStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the stored value rendered as a string, for variable
// substitution in later requests.
func (s *GlobalStore) GetString(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	if str, isStr := v.(string); isStr {
		return str, true
	}
	return fmt.Sprintf("%v", v), true
}

func (s *GlobalStore) Len() int {
	return len(s.values)
}

// State is the per-run session: the script-writable global store plus the
// ordered list of test results. It lives for exactly one run of one file and
// is owned by the runner; scripts reach it only through the bridge accessors.
// Execution is strictly sequential, so no locking is needed here.
type State struct {
	Globals *GlobalStore
	Tests   []TestResult
}

func NewState() *State {
	return &State{Globals: NewGlobalStore()}
}

func (s *State) Record(result TestResult) {
	s.Tests = append(s.Tests, result)
}

// TestsFor returns the recorded results attributed to one request, in order.
func (s *State) TestsFor(request string) []TestResult {
	var out []TestResult
	for _, t := range s.Tests {
		if t.Request == request {
			out = append(out, t)
		}
	}
	return out
}
