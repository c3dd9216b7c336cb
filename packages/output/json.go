package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/runner"
)

// JSONOutput is the machine-readable run report. Errors carries run-fatal
// failures (parse errors, unreadable environment files) that produced no
// per-request entry.
type JSONOutput struct {
	Summary  JSONSummary   `json:"summary"`
	Requests []JSONRequest `json:"requests"`
	Errors   []string      `json:"errors,omitempty"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

type JSONSummary struct {
	Requests    int `json:"requests"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	TestsPassed int `json:"testsPassed"`
	TestsFailed int `json:"testsFailed"`
}

type JSONRequest struct {
	Name     string         `json:"name"`
	File     string         `json:"file"`
	Method   string         `json:"method"`
	URL      string         `json:"url"`
	Passed   bool           `json:"passed"`
	Duration float64        `json:"duration"`
	Error    string         `json:"error,omitempty"`
	Response *JSONResponse  `json:"response,omitempty"`
	Tests    []JSONTestCase `json:"tests,omitempty"`
}

type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Duration   float64           `json:"duration"`
}

type JSONTestCase struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// JSONFormatter accumulates results and writes one document on Flush.
type JSONFormatter struct {
	writer io.Writer
	output JSONOutput
}

type JSONOption func(*JSONFormatter)

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.output.Summary.Requests += len(result.Results)
	f.output.Summary.Passed += result.Passed
	f.output.Summary.Failed += result.Failed
	for _, t := range result.Session.Tests {
		if t.Passed {
			f.output.Summary.TestsPassed++
		} else {
			f.output.Summary.TestsFailed++
		}
	}

	for _, r := range result.Results {
		jr := JSONRequest{
			Name:     r.Name,
			File:     result.File,
			Method:   r.Method,
			URL:      r.URL,
			Passed:   r.Passed(),
			Duration: float64(r.Duration.Milliseconds()),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		if r.Response != nil {
			jr.Response = &JSONResponse{
				StatusCode: r.Response.StatusCode,
				Status:     r.Response.Status,
				Headers:    r.Response.Headers,
				Body:       r.Response.BodyString(),
				Duration:   float64(r.Response.DurationMs()),
			}
		}
		for _, t := range r.Tests {
			jr.Tests = append(jr.Tests, JSONTestCase{
				Name:    t.Name,
				Passed:  t.Passed,
				Message: t.Message,
			})
		}
		f.output.Requests = append(f.output.Requests, jr)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.output.Errors = append(f.output.Errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {}

// Flush writes the accumulated document and clears the accumulator, so a
// rerun (watch mode) starts a fresh document.
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	f.output.Duration = float64(totalDuration.Milliseconds())
	f.output.Time = time.Now().UTC().Format(time.RFC3339)

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	err := enc.Encode(f.output)
	f.output = JSONOutput{}
	return err
}
