package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/runner"
)

// JUnit XML structures

type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter renders run results as JUnit XML. Each .http file becomes a
// testsuite; each script test becomes a testcase, and a request that fails
// before its script runs becomes an errored testcase of its own.
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
	runErrors  []string
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(result *runner.RunResult) {
	suite := JUnitTestSuite{
		Name:      result.File,
		Time:      result.Duration.Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	for _, r := range result.Results {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("%s %s", r.Method, r.URL)
		}

		if r.Err != nil {
			suite.Errors++
			suite.TestCases = append(suite.TestCases, JUnitTestCase{
				Name:      name,
				ClassName: result.File,
				Time:      r.Duration.Seconds(),
				Error: &JUnitError{
					Message: r.Err.Error(),
					Type:    "RequestError",
				},
			})
			continue
		}

		if len(r.Tests) == 0 {
			suite.TestCases = append(suite.TestCases, JUnitTestCase{
				Name:      name,
				ClassName: result.File,
				Time:      r.Duration.Seconds(),
			})
			continue
		}

		for _, t := range r.Tests {
			tc := JUnitTestCase{
				Name:      fmt.Sprintf("%s / %s", name, t.Name),
				ClassName: result.File,
				Time:      r.Duration.Seconds(),
			}
			if !t.Passed {
				suite.Failures++
				tc.Failure = &JUnitFailure{
					Message: t.Message,
					Type:    "AssertionError",
				}
			}
			suite.TestCases = append(suite.TestCases, tc)
		}
	}

	suite.Tests = len(suite.TestCases)
	f.testSuites = append(f.testSuites, suite)
}

func (f *JUnitFormatter) FormatError(err error) {
	f.runErrors = append(f.runErrors, err.Error())
}

func (f *JUnitFormatter) FormatHeader(version string) {}

// Flush writes the accumulated JUnit XML document and clears the accumulator,
// so a rerun (watch mode) starts a fresh document. Run-fatal errors that
// produced no testsuite of their own (a file rejected by the parser, an
// unreadable environment file) are emitted as an errored "run errors" suite.
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	if len(f.runErrors) > 0 {
		suite := JUnitTestSuite{
			Name:      "run errors",
			Tests:     len(f.runErrors),
			Errors:    len(f.runErrors),
			Timestamp: time.Now().Format(time.RFC3339),
		}
		for _, msg := range f.runErrors {
			suite.TestCases = append(suite.TestCases, JUnitTestCase{
				Name:      msg,
				ClassName: "run errors",
				Error: &JUnitError{
					Message: msg,
					Type:    "RunError",
				},
			})
		}
		f.testSuites = append(f.testSuites, suite)
	}

	var totalTests, totalFailures, totalErrors int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
	}

	suites := JUnitTestSuites{
		Name:       "httpfile",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	err := encoder.Encode(suites)
	f.testSuites = nil
	f.runErrors = nil
	if err != nil {
		return err
	}
	fmt.Fprintln(f.writer)
	return nil
}
