package script

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/session"
	httpx "github.com/abdul-hamid-achik/httpfile/packages/http"
	"github.com/robertkrimen/otto"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds one script evaluation; a script cannot suspend the
// run indefinitely.
const DefaultTimeout = 10 * time.Second

// faultName labels the fabricated TestResult recorded when a script fails
// outside any client.test.
const faultName = "script error"

var errHalt = errors.New("script execution interrupted")

// Engine evaluates response-handler scripts in an embedded JavaScript
// interpreter. A fresh VM is built per evaluation, so scripts are isolated
// from each other; the only shared surface is the session global store they
// reach through client.global.
type Engine struct {
	timeout time.Duration
	logger  zerolog.Logger
}

type Option func(*Engine)

func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger routes console.log output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates src against one response. Test outcomes are recorded into the
// session state and returned in order. A runtime fault (or an assertion
// thrown outside client.test) becomes a single failing result attributed to
// the request; it never aborts the run.
func (e *Engine) Run(src string, resp *httpx.Response, state *session.State, request string) []session.TestResult {
	var results []session.TestResult
	record := func(name string, passed bool, message string) {
		tr := session.TestResult{
			Request: request,
			Name:    name,
			Passed:  passed,
			Message: message,
		}
		state.Record(tr)
		results = append(results, tr)
	}

	vm := otto.New()
	e.bind(vm, resp, state, record)

	if _, err := vm.Run(prelude); err != nil {
		record(faultName, false, fmt.Sprintf("script sandbox setup failed: %v", err))
		return results
	}

	if err := e.run(vm, src); err != nil {
		record(faultName, false, err.Error())
	}
	return results
}

// run executes the user script with the interrupt watchdog armed. otto
// delivers the interrupt as a panic, which is folded into an error here.
func (e *Engine) run(vm *otto.Otto, src string) (err error) {
	vm.Interrupt = make(chan func(), 1)
	watchdog := time.AfterFunc(e.timeout, func() {
		vm.Interrupt <- func() {
			panic(errHalt)
		}
	})
	defer watchdog.Stop()

	defer func() {
		if caught := recover(); caught != nil {
			if caught == errHalt {
				err = fmt.Errorf("script execution timed out after %s", e.timeout)
				return
			}
			err = fmt.Errorf("script panic: %v", caught)
		}
	}()

	_, err = vm.Run(src)
	return err
}

func (e *Engine) bind(vm *otto.Otto, resp *httpx.Response, state *session.State, record func(string, bool, string)) {
	_ = vm.Set("__responseStatus", resp.StatusCode)
	_ = vm.Set("__responseHeaders", resp.Headers)
	_ = vm.Set("__responseBody", resp.BodyString())
	_ = vm.Set("__responseContentType", resp.ContentType())

	_ = vm.Set("__recordTest", func(call otto.FunctionCall) otto.Value {
		name := call.Argument(0).String()
		passed, _ := call.Argument(1).ToBoolean()
		message := ""
		if arg := call.Argument(2); arg.IsDefined() {
			message = arg.String()
		}
		record(name, passed, message)
		return otto.UndefinedValue()
	})

	_ = vm.Set("__globalSet", func(call otto.FunctionCall) otto.Value {
		key := call.Argument(0).String()
		value, err := call.Argument(1).Export()
		if err != nil {
			value = call.Argument(1).String()
		}
		state.Globals.Set(key, value)
		return otto.UndefinedValue()
	})

	_ = vm.Set("__globalGet", func(call otto.FunctionCall) otto.Value {
		key := call.Argument(0).String()
		value, ok := state.Globals.Get(key)
		if !ok {
			return otto.UndefinedValue()
		}
		converted, err := vm.ToValue(value)
		if err != nil {
			return otto.UndefinedValue()
		}
		return converted
	})

	_ = vm.Set("__consoleLog", func(call otto.FunctionCall) otto.Value {
		parts := make([]string, 0, len(call.ArgumentList))
		for _, arg := range call.ArgumentList {
			parts = append(parts, arg.String())
		}
		e.logger.Info().Str("source", "script").Msg(strings.Join(parts, " "))
		return otto.UndefinedValue()
	})
}
