package runner

import (
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/env"
	"github.com/abdul-hamid-achik/httpfile/packages/core/parser"
	"github.com/abdul-hamid-achik/httpfile/packages/core/session"
	httpx "github.com/abdul-hamid-achik/httpfile/packages/http"
	"github.com/abdul-hamid-achik/httpfile/packages/script"
	"github.com/rs/zerolog"
)

type Runner struct {
	client *httpx.Client
	engine *script.Engine
	config *Config
	logger zerolog.Logger
}

type Config struct {
	Environment    string // profile name in the environment config file
	EnvFile        string // explicit environment config path; default is httpfile.env.json next to the .http file
	DotEnvFile     string // optional .env exported into the process environment
	CaseName       string // exact-match request filter; empty runs everything
	Verbose        bool
	Timeout        time.Duration
	FollowRedirect bool
	ValidateSSL    bool
	Proxy          string
	DefaultHeaders map[string]string
	ScriptTimeout  time.Duration
	Logger         zerolog.Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirect: true, ValidateSSL: true}
	}
	if cfg.Environment == "" {
		cfg.Environment = env.DefaultProfile
	}

	clientOpts := []httpx.ClientOption{
		httpx.WithFollowRedirects(cfg.FollowRedirect),
		httpx.WithValidateSSL(cfg.ValidateSSL),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, httpx.WithTimeout(cfg.Timeout))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, httpx.WithProxy(cfg.Proxy))
	}
	if len(cfg.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, httpx.WithDefaultHeaders(cfg.DefaultHeaders))
	}

	engineOpts := []script.Option{script.WithLogger(cfg.Logger)}
	if cfg.ScriptTimeout > 0 {
		engineOpts = append(engineOpts, script.WithTimeout(cfg.ScriptTimeout))
	}

	return &Runner{
		client: httpx.NewClient(clientOpts...),
		engine: script.NewEngine(engineOpts...),
		config: cfg,
		logger: cfg.Logger,
	}
}

type RunResult struct {
	File     string
	Results  []*RequestResult
	Session  *session.State
	Duration time.Duration
	Passed   int
	Failed   int
}

type RequestResult struct {
	Name     string
	Method   string
	URL      string
	Response *httpx.Response
	Tests    []session.TestResult
	Err      error
	Duration time.Duration
}

// Passed reports whether the request executed and none of its script tests
// failed. A request without a script passes as soon as it got a response;
// judging status codes is the script's job.
func (r *RequestResult) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, t := range r.Tests {
		if !t.Passed {
			return false
		}
	}
	return true
}

// RunFile drives the whole pipeline for one file: parse once (a malformed
// file aborts before any request is issued), then for each selected block
// resolve, execute and bridge the response script, threading one session
// state through in file order. Requests run strictly one after another;
// request N finishes, script included, before N+1 starts.
func (r *Runner) RunFile(path string) (*RunResult, error) {
	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	if r.config.DotEnvFile != "" {
		if _, err := env.ExportDotEnv(r.config.DotEnvFile); err != nil {
			return nil, err
		}
	}

	environment, err := r.loadEnvironment(path)
	if err != nil {
		return nil, err
	}

	state := session.NewState()
	resolver := env.NewResolver(state.Globals, environment.Variables)

	result := &RunResult{File: file.Path, Session: state}
	start := time.Now()
	baseDir := filepath.Dir(path)

	varIdx := 0
	for _, req := range file.Requests {
		// Static declarations become visible in file order: everything
		// declared above this request, shadowing included.
		for varIdx < len(file.Variables) && file.Variables[varIdx].Line < req.Line {
			v := file.Variables[varIdx]
			resolver.SetStatic(v.Name, v.Value)
			varIdx++
		}

		if r.config.CaseName != "" && req.Name != r.config.CaseName {
			continue
		}

		reqResult := r.execute(req, resolver, state, baseDir)
		result.Results = append(result.Results, reqResult)
		if reqResult.Passed() {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) loadEnvironment(path string) (*env.Environment, error) {
	profile := r.config.Environment
	if r.config.EnvFile != "" {
		return env.LoadProfile(r.config.EnvFile, profile)
	}
	return env.LoadProfileOrEmpty(filepath.Join(filepath.Dir(path), env.DefaultFileName), profile)
}

// execute runs one block through resolve -> send -> script. Every failure
// mode here (unresolved variable, body file read, network) is request-local:
// it lands in Err and the caller moves on to the next block.
func (r *Runner) execute(req *parser.Request, resolver *env.Resolver, state *session.State, baseDir string) *RequestResult {
	result := &RequestResult{Name: req.Name, Method: req.Method, URL: req.URL}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	r.logger.Debug().
		Str("request", req.Name).
		Str("method", req.Method).
		Msg("executing request")

	httpReq, err := httpx.BuildRequest(req, func(s string) (string, error) {
		return resolver.Resolve(s, req.Name)
	}, baseDir)
	if err != nil {
		result.Err = err
		return result
	}
	result.URL = httpReq.URL

	resp, err := r.client.Do(httpReq)
	if err != nil {
		result.Err = err
		return result
	}
	result.Response = resp

	if req.HasScript() {
		result.Tests = r.engine.Run(req.Script, resp, state, req.Name)
	}

	return result
}
