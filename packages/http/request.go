package http

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/parser"
)

// ResolveFunc substitutes {{...}} placeholders in one raw string.
type ResolveFunc func(string) (string, error)

// Request is a fully resolved, ready-to-send definition.
type Request struct {
	Name    string
	Method  string
	URL     string
	Headers []Header
	Body    string
	Timeout time.Duration
}

// Header keeps file order; duplicates stay separate entries.
type Header struct {
	Key   string
	Value string
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

func (r *Request) AddHeader(key, value string) *Request {
	r.Headers = append(r.Headers, Header{Key: key, Value: value})
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// WireMethod is the method actually put on the wire. GRAPHQL blocks are
// HTTP POSTs with the body passed through unchanged.
func (r *Request) WireMethod() string {
	if r.Method == "GRAPHQL" {
		return "POST"
	}
	return r.Method
}

// BuildRequest turns a parsed block into a sendable request: method, URL,
// each header value and the body are resolved independently, and a `< path`
// body directive is read from disk (the path itself resolved first, relative
// paths anchored at baseDir, the .http file's directory).
func BuildRequest(req *parser.Request, resolve ResolveFunc, baseDir string) (*Request, error) {
	method, err := resolve(req.Method)
	if err != nil {
		return nil, err
	}

	rawURL, err := resolve(req.URL)
	if err != nil {
		return nil, err
	}

	r := NewRequest(method, rawURL)
	r.Name = req.Name

	for _, h := range req.Headers {
		value, err := resolve(h.Value)
		if err != nil {
			return nil, err
		}
		r.AddHeader(h.Key, value)
	}

	if req.Body != nil {
		body, err := loadBody(req.Body, resolve, baseDir)
		if err != nil {
			return nil, err
		}
		r.SetBody(body)
	}

	return r, nil
}

func loadBody(body *parser.Body, resolve ResolveFunc, baseDir string) (string, error) {
	if !body.IsFileRef() {
		return resolve(body.Raw)
	}

	path, err := resolve(body.FilePath)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading body file: %w", err)
	}
	return string(content), nil
}
