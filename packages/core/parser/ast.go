package parser

import "fmt"

// File is one parsed .http file: the static variable declarations and the
// request blocks, both in file order.
type File struct {
	Path      string
	Variables []*Variable
	Requests  []*Request
}

// Variable is a file-scoped `@name = value` declaration. Line is where it was
// declared; a declaration shadows earlier ones with the same name for every
// block that follows it.
type Variable struct {
	Name  string
	Value string
	Line  int
}

// Request is one `###`-delimited block. URL, header values, the body and the
// file directive path keep their raw `{{...}}` placeholders; resolution
// happens at execution time.
type Request struct {
	Name    string
	Method  string
	URL     string
	Headers []*Header
	Body    *Body
	Script  string
	Line    int
}

func (r *Request) HasScript() bool {
	return r.Script != ""
}

// Header preserves declaration order; duplicate names are kept as separate
// entries.
type Header struct {
	Key   string
	Value string
	Line  int
}

// Body is either literal text (Raw) or a `< path` file-read directive
// (FilePath), never both.
type Body struct {
	Raw      string
	FilePath string
	Line     int
}

func (b *Body) IsFileRef() bool {
	return b.FilePath != ""
}

var methods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
	"GRAPHQL": true,
}

type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
