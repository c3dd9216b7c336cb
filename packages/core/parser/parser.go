package parser

import (
	"fmt"
	"os"
	"strings"
)

const (
	scriptOpen  = "> {%"
	scriptClose = "%}"
)

// Parser walks the file line by line, exactly once. Blocks never require
// looking back across a `###` boundary.
type Parser struct {
	lines []string
	pos   int
	file  string
}

func NewParser(input string) *Parser {
	lines := strings.Split(input, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Parser{lines: lines}
}

func ParseFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path)
}

func Parse(input, filename string) (*File, error) {
	p := NewParser(input)
	p.file = filename
	return p.parse()
}

func (p *Parser) parse() (*File, error) {
	file := &File{Path: p.file}

	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		switch {
		case strings.HasPrefix(trimmed, "###"):
			req, err := p.parseBlock(file)
			if err != nil {
				return nil, err
			}
			if req != nil {
				file.Requests = append(file.Requests, req)
			}
		case strings.HasPrefix(trimmed, "@"):
			if v, ok := parseVariable(trimmed, p.pos+1); ok {
				file.Variables = append(file.Variables, v)
			}
			p.pos++
		default:
			// Blank lines, comments and stray text between blocks.
			p.pos++
		}
	}

	return file, nil
}

// parseBlock consumes one `###` block. It returns nil (no error) for a block
// that contains no request line, matching how empty trailing separators are
// commonly used to close a file.
func (p *Parser) parseBlock(file *File) (*Request, error) {
	header := strings.TrimSpace(p.lines[p.pos])
	req := &Request{Name: strings.TrimSpace(strings.TrimLeft(header, "#"))}
	p.pos++

	// Request line. Declarations and comments may sit between the separator
	// and the method; declarations still take file scope.
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		num := p.pos + 1

		if trimmed == "" || isComment(trimmed) {
			p.pos++
			continue
		}
		if strings.HasPrefix(trimmed, "###") {
			return nil, nil
		}
		if strings.HasPrefix(trimmed, "@") {
			if v, ok := parseVariable(trimmed, num); ok {
				file.Variables = append(file.Variables, v)
			}
			p.pos++
			continue
		}

		parts := strings.Fields(trimmed)
		if len(parts) < 2 {
			return nil, p.errorf(num, "malformed request line %q: want METHOD URL", trimmed)
		}
		method := strings.ToUpper(parts[0])
		if !methods[method] {
			return nil, p.errorf(num, "unsupported HTTP method %q", parts[0])
		}
		req.Method = method
		req.URL = strings.TrimSpace(trimmed[len(parts[0]):])
		req.Line = num
		p.pos++
		break
	}
	if req.Method == "" {
		return nil, nil
	}

	// Headers until the first blank line.
	inScript := false
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		num := p.pos + 1

		if trimmed == "" {
			p.pos++
			break
		}
		if strings.HasPrefix(trimmed, "###") {
			return req, nil
		}
		if trimmed == scriptOpen {
			break
		}
		if isComment(trimmed) {
			p.pos++
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			return nil, p.errorf(num, "malformed header line %q", trimmed)
		}
		req.Headers = append(req.Headers, &Header{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Line:  num,
		})
		p.pos++
	}

	// Body until end of block or the script fence. `@` lines seen before any
	// body content are still declarations; once the body has started they are
	// kept verbatim as content.
	bodyLine := 0
	var bodyLines []string
	started := false
	for p.pos < len(p.lines) {
		trimmed := strings.TrimSpace(p.lines[p.pos])
		if strings.HasPrefix(trimmed, "###") {
			break
		}
		if trimmed == scriptOpen {
			inScript = true
			p.pos++
			break
		}
		if !started && strings.HasPrefix(trimmed, "@") {
			if v, ok := parseVariable(trimmed, p.pos+1); ok {
				file.Variables = append(file.Variables, v)
			}
			p.pos++
			continue
		}
		if !started && trimmed != "" {
			started = true
			bodyLine = p.pos + 1
		}
		bodyLines = append(bodyLines, p.lines[p.pos])
		p.pos++
	}

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if body != "" {
		b := &Body{Line: bodyLine}
		if isFileDirective(body) {
			path := strings.TrimSpace(body[1:])
			if path == "" {
				return nil, p.errorf(bodyLine, "body file directive is missing a path")
			}
			b.FilePath = path
		} else {
			b.Raw = body
		}
		req.Body = b
	}

	if inScript {
		openLine := p.pos // the fence line, 1-based
		var scriptLines []string
		closed := false
		for p.pos < len(p.lines) {
			if strings.TrimSpace(p.lines[p.pos]) == scriptClose {
				closed = true
				p.pos++
				break
			}
			scriptLines = append(scriptLines, p.lines[p.pos])
			p.pos++
		}
		if !closed {
			return nil, p.errorf(openLine, "unterminated script block: missing %q", scriptClose)
		}
		req.Script = strings.Join(scriptLines, "\n")
	}

	return req, nil
}

func (p *Parser) errorf(line int, format string, args ...any) *ParseError {
	return &ParseError{File: p.file, Line: line, Message: fmt.Sprintf(format, args...)}
}

func parseVariable(line string, num int) (*Variable, bool) {
	name, value, found := strings.Cut(line[1:], "=")
	if !found {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	return &Variable{
		Name:  name,
		Value: strings.TrimSpace(value),
		Line:  num,
	}, true
}

// isFileDirective reports whether a body is the single-line `< path` form.
// Multi-line bodies and XML payloads (`<?xml ...`) are literal content.
func isFileDirective(body string) bool {
	if strings.Contains(body, "\n") {
		return false
	}
	return body == "<" || strings.HasPrefix(body, "< ")
}

func isComment(line string) bool {
	if strings.HasPrefix(line, "###") {
		return false
	}
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}
