package env

import (
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httpfile/packages/core/session"
	"github.com/google/uuid"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

const processEnvPrefix = "$processEnv."

// randomIntMax bounds {{$randomInt}} to [0, randomIntMax] inclusive.
const randomIntMax = 1000

// UnresolvedVariableError names the token no tier could satisfy and the
// request whose resolution hit it.
type UnresolvedVariableError struct {
	Name    string
	Request string
}

func (e *UnresolvedVariableError) Error() string {
	if e.Request != "" {
		return fmt.Sprintf("unresolved variable {{%s}} in request %q", e.Name, e.Request)
	}
	return fmt.Sprintf("unresolved variable {{%s}}", e.Name)
}

// Resolver expands {{token}} placeholders. Lookup order per occurrence:
// dynamic `$` tokens first, then the session global store, then the selected
// environment profile, then static file variables. Substitution is a single
// pass; substituted text is never re-scanned for further placeholders.
type Resolver struct {
	globals *session.GlobalStore
	profile map[string]string
	static  map[string]string
}

func NewResolver(globals *session.GlobalStore, profile map[string]string) *Resolver {
	if globals == nil {
		globals = session.NewGlobalStore()
	}
	return &Resolver{
		globals: globals,
		profile: profile,
		static:  make(map[string]string),
	}
}

// SetStatic registers a `@name = value` declaration. Declarations are fed in
// file order, so a later one shadows an earlier one with the same name.
func (r *Resolver) SetStatic(name, value string) {
	r.static[name] = value
}

// Resolve substitutes every placeholder in input or fails on the first token
// no tier can satisfy. requestName is used only for error attribution.
func (r *Resolver) Resolve(input, requestName string) (string, error) {
	var firstErr error

	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}
		token := strings.TrimSpace(match[2 : len(match)-2])

		value, err := r.lookup(token, requestName)
		if err != nil {
			firstErr = err
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func (r *Resolver) lookup(token, requestName string) (string, error) {
	if strings.HasPrefix(token, "$") {
		return r.dynamic(token, requestName)
	}

	if v, ok := r.globals.GetString(token); ok {
		return v, nil
	}
	if v, ok := r.profile[token]; ok {
		return v, nil
	}
	if v, ok := r.static[token]; ok {
		return v, nil
	}

	return "", &UnresolvedVariableError{Name: token, Request: requestName}
}

// dynamic evaluates the fixed set of `$` tokens. Each occurrence is evaluated
// fresh; nothing is cached.
func (r *Resolver) dynamic(token, requestName string) (string, error) {
	switch token {
	case "$uuid":
		return uuid.New().String(), nil
	case "$timestamp":
		return strconv.FormatInt(time.Now().Unix(), 10), nil
	case "$randomInt":
		return strconv.Itoa(rand.Intn(randomIntMax + 1)), nil
	}

	if strings.HasPrefix(token, processEnvPrefix) {
		name := token[len(processEnvPrefix):]
		if name != "" {
			if v, ok := os.LookupEnv(name); ok {
				return v, nil
			}
		}
	}

	return "", &UnresolvedVariableError{Name: token, Request: requestName}
}
