package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/httpfile/packages/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapResolver(vars map[string]string) ResolveFunc {
	return func(input string) (string, error) {
		out := input
		for k, v := range vars {
			out = strings.ReplaceAll(out, "{{"+k+"}}", v)
		}
		if strings.Contains(out, "{{") {
			return "", fmt.Errorf("unresolved variable in %q", input)
		}
		return out, nil
	}
}

func TestBuildRequest_ResolvesAllParts(t *testing.T) {
	parsed := &parser.Request{
		Name:   "Create User",
		Method: "POST",
		URL:    "https://{{host}}/users",
		Headers: []*parser.Header{
			{Key: "Authorization", Value: "Bearer {{token}}"},
			{Key: "Content-Type", Value: "application/json"},
		},
		Body: &parser.Body{Raw: `{"name": "{{name}}"}`},
	}

	resolve := mapResolver(map[string]string{
		"host":  "api.example.com",
		"token": "t-123",
		"name":  "alice",
	})

	req, err := BuildRequest(parsed, resolve, "")
	require.NoError(t, err)
	assert.Equal(t, "Create User", req.Name)
	assert.Equal(t, "https://api.example.com/users", req.URL)
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Bearer t-123", req.Headers[0].Value)
	assert.Equal(t, `{"name": "alice"}`, req.Body)
}

func TestBuildRequest_UnresolvedURLFails(t *testing.T) {
	parsed := &parser.Request{
		Method: "GET",
		URL:    "https://{{missing}}/x",
	}

	_, err := BuildRequest(parsed, mapResolver(nil), "")
	require.Error(t, err)
}

func TestBuildRequest_BodyFileDirective(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payload, []byte(`{"from": "disk"}`), 0o644))

	parsed := &parser.Request{
		Method: "POST",
		URL:    "https://example.com/upload",
		Body:   &parser.Body{FilePath: "payload.json"},
	}

	req, err := BuildRequest(parsed, mapResolver(nil), dir)
	require.NoError(t, err)
	assert.Equal(t, `{"from": "disk"}`, req.Body)
}

func TestBuildRequest_BodyFilePathResolved(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "v2.json")
	require.NoError(t, os.WriteFile(payload, []byte("versioned"), 0o644))

	parsed := &parser.Request{
		Method: "POST",
		URL:    "https://example.com/upload",
		Body:   &parser.Body{FilePath: "{{version}}.json"},
	}

	req, err := BuildRequest(parsed, mapResolver(map[string]string{"version": "v2"}), dir)
	require.NoError(t, err)
	assert.Equal(t, "versioned", req.Body)
}

func TestBuildRequest_BodyFileMissing(t *testing.T) {
	parsed := &parser.Request{
		Method: "POST",
		URL:    "https://example.com/upload",
		Body:   &parser.Body{FilePath: "does-not-exist.bin"},
	}

	_, err := BuildRequest(parsed, mapResolver(nil), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading body file")
}

func TestRequest_WireMethod(t *testing.T) {
	assert.Equal(t, "POST", NewRequest("GRAPHQL", "https://x").WireMethod())
	assert.Equal(t, "GET", NewRequest("GET", "https://x").WireMethod())
	assert.Equal(t, "DELETE", NewRequest("DELETE", "https://x").WireMethod())
}
