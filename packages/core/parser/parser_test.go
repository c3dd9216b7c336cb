package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_SimpleGET(t *testing.T) {
	input := `### Get User
GET https://api.example.com/users/1`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)

	req := file.Requests[0]
	assert.Equal(t, "Get User", req.Name)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://api.example.com/users/1", req.URL)
	assert.Empty(t, req.Headers)
	assert.Nil(t, req.Body)
	assert.False(t, req.HasScript())
}

func TestParser_POSTWithHeadersAndBody(t *testing.T) {
	input := `### Create User
POST https://api.example.com/users
Content-Type: application/json
X-Request-Id: abc

{
  "name": "John",
  "email": "john@example.com"
}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)

	req := file.Requests[0]
	assert.Equal(t, "Create User", req.Name)
	assert.Equal(t, "POST", req.Method)
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Content-Type", req.Headers[0].Key)
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.Equal(t, "X-Request-Id", req.Headers[1].Key)
	require.NotNil(t, req.Body)
	assert.Contains(t, req.Body.Raw, `"name": "John"`)
	assert.False(t, req.Body.IsFileRef())
}

func TestParser_Variables(t *testing.T) {
	input := `@baseUrl = https://api.example.com
@token = secret123

### Get User
GET {{baseUrl}}/users
Authorization: Bearer {{token}}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Variables, 2)
	assert.Equal(t, "baseUrl", file.Variables[0].Name)
	assert.Equal(t, "https://api.example.com", file.Variables[0].Value)
	assert.Equal(t, "token", file.Variables[1].Name)
	assert.Equal(t, "secret123", file.Variables[1].Value)

	require.Len(t, file.Requests, 1)
	req := file.Requests[0]
	assert.Equal(t, "{{baseUrl}}/users", req.URL)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "Bearer {{token}}", req.Headers[0].Value)
}

func TestParser_InterleavedVariables(t *testing.T) {
	input := `@host = first.example.com

### One
GET https://{{host}}/a

@host = second.example.com

### Two
GET https://{{host}}/b`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Variables, 2)
	require.Len(t, file.Requests, 2)

	// Declaration order and positions survive so later requests can see the
	// redefinition while earlier ones keep the first value.
	assert.Equal(t, "first.example.com", file.Variables[0].Value)
	assert.Equal(t, "second.example.com", file.Variables[1].Value)
	assert.Less(t, file.Variables[0].Line, file.Requests[0].Line)
	assert.Greater(t, file.Variables[1].Line, file.Requests[0].Line)
	assert.Less(t, file.Variables[1].Line, file.Requests[1].Line)
}

func TestParser_MultipleBlocks(t *testing.T) {
	input := `### First
GET https://example.com/1

### Second
POST https://example.com/2
Content-Type: text/plain

hello

### Third
DELETE https://example.com/3`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 3)
	assert.Equal(t, "First", file.Requests[0].Name)
	assert.Equal(t, "Second", file.Requests[1].Name)
	assert.Equal(t, "hello", file.Requests[1].Body.Raw)
	assert.Equal(t, "Third", file.Requests[2].Name)
	assert.Equal(t, "DELETE", file.Requests[2].Method)
}

func TestParser_UnnamedBlock(t *testing.T) {
	input := `###
GET https://example.com/anonymous`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "", file.Requests[0].Name)
}

func TestParser_EmptyBlockSkipped(t *testing.T) {
	input := `### Nothing here

### Real
GET https://example.com/`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "Real", file.Requests[0].Name)
}

func TestParser_MethodCaseInsensitive(t *testing.T) {
	input := `### Lower
get https://example.com/

### Mixed
PaTcH https://example.com/`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 2)
	assert.Equal(t, "GET", file.Requests[0].Method)
	assert.Equal(t, "PATCH", file.Requests[1].Method)
}

func TestParser_GraphQLMethod(t *testing.T) {
	input := `### Query
GRAPHQL https://example.com/graphql

query { user { id } }`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "GRAPHQL", file.Requests[0].Method)
	require.NotNil(t, file.Requests[0].Body)
}

func TestParser_InvalidMethod(t *testing.T) {
	input := `### Broken
FETCH https://example.com/`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "test.http", perr.File)
	assert.Equal(t, 2, perr.Line)
}

func TestParser_MissingURL(t *testing.T) {
	input := `### Broken
GET`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParser_MalformedHeader(t *testing.T) {
	input := `### Broken
GET https://example.com/
this is not a header`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "header")
}

func TestParser_DuplicateHeadersPreserved(t *testing.T) {
	input := `### Multi
GET https://example.com/
Accept: application/json
Accept: text/plain`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.Equal(t, "text/plain", req.Headers[1].Value)
}

func TestParser_ScriptBlock(t *testing.T) {
	input := `### With Script
GET https://example.com/

> {%
client.test("ok", function() {
  client.assert(response.status === 200);
});
%}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.True(t, req.HasScript())
	assert.Contains(t, req.Script, `client.test("ok"`)
	assert.NotContains(t, req.Script, "%}")
}

func TestParser_ScriptAfterBody(t *testing.T) {
	input := `### Post Then Check
POST https://example.com/login
Content-Type: application/json

{"user": "admin"}

> {%
client.global.set("token", response.json.token);
%}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.NotNil(t, req.Body)
	assert.Equal(t, `{"user": "admin"}`, req.Body.Raw)
	require.True(t, req.HasScript())
	assert.Contains(t, req.Script, "client.global.set")
}

func TestParser_ScriptWithoutBlankLine(t *testing.T) {
	input := `### Tight
GET https://example.com/
Accept: application/json
> {%
client.test("t", function() {});
%}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.Len(t, req.Headers, 1)
	require.True(t, req.HasScript())
	assert.Nil(t, req.Body)
}

func TestParser_UnterminatedScript(t *testing.T) {
	input := `### Broken
GET https://example.com/

> {%
client.test("never closed", function() {});`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "unterminated")
}

func TestParser_BodyFileDirective(t *testing.T) {
	input := `### Upload
POST https://example.com/upload
Content-Type: application/octet-stream

< ./payload.bin`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.NotNil(t, req.Body)
	require.True(t, req.Body.IsFileRef())
	assert.Equal(t, "./payload.bin", req.Body.FilePath)
}

func TestParser_BodyFileDirectiveMissingPath(t *testing.T) {
	input := `### Upload
POST https://example.com/upload

<`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "path")
}

func TestParser_BodyFileDirectiveErrorCitesDirectiveLine(t *testing.T) {
	// Blank lines between the headers and the directive must not shift the
	// reported position.
	input := `### Upload
POST https://example.com/upload



<`

	_, err := Parse(input, "test.http")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 6, perr.Line)
}

func TestParser_BodyLineIsFirstContentLine(t *testing.T) {
	input := `### Create
POST https://example.com/users


{"name": "alice"}`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.NotNil(t, req.Body)
	assert.Equal(t, 5, req.Body.Line)
}

func TestParser_XMLBodyNotFileDirective(t *testing.T) {
	input := `### Soap
POST https://example.com/soap
Content-Type: application/xml

<?xml version="1.0"?>
<envelope></envelope>`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	req := file.Requests[0]
	require.NotNil(t, req.Body)
	assert.False(t, req.Body.IsFileRef())
	assert.Contains(t, req.Body.Raw, "<envelope>")
}

func TestParser_CommentsIgnored(t *testing.T) {
	input := `# top level comment
// another comment

### Get
# comment before method
GET https://example.com/`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "GET", file.Requests[0].Method)
}

func TestParser_ContentBeforeFirstSeparatorIgnored(t *testing.T) {
	input := `This file documents the login flow.

### Login
POST https://example.com/login`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "Login", file.Requests[0].Name)
}

func TestParser_CRLFInput(t *testing.T) {
	input := "### Windows\r\nGET https://example.com/\r\nAccept: text/plain\r\n"

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	req := file.Requests[0]
	assert.Equal(t, "https://example.com/", req.URL)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "text/plain", req.Headers[0].Value)
}

func TestParser_EmptyInput(t *testing.T) {
	file, err := Parse("", "test.http")
	require.NoError(t, err)
	assert.Empty(t, file.Requests)
	assert.Empty(t, file.Variables)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.http")
	content := `### Ping
GET https://example.com/ping`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	file, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	require.Len(t, file.Requests, 1)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.http"))
	require.Error(t, err)
}
