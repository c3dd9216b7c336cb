// Package parser turns .http file text into an ordered sequence of request
// definitions plus the file-scoped variable declarations.
//
// The grammar is line oriented: `###` opens a named block, `@name = value`
// declares a variable, `METHOD URL` starts the request, `Name: Value` lines
// up to the first blank line are headers, the remaining lines form the body,
// and a `> {%` ... `%}` fence carries a response-handler script verbatim.
package parser
