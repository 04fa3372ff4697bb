package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

// Exit codes for different error categories.
const (
	ExitSuccess  = 0
	ExitConfig   = 1
	ExitStorage  = 2
	ExitInput    = 4
	ExitParse    = 5
	ExitNotFound = 6
	ExitInternal = 10
)

// errNoMatch is returned by query when nothing matched.
var errNoMatch = errors.New("no matching statements")

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	codeLabel  = color.New(color.Faint)
	heading    = color.New(color.Bold)
)

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errNoMatch) {
		return ExitNotFound
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}
	switch rdf.Code(err) {
	case rdf.ErrCodeStorageFailure, rdf.ErrCodeStoreClosed, rdf.ErrCodeUnknownStorage:
		return ExitStorage
	case rdf.ErrCodeParseError, rdf.ErrCodeLineTooLong, rdf.ErrCodeStatementLimitExceeded:
		return ExitParse
	case rdf.ErrCodeInvalidArgument, rdf.ErrCodeIncompleteStatement, rdf.ErrCodeUnsupportedFormat, rdf.ErrCodeWrongNodeType:
		return ExitInput
	}
	return ExitInternal
}

// configError marks failures to load or validate configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return "config: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func printError(w io.Writer, err error, jsonOut bool) {
	code := rdf.Code(err)
	if jsonOut {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":     err.Error(),
			"code":      string(code),
			"exit_code": exitCode(err),
		})
		return
	}
	errorLabel.Fprint(w, "Error: ")
	fmt.Fprint(w, err.Error())
	if code != "" && code != rdf.ErrCodeUnknown {
		codeLabel.Fprintf(w, " [%s]", code)
	}
	fmt.Fprintln(w)
}
