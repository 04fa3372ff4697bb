package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates malformed constructor input.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeWrongNodeType indicates an accessor was used on the wrong node variant.
	ErrCodeWrongNodeType ErrorCode = "WRONG_NODE_TYPE"
	// ErrCodeIncompleteStatement indicates a mutation with a partial statement.
	ErrCodeIncompleteStatement ErrorCode = "INCOMPLETE_STATEMENT"
	// ErrCodeNotPositioned indicates a stream accessor was used outside the cursor window.
	ErrCodeNotPositioned ErrorCode = "NOT_POSITIONED"
	// ErrCodeStorageFailure indicates the backing storage failed.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	// ErrCodeStoreClosed indicates the store has been closed.
	ErrCodeStoreClosed ErrorCode = "STORE_CLOSED"
	// ErrCodeStreamInvalid indicates the stream's source store is gone.
	ErrCodeStreamInvalid ErrorCode = "STREAM_INVALID"
	// ErrCodeUnknownStorage indicates no storage factory is registered under a name.
	ErrCodeUnknownStorage ErrorCode = "UNKNOWN_STORAGE"
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeStatementLimitExceeded indicates that the maximum number of statements was exceeded.
	ErrCodeStatementLimitExceeded ErrorCode = "STATEMENT_LIMIT_EXCEEDED"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeUnknown is returned for errors this package did not produce.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrInvalidArgument indicates malformed constructor input.
	ErrInvalidArgument = errors.New("rdf: invalid argument")
	// ErrWrongNodeType indicates an accessor was used on the wrong node variant.
	ErrWrongNodeType = errors.New("rdf: wrong node type")
	// ErrIncompleteStatement indicates a mutation was attempted with a partial statement.
	ErrIncompleteStatement = errors.New("rdf: incomplete statement")
	// ErrNotPositioned indicates a stream accessor was used before Next or after exhaustion.
	ErrNotPositioned = errors.New("rdf: stream not positioned on an element")
	// ErrStorageFailure indicates the backing storage failed. It is fatal to the store.
	ErrStorageFailure = errors.New("rdf: storage failure")
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("rdf: store closed")
	// ErrStreamInvalid indicates the store backing a stream has been closed.
	ErrStreamInvalid = errors.New("rdf: stream invalidated")
	// ErrUnknownStorage indicates no storage factory is registered under the requested name.
	ErrUnknownStorage = errors.New("rdf: unknown storage")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrStatementLimitExceeded indicates that the maximum number of statements was exceeded.
	ErrStatementLimitExceeded = errors.New("rdf: maximum number of statements exceeded")
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) && !isLimitError(err) {
		return ErrCodeParseError
	}

	switch {
	case errors.Is(err, ErrInvalidArgument):
		return ErrCodeInvalidArgument
	case errors.Is(err, ErrWrongNodeType):
		return ErrCodeWrongNodeType
	case errors.Is(err, ErrIncompleteStatement):
		return ErrCodeIncompleteStatement
	case errors.Is(err, ErrNotPositioned):
		return ErrCodeNotPositioned
	case errors.Is(err, ErrStoreClosed):
		return ErrCodeStoreClosed
	case errors.Is(err, ErrStreamInvalid):
		return ErrCodeStreamInvalid
	case errors.Is(err, ErrStorageFailure):
		return ErrCodeStorageFailure
	case errors.Is(err, ErrUnknownStorage):
		return ErrCodeUnknownStorage
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrStatementLimitExceeded):
		return ErrCodeStatementLimitExceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeUnknown
}

func isLimitError(err error) bool {
	return errors.Is(err, ErrLineTooLong) ||
		errors.Is(err, ErrStatementLimitExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// StoreError records a failed store operation.
type StoreError struct {
	Op  string // Store method that failed (e.g. "add", "find")
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	return "rdf: store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// storageFailure wraps a backend error so that it matches ErrStorageFailure.
func storageFailure(op string, err error) *StoreError {
	if errors.Is(err, ErrStorageFailure) {
		return &StoreError{Op: op, Err: err}
	}
	return &StoreError{Op: op, Err: fmt.Errorf("%w: %w", ErrStorageFailure, err)}
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "nquads", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&msg, ":%d", e.Line)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if e.Statement != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt(e.Statement))
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

func excerpt(statement string) string {
	const maxExcerptLen = 80
	statement = strings.TrimSpace(statement)
	if len(statement) > maxExcerptLen {
		return statement[:maxExcerptLen] + "..."
	}
	return statement
}

// wrapParseError adds format/statement/line context to a parse error.
func wrapParseError(format, statement string, line int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Line > 0 && line == 0 {
			line = parseErr.Line
		}
		err = parseErr.Err
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Err:       err,
	}
}
