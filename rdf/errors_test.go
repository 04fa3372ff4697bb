package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"eof", io.EOF, ""},
		{"invalid argument", fmt.Errorf("x: %w", ErrInvalidArgument), ErrCodeInvalidArgument},
		{"wrong type", ErrWrongNodeType, ErrCodeWrongNodeType},
		{"incomplete", &StoreError{Op: "add", Err: ErrIncompleteStatement}, ErrCodeIncompleteStatement},
		{"not positioned", ErrNotPositioned, ErrCodeNotPositioned},
		{"storage failure", storageFailure("find", errors.New("disk on fire")), ErrCodeStorageFailure},
		{"closed", ErrStoreClosed, ErrCodeStoreClosed},
		{"stream invalid", ErrStreamInvalid, ErrCodeStreamInvalid},
		{"unknown storage", fmt.Errorf("%w: %q", ErrUnknownStorage, "bdb"), ErrCodeUnknownStorage},
		{"unsupported format", ErrUnsupportedFormat, ErrCodeUnsupportedFormat},
		{"line too long", wrapParseError("nquads", "", 3, ErrLineTooLong), ErrCodeLineTooLong},
		{"statement limit", wrapParseError("nquads", "", 3, ErrStatementLimitExceeded), ErrCodeStatementLimitExceeded},
		{"parse error", wrapParseError("nquads", "<a> .", 1, errors.New("bad")), ErrCodeParseError},
		{"parse error wrapping invalid argument", wrapParseError("nquads", "", 1, ErrInvalidArgument), ErrCodeParseError},
		{"canceled", context.Canceled, ErrCodeContextCanceled},
		{"foreign", errors.New("boom"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStorageFailureWrapsOnce(t *testing.T) {
	root := errors.New("io error")
	err := storageFailure("add", storageFailure("inner", root))
	if !errors.Is(err, ErrStorageFailure) || !errors.Is(err, root) {
		t.Fatalf("expected storage failure wrapping root, got %v", err)
	}
	if strings.Count(err.Error(), ErrStorageFailure.Error()) != 1 {
		t.Fatalf("storage failure wrapped twice: %v", err)
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := wrapParseError("nquads", strings.Repeat("<a> ", 40), 7, errors.New("unexpected token"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	msg := parseErr.Error()
	if !strings.Contains(msg, "nquads:7") || !strings.Contains(msg, "unexpected token") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Fatalf("expected truncated excerpt: %q", msg)
	}

	rewrapped := wrapParseError("jsonld", "", 0, err)
	if !errors.As(rewrapped, &parseErr) || parseErr.Line != 7 || parseErr.Format != "jsonld" {
		t.Fatalf("expected line to survive rewrapping: %+v", parseErr)
	}
}
