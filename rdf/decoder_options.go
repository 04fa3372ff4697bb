package rdf

import "context"

const (
	// DefaultMaxLineBytes caps the length of a single N-Quads line.
	DefaultMaxLineBytes = 1 << 20
)

// DecodeOptions configures decoder limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	// MaxLineBytes caps the length of one input line.
	MaxLineBytes int
	// MaxStatements caps the number of statements decoded. Zero or negative
	// means no limit.
	MaxStatements int
	// Context provides cancellation for decoding work.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for decoder limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	return opts
}
