// Package errors provides structured error types for the beam module decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the chunk id, a field path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		Chunk("AtU8").
//		Path("atoms", "3", "name").
//		Detail("need %d bytes, have %d", 12, 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(path, "bits", 11, 3)
//	err := errors.MagicMismatch("format", got, []byte("BEAM"))
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind only, so a zero-detail *Error works
// as a sentinel.
package errors
