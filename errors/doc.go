// Package errors provides structured error types for the rosu bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Every Kind has a stable wire code; the bridge dispatcher folds it into the
// error envelope tag so a host can branch on the category without parsing text.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCollection, errors.KindIndexOutOfRange).
//		Path("collections", "3", "hashes").
//		Value(7).
//		Detail("hash index %d out of range", 7).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseDecode, path, 21, 9)
//	err := errors.OutOfRange(errors.PhaseCollection, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of the same Kind regardless of Phase.
package errors
