// Package errors provides structured error types for the cil library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type includes the offending type's rendering
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindSizeOf).
//		Type("struct list").
//		Detail("abstract type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Bug(errors.PhaseBuild, "Mem on non-pointer type")
//	err := errors.SizeOf("int []", "array of unknown length")
//
// All errors implement the standard error interface and support errors.Is/As.
// Sizeof errors are recoverable: ir.SizeOf catches them and returns a
// symbolic sizeof expression; other engines re-raise them. Bug and
// unimplemented errors unwind the current operation and are not recovered.
package errors
