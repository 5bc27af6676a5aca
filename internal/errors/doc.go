// Package errors defines the classified error kinds used across the page
// pipeline.
//
// Errors are built with a small fluent builder:
//
//	err := errors.New(errors.KindGenerationFailure, "main output failed").
//		WithComponent("json_ld").
//		WithPath("/about").
//		Wrap(cause).
//		Build()
//
// Kinds are matched with the standard library:
//
//	if stderrors.Is(err, errors.ErrGenerationFailure) { ... }
package errors
