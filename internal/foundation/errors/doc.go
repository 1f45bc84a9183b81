// Package errors provides foundational, type-safe error primitives used across talc.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, template, asset, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.TemplateError("unmatched end marker").
//		WithContext("template", "index.html").
//		WithCause(ErrMalformedTemplate).
//		Build()
package errors
