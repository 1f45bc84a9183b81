package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "talc.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "talc.yaml", file)
	})

	t.Run("Error string is stable", func(t *testing.T) {
		err := TemplateError("unmatched end marker").
			WithContext("template", "index.html").
			WithContext("offset", 12).
			WithCause(stderrors.New("boom")).
			Build()

		assert.Equal(t, "[template] unmatched end marker (offset=12, template=index.html): boom", err.Error())
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		sentinel := stderrors.New("sentinel")
		base := AssetError("asset missing").WithCause(sentinel).Build()
		wrapped := fmt.Errorf("copy assets: %w", base)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryAsset))
		assert.True(t, stderrors.Is(wrapped, sentinel))
		assert.Equal(t, CategoryAsset, GetCategory(wrapped))
		assert.Equal(t, SeverityFatal, GetSeverity(wrapped))
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := stderrors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("Is compares category and message", func(t *testing.T) {
		a := ConfigError("bad").Build()
		b := ConfigError("bad").WithContext("k", "v").Build()
		c := ValidationError("bad").Build()

		assert.True(t, stderrors.Is(a, b))
		assert.False(t, stderrors.Is(a, c))
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Convenience constructors", func(t *testing.T) {
		assert.True(t, ConfigError("x").Build().IsFatal())
		assert.True(t, TemplateError("x").Build().IsFatal())
		assert.False(t, NotFoundError("x").Build().IsFatal())
		assert.Equal(t, SeverityWarning, FileSystemError("x").Warning().Build().Severity())
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := BuildError("failed").Build()
		extended := base.WithContext("stage", "documents")

		_, ok := base.Context().Get("stage")
		assert.False(t, ok)
		stage, ok := extended.Context().GetString("stage")
		require.True(t, ok)
		assert.Equal(t, "documents", stage)
	})

	t.Run("Context merge prefers other", func(t *testing.T) {
		merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
		assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
	})
}
