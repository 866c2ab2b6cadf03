package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "assetbuilder.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "assetbuilder.yaml" {
			t.Errorf("expected context file=assetbuilder.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ConfigError("test error").Build())

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if GetSeverity(err) != SeverityFatal {
			t.Error("expected error to have fatal severity")
		}
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		if IsClassified(err) {
			t.Error("plain error must not be classified")
		}
		if GetSeverity(err) != SeverityError {
			t.Errorf("expected default severity error, got %s", GetSeverity(err))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryFileSystem, "copy failed").
			Warning().
			WithContext("src", "data-src/config/a.json").
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError},
			{"WatchError", WatchError("test"), CategoryWatch, SeverityFatal},
			{"JournalError", JournalError("test"), CategoryJournal, SeverityError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
			})
		}
	})
}

func TestFatalExitError(t *testing.T) {
	err := fmt.Errorf("skeleton batch: %w", &FatalExitError{Tool: "spine", Code: 3, Output: "boom"})

	fe, ok := AsFatalExit(err)
	if !ok {
		t.Fatal("expected FatalExitError in chain")
	}
	if fe.Code != 3 {
		t.Errorf("expected code 3, got %d", fe.Code)
	}
	if !IsFatal(err) {
		t.Error("expected fatal")
	}
	if IsFatal(nil) {
		t.Error("nil must not be fatal")
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := make(ErrorContext)
	ctx1 = ctx1.Set("key1", "value1")
	ctx1 = ctx1.Set("shared", "original")

	ctx2 := make(ErrorContext)
	ctx2 = ctx2.Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	value1, _ := merged.GetString("key1")
	shared, _ := merged.GetString("shared")
	if value1 != "value1" {
		t.Errorf("expected key1=value1, got %s", value1)
	}
	if shared != "overridden" {
		t.Errorf("expected shared=overridden, got %s", shared)
	}

	_, exists := merged.Get("nonexistent")
	if exists {
		t.Error("expected nonexistent key to not exist")
	}
}
