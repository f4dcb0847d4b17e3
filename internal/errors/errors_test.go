package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError_Error(t *testing.T) {
	// Test error without cause
	err := New(ErrorTypeValidation, "test_op", "test message")
	expected := "[validation] test_op: test message"
	assert.Equal(t, expected, err.Error())

	// Test error with cause
	cause := errors.New("underlying error")
	err = Wrap(cause, ErrorTypeIO, "load_op", "failed to load")
	assert.Contains(t, err.Error(), "[io] load_op: failed to load")
	assert.Contains(t, err.Error(), "underlying error")
	assert.Equal(t, cause, err.Unwrap())
}

func TestStructuredError_WithContext(t *testing.T) {
	err := New(ErrorTypeValidation, "test_op", "test message")
	err = err.WithContext("window", -3).WithContext("dataset", "test_dataset")

	assert.Equal(t, -3, err.Context["window"])
	assert.Equal(t, "test_dataset", err.Context["dataset"])
}

func TestErrorConstructors(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, NewValidationError("op", "msg").Type)
	assert.Equal(t, ErrorTypeComputation, NewComputationError("op", "msg").Type)
	assert.Equal(t, ErrorTypeConfiguration, NewConfigurationError("op", "msg").Type)
	assert.Equal(t, ErrorTypeCancelled, NewCancelledError("op", "msg").Type)
	assert.Equal(t, ErrorTypeTimeout, NewTimeoutError("op", "msg").Type)
	assert.Equal(t, ErrorTypeIO, NewIOError("op", "msg").Type)
}

func TestErrorWrapping(t *testing.T) {
	originalErr := errors.New("original error")

	wrapped := WrapComputationError(originalErr, "evaluate", "kernel failed")
	assert.Equal(t, ErrorTypeComputation, wrapped.Type)
	assert.Equal(t, "evaluate", wrapped.Operation)
	assert.Equal(t, "kernel failed", wrapped.Message)
	assert.Equal(t, originalErr, wrapped.Unwrap())

	// Wrap returns nil for nil error
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "op", "msg"))
}

func TestIsType(t *testing.T) {
	err := NewCancelledError("op", "msg")
	assert.True(t, IsType(err, ErrorTypeCancelled))
	assert.False(t, IsType(err, ErrorTypeTimeout))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeCancelled))
}
