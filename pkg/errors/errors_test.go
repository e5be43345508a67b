package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "ShapeMismatch",
			code:    ShapeMismatch,
			message: "cannot set array of shape (3) with value of shape (2)",
		},
		{
			name:    "UnknownPolicy",
			code:    UnknownPolicy,
			message: "unknown recombination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())

			// Test nil original error for new errors
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(UnknownPolicy, "unknown recombination %q", "median")
	customErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnknownPolicy, customErr.Code())
	assert.Equal(t, `unknown recombination "median"`, customErr.Error())
}

// TestWrapError tests error wrapping functionality.
func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("original error")

	tests := []struct {
		name       string
		err        error
		code       ErrorCode
		wrapMsg    string
		expectNil  bool
		expectCode ErrorCode
	}{
		{
			name:       "Wrap normal error",
			err:        originalErr,
			code:       ValidationFailed,
			wrapMsg:    "validation context",
			expectNil:  false,
			expectCode: ValidationFailed,
		},
		{
			name:      "Wrap nil error",
			err:       nil,
			code:      ValidationFailed,
			wrapMsg:   "validation context",
			expectNil: true,
		},
		{
			name:       "Wrap custom error",
			err:        New(ShapeMismatch, "shape mismatch"),
			code:       InvalidInput,
			wrapMsg:    "setting value",
			expectNil:  false,
			expectCode: InvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.code, tt.wrapMsg)

			if tt.expectNil {
				assert.Nil(t, wrapped)
				return
			}

			assert.NotNil(t, wrapped)

			ourErr := wrapped.(*Error)
			assert.Equal(t, tt.expectCode, ourErr.Code())
			assert.Contains(t, ourErr.Error(), tt.wrapMsg)

			// Verify original error is preserved
			unwrapped := ourErr.Unwrap()
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), unwrapped.Error())
			}
		})
	}
}

// TestErrorInterfaces tests compliance with Go error interfaces.
func TestErrorInterfaces(t *testing.T) {
	t.Run("errors.Is support", func(t *testing.T) {
		err1 := New(ShapeMismatch, "first")
		err2 := New(ShapeMismatch, "second")
		err3 := New(NotSupported, "third")

		assert.True(t, stderrors.Is(err1, err2),
			"Errors with same code should match with Is")
		assert.False(t, stderrors.Is(err1, err3),
			"Errors with different codes should not match with Is")
	})

	t.Run("errors.As support", func(t *testing.T) {
		originalErr := New(ShapeMismatch, "original")
		wrappedErr := Wrap(originalErr, InvalidInput, "wrapped")

		var customErr *Error
		assert.True(t, stderrors.As(wrappedErr, &customErr),
			"Should be able to extract custom error type")
		assert.Equal(t, InvalidInput, customErr.Code())
	})

	t.Run("error unwrapping", func(t *testing.T) {
		baseErr := stderrors.New("base error")
		wrapped := Wrap(baseErr, ValidationFailed, "wrapped error")

		unwrapped := stderrors.Unwrap(wrapped)
		assert.Equal(t, baseErr.Error(), unwrapped.Error())
	})
}

// TestErrorString tests the string representation of errors.
func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "Simple error",
			err:      New(ValidationFailed, "validation failed"),
			contains: []string{"validation failed"},
		},
		{
			name: "Wrapped error",
			err: Wrap(
				stderrors.New("original problem"),
				ValidationFailed,
				"validation context",
			),
			contains: []string{
				"validation context",
				"original problem",
			},
		},
		{
			name: "Multiple wraps",
			err: Wrap(
				Wrap(
					stderrors.New("root cause"),
					ShapeMismatch,
					"shape mismatch",
				),
				InvalidInput,
				"invalid value",
			),
			contains: []string{
				"invalid value",
				"shape mismatch",
				"root cause",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errString := tt.err.Error()
			for _, str := range tt.contains {
				assert.Contains(t, errString, str,
					"Error string should contain expected message")
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	t.Run("Empty fields", func(t *testing.T) {
		err := New(ValidationFailed, "error")
		customErr := err.(*Error)
		assert.Empty(t, customErr.Fields())
	})

	t.Run("Add fields", func(t *testing.T) {
		fields := Fields{
			"shape":     "(2,3)",
			"dimension": 6,
		}
		err := WithFields(New(ShapeMismatch, "error"), fields)
		customErr := err.(*Error)
		assert.Equal(t, fields, customErr.Fields())
	})

	t.Run("Merge fields", func(t *testing.T) {
		err := WithFields(New(ValidationFailed, "error"), Fields{"a": 1})
		err = WithFields(err, Fields{"b": 2})
		customErr := err.(*Error)
		assert.Len(t, customErr.Fields(), 2)
		assert.Equal(t, 1, customErr.Fields()["a"])
		assert.Equal(t, 2, customErr.Fields()["b"])
	})

	t.Run("Fields method returns copy not reference", func(t *testing.T) {
		err := WithFields(New(ValidationFailed, "test"), Fields{"key": "original"})
		customErr := err.(*Error)

		returnedFields := customErr.Fields()
		returnedFields["key"] = "modified"

		assert.Equal(t, "original", customErr.Fields()["key"])
	})
}

// TestAllErrorCodes tests every error code round-trips through New.
func TestAllErrorCodes(t *testing.T) {
	testCases := []struct {
		code ErrorCode
		name string
	}{
		{Unknown, "Unknown"},
		{InvalidInput, "InvalidInput"},
		{ValidationFailed, "ValidationFailed"},
		{Canceled, "Canceled"},
		{ShapeMismatch, "ShapeMismatch"},
		{LengthMismatch, "LengthMismatch"},
		{KeyMismatch, "KeyMismatch"},
		{UnknownPolicy, "UnknownPolicy"},
		{NotSupported, "NotSupported"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New(tc.code, "test error")
			customErr, ok := err.(*Error)
			require.True(t, ok)
			assert.Equal(t, tc.code, customErr.Code())
		})
	}
}

func TestCheckContext(t *testing.T) {
	t.Run("live context passes", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "conversion"))
	})

	t.Run("canceled context yields a coded error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "conversion")
		require.Error(t, err)

		customErr, ok := err.(*Error)
		require.True(t, ok)
		assert.Equal(t, Canceled, customErr.Code())
		assert.Contains(t, customErr.Error(), "conversion")
		assert.True(t, stderrors.Is(customErr.Unwrap(), context.Canceled))
	})
}

// CustomError is a test error type that's not our Error type.
type CustomError struct {
	msg string
}

func (c *CustomError) Error() string {
	return c.msg
}

func TestErrorAsMethod(t *testing.T) {
	t.Run("As method with correct target type", func(t *testing.T) {
		err := New(ValidationFailed, "validation error")
		var customErr *Error

		assert.True(t, stderrors.As(err, &customErr))
		assert.NotNil(t, customErr)
		assert.Equal(t, ValidationFailed, customErr.Code())
	})

	t.Run("As method with incorrect target type", func(t *testing.T) {
		err := New(ValidationFailed, "validation error")
		var wrongType *CustomError

		assert.False(t, stderrors.As(err, &wrongType))
		assert.Nil(t, wrongType)
	})
}

func TestWithFieldsEdgeCases(t *testing.T) {
	t.Run("WithFields on nil error", func(t *testing.T) {
		result := WithFields(nil, Fields{"key": "value"})
		assert.Nil(t, result)
	})

	t.Run("WithFields on non-Error type", func(t *testing.T) {
		baseErr := stderrors.New("base error")
		fields := Fields{"context": "test"}

		result := WithFields(baseErr, fields)
		assert.NotNil(t, result)

		customErr, ok := result.(*Error)
		require.True(t, ok)
		assert.Equal(t, Unknown, customErr.Code())
		assert.Equal(t, "test", customErr.Fields()["context"])
	})

	t.Run("WithFields field overwriting", func(t *testing.T) {
		err := WithFields(
			New(ValidationFailed, "test"),
			Fields{"key": "original", "other": "value"},
		)

		result := WithFields(err, Fields{"key": "overwritten", "new": "added"})

		customErr, ok := result.(*Error)
		require.True(t, ok)
		fields := customErr.Fields()
		assert.Equal(t, "overwritten", fields["key"])
		assert.Equal(t, "value", fields["other"])
		assert.Equal(t, "added", fields["new"])
	})
}
