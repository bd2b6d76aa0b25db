package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewMalformedInputError("no parseable timestamps", nil),
			want: "[MALFORMED_INPUT] no parseable timestamps",
		},
		{
			name: "with cause",
			err:  NewParsingError("bad cell", errors.New("strconv failed")),
			want: "[PARSING] bad cell: strconv failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := NewStorageError("open input", cause)

	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppErrorUnwrapThroughWrapping(t *testing.T) {
	inner := NewMalformedInputError("indicator absent from every row", nil)
	wrapped := fmt.Errorf("run analysis: %w", inner)

	assert.True(t, IsMalformedInput(wrapped))
	assert.False(t, IsMalformedInput(errors.New("plain error")))
	assert.False(t, IsMalformedInput(nil))
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"matching type", NewExportError("write chart", nil), ErrTypeExport, true},
		{"different type", NewExportError("write chart", nil), ErrTypeParsing, false},
		{"wrapped", fmt.Errorf("step: %w", NewCancelledError("interrupted", nil)), ErrTypeCancelled, true},
		{"non-app error", errors.New("boom"), ErrTypeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("bad request", nil).
		WithContext("field", "methods").
		WithContext("count", 0)

	assert.Equal(t, "methods", err.Context["field"])
	assert.Equal(t, 0, err.Context["count"])
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("indicator column")
	assert.Equal(t, "[NOT_FOUND] indicator column not found", err.Error())
}
