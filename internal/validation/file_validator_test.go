package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "envcli/internal/errors"
)

func TestFileValidatorValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		wantType      apperrors.ErrorType
		errorContains string
	}{
		{
			name: "existing readable file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "sensors.csv")
				require.NoError(t, os.WriteFile(file, []byte("时间,温度\n"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			wantType:      apperrors.ErrTypeNotFound,
			errorContains: "not found",
		},
		{
			name: "path is a directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			wantType:      apperrors.ErrTypeValidation,
			errorContains: "directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := tt.setupFunc(t)

			err := validator.ValidateFile(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidatorValidateTabularFile(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		wantErr       bool
		errorContains string
	}{
		{name: "csv accepted", filename: "readings.csv"},
		{name: "xlsx accepted", filename: "readings.xlsx"},
		{name: "xlsm accepted", filename: "readings.xlsm"},
		{name: "legacy xls accepted", filename: "readings.xls"},
		{name: "text rejected", filename: "readings.txt", wantErr: true, errorContains: "unsupported input format"},
		{name: "no extension rejected", filename: "readings", wantErr: true, errorContains: "unsupported input format"},
		{name: "editor lock file rejected", filename: "~$readings.xlsx", wantErr: true, errorContains: "lock file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

			err := validator.ValidateTabularFile(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation), "got %v", err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidatorValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name            string
		setupFunc       func(t *testing.T) string
		requiredPattern string
		wantErr         bool
		errorContains   string
	}{
		{
			name: "valid directory with files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "readings.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return dir
			},
			requiredPattern: "*.xlsx",
		},
		{
			name: "valid directory without files",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			requiredPattern: "*.xlsx",
			// no matches is a warning, not an error
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope")
			},
			wantErr:       true,
			errorContains: "not found",
		},
		{
			name: "path is file not directory",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "readings.csv")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			dir := tt.setupFunc(t)

			err := validator.ValidateInputDirectory(dir, tt.requiredPattern)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidatorValidateOutputDirectory(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		validator := NewFileValidator(slog.Default())
		dir := filepath.Join(t.TempDir(), "reports", "nested")

		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("accepts existing directory", func(t *testing.T) {
		validator := NewFileValidator(slog.Default())
		assert.NoError(t, validator.ValidateOutputDirectory(t.TempDir()))
	})

	t.Run("removes write probe", func(t *testing.T) {
		validator := NewFileValidator(slog.Default())
		dir := t.TempDir()

		require.NoError(t, validator.ValidateOutputDirectory(dir))

		_, err := os.Stat(filepath.Join(dir, ".write_test"))
		assert.True(t, os.IsNotExist(err))
	})
}
