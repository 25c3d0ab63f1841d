package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LDG_002", "Insufficient balance"),
			expected: "[LDG_002] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "Storage failure", fmt.Errorf("disk full")),
			expected: "[SYS_001] Storage failure: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_002", "wrapped", inner)

	assert.True(t, errors.Is(appErr, inner))
	assert.Nil(t, New("LDG_001", "plain").Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "LDG_001", CodeOf(ErrInvalidAmount()))
	assert.Equal(t, "LDG_003", CodeOf(fmt.Errorf("outer: %w", ErrNotFound("wallet"))))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code string
	}{
		{"invalid amount", ErrInvalidAmount(), "LDG_001"},
		{"insufficient balance", ErrInsufficientBalance(), "LDG_002"},
		{"not found", ErrNotFound("wallet"), "LDG_003"},
		{"validation", Validation("rate must be positive"), "LDG_004"},
		{"invalid format", ErrInvalidFormat(nil), "SNP_001"},
		{"storage failure", ErrStorageFailure(fmt.Errorf("io")), "SYS_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrNotFound_IncludesEntity(t *testing.T) {
	err := ErrNotFound("wallet")
	assert.Contains(t, err.Message, "wallet")
}
