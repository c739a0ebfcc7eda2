package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvellino/dinespot/internal/models"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		next     string
		expected error
	}{
		{
			name:    "pending_to_completed",
			current: models.PaymentPending,
			next:    models.PaymentCompleted,
		},
		{
			name:    "pending_to_failed",
			current: models.PaymentPending,
			next:    models.PaymentFailed,
		},
		{
			name:     "completed_back_to_pending",
			current:  models.PaymentCompleted,
			next:     models.PaymentPending,
			expected: ErrIllegalTransition,
		},
		{
			name:     "failed_to_completed",
			current:  models.PaymentFailed,
			next:     models.PaymentCompleted,
			expected: ErrIllegalTransition,
		},
		{
			name:     "pending_to_unknown_status",
			current:  models.PaymentPending,
			next:     "Refunded",
			expected: ErrIllegalTransition,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.ErrorIs(t, checkTransition(testCase.current, testCase.next), testCase.expected)
		})
	}
}

func TestValidMethod(t *testing.T) {
	assert.True(t, validMethod(models.MethodCard))
	assert.True(t, validMethod(models.MethodPayPal))
	assert.True(t, validMethod(models.MethodCash))
	assert.False(t, validMethod("Crypto"))
	assert.False(t, validMethod(""))
}
