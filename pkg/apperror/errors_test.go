package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsAndCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		kind string
		code int
	}{
		{NewInvalidStateError("order is already paid"), KindInvalidState, http.StatusConflict},
		{NewValidationMessage("amount must be positive"), KindValidation, http.StatusUnprocessableEntity},
		{NewInsufficientFundsError("withdrawal exceeds the current balance"), KindInsufficientFunds, http.StatusUnprocessableEntity},
		{NewConcurrentModificationError("retries exhausted"), KindConcurrentModification, http.StatusConflict},
		{NewDeliveryGapError("event stream overflowed"), KindDeliveryGap, http.StatusGone},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.err.Kind)
		assert.Equal(t, tc.code, tc.err.Code)
		assert.True(t, IsKind(tc.err, tc.kind))
	}
}

func TestIsKindSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("finalize: %w", NewDeliveryGapError("gap"))
	assert.True(t, IsKind(wrapped, KindDeliveryGap))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestGetAppErrorFallsBackToInternal(t *testing.T) {
	err := errors.New("connection refused")
	appErr := GetAppError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "connection refused", appErr.Message)
}
