package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/internal/validators"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error → 400", validators.ErrEmptyTripName, http.StatusBadRequest},
		{"unknown purpose → 400", validators.ErrUnknownTripPurpose, http.StatusBadRequest},
		{"self companion → 400", service.ErrValidationSelfCompanion, http.StatusBadRequest},
		{"wrong password → 401", service.ErrWrongPassword, http.StatusUnauthorized},
		{"expired token → 401", service.ErrTokenIsExpired, http.StatusUnauthorized},
		{"forbidden → 403", service.ErrForbidden, http.StatusForbidden},
		{"trip not found → 404", store.ErrTripNotFound, http.StatusNotFound},
		{"companion not found → 404", store.ErrCompanionNotFound, http.StatusNotFound},
		{"duplicate email → 409", store.ErrUserEmailExists, http.StatusConflict},
		{"companion in use → 409", store.ErrCompanionInUse, http.StatusConflict},
		{"duplicate trip link → 409", store.ErrTripCompanionExists, http.StatusConflict},
		{"query failure → 500", store.ErrExecutingQuery, http.StatusInternalServerError},
		{"unmapped error → 500", errors.New("boom"), http.StatusInternalServerError},
		{"nil-adjacent wrapped unknown → 500", fmt.Errorf("context: %w", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, statusFromError(tt.err))
		})
	}
}

// statusFromError matches with errors.Is, so wrapped sentinels must still
// resolve to their mapped status.
func TestStatusFromError_WrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("error creating companion: %w", store.ErrCompanionEmailExists)
	assert.Equal(t, http.StatusConflict, statusFromError(wrapped))

	doubleWrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", store.ErrItemNotFound))
	assert.Equal(t, http.StatusNotFound, statusFromError(doubleWrapped))
}
