package http

import (
	"errors"
	"net/http"

	"github.com/avolkhin/tripmate/internal/service"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrForbidden:               http.StatusForbidden,

	service.ErrValidationNoCompanionID: http.StatusBadRequest,
	service.ErrValidationSelfCompanion: http.StatusBadRequest,

	validators.ErrUnsupportedType:    http.StatusBadRequest,
	validators.ErrUnknownField:       http.StatusBadRequest,
	validators.ErrEmptyEmail:         http.StatusBadRequest,
	validators.ErrEmptyPassword:      http.StatusBadRequest,
	validators.ErrEmptyTripName:      http.StatusBadRequest,
	validators.ErrUnknownTripPurpose: http.StatusBadRequest,
	validators.ErrInvalidDateRange:   http.StatusBadRequest,
	validators.ErrUnknownItemType:    http.StatusBadRequest,
	validators.ErrEmptyItemName:      http.StatusBadRequest,
	validators.ErrInvalidCompanionID: http.StatusBadRequest,

	store.ErrUserEmailExists:      http.StatusConflict,
	store.ErrUserNotFound:         http.StatusNotFound,
	store.ErrCompanionEmailExists: http.StatusConflict,
	store.ErrCompanionNotFound:    http.StatusNotFound,
	store.ErrCompanionInUse:       http.StatusConflict,
	store.ErrTripNotFound:         http.StatusNotFound,
	store.ErrTripCompanionExists:  http.StatusConflict,
	store.ErrItemNotFound:         http.StatusNotFound,
	store.ErrItemCompanionExists:  http.StatusConflict,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
