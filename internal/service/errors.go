package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrForbidden is returned when permission resolution denies the
	// requested operation. Handlers map it to 403 without detail.
	ErrForbidden = errors.New("not authorized")

	// ErrCascadeIncomplete marks a best-effort propagation failure after the
	// primary operation already succeeded. Handlers report the primary
	// operation's success and carry the failure as an annotation only.
	ErrCascadeIncomplete = errors.New("cascade propagation incomplete")

	// Structural request validation lives in the validators package; the
	// sentinels below cover rules that need data the validator cannot see.
	ErrValidationNoCompanionID = errors.New("companion ID is required")
	ErrValidationSelfCompanion = errors.New("cannot add yourself as a companion")
)
