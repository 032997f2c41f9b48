package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyEmail         = errors.New("email is required")
	ErrEmptyPassword      = errors.New("password is required")
	ErrEmptyTripName      = errors.New("trip name is required")
	ErrUnknownTripPurpose = errors.New("unknown trip purpose")
	ErrInvalidDateRange   = errors.New("end date precedes start date")
	ErrUnknownItemType    = errors.New("unknown item type")
	ErrEmptyItemName      = errors.New("item name is required")
	ErrInvalidCompanionID = errors.New("invalid companion ID")
)
