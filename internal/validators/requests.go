package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkhin/tripmate/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldEmail targets the email address of a registration or companion request.
	FieldEmail = "email"

	// FieldPassword targets the plaintext password of a registration request.
	FieldPassword = "password"

	// FieldName targets the display name of a trip or item.
	FieldName = "name"

	// FieldPurpose targets the trip purpose enum field.
	FieldPurpose = "purpose"

	// FieldDates targets the start/end date pair of a trip or item.
	FieldDates = "dates"

	// FieldItemType targets the item kind enum field.
	FieldItemType = "item_type"

	// FieldCompanionID targets the companion identifier of a trip-companion request.
	FieldCompanionID = "companion_id"
)

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(ctx, *value, fields...)

	case models.CreateCompanionRequest:
		return v.validateCreateCompanionRequest(ctx, value, fields...)
	case *models.CreateCompanionRequest:
		return v.validateCreateCompanionRequest(ctx, *value, fields...)

	case models.CreateTripRequest:
		return v.validateCreateTripRequest(ctx, value, fields...)
	case *models.CreateTripRequest:
		return v.validateCreateTripRequest(ctx, *value, fields...)

	case models.CreateItemRequest:
		return v.validateCreateItemRequest(ctx, value, fields...)
	case *models.CreateItemRequest:
		return v.validateCreateItemRequest(ctx, *value, fields...)

	case models.AddTripCompanionRequest:
		return v.validateAddTripCompanionRequest(ctx, value, fields...)
	case *models.AddTripCompanionRequest:
		return v.validateAddTripCompanionRequest(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *RequestValidator) validateRegisterRequest(_ context.Context, req models.RegisterRequest, fields ...string) error {
	for _, field := range scope(fields, FieldEmail, FieldPassword) {
		switch field {
		case FieldEmail:
			if strings.TrimSpace(req.Email) == "" {
				return ErrEmptyEmail
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *RequestValidator) validateCreateCompanionRequest(_ context.Context, req models.CreateCompanionRequest, fields ...string) error {
	for _, field := range scope(fields, FieldEmail) {
		switch field {
		case FieldEmail:
			if strings.TrimSpace(req.Email) == "" {
				return ErrEmptyEmail
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *RequestValidator) validateCreateTripRequest(_ context.Context, req models.CreateTripRequest, fields ...string) error {
	for _, field := range scope(fields, FieldName, FieldPurpose, FieldDates) {
		switch field {
		case FieldName:
			if strings.TrimSpace(req.Name) == "" {
				return ErrEmptyTripName
			}
		case FieldPurpose:
			if !req.Purpose.Valid() {
				return ErrUnknownTripPurpose
			}
		case FieldDates:
			if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
				return ErrInvalidDateRange
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *RequestValidator) validateCreateItemRequest(_ context.Context, req models.CreateItemRequest, fields ...string) error {
	for _, field := range scope(fields, FieldItemType, FieldName, FieldDates) {
		switch field {
		case FieldItemType:
			if !req.ItemType.Valid() {
				return ErrUnknownItemType
			}
		case FieldName:
			if strings.TrimSpace(req.Name) == "" {
				return ErrEmptyItemName
			}
		case FieldDates:
			if !req.EndsAt.IsZero() && req.EndsAt.Before(req.StartsAt) {
				return ErrInvalidDateRange
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *RequestValidator) validateAddTripCompanionRequest(_ context.Context, req models.AddTripCompanionRequest, fields ...string) error {
	for _, field := range scope(fields, FieldCompanionID) {
		switch field {
		case FieldCompanionID:
			if req.CompanionID <= 0 {
				return ErrInvalidCompanionID
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

// scope returns the requested field subset, falling back to the full default
// set when the caller named none.
func scope(fields []string, defaults ...string) []string {
	if len(fields) == 0 {
		return defaults
	}
	return fields
}
