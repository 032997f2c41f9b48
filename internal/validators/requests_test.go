package validators

import (
	"context"
	"testing"
	"time"

	"github.com/avolkhin/tripmate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validTrip() models.CreateTripRequest {
	return models.CreateTripRequest{
		Name:      "Berlin offsite",
		Purpose:   models.PurposeBusiness,
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func validItem() models.CreateItemRequest {
	return models.CreateItemRequest{
		ItemType: models.ItemHotel,
		Name:     "Hotel Adlon",
		StartsAt: time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// TestNewRequestValidator
// ---------------------------------------------------------------------------

func TestNewRequestValidator(t *testing.T) {
	v := NewRequestValidator()
	require.NotNil(t, v)
}

// ---------------------------------------------------------------------------
// TestValidate_Dispatch
// ---------------------------------------------------------------------------

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(context.Background(), struct{}{})

	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidate_PointerAndValueDispatchAlike(t *testing.T) {
	v := NewRequestValidator()
	req := models.RegisterRequest{Email: "a@b.c", Password: "pw"}

	assert.NoError(t, v.Validate(context.Background(), req))
	assert.NoError(t, v.Validate(context.Background(), &req))
}

func TestValidate_UnknownField(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(context.Background(), models.RegisterRequest{Email: "a@b.c", Password: "pw"}, "nonexistent")

	require.ErrorIs(t, err, ErrUnknownField)
}

// ---------------------------------------------------------------------------
// TestValidate_RegisterRequest
// ---------------------------------------------------------------------------

func TestValidate_RegisterRequest(t *testing.T) {
	v := NewRequestValidator()

	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr error
	}{
		{name: "valid", req: models.RegisterRequest{Email: "a@b.c", Password: "pw"}},
		{name: "empty email", req: models.RegisterRequest{Password: "pw"}, wantErr: ErrEmptyEmail},
		{name: "blank email", req: models.RegisterRequest{Email: "   ", Password: "pw"}, wantErr: ErrEmptyEmail},
		{name: "empty password", req: models.RegisterRequest{Email: "a@b.c"}, wantErr: ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_RegisterRequest_FieldScoping(t *testing.T) {
	v := NewRequestValidator()

	// only the email field is checked; the missing password passes
	err := v.Validate(context.Background(), models.RegisterRequest{Email: "a@b.c"}, FieldEmail)

	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// TestValidate_CreateCompanionRequest
// ---------------------------------------------------------------------------

func TestValidate_CreateCompanionRequest(t *testing.T) {
	v := NewRequestValidator()

	require.NoError(t, v.Validate(context.Background(), models.CreateCompanionRequest{Email: "bob@example.com"}))
	require.ErrorIs(t, v.Validate(context.Background(), models.CreateCompanionRequest{}), ErrEmptyEmail)
}

// ---------------------------------------------------------------------------
// TestValidate_CreateTripRequest
// ---------------------------------------------------------------------------

func TestValidate_CreateTripRequest(t *testing.T) {
	v := NewRequestValidator()

	tests := []struct {
		name    string
		mutate  func(*models.CreateTripRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.CreateTripRequest) {}},
		{name: "empty name", mutate: func(r *models.CreateTripRequest) { r.Name = " " }, wantErr: ErrEmptyTripName},
		{name: "unknown purpose", mutate: func(r *models.CreateTripRequest) { r.Purpose = "commute" }, wantErr: ErrUnknownTripPurpose},
		{name: "end before start", mutate: func(r *models.CreateTripRequest) { r.EndDate = r.StartDate.AddDate(0, 0, -1) }, wantErr: ErrInvalidDateRange},
		{name: "open ended", mutate: func(r *models.CreateTripRequest) { r.EndDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTrip()
			tt.mutate(&req)

			err := v.Validate(context.Background(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate_CreateItemRequest
// ---------------------------------------------------------------------------

func TestValidate_CreateItemRequest(t *testing.T) {
	v := NewRequestValidator()

	tests := []struct {
		name    string
		mutate  func(*models.CreateItemRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.CreateItemRequest) {}},
		{name: "unknown type", mutate: func(r *models.CreateItemRequest) { r.ItemType = "boat" }, wantErr: ErrUnknownItemType},
		{name: "empty name", mutate: func(r *models.CreateItemRequest) { r.Name = "" }, wantErr: ErrEmptyItemName},
		{name: "end before start", mutate: func(r *models.CreateItemRequest) { r.EndsAt = r.StartsAt.Add(-time.Hour) }, wantErr: ErrInvalidDateRange},
		{name: "open ended", mutate: func(r *models.CreateItemRequest) { r.EndsAt = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validItem()
			tt.mutate(&req)

			err := v.Validate(context.Background(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate_AddTripCompanionRequest
// ---------------------------------------------------------------------------

func TestValidate_AddTripCompanionRequest(t *testing.T) {
	v := NewRequestValidator()

	require.NoError(t, v.Validate(context.Background(), models.AddTripCompanionRequest{CompanionID: 5}))
	require.ErrorIs(t, v.Validate(context.Background(), models.AddTripCompanionRequest{}), ErrInvalidCompanionID)
	require.ErrorIs(t, v.Validate(context.Background(), models.AddTripCompanionRequest{CompanionID: -1}), ErrInvalidCompanionID)
}
