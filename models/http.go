package models

import "time"

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token.
type AuthResponse struct {
	Token string `json:"token"`
}

// CreateCompanionRequest is the payload for adding a contact.
type CreateCompanionRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// CanView and CanEdit seed the creator's initial PermissionGrant.
	// When omitted, view defaults to true and edit to false.
	CanView *bool `json:"can_view,omitempty"`
	CanEdit *bool `json:"can_edit,omitempty"`
}

// UpdatePermissionsRequest is the payload for changing what the caller
// grants a companion over the caller's trips. Nil fields are left unchanged.
type UpdatePermissionsRequest struct {
	CanView *bool `json:"can_view,omitempty"`
	CanEdit *bool `json:"can_edit,omitempty"`
}

// AddTripCompanionRequest is the payload for linking a companion to a trip.
type AddTripCompanionRequest struct {
	CompanionID int64 `json:"companion_id"`
	CanEdit     bool  `json:"can_edit"`
	CanAddItems bool  `json:"can_add_items"`
}

// UpdateTripCompanionRequest is the payload for changing a trip companion's
// flags. Nil fields are left unchanged.
type UpdateTripCompanionRequest struct {
	CanEdit     *bool `json:"can_edit,omitempty"`
	CanAddItems *bool `json:"can_add_items,omitempty"`
}

// CreateTripRequest is the payload for creating a trip.
type CreateTripRequest struct {
	Name      string      `json:"name"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Purpose   TripPurpose `json:"purpose"`
}

// CreateItemRequest is the payload for creating an item inside a trip.
type CreateItemRequest struct {
	ItemType ItemType          `json:"item_type"`
	Name     string            `json:"name"`
	StartsAt time.Time         `json:"starts_at"`
	EndsAt   time.Time         `json:"ends_at"`
	Details  map[string]string `json:"details,omitempty"`
}

// ItemCreatedResponse is returned after item creation. CascadeWarning is set
// when companion propagation partially failed; the item itself was created.
type ItemCreatedResponse struct {
	Item           TripItem `json:"item"`
	CascadeWarning string   `json:"cascade_warning,omitempty"`
}

// TripCompanionCreatedResponse is returned after adding a companion to a
// trip. CascadeWarning is set when item fan-out partially failed; the trip
// link itself was created.
type TripCompanionCreatedResponse struct {
	TripCompanion
	CascadeWarning string `json:"cascade_warning,omitempty"`
}
