package models

import "time"

// TripPurpose classifies why a trip is taken.
type TripPurpose string

const (
	PurposeBusiness TripPurpose = "business"
	PurposeLeisure  TripPurpose = "leisure"
	PurposeOther    TripPurpose = "other"
)

// Valid reports whether the purpose is one of the known enum values.
func (p TripPurpose) Valid() bool {
	switch p {
	case PurposeBusiness, PurposeLeisure, PurposeOther:
		return true
	}
	return false
}

// PermissionSource records why a TripCompanion link exists, distinguishing
// cascaded/inherited links from manually added ones.
type PermissionSource string

const (
	// SourceOwner marks the backfilled row for the trip owner.
	SourceOwner PermissionSource = "owner"
	// SourceManageTravel marks links derived from a delegated
	// "manage my trips" grant.
	SourceManageTravel PermissionSource = "manage_travel"
	// SourceExplicit marks links a user added by hand.
	SourceExplicit PermissionSource = "explicit"
)

// Valid reports whether the source is one of the known enum values.
func (s PermissionSource) Valid() bool {
	switch s {
	case SourceOwner, SourceManageTravel, SourceExplicit:
		return true
	}
	return false
}

// Trip is a user's travel plan, the root of the sharing hierarchy.
type Trip struct {
	TripID int64 `json:"id"`

	// UserID is the owning account. The owner always has full permissions;
	// companion tables only ever add access for non-owners.
	UserID int64 `json:"user_id"`

	Name      string      `json:"name"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Purpose   TripPurpose `json:"purpose"`
	Confirmed bool        `json:"confirmed"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Trip model.
func (t Trip) TableName() string {
	return "trips"
}

// TripCompanion links a CompanionRecord to a Trip. The (TripID, CompanionID)
// pair is unique.
type TripCompanion struct {
	ID          int64 `json:"id"`
	TripID      int64 `json:"trip_id"`
	CompanionID int64 `json:"companion_id"`

	// CanEdit allows the companion to manage every item in the trip.
	CanEdit bool `json:"can_edit"`

	// CanAddItems allows the companion to add items without full edit rights.
	CanAddItems bool `json:"can_add_items"`

	// AddedBy is the UserID of the account that created the link.
	AddedBy int64 `json:"added_by"`

	// PermissionSource records the provenance of the link.
	PermissionSource PermissionSource `json:"permission_source"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the TripCompanion model.
func (t TripCompanion) TableName() string {
	return "trip_companions"
}
