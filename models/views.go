package models

// ItemPermissions is the result of resolving a caller's rights over a single
// trip item. View access is implied by reachability: the caller only holds a
// reference to an item their queries were already allowed to return.
type ItemPermissions struct {
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// OwnerPermissions is the fixed full-access result for owners.
var OwnerPermissions = ItemPermissions{CanEdit: true, CanDelete: true}

// NoPermissions is the fixed no-access result.
var NoPermissions = ItemPermissions{}

// TripRole names the caller's relationship to a trip.
type TripRole string

const (
	RoleOwner    TripRole = "owner"
	RoleAdmin    TripRole = "admin"
	RoleAttendee TripRole = "attendee"
	// RoleNone means no access; resolver callers treat it as null.
	RoleNone TripRole = ""
)

// CompanionView is the flat companion entry the item-companion loader
// returns for UI consumption.
type CompanionView struct {
	// CompanionID is zero for synthetic owner entries that have no
	// persisted CompanionRecord.
	CompanionID int64  `json:"companion_id,omitempty"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	UserID      *int64 `json:"user_id,omitempty"`

	InheritedFromTrip bool `json:"inherited_from_trip,omitempty"`

	// IsOwner marks the synthesized entry for the item or trip owner.
	IsOwner bool `json:"is_owner,omitempty"`
}

// ItemCompanionsData is the loader's result: companions assigned to the item
// and trip companions not yet on the item, kept separate because callers
// render them in distinct sections.
type ItemCompanionsData struct {
	ItemCompanions []CompanionView `json:"item_companions"`
	TripCompanions []CompanionView `json:"trip_companions"`

	// TripOwnerID is the owning account of the item's trip, zero for
	// standalone items.
	TripOwnerID int64 `json:"trip_owner_id,omitempty"`
}
