package models

import "time"

// ItemType tags the kind of a trip item. All kinds share one table and one
// companion/permission shape.
type ItemType string

const (
	ItemFlight         ItemType = "flight"
	ItemHotel          ItemType = "hotel"
	ItemTransportation ItemType = "transportation"
	ItemCarRental      ItemType = "car_rental"
	ItemEvent          ItemType = "event"
)

// ItemTypes lists every known item kind, in display order.
var ItemTypes = []ItemType{ItemFlight, ItemHotel, ItemTransportation, ItemCarRental, ItemEvent}

// Valid reports whether the type is one of the known item kinds.
func (t ItemType) Valid() bool {
	switch t {
	case ItemFlight, ItemHotel, ItemTransportation, ItemCarRental, ItemEvent:
		return true
	}
	return false
}

// TripItem is a single itinerary entry (flight, hotel, ground transportation,
// car rental or event).
//
// Ownership bifurcates on TripID: nil means standalone, owner-only edit;
// non-nil means trip-scoped, with edit rights resolved through the trip's
// companion links.
type TripItem struct {
	ItemID   int64    `json:"id"`
	ItemType ItemType `json:"item_type"`

	// UserID is the creator/owner of the item.
	UserID int64 `json:"user_id"`

	// TripID associates the item with a trip. Nil for standalone items.
	TripID *int64 `json:"trip_id,omitempty"`

	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	// Details holds per-kind display fields (airline and flight number,
	// hotel address, pick-up location, ...) that no permission logic reads.
	Details map[string]string `json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Standalone reports whether the item has no trip association.
func (i TripItem) Standalone() bool {
	return i.TripID == nil
}

// TableName returns the name of the database table
// associated with the TripItem model.
func (i TripItem) TableName() string {
	return "trip_items"
}

// ItemCompanion links a CompanionRecord to a specific trip item. The
// (ItemType, ItemID, CompanionID) triple is unique.
type ItemCompanion struct {
	ID          int64    `json:"id"`
	ItemType    ItemType `json:"item_type"`
	ItemID      int64    `json:"item_id"`
	CompanionID int64    `json:"companion_id"`

	Status string `json:"status"`

	// AddedBy is the UserID of the account that created the link.
	AddedBy int64 `json:"added_by"`

	// InheritedFromTrip marks links auto-propagated from the trip's
	// companion list. Removing a companion from a trip deletes only rows
	// with this flag set; explicit item-level shares survive.
	InheritedFromTrip bool `json:"inherited_from_trip"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the ItemCompanion model.
func (i ItemCompanion) TableName() string {
	return "item_companions"
}
