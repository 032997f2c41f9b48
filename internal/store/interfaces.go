package store

import (
	"context"

	"github.com/avolkhin/tripmate/models"
)

// UserRepository handles account creation and lookup.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
}

// CompanionRepository handles CompanionRecord rows and the PermissionGrant
// sub-records attached to them.
type CompanionRepository interface {
	CreateCompanion(ctx context.Context, companion models.CompanionRecord) (models.CompanionRecord, error)
	GetCompanion(ctx context.Context, companionID int64) (models.CompanionRecord, error)
	FindCompanionByEmail(ctx context.Context, email string) (models.CompanionRecord, error)

	// FindCompanionByCreatorAndUser returns the record created by creatorID
	// whose linked account is userID. Used for delegated full-access checks.
	FindCompanionByCreatorAndUser(ctx context.Context, creatorID, userID int64) (models.CompanionRecord, error)

	// ListCompanionsCreatedBy returns every record the given user created
	// (the outbound direction of the relationship graph).
	ListCompanionsCreatedBy(ctx context.Context, userID int64) ([]models.CompanionRecord, error)

	// ListCompanionsOf returns every record other users created about the
	// given account (the inbound direction), joined with the creator's
	// account data so callers can key the relationship by counterpart email.
	ListCompanionsOf(ctx context.Context, userID int64) ([]models.InboundCompanion, error)

	// LinkUserByEmail sets user_id on every record whose email matches,
	// case-insensitively. Idempotent; returns the number of rows relinked.
	LinkUserByEmail(ctx context.Context, email string, userID int64) (int64, error)

	// UnlinkUser clears user_id on the record.
	UnlinkUser(ctx context.Context, companionID int64) error

	// DeleteCompanion removes the record. Returns ErrCompanionInUse when any
	// trip still references it.
	DeleteCompanion(ctx context.Context, companionID int64) error

	// UpsertPermission creates or updates the (companion, granter) grant.
	UpsertPermission(ctx context.Context, grant models.PermissionGrant) (models.PermissionGrant, error)

	// GetPermission returns the grant for the (companion, granter) pair or
	// ErrCompanionNotFound when none exists.
	GetPermission(ctx context.Context, companionID, grantedBy int64) (models.PermissionGrant, error)

	// ListPermissionsForCompanions returns every grant attached to any of
	// the given companion records.
	ListPermissionsForCompanions(ctx context.Context, companionIDs []int64) ([]models.PermissionGrant, error)
}

// TripRepository handles trips and the TripCompanion junction.
type TripRepository interface {
	CreateTrip(ctx context.Context, trip models.Trip) (models.Trip, error)
	GetTrip(ctx context.Context, tripID int64) (models.Trip, error)
	ListTripIDsOwnedBy(ctx context.Context, userID int64) ([]int64, error)

	// ListAccessibleTripIDs returns the deduplicated union of trips owned by
	// the user, trips the user attends through a companion link, and trips
	// owned by anyone whose grant lets the user view their trips.
	ListAccessibleTripIDs(ctx context.Context, userID int64) ([]int64, error)

	AddTripCompanion(ctx context.Context, link models.TripCompanion) (models.TripCompanion, error)

	// RemoveTripCompanion deletes the junction row. Returns false when no
	// link existed.
	RemoveTripCompanion(ctx context.Context, tripID, companionID int64) (bool, error)

	// UpdateTripCompanion rewrites the link's permission flags. Empty
	// result set surfaces ErrCompanionNotFound.
	UpdateTripCompanion(ctx context.Context, tripID, companionID int64, canEdit, canAddItems bool) (models.TripCompanion, error)

	GetTripCompanion(ctx context.Context, tripID, companionID int64) (models.TripCompanion, error)
	ListTripCompanions(ctx context.Context, tripID int64) ([]models.TripCompanionLink, error)

	// FindTripCompanionForUser returns the trip link whose companion record
	// resolves to the given account, or ErrTripNotFound-free empty result
	// via ErrCompanionNotFound when the chain does not resolve.
	FindTripCompanionForUser(ctx context.Context, tripID, userID int64) (models.TripCompanion, error)

	// CountTripsReferencingCompanion reports how many trips link the record.
	CountTripsReferencingCompanion(ctx context.Context, companionID int64) (int64, error)
}

// ItemRepository handles trip items and the ItemCompanion junction.
type ItemRepository interface {
	CreateItem(ctx context.Context, item models.TripItem) (models.TripItem, error)
	GetItem(ctx context.Context, itemType models.ItemType, itemID int64) (models.TripItem, error)
	ListItemsByTrip(ctx context.Context, tripID int64) ([]models.TripItem, error)

	AddItemCompanion(ctx context.Context, link models.ItemCompanion) (models.ItemCompanion, error)
	HasItemCompanion(ctx context.Context, itemType models.ItemType, itemID, companionID int64) (bool, error)
	ListItemCompanions(ctx context.Context, itemType models.ItemType, itemID int64) ([]models.ItemCompanionLink, error)

	// DeleteInheritedItemCompanions removes every inherited link for the
	// companion across all items of the trip, leaving explicit item-level
	// shares intact. Returns the number of rows deleted.
	DeleteInheritedItemCompanions(ctx context.Context, tripID, companionID int64) (int64, error)
}
