package service

import (
	"context"

	"github.com/avolkhin/tripmate/models"
)

// AccessLevel selects which delegated full-access grant a check is about.
type AccessLevel string

const (
	// AccessView asks whether the grantor lets the caller see their trips.
	AccessView AccessLevel = "view"
	// AccessManage asks whether the grantor lets the caller edit their trips.
	AccessManage AccessLevel = "manage"
)

// AuthService handles registration, login, and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// PermissionResolver computes a caller's rights over trips and items from
// the companion graph. Resolution never errors for "access denied": denied
// access is a zero-value result, and only persistence failures return errors.
type PermissionResolver interface {
	// ResolveItemPermissions resolves edit/delete rights over an item.
	// The owner short-circuit has highest priority and cannot be overridden
	// by any companion state.
	ResolveItemPermissions(ctx context.Context, item models.TripItem, userID int64) (models.ItemPermissions, error)

	// ResolveTripRole names the caller's relationship to the trip:
	// RoleOwner, RoleAdmin (edit-granted companion), RoleAttendee, or
	// RoleNone for no access.
	ResolveTripRole(ctx context.Context, userID, tripID int64) (models.TripRole, error)

	// ResolveFullAccess reports whether ownerID has delegated trip access to
	// userID through a companion grant. Same-user short-circuits true.
	ResolveFullAccess(ctx context.Context, userID, ownerID int64, level AccessLevel) (bool, error)
}

// CompanionService manages companion records, their permission grants, and
// the merged bidirectional relationship views.
type CompanionService interface {
	CreateCompanion(ctx context.Context, actingUserID int64, req models.CreateCompanionRequest) (models.CompanionRecord, error)
	UpdatePermissions(ctx context.Context, actingUserID, companionID int64, req models.UpdatePermissionsRequest) (models.PermissionGrant, error)
	DeleteCompanion(ctx context.Context, actingUserID, companionID int64) error
	UnlinkCompanion(ctx context.Context, actingUserID, companionID int64) error

	// MergeCompanionViews assembles one entry per distinct counterpart
	// email, merging both directions of the relationship.
	MergeCompanionViews(ctx context.Context, userID int64) ([]models.MergedCompanion, error)
}

// TripCascade propagates trip-level companion membership down to items.
type TripCascade interface {
	// AddCompanionToTrip links the companion to the trip and fans out an
	// inherited ItemCompanion row to every existing item of the trip.
	// A duplicate pair surfaces store.ErrTripCompanionExists.
	AddCompanionToTrip(ctx context.Context, tripID, companionID, actingUserID int64, canEdit, canAddItems bool) (models.TripCompanion, error)

	// RemoveCompanionFromTrip deletes the trip link and every inherited
	// item link, preserving explicit item-level shares. Returns false when
	// no link existed.
	RemoveCompanionFromTrip(ctx context.Context, tripID, companionID int64) (bool, error)

	// UpdateTripCompanion rewrites the link's permission flags. Nil fields
	// keep their current value.
	UpdateTripCompanion(ctx context.Context, tripID, companionID int64, canEdit, canAddItems *bool) (models.TripCompanion, error)

	// AutoAddTripCompanions copies the trip's current companions onto the
	// item as inherited links. Idempotent: existing links are skipped.
	AutoAddTripCompanions(ctx context.Context, itemType models.ItemType, itemID, tripID, actingUserID int64) error
}

// ItemCompanionLoader assembles the merged companion picture for one item.
type ItemCompanionLoader interface {
	LoadItemCompanionsData(ctx context.Context, itemType models.ItemType, itemID int64) (models.ItemCompanionsData, error)
}

// Authorization is the facade combining trip ownership, trip roles, and
// delegated companion grants into the boolean checks handlers consume.
type Authorization interface {
	CanViewTrip(ctx context.Context, userID, tripID int64) (bool, error)
	CanEditTrip(ctx context.Context, userID, tripID int64) (bool, error)
	CanViewItemInTrip(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (bool, error)
	CanEditItemInTrip(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (bool, error)

	// GetItemPermissions loads the item and resolves the caller's full
	// permission set over it.
	GetItemPermissions(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (models.ItemPermissions, error)
	CanRemoveAttendee(ctx context.Context, actingUserID, tripID, companionID int64) (bool, error)
	CanUpdateAttendeeRole(ctx context.Context, actingUserID, tripID, companionID int64) (bool, error)
	GetAccessibleTrips(ctx context.Context, userID int64) ([]int64, error)
}

// TripService owns trip and item creation, including the owner-row backfill
// and the item-creation companion cascade.
type TripService interface {
	CreateTrip(ctx context.Context, actingUserID int64, req models.CreateTripRequest) (models.Trip, error)
	GetTrip(ctx context.Context, actingUserID, tripID int64) (models.Trip, error)
	ListTripCompanions(ctx context.Context, actingUserID, tripID int64) ([]models.TripCompanionLink, error)
	CreateItem(ctx context.Context, actingUserID, tripID int64, req models.CreateItemRequest) (models.ItemCreatedResponse, error)
}
