package service

import (
	"context"
	"errors"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/models"
)

// authorization is the concrete implementation of [Authorization]. It layers
// delegated full-access grants on top of the per-trip role resolution.
type authorization struct {
	resolver            PermissionResolver
	tripRepository      store.TripRepository
	itemRepository      store.ItemRepository
	companionRepository store.CompanionRepository

	logger *logger.Logger
}

// NewAuthorization constructs the [Authorization] facade.
func NewAuthorization(resolver PermissionResolver, tripRepository store.TripRepository, itemRepository store.ItemRepository, companionRepository store.CompanionRepository, logger *logger.Logger) Authorization {
	return &authorization{
		resolver:            resolver,
		tripRepository:      tripRepository,
		itemRepository:      itemRepository,
		companionRepository: companionRepository,
		logger:              logger,
	}
}

// CanViewTrip allows the owner, any companion of the trip, and anyone the
// owner delegated view access to through a companion grant.
func (a *authorization) CanViewTrip(ctx context.Context, userID, tripID int64) (bool, error) {
	trip, err := a.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		return false, err
	}
	if trip.UserID == userID {
		return true, nil
	}

	role, err := a.resolver.ResolveTripRole(ctx, userID, tripID)
	if err != nil {
		return false, err
	}
	if role != models.RoleNone {
		return true, nil
	}

	return a.resolver.ResolveFullAccess(ctx, userID, trip.UserID, AccessView)
}

// CanEditTrip allows the owner, edit-granted companions, and anyone the
// owner delegated manage access to.
func (a *authorization) CanEditTrip(ctx context.Context, userID, tripID int64) (bool, error) {
	trip, err := a.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		return false, err
	}
	if trip.UserID == userID {
		return true, nil
	}

	role, err := a.resolver.ResolveTripRole(ctx, userID, tripID)
	if err != nil {
		return false, err
	}
	if role == models.RoleAdmin {
		return true, nil
	}

	return a.resolver.ResolveFullAccess(ctx, userID, trip.UserID, AccessManage)
}

// CanViewItemInTrip allows the item owner; for trip items, trip view access
// carries down. Standalone items stay owner-only.
func (a *authorization) CanViewItemInTrip(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (bool, error) {
	item, err := a.itemRepository.GetItem(ctx, itemType, itemID)
	if err != nil {
		return false, err
	}
	if item.UserID == userID {
		return true, nil
	}
	if item.TripID == nil {
		return false, nil
	}

	return a.CanViewTrip(ctx, userID, *item.TripID)
}

// CanEditItemInTrip resolves item permissions and falls back to the trip
// owner's delegated manage grant for trip items.
func (a *authorization) CanEditItemInTrip(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (bool, error) {
	item, err := a.itemRepository.GetItem(ctx, itemType, itemID)
	if err != nil {
		return false, err
	}

	permissions, err := a.resolver.ResolveItemPermissions(ctx, item, userID)
	if err != nil {
		return false, err
	}
	if permissions.CanEdit {
		return true, nil
	}
	if item.TripID == nil {
		return false, nil
	}

	trip, err := a.tripRepository.GetTrip(ctx, *item.TripID)
	if err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			return false, nil
		}
		return false, err
	}

	return a.resolver.ResolveFullAccess(ctx, userID, trip.UserID, AccessManage)
}

// GetItemPermissions loads the item and resolves the caller's full
// permission set over it.
func (a *authorization) GetItemPermissions(ctx context.Context, userID int64, itemType models.ItemType, itemID int64) (models.ItemPermissions, error) {
	item, err := a.itemRepository.GetItem(ctx, itemType, itemID)
	if err != nil {
		return models.NoPermissions, err
	}

	return a.resolver.ResolveItemPermissions(ctx, item, userID)
}

// CanRemoveAttendee allows owners and admins to remove any non-owner
// attendee, and any attendee to remove themselves. The owner's own row is
// never removable.
func (a *authorization) CanRemoveAttendee(ctx context.Context, actingUserID, tripID, companionID int64) (bool, error) {
	trip, err := a.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		return false, err
	}

	record, err := a.companionRepository.GetCompanion(ctx, companionID)
	if err != nil {
		return false, err
	}
	if record.LinkedTo(trip.UserID) {
		return false, nil
	}

	if record.LinkedTo(actingUserID) {
		return true, nil
	}

	role, err := a.resolver.ResolveTripRole(ctx, actingUserID, tripID)
	if err != nil {
		return false, err
	}

	return role == models.RoleOwner || role == models.RoleAdmin, nil
}

// CanUpdateAttendeeRole restricts role changes to owners and admins, and
// never over the owner's own row.
func (a *authorization) CanUpdateAttendeeRole(ctx context.Context, actingUserID, tripID, companionID int64) (bool, error) {
	trip, err := a.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		return false, err
	}

	record, err := a.companionRepository.GetCompanion(ctx, companionID)
	if err != nil {
		return false, err
	}
	if record.LinkedTo(trip.UserID) {
		return false, nil
	}

	role, err := a.resolver.ResolveTripRole(ctx, actingUserID, tripID)
	if err != nil {
		return false, err
	}

	return role == models.RoleOwner || role == models.RoleAdmin, nil
}

// GetAccessibleTrips returns every trip the user may see: owned, attended,
// and view-delegated, deduplicated by the store.
func (a *authorization) GetAccessibleTrips(ctx context.Context, userID int64) ([]int64, error) {
	log := logger.FromContext(ctx)

	tripIDs, err := a.tripRepository.ListAccessibleTripIDs(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*authorization.GetAccessibleTrips").Msg("error listing accessible trips")
		return nil, err
	}

	return tripIDs, nil
}
