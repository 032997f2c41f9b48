package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/models"
)

// permissionResolver is the concrete implementation of [PermissionResolver].
//
// Resolution order for items is fixed: owner short-circuit, then trip owner,
// then trip-companion grant. Permission tables only ever add access for
// non-owners; nothing can restrict the owner.
type permissionResolver struct {
	tripRepository      store.TripRepository
	companionRepository store.CompanionRepository

	logger *logger.Logger
}

// NewPermissionResolver constructs a [PermissionResolver] over the trip and
// companion repositories.
func NewPermissionResolver(tripRepository store.TripRepository, companionRepository store.CompanionRepository, logger *logger.Logger) PermissionResolver {
	return &permissionResolver{
		tripRepository:      tripRepository,
		companionRepository: companionRepository,
		logger:              logger,
	}
}

// ResolveItemPermissions resolves edit/delete rights over an item.
//
//  1. Item owner → full access, highest priority.
//  2. Trip item: trip owner → full access; otherwise a trip-companion link
//     resolving to the caller's account grants edit and delete together.
//  3. Standalone item, not owner → no access.
//
// A caller with no companion record linking their account yields no access
// even if they are nominally "shared" some other way: sharing requires a
// resolvable TripCompanion→CompanionRecord→userID chain.
func (r *permissionResolver) ResolveItemPermissions(ctx context.Context, item models.TripItem, userID int64) (models.ItemPermissions, error) {
	log := logger.FromContext(ctx)

	if item.UserID == userID {
		return models.OwnerPermissions, nil
	}

	if item.TripID == nil {
		return models.NoPermissions, nil
	}

	trip, err := r.tripRepository.GetTrip(ctx, *item.TripID)
	if err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			// Dangling trip reference; nothing grants access.
			return models.NoPermissions, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveItemPermissions").Msg("error loading item trip")
		return models.NoPermissions, fmt.Errorf("error loading item trip: %w", err)
	}

	if trip.UserID == userID {
		return models.OwnerPermissions, nil
	}

	link, err := r.tripRepository.FindTripCompanionForUser(ctx, trip.TripID, userID)
	if err != nil {
		if errors.Is(err, store.ErrCompanionNotFound) {
			return models.NoPermissions, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveItemPermissions").Msg("error resolving trip companion")
		return models.NoPermissions, fmt.Errorf("error resolving trip companion: %w", err)
	}

	// Edit and delete are the same grant at trip level.
	return models.ItemPermissions{CanEdit: link.CanEdit, CanDelete: link.CanEdit}, nil
}

// ResolveTripRole names the caller's relationship to the trip. Ownership is
// checked first; a companion link with the edit grant maps to RoleAdmin and
// one without it to RoleAttendee.
func (r *permissionResolver) ResolveTripRole(ctx context.Context, userID, tripID int64) (models.TripRole, error) {
	log := logger.FromContext(ctx)

	trip, err := r.tripRepository.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrTripNotFound) {
			return models.RoleNone, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveTripRole").Msg("error loading trip")
		return models.RoleNone, fmt.Errorf("error loading trip: %w", err)
	}

	if trip.UserID == userID {
		return models.RoleOwner, nil
	}

	link, err := r.tripRepository.FindTripCompanionForUser(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, store.ErrCompanionNotFound) {
			return models.RoleNone, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveTripRole").Msg("error resolving trip companion")
		return models.RoleNone, fmt.Errorf("error resolving trip companion: %w", err)
	}

	if link.CanEdit {
		return models.RoleAdmin, nil
	}

	return models.RoleAttendee, nil
}

// ResolveFullAccess reports whether ownerID has delegated access over all
// their trips to userID: a companion record created by ownerID resolving to
// userID, carrying the owner's grant. AccessView accepts either flag;
// AccessManage requires the edit flag. Same-user short-circuits true.
func (r *permissionResolver) ResolveFullAccess(ctx context.Context, userID, ownerID int64, level AccessLevel) (bool, error) {
	log := logger.FromContext(ctx)

	if userID == ownerID {
		return true, nil
	}

	record, err := r.companionRepository.FindCompanionByCreatorAndUser(ctx, ownerID, userID)
	if err != nil {
		if errors.Is(err, store.ErrCompanionNotFound) {
			return false, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveFullAccess").Msg("error resolving companion record")
		return false, fmt.Errorf("error resolving companion record: %w", err)
	}

	grant, err := r.companionRepository.GetPermission(ctx, record.CompanionID, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrCompanionNotFound) {
			return false, nil
		}
		log.Err(err).Str("func", "*permissionResolver.ResolveFullAccess").Msg("error loading permission grant")
		return false, fmt.Errorf("error loading permission grant: %w", err)
	}

	switch level {
	case AccessView:
		return grant.CanView || grant.CanEdit, nil
	case AccessManage:
		return grant.CanEdit, nil
	default:
		return false, nil
	}
}
