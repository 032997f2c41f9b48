package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/internal/validators"
	"github.com/avolkhin/tripmate/models"
)

// tripService is the concrete implementation of [TripService].
type tripService struct {
	tripRepository      store.TripRepository
	itemRepository      store.ItemRepository
	companionRepository store.CompanionRepository
	userRepository      store.UserRepository

	authorization Authorization
	cascade       TripCascade
	validator     validators.Validator

	logger *logger.Logger
}

// NewTripService constructs a [TripService].
func NewTripService(
	tripRepository store.TripRepository,
	itemRepository store.ItemRepository,
	companionRepository store.CompanionRepository,
	userRepository store.UserRepository,
	authorization Authorization,
	cascade TripCascade,
	validator validators.Validator,
	logger *logger.Logger,
) TripService {
	return &tripService{
		tripRepository:      tripRepository,
		itemRepository:      itemRepository,
		companionRepository: companionRepository,
		userRepository:      userRepository,
		authorization:       authorization,
		cascade:             cascade,
		validator:           validator,
		logger:              logger,
	}
}

// CreateTrip creates a trip and backfills the owner's own trip-companion row
// so companion listings include the owner without synthesis. The backfill is
// best-effort: loaders still synthesize owner entries for trips where it is
// missing.
func (s *tripService) CreateTrip(ctx context.Context, actingUserID int64, req models.CreateTripRequest) (models.Trip, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Trip{}, err
	}

	trip, err := s.tripRepository.CreateTrip(ctx, models.Trip{
		UserID:    actingUserID,
		Name:      strings.TrimSpace(req.Name),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Purpose:   req.Purpose,
	})
	if err != nil {
		log.Err(err).Str("func", "*tripService.CreateTrip").Msg("error creating trip")
		return models.Trip{}, err
	}

	if err = s.backfillOwnerCompanion(ctx, trip); err != nil {
		log.Err(err).Str("func", "*tripService.CreateTrip").Int64("trip_id", trip.TripID).Msg("owner companion backfill failed")
	}

	return trip, nil
}

// backfillOwnerCompanion ensures a companion record for the owner's own
// email exists and links it to the new trip with the owner source.
func (s *tripService) backfillOwnerCompanion(ctx context.Context, trip models.Trip) error {
	owner, err := s.userRepository.FindUserByID(ctx, trip.UserID)
	if err != nil {
		return fmt.Errorf("error loading owner account: %w", err)
	}

	record, err := s.companionRepository.FindCompanionByEmail(ctx, owner.Email)
	if errors.Is(err, store.ErrCompanionNotFound) {
		record, err = s.companionRepository.CreateCompanion(ctx, models.CompanionRecord{
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Email:     owner.Email,
			CreatedBy: owner.UserID,
			UserID:    &owner.UserID,
		})
		if errors.Is(err, store.ErrCompanionEmailExists) {
			record, err = s.companionRepository.FindCompanionByEmail(ctx, owner.Email)
		}
	}
	if err != nil {
		return fmt.Errorf("error resolving owner companion record: %w", err)
	}

	_, err = s.tripRepository.AddTripCompanion(ctx, models.TripCompanion{
		TripID:           trip.TripID,
		CompanionID:      record.CompanionID,
		CanEdit:          true,
		CanAddItems:      true,
		AddedBy:          trip.UserID,
		PermissionSource: models.SourceOwner,
	})
	if err != nil && !errors.Is(err, store.ErrTripCompanionExists) {
		return fmt.Errorf("error adding owner trip companion: %w", err)
	}

	return nil
}

// GetTrip returns the trip after a view-access check.
func (s *tripService) GetTrip(ctx context.Context, actingUserID, tripID int64) (models.Trip, error) {
	allowed, err := s.authorization.CanViewTrip(ctx, actingUserID, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if !allowed {
		return models.Trip{}, ErrForbidden
	}

	return s.tripRepository.GetTrip(ctx, tripID)
}

// ListTripCompanions returns the trip's companion links after a view-access
// check.
func (s *tripService) ListTripCompanions(ctx context.Context, actingUserID, tripID int64) ([]models.TripCompanionLink, error) {
	allowed, err := s.authorization.CanViewTrip(ctx, actingUserID, tripID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	return s.tripRepository.ListTripCompanions(ctx, tripID)
}

// CreateItem creates an itinerary item inside the trip and propagates the
// trip's companions onto it. Edit access or the add-items grant is required.
// Propagation failures do not undo the item; they surface as a warning.
func (s *tripService) CreateItem(ctx context.Context, actingUserID, tripID int64, req models.CreateItemRequest) (models.ItemCreatedResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.ItemCreatedResponse{}, err
	}

	allowed, err := s.canAddItems(ctx, actingUserID, tripID)
	if err != nil {
		return models.ItemCreatedResponse{}, err
	}
	if !allowed {
		return models.ItemCreatedResponse{}, ErrForbidden
	}

	item, err := s.itemRepository.CreateItem(ctx, models.TripItem{
		ItemType: req.ItemType,
		UserID:   actingUserID,
		TripID:   &tripID,
		Name:     strings.TrimSpace(req.Name),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Details:  req.Details,
	})
	if err != nil {
		log.Err(err).Str("func", "*tripService.CreateItem").Msg("error creating item")
		return models.ItemCreatedResponse{}, err
	}

	response := models.ItemCreatedResponse{Item: item}
	if err = s.cascade.AutoAddTripCompanions(ctx, item.ItemType, item.ItemID, tripID, actingUserID); err != nil {
		log.Err(err).Str("func", "*tripService.CreateItem").
			Str("item_type", string(item.ItemType)).Int64("item_id", item.ItemID).
			Msg("trip companion propagation incomplete")
		response.CascadeWarning = "item created, but sharing with some trip companions failed"
	}

	return response, nil
}

// canAddItems allows trip editors plus companions holding the add-items
// grant without full edit rights.
func (s *tripService) canAddItems(ctx context.Context, actingUserID, tripID int64) (bool, error) {
	allowed, err := s.authorization.CanEditTrip(ctx, actingUserID, tripID)
	if err != nil || allowed {
		return allowed, err
	}

	link, err := s.tripRepository.FindTripCompanionForUser(ctx, tripID, actingUserID)
	if err != nil {
		if errors.Is(err, store.ErrCompanionNotFound) {
			return false, nil
		}
		return false, err
	}

	return link.CanAddItems, nil
}
