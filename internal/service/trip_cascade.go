package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/models"
)

// tripCascade is the concrete implementation of [TripCascade].
//
// Fan-out is best-effort and non-transactional: a partially propagated
// cascade leaves valid state (the junction rows are independent), and every
// propagation path is idempotent so a retry converges.
type tripCascade struct {
	tripRepository store.TripRepository
	itemRepository store.ItemRepository

	logger *logger.Logger
}

// NewTripCascade constructs a [TripCascade].
func NewTripCascade(tripRepository store.TripRepository, itemRepository store.ItemRepository, logger *logger.Logger) TripCascade {
	return &tripCascade{
		tripRepository: tripRepository,
		itemRepository: itemRepository,
		logger:         logger,
	}
}

// AddCompanionToTrip creates the trip link and fans it out to every existing
// item of the trip as an inherited item link.
//
// The trip link is the source of truth; item fan-out failures are logged and
// skipped rather than rolling anything back. Once the link itself is in
// place, fan-out failures come back wrapped in [ErrCascadeIncomplete]
// alongside the created link, so callers treat them as annotations rather
// than failures.
func (c *tripCascade) AddCompanionToTrip(ctx context.Context, tripID, companionID, actingUserID int64, canEdit, canAddItems bool) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	link := models.TripCompanion{
		TripID:           tripID,
		CompanionID:      companionID,
		CanEdit:          canEdit,
		CanAddItems:      canAddItems,
		AddedBy:          actingUserID,
		PermissionSource: models.SourceExplicit,
	}

	created, err := c.tripRepository.AddTripCompanion(ctx, link)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.AddCompanionToTrip").
			Int64("trip_id", tripID).Int64("companion_id", companionID).
			Msg("error adding trip companion")
		return models.TripCompanion{}, err
	}

	if err = c.fanOutToItems(ctx, tripID, companionID, actingUserID); err != nil {
		return created, fmt.Errorf("%w: companion added, item propagation incomplete: %w", ErrCascadeIncomplete, err)
	}

	return created, nil
}

// fanOutToItems adds an inherited item link for the companion on every item
// of the trip, skipping items that already link the companion.
func (c *tripCascade) fanOutToItems(ctx context.Context, tripID, companionID, actingUserID int64) error {
	log := logger.FromContext(ctx)

	items, err := c.itemRepository.ListItemsByTrip(ctx, tripID)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.fanOutToItems").Int64("trip_id", tripID).Msg("error listing trip items")
		return fmt.Errorf("error listing trip items: %w", err)
	}

	var failed int
	for _, item := range items {
		exists, err := c.itemRepository.HasItemCompanion(ctx, item.ItemType, item.ItemID, companionID)
		if err != nil {
			log.Err(err).Str("func", "*tripCascade.fanOutToItems").
				Str("item_type", string(item.ItemType)).Int64("item_id", item.ItemID).
				Msg("error checking item companion, skipping item")
			failed++
			continue
		}
		if exists {
			continue
		}

		_, err = c.itemRepository.AddItemCompanion(ctx, models.ItemCompanion{
			ItemType:          item.ItemType,
			ItemID:            item.ItemID,
			CompanionID:       companionID,
			AddedBy:           actingUserID,
			InheritedFromTrip: true,
		})
		if err != nil && !errors.Is(err, store.ErrItemCompanionExists) {
			log.Err(err).Str("func", "*tripCascade.fanOutToItems").
				Str("item_type", string(item.ItemType)).Int64("item_id", item.ItemID).
				Msg("error adding item companion, skipping item")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to propagate companion to %d of %d items", failed, len(items))
	}

	return nil
}

// RemoveCompanionFromTrip deletes the trip link and every inherited item
// link across the trip's items. Explicit item-level shares keep their rows.
// Returns false when no trip link existed; inherited cleanup still runs so
// a half-removed state from an earlier failure converges. A cleanup failure
// after the link removal comes back wrapped in [ErrCascadeIncomplete].
func (c *tripCascade) RemoveCompanionFromTrip(ctx context.Context, tripID, companionID int64) (bool, error) {
	log := logger.FromContext(ctx)

	removed, err := c.tripRepository.RemoveTripCompanion(ctx, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.RemoveCompanionFromTrip").
			Int64("trip_id", tripID).Int64("companion_id", companionID).
			Msg("error removing trip companion")
		return false, err
	}

	deleted, err := c.itemRepository.DeleteInheritedItemCompanions(ctx, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.RemoveCompanionFromTrip").
			Int64("trip_id", tripID).Int64("companion_id", companionID).
			Msg("error deleting inherited item companions")
		return removed, fmt.Errorf("%w: companion removed, inherited cleanup failed: %w", ErrCascadeIncomplete, err)
	}

	log.Debug().Str("func", "*tripCascade.RemoveCompanionFromTrip").
		Int64("trip_id", tripID).Int64("companion_id", companionID).Int64("deleted_item_links", deleted).
		Msg("trip companion removal cascade finished")

	return removed, nil
}

// UpdateTripCompanion rewrites the link's permission flags, reading the
// current row first so nil fields keep their value.
func (c *tripCascade) UpdateTripCompanion(ctx context.Context, tripID, companionID int64, canEdit, canAddItems *bool) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	current, err := c.tripRepository.GetTripCompanion(ctx, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.UpdateTripCompanion").
			Int64("trip_id", tripID).Int64("companion_id", companionID).
			Msg("error loading trip companion")
		return models.TripCompanion{}, err
	}

	nextCanEdit := current.CanEdit
	if canEdit != nil {
		nextCanEdit = *canEdit
	}
	nextCanAddItems := current.CanAddItems
	if canAddItems != nil {
		nextCanAddItems = *canAddItems
	}

	updated, err := c.tripRepository.UpdateTripCompanion(ctx, tripID, companionID, nextCanEdit, nextCanAddItems)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.UpdateTripCompanion").
			Int64("trip_id", tripID).Int64("companion_id", companionID).
			Msg("error updating trip companion")
		return models.TripCompanion{}, err
	}

	return updated, nil
}

// AutoAddTripCompanions copies the trip's current companion list onto a
// freshly created item as inherited links. Runs after the item exists and
// never fails the item creation: all errors aggregate into the return value
// for the caller to surface as a warning.
func (c *tripCascade) AutoAddTripCompanions(ctx context.Context, itemType models.ItemType, itemID, tripID, actingUserID int64) error {
	log := logger.FromContext(ctx)

	links, err := c.tripRepository.ListTripCompanions(ctx, tripID)
	if err != nil {
		log.Err(err).Str("func", "*tripCascade.AutoAddTripCompanions").Int64("trip_id", tripID).Msg("error listing trip companions")
		return fmt.Errorf("error listing trip companions: %w", err)
	}

	var failed int
	for _, link := range links {
		exists, err := c.itemRepository.HasItemCompanion(ctx, itemType, itemID, link.CompanionID)
		if err != nil {
			log.Err(err).Str("func", "*tripCascade.AutoAddTripCompanions").
				Int64("companion_id", link.CompanionID).
				Msg("error checking item companion, skipping companion")
			failed++
			continue
		}
		if exists {
			continue
		}

		_, err = c.itemRepository.AddItemCompanion(ctx, models.ItemCompanion{
			ItemType:          itemType,
			ItemID:            itemID,
			CompanionID:       link.CompanionID,
			AddedBy:           actingUserID,
			InheritedFromTrip: true,
		})
		if err != nil && !errors.Is(err, store.ErrItemCompanionExists) {
			log.Err(err).Str("func", "*tripCascade.AutoAddTripCompanions").
				Int64("companion_id", link.CompanionID).
				Msg("error adding item companion, skipping companion")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to add %d of %d trip companions to item", failed, len(links))
	}

	return nil
}
