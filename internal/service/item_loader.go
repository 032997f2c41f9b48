package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/models"
)

// itemCompanionLoader is the concrete implementation of [ItemCompanionLoader].
type itemCompanionLoader struct {
	itemRepository store.ItemRepository
	tripRepository store.TripRepository
	userRepository store.UserRepository

	logger *logger.Logger
}

// NewItemCompanionLoader constructs an [ItemCompanionLoader].
func NewItemCompanionLoader(itemRepository store.ItemRepository, tripRepository store.TripRepository, userRepository store.UserRepository, logger *logger.Logger) ItemCompanionLoader {
	return &itemCompanionLoader{
		itemRepository: itemRepository,
		tripRepository: tripRepository,
		userRepository: userRepository,
		logger:         logger,
	}
}

// LoadItemCompanionsData assembles the companion picture for one item:
// who is on the item, and which trip companions are not on it yet.
//
// The owner heads the item list as a synthesized entry even without a
// persisted companion row, since older trips predate the owner-row backfill.
// The two lists never name the same account twice: an account already on the
// item is filtered out of the trip list by companion ID and by linked user ID.
func (l *itemCompanionLoader) LoadItemCompanionsData(ctx context.Context, itemType models.ItemType, itemID int64) (models.ItemCompanionsData, error) {
	log := logger.FromContext(ctx)

	item, err := l.itemRepository.GetItem(ctx, itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*itemCompanionLoader.LoadItemCompanionsData").Msg("error loading item")
		return models.ItemCompanionsData{}, err
	}

	ownerID := item.UserID
	var tripLinks []models.TripCompanionLink
	var data models.ItemCompanionsData

	if item.TripID != nil {
		trip, err := l.tripRepository.GetTrip(ctx, *item.TripID)
		if err != nil && !errors.Is(err, store.ErrTripNotFound) {
			log.Err(err).Str("func", "*itemCompanionLoader.LoadItemCompanionsData").Msg("error loading item trip")
			return models.ItemCompanionsData{}, fmt.Errorf("error loading item trip: %w", err)
		}
		if err == nil {
			ownerID = trip.UserID
			data.TripOwnerID = trip.UserID

			tripLinks, err = l.tripRepository.ListTripCompanions(ctx, trip.TripID)
			if err != nil {
				log.Err(err).Str("func", "*itemCompanionLoader.LoadItemCompanionsData").Msg("error listing trip companions")
				return models.ItemCompanionsData{}, fmt.Errorf("error listing trip companions: %w", err)
			}
		}
	}

	itemLinks, err := l.itemRepository.ListItemCompanions(ctx, itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*itemCompanionLoader.LoadItemCompanionsData").Msg("error listing item companions")
		return models.ItemCompanionsData{}, fmt.Errorf("error listing item companions: %w", err)
	}

	seenCompanions := map[int64]bool{}
	seenUsers := map[int64]bool{ownerID: true}

	owner, err := l.userRepository.FindUserByID(ctx, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*itemCompanionLoader.LoadItemCompanionsData").Msg("error loading owner account")
		return models.ItemCompanionsData{}, fmt.Errorf("error loading owner account: %w", err)
	}

	data.ItemCompanions = append(data.ItemCompanions, models.CompanionView{
		Email:   owner.Email,
		Name:    owner.DisplayName(),
		UserID:  &owner.UserID,
		IsOwner: true,
	})

	for _, link := range itemLinks {
		if seenCompanions[link.CompanionID] {
			continue
		}
		seenCompanions[link.CompanionID] = true

		// The owner's own companion row is subsumed by the synthesized
		// owner entry.
		if link.Companion.LinkedTo(ownerID) {
			continue
		}
		if link.Companion.UserID != nil {
			seenUsers[*link.Companion.UserID] = true
		}

		data.ItemCompanions = append(data.ItemCompanions, models.CompanionView{
			CompanionID:       link.CompanionID,
			Email:             link.Companion.Email,
			Name:              link.Companion.DisplayName(),
			UserID:            link.Companion.UserID,
			InheritedFromTrip: link.InheritedFromTrip,
		})
	}

	for _, link := range tripLinks {
		if seenCompanions[link.CompanionID] {
			continue
		}
		seenCompanions[link.CompanionID] = true

		if link.Companion.LinkedTo(ownerID) {
			continue
		}
		if link.Companion.UserID != nil {
			if seenUsers[*link.Companion.UserID] {
				continue
			}
			seenUsers[*link.Companion.UserID] = true
		}

		data.TripCompanions = append(data.TripCompanions, models.CompanionView{
			CompanionID: link.CompanionID,
			Email:       link.Companion.Email,
			Name:        link.Companion.DisplayName(),
			UserID:      link.Companion.UserID,
		})
	}

	return data, nil
}
