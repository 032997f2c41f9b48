package service

import (
	"context"
	"errors"

	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/models"
)

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn      func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (models.User, error)
	findUserByIDFn    func(ctx context.Context, userID int64) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{}, store.ErrUserNotFound
}

// ─────────────────────────────────────────────
// Mock: store.CompanionRepository
// ─────────────────────────────────────────────

type mockCompanionRepository struct {
	createCompanionFn               func(ctx context.Context, companion models.CompanionRecord) (models.CompanionRecord, error)
	getCompanionFn                  func(ctx context.Context, companionID int64) (models.CompanionRecord, error)
	findCompanionByEmailFn          func(ctx context.Context, email string) (models.CompanionRecord, error)
	findCompanionByCreatorAndUserFn func(ctx context.Context, creatorID, userID int64) (models.CompanionRecord, error)
	listCompanionsCreatedByFn       func(ctx context.Context, userID int64) ([]models.CompanionRecord, error)
	listCompanionsOfFn              func(ctx context.Context, userID int64) ([]models.InboundCompanion, error)
	linkUserByEmailFn               func(ctx context.Context, email string, userID int64) (int64, error)
	unlinkUserFn                    func(ctx context.Context, companionID int64) error
	deleteCompanionFn               func(ctx context.Context, companionID int64) error
	upsertPermissionFn              func(ctx context.Context, grant models.PermissionGrant) (models.PermissionGrant, error)
	getPermissionFn                 func(ctx context.Context, companionID, grantedBy int64) (models.PermissionGrant, error)
	listPermissionsForCompanionsFn  func(ctx context.Context, companionIDs []int64) ([]models.PermissionGrant, error)
}

func (m *mockCompanionRepository) CreateCompanion(ctx context.Context, companion models.CompanionRecord) (models.CompanionRecord, error) {
	if m.createCompanionFn != nil {
		return m.createCompanionFn(ctx, companion)
	}
	return companion, nil
}

func (m *mockCompanionRepository) GetCompanion(ctx context.Context, companionID int64) (models.CompanionRecord, error) {
	if m.getCompanionFn != nil {
		return m.getCompanionFn(ctx, companionID)
	}
	return models.CompanionRecord{}, store.ErrCompanionNotFound
}

func (m *mockCompanionRepository) FindCompanionByEmail(ctx context.Context, email string) (models.CompanionRecord, error) {
	if m.findCompanionByEmailFn != nil {
		return m.findCompanionByEmailFn(ctx, email)
	}
	return models.CompanionRecord{}, store.ErrCompanionNotFound
}

func (m *mockCompanionRepository) FindCompanionByCreatorAndUser(ctx context.Context, creatorID, userID int64) (models.CompanionRecord, error) {
	if m.findCompanionByCreatorAndUserFn != nil {
		return m.findCompanionByCreatorAndUserFn(ctx, creatorID, userID)
	}
	return models.CompanionRecord{}, store.ErrCompanionNotFound
}

func (m *mockCompanionRepository) ListCompanionsCreatedBy(ctx context.Context, userID int64) ([]models.CompanionRecord, error) {
	if m.listCompanionsCreatedByFn != nil {
		return m.listCompanionsCreatedByFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCompanionRepository) ListCompanionsOf(ctx context.Context, userID int64) ([]models.InboundCompanion, error) {
	if m.listCompanionsOfFn != nil {
		return m.listCompanionsOfFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCompanionRepository) LinkUserByEmail(ctx context.Context, email string, userID int64) (int64, error) {
	if m.linkUserByEmailFn != nil {
		return m.linkUserByEmailFn(ctx, email, userID)
	}
	return 0, nil
}

func (m *mockCompanionRepository) UnlinkUser(ctx context.Context, companionID int64) error {
	if m.unlinkUserFn != nil {
		return m.unlinkUserFn(ctx, companionID)
	}
	return nil
}

func (m *mockCompanionRepository) DeleteCompanion(ctx context.Context, companionID int64) error {
	if m.deleteCompanionFn != nil {
		return m.deleteCompanionFn(ctx, companionID)
	}
	return nil
}

func (m *mockCompanionRepository) UpsertPermission(ctx context.Context, grant models.PermissionGrant) (models.PermissionGrant, error) {
	if m.upsertPermissionFn != nil {
		return m.upsertPermissionFn(ctx, grant)
	}
	return grant, nil
}

func (m *mockCompanionRepository) GetPermission(ctx context.Context, companionID, grantedBy int64) (models.PermissionGrant, error) {
	if m.getPermissionFn != nil {
		return m.getPermissionFn(ctx, companionID, grantedBy)
	}
	return models.PermissionGrant{}, store.ErrCompanionNotFound
}

func (m *mockCompanionRepository) ListPermissionsForCompanions(ctx context.Context, companionIDs []int64) ([]models.PermissionGrant, error) {
	if m.listPermissionsForCompanionsFn != nil {
		return m.listPermissionsForCompanionsFn(ctx, companionIDs)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.TripRepository
// ─────────────────────────────────────────────

type mockTripRepository struct {
	createTripFn                     func(ctx context.Context, trip models.Trip) (models.Trip, error)
	getTripFn                        func(ctx context.Context, tripID int64) (models.Trip, error)
	listTripIDsOwnedByFn             func(ctx context.Context, userID int64) ([]int64, error)
	listAccessibleTripIDsFn          func(ctx context.Context, userID int64) ([]int64, error)
	addTripCompanionFn               func(ctx context.Context, link models.TripCompanion) (models.TripCompanion, error)
	removeTripCompanionFn            func(ctx context.Context, tripID, companionID int64) (bool, error)
	updateTripCompanionFn            func(ctx context.Context, tripID, companionID int64, canEdit, canAddItems bool) (models.TripCompanion, error)
	getTripCompanionFn               func(ctx context.Context, tripID, companionID int64) (models.TripCompanion, error)
	listTripCompanionsFn             func(ctx context.Context, tripID int64) ([]models.TripCompanionLink, error)
	findTripCompanionForUserFn       func(ctx context.Context, tripID, userID int64) (models.TripCompanion, error)
	countTripsReferencingCompanionFn func(ctx context.Context, companionID int64) (int64, error)
}

func (m *mockTripRepository) CreateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if m.createTripFn != nil {
		return m.createTripFn(ctx, trip)
	}
	return trip, nil
}

func (m *mockTripRepository) GetTrip(ctx context.Context, tripID int64) (models.Trip, error) {
	if m.getTripFn != nil {
		return m.getTripFn(ctx, tripID)
	}
	return models.Trip{}, store.ErrTripNotFound
}

func (m *mockTripRepository) ListTripIDsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	if m.listTripIDsOwnedByFn != nil {
		return m.listTripIDsOwnedByFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTripRepository) ListAccessibleTripIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.listAccessibleTripIDsFn != nil {
		return m.listAccessibleTripIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTripRepository) AddTripCompanion(ctx context.Context, link models.TripCompanion) (models.TripCompanion, error) {
	if m.addTripCompanionFn != nil {
		return m.addTripCompanionFn(ctx, link)
	}
	return link, nil
}

func (m *mockTripRepository) RemoveTripCompanion(ctx context.Context, tripID, companionID int64) (bool, error) {
	if m.removeTripCompanionFn != nil {
		return m.removeTripCompanionFn(ctx, tripID, companionID)
	}
	return false, nil
}

func (m *mockTripRepository) UpdateTripCompanion(ctx context.Context, tripID, companionID int64, canEdit, canAddItems bool) (models.TripCompanion, error) {
	if m.updateTripCompanionFn != nil {
		return m.updateTripCompanionFn(ctx, tripID, companionID, canEdit, canAddItems)
	}
	return models.TripCompanion{}, store.ErrCompanionNotFound
}

func (m *mockTripRepository) GetTripCompanion(ctx context.Context, tripID, companionID int64) (models.TripCompanion, error) {
	if m.getTripCompanionFn != nil {
		return m.getTripCompanionFn(ctx, tripID, companionID)
	}
	return models.TripCompanion{}, store.ErrCompanionNotFound
}

func (m *mockTripRepository) ListTripCompanions(ctx context.Context, tripID int64) ([]models.TripCompanionLink, error) {
	if m.listTripCompanionsFn != nil {
		return m.listTripCompanionsFn(ctx, tripID)
	}
	return nil, nil
}

func (m *mockTripRepository) FindTripCompanionForUser(ctx context.Context, tripID, userID int64) (models.TripCompanion, error) {
	if m.findTripCompanionForUserFn != nil {
		return m.findTripCompanionForUserFn(ctx, tripID, userID)
	}
	return models.TripCompanion{}, store.ErrCompanionNotFound
}

func (m *mockTripRepository) CountTripsReferencingCompanion(ctx context.Context, companionID int64) (int64, error) {
	if m.countTripsReferencingCompanionFn != nil {
		return m.countTripsReferencingCompanionFn(ctx, companionID)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.ItemRepository
// ─────────────────────────────────────────────

type mockItemRepository struct {
	createItemFn                    func(ctx context.Context, item models.TripItem) (models.TripItem, error)
	getItemFn                       func(ctx context.Context, itemType models.ItemType, itemID int64) (models.TripItem, error)
	listItemsByTripFn               func(ctx context.Context, tripID int64) ([]models.TripItem, error)
	addItemCompanionFn              func(ctx context.Context, link models.ItemCompanion) (models.ItemCompanion, error)
	hasItemCompanionFn              func(ctx context.Context, itemType models.ItemType, itemID, companionID int64) (bool, error)
	listItemCompanionsFn            func(ctx context.Context, itemType models.ItemType, itemID int64) ([]models.ItemCompanionLink, error)
	deleteInheritedItemCompanionsFn func(ctx context.Context, tripID, companionID int64) (int64, error)
}

func (m *mockItemRepository) CreateItem(ctx context.Context, item models.TripItem) (models.TripItem, error) {
	if m.createItemFn != nil {
		return m.createItemFn(ctx, item)
	}
	return item, nil
}

func (m *mockItemRepository) GetItem(ctx context.Context, itemType models.ItemType, itemID int64) (models.TripItem, error) {
	if m.getItemFn != nil {
		return m.getItemFn(ctx, itemType, itemID)
	}
	return models.TripItem{}, store.ErrItemNotFound
}

func (m *mockItemRepository) ListItemsByTrip(ctx context.Context, tripID int64) ([]models.TripItem, error) {
	if m.listItemsByTripFn != nil {
		return m.listItemsByTripFn(ctx, tripID)
	}
	return nil, nil
}

func (m *mockItemRepository) AddItemCompanion(ctx context.Context, link models.ItemCompanion) (models.ItemCompanion, error) {
	if m.addItemCompanionFn != nil {
		return m.addItemCompanionFn(ctx, link)
	}
	return link, nil
}

func (m *mockItemRepository) HasItemCompanion(ctx context.Context, itemType models.ItemType, itemID, companionID int64) (bool, error) {
	if m.hasItemCompanionFn != nil {
		return m.hasItemCompanionFn(ctx, itemType, itemID, companionID)
	}
	return false, nil
}

func (m *mockItemRepository) ListItemCompanions(ctx context.Context, itemType models.ItemType, itemID int64) ([]models.ItemCompanionLink, error) {
	if m.listItemCompanionsFn != nil {
		return m.listItemCompanionsFn(ctx, itemType, itemID)
	}
	return nil, nil
}

func (m *mockItemRepository) DeleteInheritedItemCompanions(ctx context.Context, tripID, companionID int64) (int64, error) {
	if m.deleteInheritedItemCompanionsFn != nil {
		return m.deleteInheritedItemCompanionsFn(ctx, tripID, companionID)
	}
	return 0, nil
}
