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

// companionService is the concrete implementation of [CompanionService].
type companionService struct {
	companionRepository store.CompanionRepository
	userRepository      store.UserRepository
	validator           validators.Validator

	logger *logger.Logger
}

// NewCompanionService constructs a [CompanionService].
func NewCompanionService(companionRepository store.CompanionRepository, userRepository store.UserRepository, validator validators.Validator, logger *logger.Logger) CompanionService {
	return &companionService{
		companionRepository: companionRepository,
		userRepository:      userRepository,
		validator:           validator,
		logger:              logger,
	}
}

// CreateCompanion registers a contact for the acting user and seeds the
// acting user's permission grant towards it.
//
// One record exists per counterpart email system-wide: re-adding one's own
// contact reuses the record and only rewrites the grant, while an address
// already recorded by a different user fails with
// [store.ErrCompanionEmailExists]. The contact is linked to a registered
// account immediately when one with a matching email exists.
func (s *companionService) CreateCompanion(ctx context.Context, actingUserID int64, req models.CreateCompanionRequest) (models.CompanionRecord, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.CompanionRecord{}, err
	}
	email := strings.TrimSpace(req.Email)

	actingUser, err := s.userRepository.FindUserByID(ctx, actingUserID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.CreateCompanion").Msg("error loading acting user")
		return models.CompanionRecord{}, fmt.Errorf("error loading acting user: %w", err)
	}
	if strings.EqualFold(actingUser.Email, email) {
		return models.CompanionRecord{}, ErrValidationSelfCompanion
	}

	record, err := s.companionRepository.FindCompanionByEmail(ctx, email)
	switch {
	case err == nil:
		// Record already exists; re-adding one's own contact reuses it.
	case errors.Is(err, store.ErrCompanionNotFound):
		record, err = s.createLinkedCompanion(ctx, actingUserID, email, req)
		if err != nil {
			return models.CompanionRecord{}, err
		}
	default:
		log.Err(err).Str("func", "*companionService.CreateCompanion").Msg("error finding companion by email")
		return models.CompanionRecord{}, fmt.Errorf("error finding companion by email: %w", err)
	}

	// One record per email system-wide, and every read path resolves
	// relationships through created_by or user_id. A grant seeded by anyone
	// else would never surface, so a foreign record is a conflict, not a
	// reuse. Covers the create-race path too.
	if record.CreatedBy != actingUserID {
		return models.CompanionRecord{}, store.ErrCompanionEmailExists
	}

	grant := models.PermissionGrant{
		CompanionID: record.CompanionID,
		GrantedBy:   actingUserID,
		CanView:     true,
	}
	if req.CanView != nil {
		grant.CanView = *req.CanView
	}
	if req.CanEdit != nil {
		grant.CanEdit = *req.CanEdit
	}

	if _, err = s.companionRepository.UpsertPermission(ctx, grant); err != nil {
		log.Err(err).Str("func", "*companionService.CreateCompanion").Msg("error upserting permission grant")
		return models.CompanionRecord{}, fmt.Errorf("error upserting permission grant: %w", err)
	}

	return record, nil
}

func (s *companionService) createLinkedCompanion(ctx context.Context, actingUserID int64, email string, req models.CreateCompanionRequest) (models.CompanionRecord, error) {
	log := logger.FromContext(ctx)

	record := models.CompanionRecord{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		CreatedBy: actingUserID,
	}

	counterpart, err := s.userRepository.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		record.UserID = &counterpart.UserID
	case errors.Is(err, store.ErrUserNotFound):
		// Unregistered contact; linking happens at their registration.
	default:
		log.Err(err).Str("func", "*companionService.createLinkedCompanion").Msg("error resolving counterpart account")
		return models.CompanionRecord{}, fmt.Errorf("error resolving counterpart account: %w", err)
	}

	created, err := s.companionRepository.CreateCompanion(ctx, record)
	if err != nil {
		if errors.Is(err, store.ErrCompanionEmailExists) {
			// Lost a create race; the record exists now.
			return s.companionRepository.FindCompanionByEmail(ctx, email)
		}
		log.Err(err).Str("func", "*companionService.createLinkedCompanion").Msg("error creating companion record")
		return models.CompanionRecord{}, fmt.Errorf("error creating companion record: %w", err)
	}

	return created, nil
}

// UpdatePermissions changes what the acting user grants the companion over
// the acting user's own trips. Nil request fields keep their current value.
// Only a party to the relationship may change their own grant.
func (s *companionService) UpdatePermissions(ctx context.Context, actingUserID, companionID int64, req models.UpdatePermissionsRequest) (models.PermissionGrant, error) {
	log := logger.FromContext(ctx)

	record, err := s.companionRepository.GetCompanion(ctx, companionID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.UpdatePermissions").Msg("error loading companion record")
		return models.PermissionGrant{}, err
	}

	if record.CreatedBy != actingUserID && !record.LinkedTo(actingUserID) {
		return models.PermissionGrant{}, ErrForbidden
	}

	grant, err := s.companionRepository.GetPermission(ctx, companionID, actingUserID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrCompanionNotFound):
		// No grant yet, find-or-create semantics.
		grant = models.PermissionGrant{CompanionID: companionID, GrantedBy: actingUserID}
	default:
		log.Err(err).Str("func", "*companionService.UpdatePermissions").Msg("error loading permission grant")
		return models.PermissionGrant{}, fmt.Errorf("error loading permission grant: %w", err)
	}

	if req.CanView != nil {
		grant.CanView = *req.CanView
	}
	if req.CanEdit != nil {
		grant.CanEdit = *req.CanEdit
	}

	updated, err := s.companionRepository.UpsertPermission(ctx, grant)
	if err != nil {
		log.Err(err).Str("func", "*companionService.UpdatePermissions").Msg("error upserting permission grant")
		return models.PermissionGrant{}, fmt.Errorf("error upserting permission grant: %w", err)
	}

	return updated, nil
}

// DeleteCompanion removes the record entirely. Only the creator may delete,
// and a record still referenced by any trip surfaces store.ErrCompanionInUse.
func (s *companionService) DeleteCompanion(ctx context.Context, actingUserID, companionID int64) error {
	log := logger.FromContext(ctx)

	record, err := s.companionRepository.GetCompanion(ctx, companionID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.DeleteCompanion").Msg("error loading companion record")
		return err
	}

	if record.CreatedBy != actingUserID {
		return ErrForbidden
	}

	if err = s.companionRepository.DeleteCompanion(ctx, companionID); err != nil {
		log.Err(err).Str("func", "*companionService.DeleteCompanion").Msg("error deleting companion record")
		return err
	}

	return nil
}

// UnlinkCompanion detaches the record from its registered account without
// deleting the contact itself.
func (s *companionService) UnlinkCompanion(ctx context.Context, actingUserID, companionID int64) error {
	log := logger.FromContext(ctx)

	record, err := s.companionRepository.GetCompanion(ctx, companionID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.UnlinkCompanion").Msg("error loading companion record")
		return err
	}

	if record.CreatedBy != actingUserID && !record.LinkedTo(actingUserID) {
		return ErrForbidden
	}

	if err = s.companionRepository.UnlinkUser(ctx, companionID); err != nil {
		log.Err(err).Str("func", "*companionService.UnlinkCompanion").Msg("error unlinking companion record")
		return err
	}

	return nil
}

type grantKey struct {
	companionID int64
	grantedBy   int64
}

// MergeCompanionViews assembles the user's relationship list: one entry per
// distinct counterpart email, merging both directions.
//
// Pass one walks records the user created, keyed by the record's email (the
// counterpart's address). Pass two walks records other users created about
// this account, keyed by the creator's email, and fills the inbound side of
// entries pass one already produced. When pass one already derived the
// inbound flags from the counterpart's grant on the user's own record, pass
// two leaves them alone.
//
// An entry existing only in pass two defaults both share flags to true: the
// counterpart added the user without the user ever adding them back, and the
// absence of a grant row is treated as the historical "shared by default"
// state rather than a revocation.
func (s *companionService) MergeCompanionViews(ctx context.Context, userID int64) ([]models.MergedCompanion, error) {
	log := logger.FromContext(ctx)

	outbound, err := s.companionRepository.ListCompanionsCreatedBy(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.MergeCompanionViews").Msg("error listing created companions")
		return nil, fmt.Errorf("error listing created companions: %w", err)
	}

	inbound, err := s.companionRepository.ListCompanionsOf(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*companionService.MergeCompanionViews").Msg("error listing inbound companions")
		return nil, fmt.Errorf("error listing inbound companions: %w", err)
	}

	companionIDs := make([]int64, 0, len(outbound)+len(inbound))
	for _, record := range outbound {
		companionIDs = append(companionIDs, record.CompanionID)
	}
	for _, in := range inbound {
		companionIDs = append(companionIDs, in.Record.CompanionID)
	}

	grants := map[grantKey]models.PermissionGrant{}
	if len(companionIDs) > 0 {
		list, err := s.companionRepository.ListPermissionsForCompanions(ctx, companionIDs)
		if err != nil {
			log.Err(err).Str("func", "*companionService.MergeCompanionViews").Msg("error listing permission grants")
			return nil, fmt.Errorf("error listing permission grants: %w", err)
		}
		for _, grant := range list {
			grants[grantKey{grant.CompanionID, grant.GrantedBy}] = grant
		}
	}

	byEmail := map[string]int{}
	inboundFilled := map[string]bool{}
	merged := make([]models.MergedCompanion, 0, len(outbound))

	for _, record := range outbound {
		key := strings.ToLower(record.Email)

		entry := models.MergedCompanion{
			CompanionID: record.CompanionID,
			Email:       record.Email,
			Name:        record.DisplayName(),
			UserID:      record.UserID,
		}

		if grant, ok := grants[grantKey{record.CompanionID, userID}]; ok {
			entry.CanShareTrips = grant.CanView
			entry.TheyManageTrips = grant.CanEdit
		}

		// The counterpart may have granted back on this same record.
		if record.UserID != nil {
			if grant, ok := grants[grantKey{record.CompanionID, *record.UserID}]; ok {
				entry.TheyShareTrips = grant.CanView
				entry.CanManageTrips = grant.CanEdit
				inboundFilled[key] = true
			}
		}

		byEmail[key] = len(merged)
		merged = append(merged, entry)
	}

	for _, in := range inbound {
		key := strings.ToLower(in.Creator.Email)
		creatorGrant, hasCreatorGrant := grants[grantKey{in.Record.CompanionID, in.Creator.UserID}]

		if idx, ok := byEmail[key]; ok {
			if inboundFilled[key] {
				continue
			}
			if hasCreatorGrant {
				merged[idx].TheyShareTrips = creatorGrant.CanView
				merged[idx].CanManageTrips = creatorGrant.CanEdit
				inboundFilled[key] = true
			}
			continue
		}

		creatorID := in.Creator.UserID
		entry := models.MergedCompanion{
			CompanionID:    in.Record.CompanionID,
			Email:          in.Creator.Email,
			Name:           in.Creator.DisplayName(),
			UserID:         &creatorID,
			CanShareTrips:  true,
			TheyShareTrips: true,
		}

		if hasCreatorGrant {
			entry.TheyShareTrips = creatorGrant.CanView
			entry.CanManageTrips = creatorGrant.CanEdit
		}
		if myGrant, ok := grants[grantKey{in.Record.CompanionID, userID}]; ok {
			entry.CanShareTrips = myGrant.CanView
			entry.TheyManageTrips = myGrant.CanEdit
		}

		byEmail[key] = len(merged)
		merged = append(merged, entry)
	}

	return merged, nil
}
