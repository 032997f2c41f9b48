package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/models"
	"github.com/jackc/pgerrcode"
)

// companionRepository is the PostgreSQL-backed implementation of
// [CompanionRepository]. It owns the "companions" table (the relationship
// primitive) and the "companion_permissions" table (per-direction grants).
type companionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCompanionRepository constructs a [CompanionRepository] backed by the
// provided database connection and logger.
func NewCompanionRepository(db *DB, logger *logger.Logger) CompanionRepository {
	logger.Debug().Msg("creating companion repository")
	return &companionRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompanion(row rowScanner) (models.CompanionRecord, error) {
	var c models.CompanionRecord
	var userID sql.NullInt64

	if err := row.Scan(&c.CompanionID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedBy, &userID, &c.CreatedAt); err != nil {
		return models.CompanionRecord{}, err
	}

	if userID.Valid {
		c.UserID = &userID.Int64
	}

	return c, nil
}

func scanPermissionGrant(row rowScanner) (models.PermissionGrant, error) {
	var g models.PermissionGrant
	err := row.Scan(&g.GrantID, &g.CompanionID, &g.GrantedBy, &g.CanView, &g.CanEdit, &g.CanManageCompanions, &g.UpdatedAt)
	return g, err
}

// CreateCompanion persists a new companion record.
//
// Companion emails are unique system-wide; a PostgreSQL unique_violation
// (23505) is translated to [ErrCompanionEmailExists].
func (r *companionRepository) CreateCompanion(ctx context.Context, companion models.CompanionRecord) (models.CompanionRecord, error) {
	log := logger.FromContext(ctx)

	var userID sql.NullInt64
	if companion.UserID != nil {
		userID = sql.NullInt64{Int64: *companion.UserID, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createCompanion, companion.FirstName, companion.LastName, companion.Email, companion.CreatedBy, userID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*companionRepository.CreateCompanion").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.CompanionRecord{}, ErrCompanionEmailExists
		default:
			return models.CompanionRecord{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanCompanion(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.CompanionRecord{}, ErrCompanionEmailExists
		}
		log.Err(err).Str("func", "*companionRepository.CreateCompanion").Msg("error: scanning error")
		return models.CompanionRecord{}, err
	}

	return created, nil
}

// GetCompanion retrieves a companion record by ID.
// Empty result set → [ErrCompanionNotFound].
func (r *companionRepository) GetCompanion(ctx context.Context, companionID int64) (models.CompanionRecord, error) {
	return r.findCompanion(ctx, "*companionRepository.GetCompanion", getCompanion, companionID)
}

// FindCompanionByEmail retrieves the companion record whose email matches,
// compared case-insensitively.
// Empty result set → [ErrCompanionNotFound].
func (r *companionRepository) FindCompanionByEmail(ctx context.Context, email string) (models.CompanionRecord, error) {
	return r.findCompanion(ctx, "*companionRepository.FindCompanionByEmail", findCompanionByEmail, email)
}

// FindCompanionByCreatorAndUser retrieves the record created by creatorID
// whose linked account is userID.
// Empty result set → [ErrCompanionNotFound].
func (r *companionRepository) FindCompanionByCreatorAndUser(ctx context.Context, creatorID, userID int64) (models.CompanionRecord, error) {
	return r.findCompanion(ctx, "*companionRepository.FindCompanionByCreatorAndUser", findCompanionByCreatorAndUser, creatorID, userID)
}

func (r *companionRepository) findCompanion(ctx context.Context, funcName, query string, args ...any) (models.CompanionRecord, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.CompanionRecord{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanCompanion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CompanionRecord{}, ErrCompanionNotFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.CompanionRecord{}, err
	}

	return found, nil
}

// ListCompanionsCreatedBy returns every record the given user created, in
// creation order.
func (r *companionRepository) ListCompanionsCreatedBy(ctx context.Context, userID int64) ([]models.CompanionRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCompanionsCreatedBy, userID)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.ListCompanionsCreatedBy").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var companions []models.CompanionRecord
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			log.Err(err).Str("func", "*companionRepository.ListCompanionsCreatedBy").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		companions = append(companions, c)
	}

	return companions, rows.Err()
}

// ListCompanionsOf returns every record other users created about the given
// account, joined with the creator's account data.
func (r *companionRepository) ListCompanionsOf(ctx context.Context, userID int64) ([]models.InboundCompanion, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCompanionsOf, userID)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.ListCompanionsOf").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var inbound []models.InboundCompanion
	for rows.Next() {
		var rec models.CompanionRecord
		var recUserID sql.NullInt64
		var creator models.User

		err := rows.Scan(
			&rec.CompanionID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.CreatedBy, &recUserID, &rec.CreatedAt,
			&creator.UserID, &creator.Email, &creator.FirstName, &creator.LastName, &creator.CreatedAt,
		)
		if err != nil {
			log.Err(err).Str("func", "*companionRepository.ListCompanionsOf").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if recUserID.Valid {
			rec.UserID = &recUserID.Int64
		}

		inbound = append(inbound, models.InboundCompanion{Record: rec, Creator: creator})
	}

	return inbound, rows.Err()
}

// LinkUserByEmail sets user_id on every companion record whose email matches,
// case-insensitively. Records already linked to the same account are left
// untouched, so repeated calls are idempotent.
func (r *companionRepository) LinkUserByEmail(ctx context.Context, email string, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, linkCompanionsByEmail, email, userID)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.LinkUserByEmail").Msg("error executing statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	relinked, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return relinked, nil
}

// UnlinkUser clears user_id on the record.
func (r *companionRepository) UnlinkUser(ctx context.Context, companionID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, unlinkCompanion, companionID)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.UnlinkUser").Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCompanionNotFound
	}

	return nil
}

// DeleteCompanion removes the record. The foreign keys from trip_companions
// and item_companions are RESTRICT, so a record still referenced by a trip
// surfaces a foreign_key_violation, translated to [ErrCompanionInUse].
func (r *companionRepository) DeleteCompanion(ctx context.Context, companionID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteCompanion, companionID)
	if err != nil {
		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return ErrCompanionInUse
		default:
			log.Err(err).Str("func", "*companionRepository.DeleteCompanion").Msg("error executing statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCompanionNotFound
	}

	return nil
}

// UpsertPermission creates or updates the (companion, granter) grant with
// find-or-create-then-update semantics enforced in a single statement.
func (r *companionRepository) UpsertPermission(ctx context.Context, grant models.PermissionGrant) (models.PermissionGrant, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertPermissionQuery(grant)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.UpsertPermission").Msg("error building query")
		return models.PermissionGrant{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*companionRepository.UpsertPermission").Msg("error: row is nil")
		return models.PermissionGrant{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanPermissionGrant(row)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.UpsertPermission").Msg("error: scanning error")
		return models.PermissionGrant{}, err
	}

	return saved, nil
}

// GetPermission returns the grant for the (companion, granter) pair.
// Empty result set → [ErrCompanionNotFound].
func (r *companionRepository) GetPermission(ctx context.Context, companionID, grantedBy int64) (models.PermissionGrant, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getPermission, companionID, grantedBy)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*companionRepository.GetPermission").Msg("error: row is nil")
		return models.PermissionGrant{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	grant, err := scanPermissionGrant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PermissionGrant{}, ErrCompanionNotFound
		}
		log.Err(err).Str("func", "*companionRepository.GetPermission").Msg("error: scanning error")
		return models.PermissionGrant{}, err
	}

	return grant, nil
}

// ListPermissionsForCompanions returns every grant attached to any of the
// given companion records. An empty input yields an empty result without a
// database round trip.
func (r *companionRepository) ListPermissionsForCompanions(ctx context.Context, companionIDs []int64) ([]models.PermissionGrant, error) {
	log := logger.FromContext(ctx)

	if len(companionIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, listPermissionsForCompanions, companionIDs)
	if err != nil {
		log.Err(err).Str("func", "*companionRepository.ListPermissionsForCompanions").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var grants []models.PermissionGrant
	for rows.Next() {
		g, err := scanPermissionGrant(rows)
		if err != nil {
			log.Err(err).Str("func", "*companionRepository.ListPermissionsForCompanions").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		grants = append(grants, g)
	}

	return grants, rows.Err()
}
