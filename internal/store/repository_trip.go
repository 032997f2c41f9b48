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

// tripRepository is the PostgreSQL-backed implementation of [TripRepository].
// It owns the "trips" table and the "trip_companions" junction.
type tripRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTripRepository constructs a [TripRepository] backed by the provided
// database connection and logger.
func NewTripRepository(db *DB, logger *logger.Logger) TripRepository {
	logger.Debug().Msg("creating trip repository")
	return &tripRepository{
		db:     db,
		logger: logger,
	}
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.TripID, &t.UserID, &t.Name, &t.StartDate, &t.EndDate, &t.Purpose, &t.Confirmed, &t.CreatedAt)
	return t, err
}

func scanTripCompanion(row rowScanner) (models.TripCompanion, error) {
	var tc models.TripCompanion
	err := row.Scan(&tc.ID, &tc.TripID, &tc.CompanionID, &tc.CanEdit, &tc.CanAddItems, &tc.AddedBy, &tc.PermissionSource, &tc.CreatedAt)
	return tc, err
}

// CreateTrip persists a new trip and returns it with server-assigned fields.
func (r *tripRepository) CreateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createTrip, trip.UserID, trip.Name, trip.StartDate, trip.EndDate, trip.Purpose, trip.Confirmed)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.CreateTrip").Msg("error: row is nil")
		return models.Trip{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created, err := scanTrip(row)
	if err != nil {
		log.Err(err).Str("func", "*tripRepository.CreateTrip").Msg("error: scanning error")
		return models.Trip{}, err
	}

	return created, nil
}

// GetTrip retrieves a trip by ID.
// Empty result set → [ErrTripNotFound].
func (r *tripRepository) GetTrip(ctx context.Context, tripID int64) (models.Trip, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getTrip, tripID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.GetTrip").Msg("error: row is nil")
		return models.Trip{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, ErrTripNotFound
		}
		log.Err(err).Str("func", "*tripRepository.GetTrip").Msg("error: scanning error")
		return models.Trip{}, err
	}

	return found, nil
}

// ListTripIDsOwnedBy returns the IDs of every trip the user owns.
func (r *tripRepository) ListTripIDsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	return r.listTripIDs(ctx, "*tripRepository.ListTripIDsOwnedBy", listTripIDsOwnedBy, userID)
}

// ListAccessibleTripIDs returns the deduplicated union of the three access
// paths: ownership, attendance, and delegated view grants. Deduplication is
// done by the UNION in SQL.
func (r *tripRepository) ListAccessibleTripIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.listTripIDs(ctx, "*tripRepository.ListAccessibleTripIDs", listAccessibleTripIDs, userID)
}

func (r *tripRepository) listTripIDs(ctx context.Context, funcName, query string, args ...any) ([]int64, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Err(err).Str("func", funcName).Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AddTripCompanion creates a trip-companion link.
//
// The (trip_id, companion_id) pair is unique; a concurrent or repeated add
// surfaces a PostgreSQL unique_violation (23505), translated to
// [ErrTripCompanionExists] so callers report a conflict instead of a crash.
func (r *tripRepository) AddTripCompanion(ctx context.Context, link models.TripCompanion) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, addTripCompanion, link.TripID, link.CompanionID, link.CanEdit, link.CanAddItems, link.AddedBy, link.PermissionSource)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.AddTripCompanion").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.TripCompanion{}, ErrTripCompanionExists
		default:
			return models.TripCompanion{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanTripCompanion(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.TripCompanion{}, ErrTripCompanionExists
		}
		log.Err(err).Str("func", "*tripRepository.AddTripCompanion").Msg("error: scanning error")
		return models.TripCompanion{}, err
	}

	return created, nil
}

// RemoveTripCompanion deletes the junction row. Returns false when no link
// existed, which callers surface as "nothing to remove" rather than an error.
func (r *tripRepository) RemoveTripCompanion(ctx context.Context, tripID, companionID int64) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, removeTripCompanion, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*tripRepository.RemoveTripCompanion").Msg("error executing statement")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

// UpdateTripCompanion rewrites the link's permission flags.
// Empty result set → [ErrCompanionNotFound].
func (r *tripRepository) UpdateTripCompanion(ctx context.Context, tripID, companionID int64, canEdit, canAddItems bool) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, updateTripCompanion, tripID, companionID, canEdit, canAddItems)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.UpdateTripCompanion").Msg("error: row is nil")
		return models.TripCompanion{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	updated, err := scanTripCompanion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TripCompanion{}, ErrCompanionNotFound
		}
		log.Err(err).Str("func", "*tripRepository.UpdateTripCompanion").Msg("error: scanning error")
		return models.TripCompanion{}, err
	}

	return updated, nil
}

// GetTripCompanion retrieves the junction row for the (trip, companion) pair.
// Empty result set → [ErrCompanionNotFound].
func (r *tripRepository) GetTripCompanion(ctx context.Context, tripID, companionID int64) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getTripCompanion, tripID, companionID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.GetTripCompanion").Msg("error: row is nil")
		return models.TripCompanion{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanTripCompanion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TripCompanion{}, ErrCompanionNotFound
		}
		log.Err(err).Str("func", "*tripRepository.GetTripCompanion").Msg("error: scanning error")
		return models.TripCompanion{}, err
	}

	return found, nil
}

// ListTripCompanions returns every companion link of the trip joined with
// the companion records, in link-creation order.
func (r *tripRepository) ListTripCompanions(ctx context.Context, tripID int64) ([]models.TripCompanionLink, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListTripCompanionsQuery(tripID)
	if err != nil {
		log.Err(err).Str("func", "*tripRepository.ListTripCompanions").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*tripRepository.ListTripCompanions").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var links []models.TripCompanionLink
	for rows.Next() {
		var link models.TripCompanionLink
		var companionUserID sql.NullInt64

		err := rows.Scan(
			&link.ID, &link.TripID, &link.CompanionID, &link.CanEdit, &link.CanAddItems,
			&link.AddedBy, &link.PermissionSource, &link.TripCompanion.CreatedAt,
			&link.Companion.CompanionID, &link.Companion.FirstName, &link.Companion.LastName,
			&link.Companion.Email, &link.Companion.CreatedBy, &companionUserID, &link.Companion.CreatedAt,
		)
		if err != nil {
			log.Err(err).Str("func", "*tripRepository.ListTripCompanions").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if companionUserID.Valid {
			link.Companion.UserID = &companionUserID.Int64
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

// FindTripCompanionForUser resolves the TripCompanion→CompanionRecord→userId
// chain: the trip link whose companion record is linked to the given account.
// Empty result set → [ErrCompanionNotFound]; callers treat it as "no grant".
func (r *tripRepository) FindTripCompanionForUser(ctx context.Context, tripID, userID int64) (models.TripCompanion, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findTripCompanionForUser, tripID, userID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*tripRepository.FindTripCompanionForUser").Msg("error: row is nil")
		return models.TripCompanion{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanTripCompanion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TripCompanion{}, ErrCompanionNotFound
		}
		log.Err(err).Str("func", "*tripRepository.FindTripCompanionForUser").Msg("error: scanning error")
		return models.TripCompanion{}, err
	}

	return found, nil
}

// CountTripsReferencingCompanion reports how many trips link the record.
func (r *tripRepository) CountTripsReferencingCompanion(ctx context.Context, companionID int64) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	row := r.db.QueryRowContext(ctx, countTripsReferencingCompanion, companionID)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*tripRepository.CountTripsReferencingCompanion").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}
