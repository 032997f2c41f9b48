package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/models"
	"github.com/jackc/pgerrcode"
)

// itemRepository is the PostgreSQL-backed implementation of [ItemRepository].
// All item kinds share the "trip_items" table, tagged by item_type, and the
// "item_companions" junction.
type itemRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewItemRepository constructs an [ItemRepository] backed by the provided
// database connection and logger.
func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	logger.Debug().Msg("creating item repository")
	return &itemRepository{
		db:     db,
		logger: logger,
	}
}

func scanItem(row rowScanner) (models.TripItem, error) {
	var item models.TripItem
	var tripID sql.NullInt64
	var details []byte

	err := row.Scan(&item.ItemID, &item.ItemType, &item.UserID, &tripID, &item.Name, &item.StartsAt, &item.EndsAt, &details, &item.CreatedAt)
	if err != nil {
		return models.TripItem{}, err
	}

	if tripID.Valid {
		item.TripID = &tripID.Int64
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &item.Details); err != nil {
			return models.TripItem{}, fmt.Errorf("error decoding item details: %w", err)
		}
	}

	return item, nil
}

func scanItemCompanion(row rowScanner) (models.ItemCompanion, error) {
	var ic models.ItemCompanion
	err := row.Scan(&ic.ID, &ic.ItemType, &ic.ItemID, &ic.CompanionID, &ic.Status, &ic.AddedBy, &ic.InheritedFromTrip, &ic.CreatedAt)
	return ic, err
}

// CreateItem persists a new trip item and returns it with server-assigned
// fields. Details are stored as JSONB.
func (r *itemRepository) CreateItem(ctx context.Context, item models.TripItem) (models.TripItem, error) {
	log := logger.FromContext(ctx)

	var tripID sql.NullInt64
	if item.TripID != nil {
		tripID = sql.NullInt64{Int64: *item.TripID, Valid: true}
	}

	details, err := json.Marshal(item.Details)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.CreateItem").Msg("error encoding item details")
		return models.TripItem{}, fmt.Errorf("error encoding item details: %w", err)
	}

	row := r.db.QueryRowContext(ctx, createItem, item.ItemType, item.UserID, tripID, item.Name, item.StartsAt, item.EndsAt, details)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*itemRepository.CreateItem").Msg("error: row is nil")
		return models.TripItem{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created, err := scanItem(row)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.CreateItem").Msg("error: scanning error")
		return models.TripItem{}, err
	}

	return created, nil
}

// GetItem retrieves an item by (type, ID).
// Empty result set → [ErrItemNotFound].
func (r *itemRepository) GetItem(ctx context.Context, itemType models.ItemType, itemID int64) (models.TripItem, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getItem, itemType, itemID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*itemRepository.GetItem").Msg("error: row is nil")
		return models.TripItem{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	found, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TripItem{}, ErrItemNotFound
		}
		log.Err(err).Str("func", "*itemRepository.GetItem").Msg("error: scanning error")
		return models.TripItem{}, err
	}

	return found, nil
}

// ListItemsByTrip returns every item associated with the trip, across all
// item kinds, in creation order.
func (r *itemRepository) ListItemsByTrip(ctx context.Context, tripID int64) ([]models.TripItem, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listItemsByTrip, tripID)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.ListItemsByTrip").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.TripItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Err(err).Str("func", "*itemRepository.ListItemsByTrip").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// AddItemCompanion creates an item-companion link.
//
// The (item_type, item_id, companion_id) triple is unique; duplicates
// surface a PostgreSQL unique_violation (23505), translated to
// [ErrItemCompanionExists] so cascade fan-out can treat the row as already
// present.
func (r *itemRepository) AddItemCompanion(ctx context.Context, link models.ItemCompanion) (models.ItemCompanion, error) {
	created, err := r.insertItemCompanion(ctx, link)
	if err != nil && r.db.IsRetryable(err) {
		// concurrent fan-out over the same companion can deadlock; one more
		// attempt after the rollback is enough
		logger.FromContext(ctx).Warn().Str("func", "*itemRepository.AddItemCompanion").Msg("retrying item companion insert after transient failure")
		created, err = r.insertItemCompanion(ctx, link)
	}

	return created, err
}

func (r *itemRepository) insertItemCompanion(ctx context.Context, link models.ItemCompanion) (models.ItemCompanion, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, addItemCompanion, link.ItemType, link.ItemID, link.CompanionID, link.Status, link.AddedBy, link.InheritedFromTrip)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*itemRepository.AddItemCompanion").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.ItemCompanion{}, ErrItemCompanionExists
		default:
			return models.ItemCompanion{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanItemCompanion(row)
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.ItemCompanion{}, ErrItemCompanionExists
		}
		log.Err(err).Str("func", "*itemRepository.AddItemCompanion").Msg("error: scanning error")
		return models.ItemCompanion{}, err
	}

	return created, nil
}

// HasItemCompanion reports whether the (item, companion) link exists,
// regardless of provenance.
func (r *itemRepository) HasItemCompanion(ctx context.Context, itemType models.ItemType, itemID, companionID int64) (bool, error) {
	log := logger.FromContext(ctx)

	var exists bool
	row := r.db.QueryRowContext(ctx, hasItemCompanion, itemType, itemID, companionID)
	if err := row.Scan(&exists); err != nil {
		log.Err(err).Str("func", "*itemRepository.HasItemCompanion").Msg("error: scanning error")
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return exists, nil
}

// ListItemCompanions returns every companion link of the item joined with
// the companion records, in link-creation order.
func (r *itemRepository) ListItemCompanions(ctx context.Context, itemType models.ItemType, itemID int64) ([]models.ItemCompanionLink, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListItemCompanionsQuery(itemType, itemID)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.ListItemCompanions").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.ListItemCompanions").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var links []models.ItemCompanionLink
	for rows.Next() {
		var link models.ItemCompanionLink
		var companionUserID sql.NullInt64

		err := rows.Scan(
			&link.ID, &link.ItemType, &link.ItemID, &link.CompanionID, &link.Status,
			&link.AddedBy, &link.InheritedFromTrip, &link.ItemCompanion.CreatedAt,
			&link.Companion.CompanionID, &link.Companion.FirstName, &link.Companion.LastName,
			&link.Companion.Email, &link.Companion.CreatedBy, &companionUserID, &link.Companion.CreatedAt,
		)
		if err != nil {
			log.Err(err).Str("func", "*itemRepository.ListItemCompanions").Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if companionUserID.Valid {
			link.Companion.UserID = &companionUserID.Int64
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

// DeleteInheritedItemCompanions removes every inherited link for the
// companion across all items of the trip. Explicit item-level shares
// (inherited_from_trip = FALSE) are preserved.
func (r *itemRepository) DeleteInheritedItemCompanions(ctx context.Context, tripID, companionID int64) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteInheritedItemCompanions, tripID, companionID)
	if err != nil {
		log.Err(err).Str("func", "*itemRepository.DeleteInheritedItemCompanions").Msg("error executing statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return deleted, nil
}
