package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/avolkhin/tripmate/models"
)

const (
	createUser = `INSERT INTO users (email, first_name, last_name, password_hash)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, email, first_name, last_name, password_hash, created_at;`

	findUserByEmail = `SELECT user_id, email, first_name, last_name, password_hash, created_at
    FROM users
    WHERE lower(email) = lower($1);`

	findUserByID = `SELECT user_id, email, first_name, last_name, password_hash, created_at
    FROM users
    WHERE user_id = $1;`

	createCompanion = `INSERT INTO companions (first_name, last_name, email, created_by, user_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING companion_id, first_name, last_name, email, created_by, user_id, created_at;`

	getCompanion = `SELECT companion_id, first_name, last_name, email, created_by, user_id, created_at
    FROM companions
    WHERE companion_id = $1;`

	findCompanionByEmail = `SELECT companion_id, first_name, last_name, email, created_by, user_id, created_at
    FROM companions
    WHERE lower(email) = lower($1);`

	findCompanionByCreatorAndUser = `SELECT companion_id, first_name, last_name, email, created_by, user_id, created_at
    FROM companions
    WHERE created_by = $1 AND user_id = $2;`

	listCompanionsCreatedBy = `SELECT companion_id, first_name, last_name, email, created_by, user_id, created_at
    FROM companions
    WHERE created_by = $1
    ORDER BY companion_id;`

	listCompanionsOf = `SELECT c.companion_id, c.first_name, c.last_name, c.email, c.created_by, c.user_id, c.created_at,
           u.user_id, u.email, u.first_name, u.last_name, u.created_at
    FROM companions c
    JOIN users u ON u.user_id = c.created_by
    WHERE c.user_id = $1 AND c.created_by <> $1
    ORDER BY c.companion_id;`

	linkCompanionsByEmail = `UPDATE companions
    SET user_id = $2
    WHERE lower(email) = lower($1) AND (user_id IS NULL OR user_id <> $2);`

	unlinkCompanion = `UPDATE companions
    SET user_id = NULL
    WHERE companion_id = $1;`

	deleteCompanion = `DELETE FROM companions
    WHERE companion_id = $1;`

	getPermission = `SELECT grant_id, companion_id, granted_by, can_view, can_edit, can_manage_companions, updated_at
    FROM companion_permissions
    WHERE companion_id = $1 AND granted_by = $2;`

	listPermissionsForCompanions = `SELECT grant_id, companion_id, granted_by, can_view, can_edit, can_manage_companions, updated_at
    FROM companion_permissions
    WHERE companion_id = ANY($1);`

	createTrip = `INSERT INTO trips (user_id, name, start_date, end_date, purpose, confirmed)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING trip_id, user_id, name, start_date, end_date, purpose, confirmed, created_at;`

	getTrip = `SELECT trip_id, user_id, name, start_date, end_date, purpose, confirmed, created_at
    FROM trips
    WHERE trip_id = $1;`

	listTripIDsOwnedBy = `SELECT trip_id
    FROM trips
    WHERE user_id = $1
    ORDER BY trip_id;`

	// Accessible trips are the union of three access paths: ownership,
	// attendance through a trip companion link, and a delegated view grant
	// from the trip's owner. UNION deduplicates.
	listAccessibleTripIDs = `SELECT trip_id FROM trips WHERE user_id = $1
    UNION
    SELECT tc.trip_id
      FROM trip_companions tc
      JOIN companions c ON c.companion_id = tc.companion_id
     WHERE c.user_id = $1
    UNION
    SELECT t.trip_id
      FROM trips t
      JOIN companions c ON c.user_id = $1 AND c.created_by = t.user_id
      JOIN companion_permissions p ON p.companion_id = c.companion_id AND p.granted_by = c.created_by
     WHERE p.can_view = TRUE;`

	addTripCompanion = `INSERT INTO trip_companions (trip_id, companion_id, can_edit, can_add_items, added_by, permission_source)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, trip_id, companion_id, can_edit, can_add_items, added_by, permission_source, created_at;`

	removeTripCompanion = `DELETE FROM trip_companions
    WHERE trip_id = $1 AND companion_id = $2;`

	updateTripCompanion = `UPDATE trip_companions
    SET can_edit = $3, can_add_items = $4
    WHERE trip_id = $1 AND companion_id = $2
    RETURNING id, trip_id, companion_id, can_edit, can_add_items, added_by, permission_source, created_at;`

	getTripCompanion = `SELECT id, trip_id, companion_id, can_edit, can_add_items, added_by, permission_source, created_at
    FROM trip_companions
    WHERE trip_id = $1 AND companion_id = $2;`

	findTripCompanionForUser = `SELECT tc.id, tc.trip_id, tc.companion_id, tc.can_edit, tc.can_add_items, tc.added_by, tc.permission_source, tc.created_at
    FROM trip_companions tc
    JOIN companions c ON c.companion_id = tc.companion_id
    WHERE tc.trip_id = $1 AND c.user_id = $2;`

	countTripsReferencingCompanion = `SELECT count(*)
    FROM trip_companions
    WHERE companion_id = $1;`

	createItem = `INSERT INTO trip_items (item_type, user_id, trip_id, name, starts_at, ends_at, details)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING item_id, item_type, user_id, trip_id, name, starts_at, ends_at, details, created_at;`

	getItem = `SELECT item_id, item_type, user_id, trip_id, name, starts_at, ends_at, details, created_at
    FROM trip_items
    WHERE item_type = $1 AND item_id = $2;`

	listItemsByTrip = `SELECT item_id, item_type, user_id, trip_id, name, starts_at, ends_at, details, created_at
    FROM trip_items
    WHERE trip_id = $1
    ORDER BY item_id;`

	addItemCompanion = `INSERT INTO item_companions (item_type, item_id, companion_id, status, added_by, inherited_from_trip)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, item_type, item_id, companion_id, status, added_by, inherited_from_trip, created_at;`

	hasItemCompanion = `SELECT EXISTS (
        SELECT 1 FROM item_companions
        WHERE item_type = $1 AND item_id = $2 AND companion_id = $3
    );`

	// Inherited rows are mechanically derived from the trip-level link, so
	// removal targets only inherited_from_trip = TRUE; explicit item-level
	// shares survive.
	deleteInheritedItemCompanions = `DELETE FROM item_companions ic
    USING trip_items i
    WHERE ic.item_type = i.item_type
      AND ic.item_id = i.item_id
      AND i.trip_id = $1
      AND ic.companion_id = $2
      AND ic.inherited_from_trip = TRUE;`
)

// psql is the package-wide squirrel statement builder configured for
// PostgreSQL-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildUpsertPermissionQuery builds the find-or-create-then-update statement
// for a permission grant. At most one grant may exist per
// (companion_id, granted_by) pair; conflicts update the flags in place.
func buildUpsertPermissionQuery(grant models.PermissionGrant) (string, []any, error) {
	return psql.
		Insert("companion_permissions").
		Columns("companion_id", "granted_by", "can_view", "can_edit", "can_manage_companions").
		Values(grant.CompanionID, grant.GrantedBy, grant.CanView, grant.CanEdit, grant.CanManageCompanions).
		Suffix(`ON CONFLICT (companion_id, granted_by) DO UPDATE
            SET can_view = EXCLUDED.can_view,
                can_edit = EXCLUDED.can_edit,
                can_manage_companions = EXCLUDED.can_manage_companions,
                updated_at = NOW()
            RETURNING grant_id, companion_id, granted_by, can_view, can_edit, can_manage_companions, updated_at`).
		ToSql()
}

// buildListTripCompanionsQuery builds the trip-companion listing joined with
// the companion records the junction rows point at.
func buildListTripCompanionsQuery(tripID int64) (string, []any, error) {
	return psql.
		Select(
			"tc.id", "tc.trip_id", "tc.companion_id", "tc.can_edit", "tc.can_add_items",
			"tc.added_by", "tc.permission_source", "tc.created_at",
			"c.companion_id", "c.first_name", "c.last_name", "c.email", "c.created_by", "c.user_id", "c.created_at",
		).
		From("trip_companions tc").
		Join("companions c ON c.companion_id = tc.companion_id").
		Where(sq.Eq{"tc.trip_id": tripID}).
		OrderBy("tc.id").
		ToSql()
}

// buildListItemCompanionsQuery builds the item-companion listing joined with
// the companion records the junction rows point at.
func buildListItemCompanionsQuery(itemType models.ItemType, itemID int64) (string, []any, error) {
	return psql.
		Select(
			"ic.id", "ic.item_type", "ic.item_id", "ic.companion_id", "ic.status",
			"ic.added_by", "ic.inherited_from_trip", "ic.created_at",
			"c.companion_id", "c.first_name", "c.last_name", "c.email", "c.created_by", "c.user_id", "c.created_at",
		).
		From("item_companions ic").
		Join("companions c ON c.companion_id = ic.companion_id").
		Where(sq.Eq{"ic.item_type": string(itemType), "ic.item_id": itemID}).
		OrderBy("ic.id").
		ToSql()
}
