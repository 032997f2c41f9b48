package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserEmailExists is returned when registering a user fails because
	// an account with the same email already exists.
	ErrUserEmailExists = errors.New("user email already exists")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("user was not found")

	// ErrCompanionEmailExists is returned when creating a companion record
	// fails because a record with the same email already exists. Companion
	// emails are unique system-wide: one record per counterpart address.
	ErrCompanionEmailExists = errors.New("companion email already exists")

	// ErrCompanionNotFound is returned when a companion record lookup by ID
	// or email produces no rows.
	ErrCompanionNotFound = errors.New("companion was not found")

	// ErrCompanionInUse is returned when deleting a companion record is
	// refused because one or more trips still reference it.
	ErrCompanionInUse = errors.New("companion is referenced by a trip")

	// ErrTripNotFound is returned when a trip lookup by ID produces no rows.
	ErrTripNotFound = errors.New("trip was not found")

	// ErrTripCompanionExists is returned when adding a companion to a trip
	// fails because the (trip, companion) pair already exists.
	ErrTripCompanionExists = errors.New("companion is already on this trip")

	// ErrItemNotFound is returned when a trip item lookup by (type, ID)
	// produces no rows.
	ErrItemNotFound = errors.New("trip item was not found")

	// ErrItemCompanionExists is returned when linking a companion to an item
	// fails because the (item type, item, companion) triple already exists.
	ErrItemCompanionExists = errors.New("companion is already on this item")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
