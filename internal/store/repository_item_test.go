package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/models"
	"github.com/jackc/pgerrcode"
)

func newTestItemRepo(t *testing.T) (*itemRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &itemRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func itemColumns() []string {
	return []string{"item_id", "item_type", "user_id", "trip_id", "name", "starts_at", "ends_at", "details", "created_at"}
}

func itemCompanionColumns() []string {
	return []string{"id", "item_type", "item_id", "companion_id", "status", "added_by", "inherited_from_trip", "created_at"}
}

func TestCreateItem_Success(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	tripID := int64(7)
	item := models.TripItem{
		ItemType: models.ItemHotel,
		UserID:   1,
		TripID:   &tripID,
		Name:     "Hotel Adlon",
		StartsAt: now,
		EndsAt:   now.AddDate(0, 0, 4),
		Details:  map[string]string{"address": "Unter den Linden 77"},
	}

	rows := sqlmock.NewRows(itemColumns()).
		AddRow(100, string(models.ItemHotel), 1, 7, item.Name, item.StartsAt, item.EndsAt, []byte(`{"address":"Unter den Linden 77"}`), now)

	mock.ExpectQuery("INSERT INTO trip_items").
		WithArgs(item.ItemType, item.UserID, sql.NullInt64{Int64: 7, Valid: true}, item.Name, item.StartsAt, item.EndsAt, sqlmock.AnyArg()).
		WillReturnRows(rows)

	created, err := repo.CreateItem(ctx, item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ItemID != 100 {
		t.Errorf("expected ItemID=100, got %d", created.ItemID)
	}
	if created.TripID == nil || *created.TripID != 7 {
		t.Errorf("expected TripID=7, got %v", created.TripID)
	}
	if created.Details["address"] != "Unter den Linden 77" {
		t.Errorf("details did not round-trip: %v", created.Details)
	}
}

func TestGetItem_StandaloneNullTripID(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(itemColumns()).
		AddRow(100, string(models.ItemFlight), 1, nil, "LH 172", now, now, nil, now)

	mock.ExpectQuery("SELECT item_id").
		WithArgs(models.ItemFlight, int64(100)).
		WillReturnRows(rows)

	found, err := repo.GetItem(ctx, models.ItemFlight, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.TripID != nil {
		t.Errorf("expected standalone item, got TripID=%v", *found.TripID)
	}
	if len(found.Details) != 0 {
		t.Errorf("expected empty details, got %v", found.Details)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT item_id").
		WithArgs(models.ItemHotel, int64(404)).
		WillReturnRows(sqlmock.NewRows(itemColumns()))

	_, err := repo.GetItem(ctx, models.ItemHotel, 404)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListItemsByTrip_MultipleKinds(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(itemColumns()).
		AddRow(100, string(models.ItemFlight), 1, 7, "LH 172", now, now, nil, now).
		AddRow(101, string(models.ItemHotel), 1, 7, "Hotel Adlon", now, now, nil, now)

	mock.ExpectQuery("SELECT item_id").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	items, err := repo.ListItemsByTrip(ctx, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ItemType != models.ItemFlight || items[1].ItemType != models.ItemHotel {
		t.Errorf("unexpected item kinds: %s, %s", items[0].ItemType, items[1].ItemType)
	}
}

func TestAddItemCompanion_Success(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	link := models.ItemCompanion{
		ItemType:          models.ItemHotel,
		ItemID:            100,
		CompanionID:       5,
		AddedBy:           1,
		InheritedFromTrip: true,
	}

	rows := sqlmock.NewRows(itemCompanionColumns()).
		AddRow(1, string(models.ItemHotel), 100, 5, "", 1, true, time.Now())

	mock.ExpectQuery("INSERT INTO item_companions").
		WithArgs(link.ItemType, link.ItemID, link.CompanionID, link.Status, link.AddedBy, link.InheritedFromTrip).
		WillReturnRows(rows)

	created, err := repo.AddItemCompanion(ctx, link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 || !created.InheritedFromTrip {
		t.Errorf("unexpected created link: %+v", created)
	}
}

func TestAddItemCompanion_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO item_companions").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.AddItemCompanion(ctx, models.ItemCompanion{ItemType: models.ItemHotel, ItemID: 100, CompanionID: 5})
	if !errors.Is(err, ErrItemCompanionExists) {
		t.Fatalf("expected ErrItemCompanionExists, got %v", err)
	}
}

func TestAddItemCompanion_RetriesAfterDeadlock(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	link := models.ItemCompanion{ItemType: models.ItemHotel, ItemID: 100, CompanionID: 5, AddedBy: 1}

	mock.ExpectQuery("INSERT INTO item_companions").
		WillReturnError(pgError(pgerrcode.DeadlockDetected))
	mock.ExpectQuery("INSERT INTO item_companions").
		WillReturnRows(sqlmock.NewRows(itemCompanionColumns()).
			AddRow(1, string(models.ItemHotel), 100, 5, "", 1, false, time.Now()))

	created, err := repo.AddItemCompanion(ctx, link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("unexpected created link: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAddItemCompanion_NoRetryOnNonTransientError(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO item_companions").
		WillReturnError(pgError(pgerrcode.NotNullViolation))

	_, err := repo.AddItemCompanion(ctx, models.ItemCompanion{ItemType: models.ItemHotel, ItemID: 100, CompanionID: 5})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHasItemCompanion(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(models.ItemHotel, int64(100), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasItemCompanion(ctx, models.ItemHotel, 100, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
}

func TestListItemCompanions_JoinsCompanionRecords(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "item_type", "item_id", "companion_id", "status", "added_by", "inherited_from_trip", "created_at",
		"c_companion_id", "c_first_name", "c_last_name", "c_email", "c_created_by", "c_user_id", "c_created_at",
	}).AddRow(1, string(models.ItemHotel), 100, 5, "", 1, true, now, 5, "Bob", "", "bob@example.com", 1, 2, now)

	mock.ExpectQuery("SELECT ic.id").
		WithArgs(int64(100), string(models.ItemHotel)).
		WillReturnRows(rows)

	links, err := repo.ListItemCompanions(ctx, models.ItemHotel, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	if !links[0].InheritedFromTrip {
		t.Error("expected inherited link")
	}
	if links[0].Companion.UserID == nil || *links[0].Companion.UserID != 2 {
		t.Errorf("expected companion linked to user 2, got %v", links[0].Companion.UserID)
	}
}

func TestDeleteInheritedItemCompanions_ReportsDeletedCount(t *testing.T) {
	repo, mock, db := newTestItemRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM item_companions").
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteInheritedItemCompanions(ctx, 7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 4 {
		t.Errorf("expected 4 deleted rows, got %d", deleted)
	}
}
