package store

import (
	"context"
	"fmt"

	"github.com/avolkhin/tripmate/internal/config"
	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/migrations"
)

// Storages bundles every repository the service layer depends on.
type Storages struct {
	UserRepository      UserRepository
	CompanionRepository CompanionRepository
	TripRepository      TripRepository
	ItemRepository      ItemRepository
}

// NewStorages connects to PostgreSQL, runs pending migrations, and wires all
// repositories onto the shared connection pool.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &Storages{
		UserRepository:      NewUserRepository(db, log),
		CompanionRepository: NewCompanionRepository(db, log),
		TripRepository:      NewTripRepository(db, log),
		ItemRepository:      NewItemRepository(db, log),
	}, nil
}
