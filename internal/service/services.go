package service

import (
	"github.com/avolkhin/tripmate/internal/config"
	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/internal/validators"
)

// Services bundles every service the transport layer depends on.
type Services struct {
	AuthService      AuthService
	CompanionService CompanionService
	TripService      TripService

	Resolver      PermissionResolver
	Authorization Authorization
	Cascade       TripCascade
	ItemLoader    ItemCompanionLoader
}

// NewServices wires the full service graph over the repositories.
func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	resolver := NewPermissionResolver(storages.TripRepository, storages.CompanionRepository, logger)
	authorization := NewAuthorization(resolver, storages.TripRepository, storages.ItemRepository, storages.CompanionRepository, logger)
	cascade := NewTripCascade(storages.TripRepository, storages.ItemRepository, logger)
	validator := validators.NewRequestValidator()

	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, storages.CompanionRepository, validator, cfg.App, logger),
		CompanionService: NewCompanionService(storages.CompanionRepository, storages.UserRepository, validator, logger),
		TripService:      NewTripService(storages.TripRepository, storages.ItemRepository, storages.CompanionRepository, storages.UserRepository, authorization, cascade, validator, logger),
		Resolver:         resolver,
		Authorization:    authorization,
		Cascade:          cascade,
		ItemLoader:       NewItemCompanionLoader(storages.ItemRepository, storages.TripRepository, storages.UserRepository, logger),
	}
}
