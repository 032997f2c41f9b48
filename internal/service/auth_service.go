package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkhin/tripmate/internal/config"
	"github.com/avolkhin/tripmate/internal/logger"
	"github.com/avolkhin/tripmate/internal/store"
	"github.com/avolkhin/tripmate/internal/utils"
	"github.com/avolkhin/tripmate/internal/validators"
	"github.com/avolkhin/tripmate/models"
)

// authService is the concrete implementation of [AuthService].
type authService struct {
	userRepository      store.UserRepository
	companionRepository store.CompanionRepository
	validator           validators.Validator
	appConfig           config.App

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService].
func NewAuthService(userRepository store.UserRepository, companionRepository store.CompanionRepository, validator validators.Validator, appConfig config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:      userRepository,
		companionRepository: companionRepository,
		validator:           validator,
		appConfig:           appConfig,
		logger:              logger,
	}
}

// Register creates an account and links every pre-existing companion record
// whose email matches the new account. The relink makes contacts added
// before registration resolve to the account from this point on, which is
// what lets older invitations grant the new user access.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}
	email := strings.TrimSpace(req.Email)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, models.User{
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error creating user")
		return models.User{}, err
	}

	// Relink is idempotent; a failure here leaves a valid account and the
	// next matching-email link attempt converges.
	relinked, err := s.companionRepository.LinkUserByEmail(ctx, email, user.UserID)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error relinking companion records")
	} else if relinked > 0 {
		log.Debug().Str("func", "*authService.Register").Int64("relinked", relinked).Msg("companion records linked to new account")
	}

	return user, nil
}

// Login verifies the credentials and issues a signed token.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.Token{}, ErrWrongPassword
		}
		log.Err(err).Str("func", "*authService.Login").Msg("error finding user")
		return models.Token{}, fmt.Errorf("error finding user: %w", err)
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return models.Token{}, ErrWrongPassword
	}

	token, err := utils.GenerateJWTToken(s.appConfig.TokenIssuer, user.UserID, s.appConfig.TokenDuration, s.appConfig.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("error generating token")
		return models.Token{}, fmt.Errorf("error generating token: %w", err)
	}

	return token, nil
}

// ParseToken validates a bearer token and returns the parsed claims.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, s.appConfig.TokenSignKey, s.appConfig.TokenIssuer)
	if err != nil {
		log.Debug().Err(err).Str("func", "*authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
