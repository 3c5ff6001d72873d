package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/config"
	"github.com/spec-kit/dietcare-service/internal/domain"
	"github.com/spec-kit/dietcare-service/internal/events"
	"github.com/spec-kit/dietcare-service/internal/repository"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"
)

const pgUniqueViolation = "23505"

// RegisterInput carries new-account fields.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthService is the credential authority: it verifies credentials against
// the user store, mints and validates tokens, and enforces account-state
// rules. Tokens are self-contained signed claim sets; identity-affecting
// operations always re-fetch the durable record because claims can go
// stale between issuance and use.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	passwordMin int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users: deps.UserRepo,
		tokenMgr: auth.NewTokenManager(
			cfg.Auth.AccessTokenSecret,
			cfg.Auth.RefreshTokenSecret,
			cfg.Auth.AccessTokenTTL(),
			cfg.Auth.RefreshTokenTTL(),
		),
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		passwordMin: cfg.Auth.PasswordMinLength,
	}
}

// Authenticate verifies credentials and mints a token pair. Unknown
// identifier, wrong password, and role-hint mismatch all fail with the
// identical INVALID_CREDENTIALS shape so callers cannot probe which check
// failed. Deactivation is reported distinctly, and independent of
// credential correctness.
func (s *AuthService) Authenticate(ctx context.Context, identifier, secret string, roleHint string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	if !user.Active {
		return nil, nil, apperrors.NewAccountDeactivated()
	}

	if roleHint != "" {
		role, ok := domain.ParseRole(roleHint)
		if !ok || role != user.Role {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
	}

	if err := auth.ComparePassword(user.PasswordHash, secret); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	// Best-effort: a failed timestamp write must not fail the login.
	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record login timestamp", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	pair, err := s.tokenMgr.MintPair(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{
		Email: user.Email,
		Role:  user.Role,
	})

	return user, pair, nil
}

// Register creates a new account and signs it in. The secret is
// irreversibly hashed before storage.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.TokenPair, error) {
	role := domain.RolePatient
	if in.Role != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, nil, apperrors.NewValidationError("role: must be one of ADMIN, PRACTITIONER, PATIENT", nil)
		}
		role = parsed
	}

	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(s.passwordMin, 0)),
	); err != nil {
		// ozzo joins all field violations into one message.
		return nil, nil, apperrors.NewValidationError(err.Error(), nil)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewUserExists()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, nil, apperrors.NewUserExists()
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	pair, err := s.tokenMgr.MintPair(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})

	return user, pair, nil
}

// Refresh rotates a token pair. The presented token must verify under the
// refresh secret and carry the refresh class; the referenced account must
// still exist and be active. The old refresh token is not invalidated
// because no server-side token store exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.NewInvalidToken(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidToken(err)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !user.Active {
		return nil, apperrors.NewInvalidToken(errors.New("account deactivated"))
	}

	pair, err := s.tokenMgr.MintPair(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventTokenRefreshed, user.ID, events.TokenRefreshedPayload{
		ExpiresAt: pair.ExpiresAt,
	})

	return pair, nil
}

// Identify resolves an access token to the current user record. Unlike
// the per-request guard it re-loads the durable record, so deactivation
// or deletion after issuance is detected here.
func (s *AuthService) Identify(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseAccess(accessToken)
	if err != nil {
		return nil, apperrors.NewInvalidToken(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !user.Active {
		return nil, apperrors.NewUserNotFound()
	}
	return user, nil
}

// Logout is a stateless no-op server-side; the client purge is
// authoritative.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
