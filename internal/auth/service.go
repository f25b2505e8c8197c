package auth

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	userpkg "github.com/terra-legacy/terra-backend/internal/users"
	pkgauth "github.com/terra-legacy/terra-backend/pkg/auth"
	"github.com/terra-legacy/terra-backend/pkg/auth/session"
	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/security"
)

// TokenPair is the transport shape for issued credentials.
type TokenPair struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int              `json:"expires_in"`
	User         *userpkg.UserDTO `json:"user,omitempty"`
}

// Service exposes back-office authentication.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type userLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users    userLoader
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
}

// NewService wires the auth service.
func NewService(users userLoader, sessions sessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, stderrors.New("user loader is required")
	}
	if sessions == nil {
		return nil, stderrors.New("session manager is required")
	}
	if logg == nil {
		return nil, stderrors.New("logger is required")
	}
	return &service{users: users, sessions: sessions, jwtCfg: jwtCfg, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New(errors.CodeValidation, "email and password are required")
	}

	record, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "loading user")
	}
	if !record.IsActive {
		return nil, invalidCredentials()
	}

	ok, err := security.VerifyPassword(password, record.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	accessID := session.NewAccessID()
	pair, err := s.issue(ctx, record, accessID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.LastLoginAt = &now
	if _, err := s.users.Update(ctx, record); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, record.ID.String()), "recording last login", err)
	}

	pair.User = userpkg.NewUserDTO(record)
	return pair, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, errors.New(errors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if stderrors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, errors.New(errors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "rotating session")
	}

	minted, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	return &TokenPair{
		AccessToken:  minted,
		RefreshToken: newRefresh,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return errors.New(errors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, record *models.User, accessID string) (*TokenPair, error) {
	minted, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: record.ID,
		Email:  record.Email,
		Role:   record.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "storing session")
	}

	return &TokenPair{
		AccessToken:  minted,
		RefreshToken: refresh,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func invalidCredentials() error {
	return errors.New(errors.CodeUnauthorized, "invalid email or password")
}
