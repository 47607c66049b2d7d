package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/auth"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/auth/session"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/security"
)

// invalidCredentialsMessage is shared so a caller cannot tell an unknown
// email from a wrong password or a disabled account.
const invalidCredentialsMessage = "invalid email or password"

type adminReader interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminProfile, error)
	Update(ctx context.Context, row *models.AdminProfile) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// LoginResult is the token pair plus account identity returned to clients.
type LoginResult struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresIn    int             `json:"expiresIn"`
	AdminID      uuid.UUID       `json:"adminId"`
	Email        string          `json:"email"`
	FullName     string          `json:"fullName"`
	Role         enums.AdminRole `json:"role"`
}

// Service authenticates back-office accounts.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	admins   adminReader
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
}

// NewService builds an auth service with the provided collaborators.
func NewService(admins adminReader, sessions sessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if admins == nil {
		return nil, fmt.Errorf("admin reader required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{admins: admins, sessions: sessions, jwtCfg: jwtCfg, logg: logg}, nil
}

// Login verifies credentials and the active flag, then mints a token pair.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.admins.Update(ctx, admin); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithAdminID(ctx, admin.ID.String()), "recording login time", err)
	}

	return s.issue(ctx, admin)
}

// Refresh rotates the session behind an (possibly expired) access token.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	admin, err := s.admins.FindByID(ctx, claims.AdminID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	if !admin.IsActive {
		_ = s.sessions.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	accessTokenStr, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Role:    admin.Role,
		JTI:     newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		AccessToken:  accessTokenStr,
		RefreshToken: newRefreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		AdminID:      admin.ID,
		Email:        admin.Email,
		FullName:     admin.FullName,
		Role:         admin.Role,
	}, nil
}

// Logout revokes the refresh session tied to the access identifier.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session identifier required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, admin *models.AdminProfile) (*LoginResult, error) {
	accessID := session.NewAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Role:    admin.Role,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		AdminID:      admin.ID,
		Email:        admin.Email,
		FullName:     admin.FullName,
		Role:         admin.Role,
	}, nil
}
