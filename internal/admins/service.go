package admins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db/models"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/enums"
	pkgerrors "github.com/shieldwrapindia/shieldwrap-backend/pkg/errors"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/security"
)

const minPasswordLength = 10

type adminRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminProfile, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminProfile, error)
	List(ctx context.Context) ([]models.AdminProfile, error)
	Create(ctx context.Context, row *models.AdminProfile) error
	Update(ctx context.Context, row *models.AdminProfile) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountActiveSuperadmins(ctx context.Context) (int64, error)
}

// AdminDTO is the account read shape. The password hash never leaves the service.
type AdminDTO struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Role        enums.AdminRole `json:"role"`
	IsActive    bool            `json:"isActive"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateAdminInput carries the superadmin create payload.
type CreateAdminInput struct {
	Email    string
	Password string
	FullName string
	Role     enums.AdminRole
}

// UpdateAdminInput carries partial account edits. Nil fields are untouched.
type UpdateAdminInput struct {
	FullName *string
	Password *string
	Role     *enums.AdminRole
	IsActive *bool
}

// Service manages back-office accounts. Role and active-flag changes guard
// against locking the last superadmin out.
type Service interface {
	List(ctx context.Context) ([]AdminDTO, error)
	Create(ctx context.Context, input CreateAdminInput) (*AdminDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (*AdminDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo        adminRepository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds an account service with the provided repository.
func NewService(repo adminRepository, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]AdminDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing admins")
	}
	out := make([]AdminDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateAdminInput) (*AdminDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	role := input.Role
	if role == "" {
		role = enums.AdminRoleAdmin
	}
	if _, err := enums.ParseAdminRole(string(role)); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	row := models.AdminProfile{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating admin")
	}
	return toDTO(&row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (*AdminDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading admin")
	}

	demotes := false
	if input.Role != nil {
		if _, err := enums.ParseAdminRole(string(*input.Role)); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
		}
		if row.Role == enums.AdminRoleSuperadmin && *input.Role != enums.AdminRoleSuperadmin {
			demotes = true
		}
	}
	deactivates := input.IsActive != nil && !*input.IsActive && row.IsActive
	if (demotes || deactivates) && row.Role == enums.AdminRoleSuperadmin && row.IsActive {
		count, err := s.repo.CountActiveSuperadmins(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting superadmins")
		}
		if count <= 1 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot disable the last active superadmin")
		}
	}

	if input.FullName != nil {
		row.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		row.PasswordHash = hash
	}
	if input.Role != nil {
		row.Role = *input.Role
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating admin")
	}
	return toDTO(row), nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot delete your own account")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading admin")
	}
	if row.Role == enums.AdminRoleSuperadmin && row.IsActive {
		count, err := s.repo.CountActiveSuperadmins(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting superadmins")
		}
		if count <= 1 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete the last active superadmin")
		}
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting admin")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
	}
	return nil
}

func toDTO(m *models.AdminProfile) *AdminDTO {
	return &AdminDTO{
		ID:          m.ID,
		Email:       m.Email,
		FullName:    m.FullName,
		Role:        m.Role,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
