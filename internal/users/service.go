package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/config"
	dbpkg "github.com/terra-legacy/terra-backend/pkg/db"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
	"github.com/terra-legacy/terra-backend/pkg/security"
)

const minPasswordLen = 10
const tempPasswordLen = 16

// CreateInput carries a new back-office user. When Password is nil a
// temporary one is generated and returned once on the DTO.
type CreateInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      enums.UserRole
	Password  *string
}

// UpdateInput carries a partial user update.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Role      *enums.UserRole
}

// Service exposes back-office user management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	ResetPassword(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params) ([]UserDTO, string, error)
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService wires the user service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, stderrors.New("user repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*UserDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, errors.New(errors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New(errors.CodeValidation, "email is invalid")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, errors.New(errors.CodeValidation, "first and last name are required")
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleEditor
	}
	if !role.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}

	tempPassword := ""
	password := ""
	if input.Password != nil {
		if len(*input.Password) < minPasswordLen {
			return nil, errors.New(errors.CodeValidation,
				fmt.Sprintf("password must be at least %d characters", minPasswordLen))
		}
		password = *input.Password
	} else {
		generated, err := security.GenerateTempPassword(tempPasswordLen)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "generating password")
		}
		tempPassword = generated
		password = generated
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	created, err := s.repo.Create(ctx, &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_users_email") {
			return nil, errors.New(errors.CodeConflict, "a user with this email already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "creating user")
	}

	dto := NewUserDTO(created)
	dto.TempPassword = tempPassword
	return dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading user")
	}

	if input.FirstName != nil {
		record.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		record.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid role %q", *input.Role))
		}
		record.Role = *input.Role
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating user")
	}
	return NewUserDTO(updated), nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading user")
	}
	record.IsActive = active
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating user")
	}
	return NewUserDTO(updated), nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < minPasswordLen {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOrDependency(err, "loading user")
	}

	ok, err := security.VerifyPassword(current, record.PasswordHash)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return errors.New(errors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.passwordCfg)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "hashing password")
	}
	record.PasswordHash = hash
	if _, err := s.repo.Update(ctx, record); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating user")
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading user")
	}

	generated, err := security.GenerateTempPassword(tempPasswordLen)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "generating password")
	}
	hash, err := security.HashPassword(generated, s.passwordCfg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	record.PasswordHash = hash
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating user")
	}

	dto := NewUserDTO(updated)
	dto.TempPassword = generated
	return dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading user")
	}
	return NewUserDTO(record), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]UserDTO, string, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing users")
	}
	return NewUserDTOs(rows), next, nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "user not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
