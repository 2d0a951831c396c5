package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
	"github.com/jhoicas/Magacin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
	log         zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg, log: log}
}

// RegisterUser registro público. Con role admin crea la empresa (nombre único) y su primer administrador;
// con cualquier otro rol el usuario se une a una empresa existente en estado pending hasta que un admin lo active.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleAdmin
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}
	companyName := strings.TrimSpace(in.Company)
	if companyName == "" {
		return nil, fmt.Errorf("%w: company es obligatorio", domain.ErrInvalidInput)
	}

	now := time.Now()
	company, err := uc.companyRepo.GetByName(ctx, companyName)
	if err != nil {
		return nil, err
	}
	createdCompany := false
	status := entity.UserStatusActive
	if role == entity.RoleAdmin {
		if company != nil {
			return nil, fmt.Errorf("%w: la empresa %q ya existe", domain.ErrDuplicate, companyName)
		}
		company = &entity.Company{ID: uuid.NewString(), Name: companyName, CreatedAt: now, UpdatedAt: now}
		if in.CompanyInfo != nil {
			in.CompanyInfo.ApplyTo(company)
			company.Name = companyName
		}
		if err := uc.companyRepo.Create(ctx, company); err != nil {
			return nil, err
		}
		createdCompany = true
	} else {
		if company == nil {
			return nil, fmt.Errorf("empresa %q: %w", companyName, domain.ErrNotFound)
		}
		status = entity.UserStatusPending
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.NewString(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Gender:       in.Gender,
		Role:         role,
		Theme:        entity.ThemeLight,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if createdCompany {
			// compensación: sin administrador la empresa queda huérfana
			if delErr := uc.companyRepo.Delete(ctx, company.ID); delErr != nil {
				uc.log.Error().Err(delErr).Str("company_id", company.ID).Msg("no se pudo revertir la empresa creada en el registro")
			}
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("company_id", company.ID).Str("role", role).
		Bool("new_company", createdCompany).Msg("usuario registrado")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario + empresa.
// Email desconocido y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrForbidden, user.Status)
	}
	company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("empresa del usuario: %w", domain.ErrNotFound)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		Email:     user.Email,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    dto.NewUserResponse(user),
		Company: dto.NewCompanyResponse(company),
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
