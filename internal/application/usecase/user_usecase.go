package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios de una empresa.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Me devuelve el usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, rc dto.RequestContext) (*dto.UserResponse, error) {
	return uc.Get(ctx, rc, rc.UserID)
}

// Get obtiene un usuario de la empresa del llamador. Un no-admin solo puede verse a sí mismo.
func (uc *UserUseCase) Get(ctx context.Context, rc dto.RequestContext, id string) (*dto.UserResponse, error) {
	if id != rc.UserID && !rc.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.load(ctx, rc, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// List lista los usuarios de la empresa del llamador. Solo admin.
func (uc *UserUseCase) List(ctx context.Context, rc dto.RequestContext, page dto.PageRequest) (*dto.UserListResponse, error) {
	if !rc.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, rc.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Create crea un usuario activo en la empresa del llamador. Solo admin.
func (uc *UserUseCase) Create(ctx context.Context, rc dto.RequestContext, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !rc.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		CompanyID:    rc.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Gender:       in.Gender,
		Role:         in.Role,
		Theme:        entity.ThemeLight,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update aplica el patch. El propio usuario puede editar su perfil; rol y estado solo los cambia un admin.
func (uc *UserUseCase) Update(ctx context.Context, rc dto.RequestContext, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	isAdmin := rc.HasRole(entity.RoleAdmin)
	if id != rc.UserID && !isAdmin {
		return nil, domain.ErrForbidden
	}
	if !isAdmin && (in.Role != nil || in.Status != nil) {
		return nil, fmt.Errorf("%w: solo un admin puede cambiar rol o estado", domain.ErrForbidden)
	}
	user, err := uc.load(ctx, rc, id)
	if err != nil {
		return nil, err
	}
	// un admin no puede quitarse a sí mismo el rol ni desactivarse
	if id == rc.UserID && ((in.Role != nil && *in.Role != entity.RoleAdmin && user.Role == entity.RoleAdmin) ||
		(in.Status != nil && *in.Status != entity.UserStatusActive)) {
		return nil, fmt.Errorf("%w: un admin no puede degradarse o desactivarse a sí mismo", domain.ErrConflict)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Theme != nil {
		user.Theme = *in.Theme
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Status != nil {
		if !entity.IsValidUserStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, *in.Status)
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Delete elimina un usuario de la empresa. Solo admin y nunca a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, rc dto.RequestContext, id string) error {
	if !rc.HasRole(entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	if id == rc.UserID {
		return fmt.Errorf("%w: un admin no puede eliminarse a sí mismo", domain.ErrConflict)
	}
	if _, err := uc.load(ctx, rc, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// load trae el usuario y lo oculta si pertenece a otra empresa.
func (uc *UserUseCase) load(ctx context.Context, rc dto.RequestContext, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != rc.CompanyID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
