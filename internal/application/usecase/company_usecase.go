package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para la empresa del usuario.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// GetMine devuelve la empresa del llamador.
func (uc *CompanyUseCase) GetMine(ctx context.Context, rc dto.RequestContext) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, rc.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewCompanyResponse(company)
	return &resp, nil
}

// UpdateMine actualiza los datos de la empresa del llamador. Solo admin.
// Devuelve domain.ErrDuplicate si el nuevo nombre ya está en uso.
func (uc *CompanyUseCase) UpdateMine(ctx context.Context, rc dto.RequestContext, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !rc.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, rc.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	in.ApplyTo(company)
	if company.Name == "" {
		return nil, fmt.Errorf("%w: el nombre de la empresa no puede quedar vacío", domain.ErrInvalidInput)
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(company)
	return &resp, nil
}
