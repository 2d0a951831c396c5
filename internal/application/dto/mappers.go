package dto

import (
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// NewUserResponse convierte la entidad a DTO (sin hash de password).
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Gender:    u.Gender,
		Role:      u.Role,
		Theme:     u.Theme,
		Avatar:    u.Avatar,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewCompanyResponse convierte la entidad a DTO.
func NewCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		City:      c.City,
		Country:   c.Country,
		Phone:     c.Phone,
		Email:     c.Email,
		VATNumber: c.VATNumber,
		Logo:      c.Logo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewMaterialResponse convierte la entidad a DTO e incluye el perfil de consumo.
func NewMaterialResponse(m *entity.Material) MaterialResponse {
	p := inventory.Profile(m.Stock, m.DailyConsumption)
	return MaterialResponse{
		ID:               m.ID,
		Name:             m.Name,
		DailyConsumption: m.DailyConsumption,
		Stock:            m.Stock,
		Unit:             m.Unit,
		Supplier:         m.Supplier,
		OriginCountry:    m.OriginCountry,
		PaymentTerms:     m.PaymentTerms,
		Consumption: ConsumptionProfileDTO{
			Daily:            p.Daily,
			Monthly:          p.Monthly,
			Yearly:           p.Yearly,
			DailyTonnes:      p.DailyTonnes,
			MonthlyTonnes:    p.MonthlyTonnes,
			YearlyTonnes:     p.YearlyTonnes,
			CoverageTwoLines: p.CoverageTwoLines,
			CoverageOneLine:  p.CoverageOneLine,
		},
		LastModifiedBy: m.LastModifiedBy,
		LastModifiedAt: m.LastModifiedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// NewImportEntryResponse convierte una entrada del historial.
func NewImportEntryResponse(e entity.ImportEntry) ImportEntryResponse {
	return ImportEntryResponse{
		ID:           e.ID,
		MaterialID:   e.MaterialID,
		Date:         e.Date,
		Quantity:     e.Quantity,
		UnitPrice:    e.UnitPrice,
		DeliveryNote: e.DeliveryNote,
		Supplier:     e.Supplier,
		Note:         e.Note,
		CreatedBy:    e.CreatedBy,
	}
}

// NewUsageEntryResponse convierte una salida del historial.
func NewUsageEntryResponse(e entity.UsageEntry) UsageEntryResponse {
	return UsageEntryResponse{
		ID:         e.ID,
		MaterialID: e.MaterialID,
		Date:       e.Date,
		Quantity:   e.Quantity,
		Note:       e.Note,
		CreatedBy:  e.CreatedBy,
	}
}

// NewImportHistoryResponse convierte una fila del historial de empresa.
func NewImportHistoryResponse(it repository.ImportHistoryItem) ImportEntryResponse {
	r := NewImportEntryResponse(it.Entry)
	r.MaterialID = it.MaterialID
	r.MaterialName = it.MaterialName
	r.Unit = it.Unit
	return r
}

// NewUsageHistoryResponse convierte una fila del historial de empresa.
func NewUsageHistoryResponse(it repository.UsageHistoryItem) UsageEntryResponse {
	r := NewUsageEntryResponse(it.Entry)
	r.MaterialID = it.MaterialID
	r.MaterialName = it.MaterialName
	r.Unit = it.Unit
	return r
}

// NewOrderResponse convierte un pedido con su material resuelto.
func NewOrderResponse(v repository.MaterialOrderView) OrderResponse {
	o := v.Order
	return OrderResponse{
		ID:             o.ID,
		MaterialID:     o.MaterialID,
		MaterialName:   v.MaterialName,
		Unit:           v.Unit,
		Quantity:       o.Quantity,
		Price:          o.Price,
		Total:          o.Quantity.Mul(o.Price).Round(2),
		OrderDate:      o.OrderDate,
		LastModifiedBy: o.LastModifiedBy,
		LastModifiedAt: o.LastModifiedAt,
		CreatedAt:      o.CreatedAt,
	}
}

// NewReportRow convierte el resultado del motor a fila del informe.
func NewReportRow(m *entity.Material, r inventory.Reconciliation) ReportRowDTO {
	return ReportRowDTO{
		MaterialID:        m.ID,
		Material:          m.Name,
		Unit:              m.Unit,
		OpeningStock:      &r.OpeningStock,
		PeriodInflow:      &r.PeriodInflow,
		ClosingStock:      &r.ClosingStock,
		PeriodConsumption: &r.PeriodConsumption,
		LastUnitPrice:     r.LastUnitPrice,
		PeriodCostValue:   r.PeriodCostValue,
		CostTwoLines:      r.PeriodCostValue,
		CostOneLine:       r.CostHalfShare,
	}
}
