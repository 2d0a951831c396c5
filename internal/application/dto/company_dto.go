package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// UpdateCompanyRequest entrada para actualizar la empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address   *string `json:"address" validate:"omitempty,max=300"`
	City      *string `json:"city" validate:"omitempty,max=120"`
	Country   *string `json:"country" validate:"omitempty,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	VATNumber *string `json:"vat_number" validate:"omitempty,max=50"`
	Logo      *string `json:"logo" validate:"omitempty,max=2048"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	VATNumber string    `json:"vat_number"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyTo aplica los campos presentes del patch sobre la empresa.
func (in UpdateCompanyRequest) ApplyTo(c *entity.Company) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.City != nil {
		c.City = *in.City
	}
	if in.Country != nil {
		c.Country = *in.Country
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.VATNumber != nil {
		c.VATNumber = *in.VATNumber
	}
	if in.Logo != nil {
		c.Logo = *in.Logo
	}
}
