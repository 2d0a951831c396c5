package mongodb

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

type companyDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	NameKey   string    `bson:"name_key"`
	Address   string    `bson:"address"`
	City      string    `bson:"city"`
	Country   string    `bson:"country"`
	Phone     string    `bson:"phone"`
	Email     string    `bson:"email"`
	VATNumber string    `bson:"vat_number"`
	Logo      string    `bson:"logo"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newCompanyDoc(c *entity.Company) companyDoc {
	return companyDoc{
		ID: c.ID, Name: c.Name, NameKey: strings.ToLower(c.Name), Address: c.Address, City: c.City,
		Country: c.Country, Phone: c.Phone, Email: c.Email, VATNumber: c.VATNumber, Logo: c.Logo,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (d companyDoc) entity() *entity.Company {
	return &entity.Company{
		ID: d.ID, Name: d.Name, Address: d.Address, City: d.City, Country: d.Country, Phone: d.Phone,
		Email: d.Email, VATNumber: d.VATNumber, Logo: d.Logo, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type userDoc struct {
	ID           string    `bson:"_id"`
	CompanyID    string    `bson:"company_id"`
	Email        string    `bson:"email"`
	EmailKey     string    `bson:"email_key"`
	PasswordHash string    `bson:"password_hash"`
	Name         string    `bson:"name"`
	Gender       string    `bson:"gender"`
	Role         string    `bson:"role"`
	Theme        string    `bson:"theme"`
	Avatar       string    `bson:"avatar"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDoc(u *entity.User) userDoc {
	return userDoc{
		ID: u.ID, CompanyID: u.CompanyID, Email: u.Email, EmailKey: strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash, Name: u.Name, Gender: u.Gender, Role: u.Role, Theme: u.Theme,
		Avatar: u.Avatar, Status: u.Status, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{
		ID: d.ID, CompanyID: d.CompanyID, Email: d.Email, PasswordHash: d.PasswordHash, Name: d.Name,
		Gender: d.Gender, Role: d.Role, Theme: d.Theme, Avatar: d.Avatar, Status: d.Status,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// materialDoc guarda el historial embebido: una actualización de un solo documento
// cambia stock e historial de forma atómica.
type materialDoc struct {
	ID               string          `bson:"_id"`
	CompanyID        string          `bson:"company_id"`
	Seq              int64           `bson:"seq"`
	Name             string          `bson:"name"`
	DailyConsumption decimal.Decimal `bson:"daily_consumption"`
	Stock            decimal.Decimal `bson:"stock"`
	Unit             string          `bson:"unit"`
	Supplier         string          `bson:"supplier"`
	OriginCountry    string          `bson:"origin_country"`
	PaymentTerms     string          `bson:"payment_terms"`
	LastModifiedBy   string          `bson:"last_modified_by"`
	LastModifiedAt   *time.Time      `bson:"last_modified_at"`
	CreatedAt        time.Time       `bson:"created_at"`
	UpdatedAt        time.Time       `bson:"updated_at"`
	Imports          []importDoc     `bson:"import_history,omitempty"`
	Usages           []usageDoc      `bson:"usage_history,omitempty"`
}

type importDoc struct {
	ID           string           `bson:"id"`
	Date         time.Time        `bson:"date"`
	Quantity     decimal.Decimal  `bson:"quantity"`
	UnitPrice    *decimal.Decimal `bson:"unit_price"`
	DeliveryNote string           `bson:"delivery_note"`
	Supplier     string           `bson:"supplier"`
	Note         string           `bson:"note"`
	CreatedBy    string           `bson:"created_by"`
	CreatedAt    time.Time        `bson:"created_at"`
}

type usageDoc struct {
	ID        string          `bson:"id"`
	Date      time.Time       `bson:"date"`
	Quantity  decimal.Decimal `bson:"quantity"`
	Note      string          `bson:"note"`
	CreatedBy string          `bson:"created_by"`
	CreatedAt time.Time       `bson:"created_at"`
}

func newMaterialDoc(m *entity.Material, seq int64) materialDoc {
	return materialDoc{
		ID: m.ID, CompanyID: m.CompanyID, Seq: seq, Name: m.Name, DailyConsumption: m.DailyConsumption,
		Stock: m.Stock, Unit: m.Unit, Supplier: m.Supplier, OriginCountry: m.OriginCountry,
		PaymentTerms: m.PaymentTerms, LastModifiedBy: m.LastModifiedBy, LastModifiedAt: m.LastModifiedAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		Imports: make([]importDoc, 0), Usages: make([]usageDoc, 0),
	}
}

func (d materialDoc) entity() *entity.Material {
	return &entity.Material{
		ID: d.ID, CompanyID: d.CompanyID, Name: d.Name, DailyConsumption: d.DailyConsumption, Stock: d.Stock,
		Unit: d.Unit, Supplier: d.Supplier, OriginCountry: d.OriginCountry, PaymentTerms: d.PaymentTerms,
		LastModifiedBy: d.LastModifiedBy, LastModifiedAt: d.LastModifiedAt,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d materialDoc) ledger() *entity.MaterialLedger {
	l := &entity.MaterialLedger{
		Material: d.entity(),
		Imports:  make([]entity.ImportEntry, 0, len(d.Imports)),
		Usages:   make([]entity.UsageEntry, 0, len(d.Usages)),
	}
	for _, e := range d.Imports {
		l.Imports = append(l.Imports, e.entity(d.ID))
	}
	for _, e := range d.Usages {
		l.Usages = append(l.Usages, e.entity(d.ID))
	}
	return l
}

func newImportDoc(e *entity.ImportEntry) importDoc {
	return importDoc{
		ID: e.ID, Date: e.Date, Quantity: e.Quantity, UnitPrice: e.UnitPrice, DeliveryNote: e.DeliveryNote,
		Supplier: e.Supplier, Note: e.Note, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt,
	}
}

func (d importDoc) entity(materialID string) entity.ImportEntry {
	return entity.ImportEntry{
		ID: d.ID, MaterialID: materialID, Date: d.Date, Quantity: d.Quantity, UnitPrice: d.UnitPrice,
		DeliveryNote: d.DeliveryNote, Supplier: d.Supplier, Note: d.Note, CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt,
	}
}

func newUsageDoc(e *entity.UsageEntry) usageDoc {
	return usageDoc{ID: e.ID, Date: e.Date, Quantity: e.Quantity, Note: e.Note, CreatedBy: e.CreatedBy, CreatedAt: e.CreatedAt}
}

func (d usageDoc) entity(materialID string) entity.UsageEntry {
	return entity.UsageEntry{
		ID: d.ID, MaterialID: materialID, Date: d.Date, Quantity: d.Quantity, Note: d.Note,
		CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt,
	}
}

type orderDoc struct {
	ID             string          `bson:"_id"`
	CompanyID      string          `bson:"company_id"`
	MaterialID     string          `bson:"material_id"`
	Quantity       decimal.Decimal `bson:"quantity"`
	Price          decimal.Decimal `bson:"price"`
	OrderDate      time.Time       `bson:"order_date"`
	LastModifiedBy string          `bson:"last_modified_by"`
	LastModifiedAt *time.Time      `bson:"last_modified_at"`
	CreatedAt      time.Time       `bson:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"`
}

func newOrderDoc(o *entity.MaterialOrder) orderDoc {
	return orderDoc{
		ID: o.ID, CompanyID: o.CompanyID, MaterialID: o.MaterialID, Quantity: o.Quantity, Price: o.Price,
		OrderDate: o.OrderDate, LastModifiedBy: o.LastModifiedBy, LastModifiedAt: o.LastModifiedAt,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

func (d orderDoc) entity() *entity.MaterialOrder {
	return &entity.MaterialOrder{
		ID: d.ID, CompanyID: d.CompanyID, MaterialID: d.MaterialID, Quantity: d.Quantity, Price: d.Price,
		OrderDate: d.OrderDate, LastModifiedBy: d.LastModifiedBy, LastModifiedAt: d.LastModifiedAt,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}
