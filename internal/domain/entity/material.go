package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material es una materia prima en bodega. Stock es el saldo vigente; el historial
// de entradas (ImportEntry) y salidas (UsageEntry) permite reconstruir cualquier periodo.
type Material struct {
	ID               string
	CompanyID        string
	Name             string
	DailyConsumption decimal.Decimal // consumo diario planificado con las dos líneas en marcha
	Stock            decimal.Decimal
	Unit             string // kg por defecto
	Supplier         string
	OriginCountry    string
	PaymentTerms     string
	LastModifiedBy   string // email del último usuario que modificó el material
	LastModifiedAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultUnit unidad asumida cuando no se indica.
const DefaultUnit = "kg"

// ImportEntry es una entrada de mercancía (recepción). UnitPrice nil = precio desconocido.
type ImportEntry struct {
	ID           string
	MaterialID   string
	Date         time.Time
	Quantity     decimal.Decimal
	UnitPrice    *decimal.Decimal // EUR por unidad
	DeliveryNote string           // número de albarán / otpremnica
	Supplier     string
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
}

// UsageEntry es una salida de material hacia producción.
type UsageEntry struct {
	ID         string
	MaterialID string
	Date       time.Time
	Quantity   decimal.Decimal
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
}

// MaterialLedger agrupa el saldo vigente y el historial completo de un material,
// ambos leídos en una misma lectura consistente.
type MaterialLedger struct {
	Material *Material
	Imports  []ImportEntry // orden de almacenamiento (inserción)
	Usages   []UsageEntry  // orden de almacenamiento (inserción)
}
