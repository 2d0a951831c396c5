package entity

import "time"

// Company representa una empresa (tenant). Todos los materiales, pedidos y usuarios cuelgan de ella.
type Company struct {
	ID        string
	Name      string // único en todo el sistema
	Address   string
	City      string
	Country   string
	Phone     string
	Email     string
	VATNumber string // PIB / NIF / NIT según país
	Logo      string // URL o data URI
	CreatedAt time.Time
	UpdatedAt time.Time
}
