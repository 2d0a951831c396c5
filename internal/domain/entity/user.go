package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleBodeguero     = "bodeguero"
	RoleLogistica     = "logistica"
	RoleFinanzas      = "finanzas"
	RoleVentas        = "ventas"
	RoleMantenimiento = "mantenimiento"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusPending  = "pending"
	UserStatusInactive = "inactive"
)

// Géneros aceptados (se usan para el avatar por defecto).
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Temas de interfaz.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Roles devuelve todos los roles válidos.
func Roles() []string {
	return []string{RoleAdmin, RoleBodeguero, RoleLogistica, RoleFinanzas, RoleVentas, RoleMantenimiento}
}

// IsValidRole indica si role es uno de los roles del sistema.
func IsValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidUserStatus indica si status es un estado conocido.
func IsValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusPending, UserStatusInactive:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Gender       string // male, female
	Role         string // ver constantes Role*
	Theme        string // light, dark
	Avatar       string
	Status       string // active, pending, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
