package dto

import "time"

// CreateUserRequest entrada para que un admin cree un usuario en su empresa.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female"`
	Role     string `json:"role" validate:"required,oneof=admin bodeguero logistica finanzas ventas mantenimiento"`
}

// UpdateUserRequest patch explícito de usuario (campos nil = sin cambio).
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=male female"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin bodeguero logistica finanzas ventas mantenimiento"`
	Theme    *string `json:"theme" validate:"omitempty,oneof=light dark"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=2048"`
	Status   *string `json:"status" validate:"omitempty,oneof=active pending inactive"`
}

// RegisterRequest entrada para registro público. Con role admin se crea la empresa indicada.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female"`
	Role     string `json:"role" validate:"omitempty,oneof=admin bodeguero logistica finanzas ventas mantenimiento"`
	Company  string `json:"company" validate:"required,min=1,max=200"`
	// Datos de la empresa; solo se usan cuando role = admin.
	CompanyInfo *UpdateCompanyRequest `json:"company_info,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender,omitempty"`
	Role      string    `json:"role"`
	Theme     string    `json:"theme"`
	Avatar    string    `json:"avatar,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}
