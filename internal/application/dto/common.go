package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequestContext identidad del llamador extraída del JWT. Se pasa explícitamente a cada caso de uso.
type RequestContext struct {
	UserID    string
	Email     string
	Role      string
	CompanyID string
}

// HasRole indica si el llamador tiene alguno de los roles indicados.
func (rc RequestContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if rc.Role == r {
			return true
		}
	}
	return false
}
