package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Magacin-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Magacin-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "magacin-test"
	testEmail     = "skladiste@fabrika.hr"
	testExpMin    = 60
)

// roleToken firma un token de la empresa de prueba con el rol dado.
func roleToken(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: testUserID, CompanyID: testCompanyID, Role: role, Email: testEmail,
	}, testIssuer, expMin)
	require.NoError(t, err)
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_DejaLaIdentidadEnElContexto(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(apphttp.GetRequestContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "bearer "+roleToken(t, entity.RoleBodeguero, testExpMin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rc dto.RequestContext
	decodeBody(t, resp, &rc)
	assert.Equal(t, dto.RequestContext{
		UserID: testUserID, CompanyID: testCompanyID, Role: entity.RoleBodeguero, Email: testEmail,
	}, rc)
}

func TestAuthMiddleware_CabeceraRechazada(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secreto", pkgjwt.Subject{UserID: testUserID, CompanyID: testCompanyID, Role: entity.RoleAdmin}, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token mal formado", "Bearer no.es.jwt", "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"expirado", "Bearer " + roleToken(t, entity.RoleAdmin, -1), "INVALID_TOKEN"},
	}
	s := newTestServer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := s.app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole sobre la tabla de rutas real
// ──────────────────────────────────────────────────────────────────────────────

func TestRutas_PermisosPorRol(t *testing.T) {
	importBody := dto.RecordImportRequest{Quantity: decimal.RequireFromString("1"), Date: "2026-01-10"}
	usageBody := dto.RecordUsageRequest{Quantity: decimal.RequireFromString("1"), Date: "2026-01-10"}
	orderBody := dto.CreateOrderRequest{MaterialID: "no-existe", Quantity: decimal.RequireFromString("1"), Price: decimal.RequireFromString("1")}
	const export = "/api/materials/report/export?from=2026-01-01&to=2026-01-31&format=xlsx-xml"

	cases := []struct {
		name    string
		method  string
		path    string
		body    any
		allowed []string
	}{
		{"registrar entrada", http.MethodPost, "/api/materials/no-existe/import", importBody,
			[]string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleLogistica}},
		{"registrar salida", http.MethodPost, "/api/materials/no-existe/usage", usageBody,
			[]string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleLogistica}},
		{"borrar entrada", http.MethodDelete, "/api/materials/no-existe/import/e1", nil,
			[]string{entity.RoleAdmin, entity.RoleBodeguero}},
		{"borrar salida", http.MethodDelete, "/api/materials/no-existe/usage/e1", nil,
			[]string{entity.RoleAdmin, entity.RoleBodeguero}},
		{"exportar informe", http.MethodGet, export, nil,
			[]string{entity.RoleAdmin, entity.RoleFinanzas, entity.RoleLogistica, entity.RoleBodeguero}},
		{"crear pedido", http.MethodPost, "/api/material-orders", orderBody,
			[]string{entity.RoleAdmin, entity.RoleLogistica, entity.RoleFinanzas}},
		{"editar empresa", http.MethodPut, "/api/companies/me", dto.UpdateCompanyRequest{},
			[]string{entity.RoleAdmin}},
	}

	s := newTestServer(t)
	for _, tc := range cases {
		for _, role := range entity.Roles() {
			allowed := slices.Contains(tc.allowed, role)
			t.Run(tc.name+"/"+role, func(t *testing.T) {
				resp := s.do(tc.method, tc.path, roleToken(t, role, testExpMin), tc.body)
				if allowed {
					assert.NotEqual(t, http.StatusForbidden, resp.StatusCode)
					assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode)
					resp.Body.Close()
					return
				}
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
			})
		}
	}
}

func TestRutas_ExportarPermitidoDevuelveAdjunto(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/materials/report/export?from=2026-01-01&to=2026-01-31&format=xlsx-xml",
		roleToken(t, entity.RoleFinanzas, testExpMin), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
}

func TestRutas_LecturaAbiertaATodosLosRoles(t *testing.T) {
	s := newTestServer(t)
	for _, role := range entity.Roles() {
		resp := s.do(http.MethodGet, "/api/materials/report?from=2026-01-01&to=2026-01-31", roleToken(t, role, testExpMin), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, role)
		var report dto.PeriodReportResponse
		decodeBody(t, resp, &report)
		assert.Empty(t, report.Rows)
	}
}

func TestRutas_TokenSinRol_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/materials/no-existe/import", roleToken(t, "", testExpMin),
		dto.RecordImportRequest{Quantity: decimal.RequireFromString("1")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}

// La respuesta de error comparte forma con el resto de la API.
func TestRutas_ForbiddenEsJSON(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodDelete, "/api/materials/no-existe/usage/e1", roleToken(t, entity.RoleVentas, testExpMin), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
}
