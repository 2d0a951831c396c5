package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	appanalytics "github.com/jhoicas/Magacin-api/internal/application/analytics"
	"github.com/jhoicas/Magacin-api/internal/application/auth"
	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
	"github.com/jhoicas/Magacin-api/internal/application/usecase"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/memory"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/Magacin-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const adminPassword = "lozinka-123"

type testServer struct {
	t   *testing.T
	app *fiber.App
}

// newTestServer levanta la API completa sobre el almacén en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	loc := time.UTC

	reportUC := inventory.NewReportUseCase(store.Materials(), store.Companies(), loc, log, spreadsheet.NewReportRenderer())
	app := apphttp.NewApp(apphttp.AppConfig{Name: "magacin-test", BodyLimitBytes: 1 << 20}, log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, log),
		CompanyUC:            usecase.NewCompanyUseCase(store.Companies()),
		UserUC:               usecase.NewUserUseCase(store.Users()),
		MaterialUC:           usecase.NewMaterialUseCase(store.Materials(), loc, language.Croatian, log),
		OrderUC:              usecase.NewOrderUseCase(store.Orders(), store.Materials(), loc),
		LedgerUC:             inventory.NewLedgerUseCase(store.Materials(), loc, log),
		ReportUC:             reportUC,
		DashboardUC:          appanalytics.NewDashboardUseCase(store.Materials(), reportUC, 7, loc, log),
		JWTSecret:            testJWTSecret,
		IdempotencyTTL:       time.Hour,
		LoginRateLimitPerMin: 100,
	})
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	return e.Code
}

// adminToken registra una empresa con su admin y devuelve el token de login.
func (s *testServer) adminToken(company, email string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: email, Password: adminPassword, Name: "Ana Admin", Role: "admin", Company: company,
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return s.login(email, adminPassword)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decodeBody(s.t, resp, &out)
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func (s *testServer) createMaterial(token, name, stock string) dto.MaterialResponse {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/materials", token, dto.CreateMaterialRequest{
		Name: name, DailyConsumption: decimal.RequireFromString("100"), Stock: decimal.RequireFromString(stock),
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	var m dto.MaterialResponse
	decodeBody(s.t, resp, &m)
	return m
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMaterials_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/materials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestLogin_PasswordIncorrecta_Retorna401(t *testing.T) {
	s := newTestServer(t)
	s.adminToken("Fabrika", "ana@fabrika.hr")

	resp := s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@fabrika.hr", Password: "mala-greska"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestRegister_CuerpoInvalido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "no-es-email", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestMe_DevuelveUsuarioDelToken(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")

	resp := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decodeBody(t, resp, &me)
	assert.Equal(t, "ana@fabrika.hr", me.Email)
	assert.Equal(t, "admin", me.Role)
}

func TestMaterials_RolVentasNoPuedeCrear(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken("Fabrika", "ana@fabrika.hr")

	resp := s.do(http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Email: "vid@fabrika.hr", Password: "prodaja-123", Name: "Vid", Role: "ventas",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	ventas := s.login("vid@fabrika.hr", "prodaja-123")

	resp = s.do(http.MethodPost, "/api/materials", ventas, dto.CreateMaterialRequest{Name: "PVC"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	// lectura sí permitida
	resp = s.do(http.MethodGet, "/api/materials", ventas, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMaterials_EmpresasAisladas(t *testing.T) {
	s := newTestServer(t)
	a := s.adminToken("Fabrika", "ana@fabrika.hr")
	b := s.adminToken("Tvornica", "ivo@tvornica.hr")
	m := s.createMaterial(a, "PVC S-65", "0")

	resp := s.do(http.MethodGet, "/api/materials/"+m.ID, b, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestLedger_SalidaSinStock_Retorna409(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m := s.createMaterial(token, "Kreda", "10")

	resp := s.do(http.MethodPost, "/api/materials/"+m.ID+"/usage", token, dto.RecordUsageRequest{Quantity: decimal.RequireFromString("11")})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))
}

func TestLedger_IdempotencyKeyNoDuplicaEntrada(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m := s.createMaterial(token, "PVC S-65", "0")
	body := dto.RecordImportRequest{Quantity: decimal.RequireFromString("1000"), UnitPrice: price("2"), Date: "2026-01-10"}

	for i := 0; i < 2; i++ {
		resp := s.do(http.MethodPost, "/api/materials/"+m.ID+"/import", token, body, apphttp.IdempotencyHeader, "uvoz-2026-01-10-001")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.do(http.MethodGet, "/api/materials/"+m.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.MaterialResponse
	decodeBody(t, resp, &got)
	assert.True(t, got.Stock.Equal(decimal.RequireFromString("1000")), "stock=%s", got.Stock)

	resp = s.do(http.MethodGet, "/api/materials/import-history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist []dto.ImportEntryResponse
	decodeBody(t, resp, &hist)
	assert.Len(t, hist, 1)
}

func (s *testServer) stockOf(token, materialID string) decimal.Decimal {
	s.t.Helper()
	resp := s.do(http.MethodGet, "/api/materials/"+materialID, token, nil)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var m dto.MaterialResponse
	decodeBody(s.t, resp, &m)
	return m.Stock
}

func TestLedger_IdempotencyKeyPorEmpresa(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.adminToken("Fabrika A", "ana@fabrika-a.hr")
	tokenB := s.adminToken("Fabrika B", "ivo@fabrika-b.hr")
	matA := s.createMaterial(tokenA, "PVC A", "0")
	matB := s.createMaterial(tokenB, "PVC B", "0")
	body := dto.RecordImportRequest{Quantity: decimal.RequireFromString("5"), Date: "2026-01-10"}

	resp := s.do(http.MethodPost, "/api/materials/"+matA.ID+"/import", tokenA, body, apphttp.IdempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/api/materials/"+matB.ID+"/import", tokenB, body, apphttp.IdempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var got dto.MovementResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, matB.ID, got.Material.ID)
	assert.Equal(t, "PVC B", got.Material.Name)

	assert.True(t, s.stockOf(tokenA, matA.ID).Equal(decimal.RequireFromString("5")))
	assert.True(t, s.stockOf(tokenB, matB.ID).Equal(decimal.RequireFromString("5")))
}

func TestLedger_IdempotencyKeyPorMaterial(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m1 := s.createMaterial(token, "PVC S-65", "0")
	m2 := s.createMaterial(token, "Kreda", "0")
	body := dto.RecordImportRequest{Quantity: decimal.RequireFromString("7"), Date: "2026-01-10"}

	for _, id := range []string{m1.ID, m2.ID} {
		resp := s.do(http.MethodPost, "/api/materials/"+id+"/import", token, body, apphttp.IdempotencyHeader, "uvoz-001")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	assert.True(t, s.stockOf(token, m1.ID).Equal(decimal.RequireFromString("7")))
	assert.True(t, s.stockOf(token, m2.ID).Equal(decimal.RequireFromString("7")))
}

func TestLedger_IdempotencyKeyDemasiadoLarga_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m := s.createMaterial(token, "PVC S-65", "0")
	body := dto.RecordImportRequest{Quantity: decimal.RequireFromString("1"), Date: "2026-01-10"}

	resp := s.do(http.MethodPost, "/api/materials/"+m.ID+"/import", token, body, apphttp.IdempotencyHeader, strings.Repeat("k", 129))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.True(t, s.stockOf(token, m.ID).IsZero())
}

func TestReport_ConciliaPeriodo(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m := s.createMaterial(token, "PVC S-65", "0")

	resp := s.do(http.MethodPost, "/api/materials/"+m.ID+"/import", token,
		dto.RecordImportRequest{Quantity: decimal.RequireFromString("1000"), UnitPrice: price("2"), Date: "2026-01-10"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = s.do(http.MethodPost, "/api/materials/"+m.ID+"/usage", token,
		dto.RecordUsageRequest{Quantity: decimal.RequireFromString("300"), Date: "2026-01-20"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/materials/report?from=2026-01-01&to=2026-01-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.PeriodReportResponse
	decodeBody(t, resp, &report)

	assert.Equal(t, "Fabrika", report.CompanyName)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.True(t, row.OpeningStock.Equal(decimal.Zero))
	assert.True(t, row.PeriodInflow.Equal(decimal.RequireFromString("1000")))
	assert.True(t, row.ClosingStock.Equal(decimal.RequireFromString("700")))
	assert.True(t, row.PeriodConsumption.Equal(decimal.RequireFromString("300")))
	require.NotNil(t, row.PeriodCostValue)
	assert.True(t, row.PeriodCostValue.Equal(decimal.RequireFromString("600")))
	assert.True(t, row.CostTwoLines.Equal(decimal.RequireFromString("600")))
	assert.True(t, row.CostOneLine.Equal(decimal.RequireFromString("300")))
}

func TestReport_PeriodoInvertido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")

	resp := s.do(http.MethodGet, "/api/materials/report?from=2026-02-01&to=2026-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestReportExport_SpreadsheetComoAdjunto(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	s.createMaterial(token, "PVC S-65", "0")

	resp := s.do(http.MethodGet, "/api/materials/report/export?from=2026-01-01&to=2026-01-31&format=xlsx-xml", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.ms-excel", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "informe_2026-01-01_2026-01-31.xml")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PVC S-65")
}

func TestReportExport_FormatoDesconocido_Retorna400(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")

	resp := s.do(http.MethodGet, "/api/materials/report/export?from=2026-01-01&to=2026-01-31&format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrders_CrearYListar(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken("Fabrika", "ana@fabrika.hr")
	m := s.createMaterial(token, "Kreda", "0")

	resp := s.do(http.MethodPost, "/api/material-orders", token, dto.CreateOrderRequest{
		MaterialID: m.ID, Quantity: decimal.RequireFromString("20"), Price: decimal.RequireFromString("1.5"), OrderDate: "2026-03-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.OrderResponse
	decodeBody(t, resp, &created)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("30")))

	resp = s.do(http.MethodGet, "/api/material-orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.OrderResponse
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Kreda", list[0].MaterialName)

	resp = s.do(http.MethodDelete, "/api/material-orders/"+created.ID, token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRutaInexistente_Retorna404JSON(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
