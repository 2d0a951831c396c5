package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/idempotency"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	appanalytics "github.com/jhoicas/Magacin-api/internal/application/analytics"
	"github.com/jhoicas/Magacin-api/internal/application/auth"
	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
	"github.com/jhoicas/Magacin-api/internal/application/usecase"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	MaterialUC  *usecase.MaterialUseCase
	OrderUC     *usecase.OrderUseCase
	LedgerUC    *inventory.LedgerUseCase
	ReportUC    *inventory.ReportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string

	// IdempotencyStorage guarda las respuestas por Idempotency-Key. nil = memoria del proceso.
	IdempotencyStorage fiber.Storage
	IdempotencyTTL     time.Duration
	// LoginRateLimitPerMin intentos de login por IP y minuto. 0 = sin límite.
	LoginRateLimitPerMin int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	const (
		admin     = entity.RoleAdmin
		bodeguero = entity.RoleBodeguero
		logistica = entity.RoleLogistica
		finanzas  = entity.RoleFinanzas
	)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginLimiter(deps.LoginRateLimitPerMin), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/companies/me", companyHandler.GetMine)
	protected.Put("/companies/me", RequireRole(admin), companyHandler.UpdateMine)

	// Users: los permisos finos (propio perfil vs admin) los decide el caso de uso.
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Materials: rutas estáticas antes que /:id.
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	materials.Get("/import-history", materialHandler.ImportHistory)
	materials.Get("/usage-history", materialHandler.UsageHistory)
	materials.Get("/report", reportHandler.Get)
	materials.Get("/report/export", RequireRole(admin, finanzas, logistica, bodeguero), reportHandler.Export)

	materials.Get("/", materialHandler.List)
	materials.Post("/", RequireRole(admin, bodeguero, logistica), materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", RequireRole(admin, bodeguero, logistica), materialHandler.Update)
	materials.Delete("/:id", RequireRole(admin, bodeguero), materialHandler.Delete)

	idem := idempotencyMiddleware(deps.IdempotencyStorage, deps.IdempotencyTTL)
	materials.Post("/:id/import", RequireRole(admin, bodeguero, logistica), scopeIdempotencyKey, idem, ledgerHandler.RecordImport)
	materials.Post("/:id/usage", RequireRole(admin, bodeguero, logistica), scopeIdempotencyKey, idem, ledgerHandler.RecordUsage)
	materials.Delete("/:id/import/:entryId", RequireRole(admin, bodeguero), ledgerHandler.RemoveImport)
	materials.Delete("/:id/usage/:entryId", RequireRole(admin, bodeguero), ledgerHandler.RemoveUsage)

	// Material orders
	orders := protected.Group("/material-orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", RequireRole(admin, logistica, finanzas), orderHandler.Create)
	orders.Put("/:id", RequireRole(admin, logistica, finanzas), orderHandler.Update)
	orders.Delete("/:id", RequireRole(admin, logistica, finanzas), orderHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}

// IdempotencyHeader cabecera con la clave de idempotencia de las entradas y salidas.
const IdempotencyHeader = "Idempotency-Key"

// maxIdempotencyKeyLen longitud máxima de la clave que envía el cliente.
const maxIdempotencyKeyLen = 128

// scopeIdempotencyKey reescribe la Idempotency-Key como empresa:usuario:MÉTODO:ruta:clave.
// La misma clave en otra empresa, otro usuario u otro material es otra petición.
// Va después de AuthMiddleware: necesita los Locals del token.
func scopeIdempotencyKey(c *fiber.Ctx) error {
	key := c.Get(IdempotencyHeader)
	if key == "" {
		return c.Next()
	}
	if len(key) > maxIdempotencyKeyLen {
		return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key inválida")
	}
	scoped := strings.Join([]string{GetCompanyID(c), GetUserID(c), c.Method(), c.Path(), key}, ":")
	c.Request().Header.Set(IdempotencyHeader, scoped)
	return c.Next()
}

// idempotencyMiddleware repite la respuesta guardada cuando llega de nuevo la misma Idempotency-Key.
// Sin cabecera la petición se procesa normalmente.
func idempotencyMiddleware(storage fiber.Storage, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return idempotency.New(idempotency.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Get(IdempotencyHeader) == ""
		},
		Lifetime:  ttl,
		KeyHeader: IdempotencyHeader,
		KeyHeaderValidate: func(k string) error {
			// ya viene con el prefijo de scopeIdempotencyKey
			if len(k) == 0 || len(k) > 4*maxIdempotencyKeyLen {
				return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key inválida")
			}
			return nil
		},
		Storage: storage,
	})
}

func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos de login, espera un minuto"})
		},
	})
}
