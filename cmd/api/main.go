package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Magacin-api/internal/application/analytics"
	"github.com/jhoicas/Magacin-api/internal/application/auth"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
	"github.com/jhoicas/Magacin-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Magacin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/persistence"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/Magacin-api/internal/interfaces/http"
	"github.com/jhoicas/Magacin-api/pkg/config"
	"github.com/jhoicas/Magacin-api/pkg/logger"

	_ "github.com/jhoicas/Magacin-api/docs"
)

const (
	swaggerFile    = "./docs/swagger.json"
	reportCurrency = "EUR"
)

// @title                      Magacin API
// @version                    1.0
// @description                Almacén de materias primas multiempresa: stock, entradas, salidas, informes de periodo y pedidos.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()
	repos, err := persistence.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("cierre del almacenamiento")
		}
	}()

	// Idempotencia: Redis si está configurado, si no memoria local del proceso.
	var idemStorage fiber.Storage
	if cfg.Redis.Addr != "" {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		storage := redisstore.New(client, "magacin:idem:")
		defer storage.Close()
		idemStorage = storage
	}

	usecaseLog := log.Component("usecase")
	reportUC := inventory.NewReportUseCase(repos.Materials, repos.Companies, loc, usecaseLog,
		infrapdf.NewReportRenderer(reportCurrency),
		spreadsheet.NewReportRenderer(),
	)
	authUC := auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, usecaseLog)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		BodyLimitBytes: cfg.HTTP.BodyLimitBytes,
		SwaggerFile:    swaggerFile,
	}, log.Component("http"))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:               authUC,
		CompanyUC:            usecase.NewCompanyUseCase(repos.Companies),
		UserUC:               usecase.NewUserUseCase(repos.Users),
		MaterialUC:           usecase.NewMaterialUseCase(repos.Materials, loc, cfg.App.Language(), usecaseLog),
		OrderUC:              usecase.NewOrderUseCase(repos.Orders, repos.Materials, loc),
		LedgerUC:             inventory.NewLedgerUseCase(repos.Materials, loc, usecaseLog),
		ReportUC:             reportUC,
		DashboardUC:          appanalytics.NewDashboardUseCase(repos.Materials, reportUC, cfg.Inventory.LowCoverageDays, loc, usecaseLog),
		JWTSecret:            cfg.JWT.Secret,
		IdempotencyStorage:   idemStorage,
		IdempotencyTTL:       cfg.Redis.IdempotencyTTL(),
		LoginRateLimitPerMin: cfg.HTTP.LoginRateLimitPerMin,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
