// seed crea una empresa con su administrador y carga el catálogo de materias primas.
//
// Uso: go run ./cmd/seed -company "Fabrika" -email admin@fabrika.rs -password ... [-catalogue ruta.xml]
// Sin -catalogue usa el catálogo por defecto embebido. Los materiales que ya existen se omiten,
// así que puede ejecutarse varias veces.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/jhoicas/Magacin-api/internal/application/auth"
	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/usecase"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/persistence"
	"github.com/jhoicas/Magacin-api/pkg/config"
	"github.com/jhoicas/Magacin-api/pkg/logger"
)

func main() {
	company := flag.String("company", "Magacin", "nombre de la empresa")
	email := flag.String("email", "admin@magacin.local", "email del administrador")
	password := flag.String("password", "", "password del administrador (obligatorio si hay que crearlo)")
	cataloguePath := flag.String("catalogue", "", "catálogo XML; vacío = catálogo por defecto")
	flag.Parse()
	adminEmail := strings.ToLower(strings.TrimSpace(*email))

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.Storage.Driver == config.DriverMemory {
		log.Fatal().Msg("seed no tiene sentido con STORAGE_DRIVER=memory")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	var src io.Reader = bytes.NewReader(defaultCatalogue)
	if *cataloguePath != "" {
		f, err := os.Open(*cataloguePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		defer f.Close()
		src = f
	}
	materials, err := parseCatalogue(src)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo")
	}

	ctx := context.Background()
	repos, err := persistence.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer repos.Close(context.Background())

	admin, err := repos.Users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar administrador")
	}
	if admin == nil {
		if *password == "" {
			log.Fatal().Msg("-password es obligatorio para crear el administrador")
		}
		authUC := auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{Secret: cfg.JWT.Secret}, log.Component("usecase"))
		if _, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email: adminEmail, Password: *password, Name: "Administrador", Role: entity.RoleAdmin, Company: *company,
		}); err != nil {
			log.Fatal().Err(err).Msg("registrar administrador")
		}
		if admin, err = repos.Users.GetByEmail(ctx, adminEmail); err != nil || admin == nil {
			log.Fatal().Err(err).Msg("releer administrador")
		}
		log.Info().Str("company", *company).Str("email", adminEmail).Msg("empresa y administrador creados")
	}
	if admin.Role != entity.RoleAdmin {
		log.Fatal().Str("role", admin.Role).Msg("el usuario indicado no es administrador")
	}

	rc := dto.RequestContext{UserID: admin.ID, Email: admin.Email, Role: admin.Role, CompanyID: admin.CompanyID}
	materialUC := usecase.NewMaterialUseCase(repos.Materials, loc, cfg.App.Language(), log.Component("usecase"))
	created, skipped := 0, 0
	for _, in := range materials {
		if _, err := materialUC.Create(ctx, rc, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("material", in.Name).Msg("crear material")
		}
		created++
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}
