// Package persistence elige el backend de almacenamiento según STORAGE_DRIVER.
package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Magacin-api/internal/domain/repository"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/memory"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/mongodb"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Magacin-api/pkg/config"
)

// Repositories adaptadores de persistencia de un mismo backend.
type Repositories struct {
	Companies repository.CompanyRepository
	Users     repository.UserRepository
	Materials repository.MaterialRepository
	Orders    repository.MaterialOrderRepository

	closeFn func(ctx context.Context) error
}

// Close libera la conexión del backend.
func (r *Repositories) Close(ctx context.Context) error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn(ctx)
}

// Open conecta con el backend configurado. Con postgres aplica antes las migraciones pendientes.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres, "":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &Repositories{
			Companies: postgres.NewCompanyRepository(pool),
			Users:     postgres.NewUserRepository(pool),
			Materials: postgres.NewMaterialRepository(pool),
			Orders:    postgres.NewMaterialOrderRepository(pool),
			closeFn: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	case config.DriverMongo:
		store, err := mongodb.NewStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Companies: store.Companies(),
			Users:     store.Users(),
			Materials: store.Materials(),
			Orders:    store.Orders(),
			closeFn:   store.Close,
		}, nil
	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Repositories{
			Companies: store.Companies(),
			Users:     store.Users(),
			Materials: store.Materials(),
			Orders:    store.Orders(),
		}, nil
	}
	return nil, fmt.Errorf("persistence: driver desconocido %q", cfg.Storage.Driver)
}
