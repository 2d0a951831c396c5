package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Magacin-api/pkg/config"
)

const (
	colCompanies = "companies"
	colUsers     = "users"
	colMaterials = "materials"
	colOrders    = "material_orders"
	colCounters  = "counters"
)

// Store agrupa el cliente y la base de datos; de aquí salen los repositorios.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore conecta, verifica con ping y asegura los índices.
func NewStore(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI).SetRegistry(NewRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("conectar mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	s := &Store{client: client, db: client.Database(cfg.DBName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close cierra la conexión.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Companies repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{col: s.db.Collection(colCompanies)} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{col: s.db.Collection(colUsers)} }

// Materials repositorio de materiales con su historial embebido.
func (s *Store) Materials() *MaterialRepo {
	return &MaterialRepo{
		col:      s.db.Collection(colMaterials),
		orders:   s.db.Collection(colOrders),
		counters: s.db.Collection(colCounters),
	}
}

// Orders repositorio de pedidos.
func (s *Store) Orders() *MaterialOrderRepo {
	return &MaterialOrderRepo{col: s.db.Collection(colOrders), materials: s.db.Collection(colMaterials)}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colCompanies: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colUsers: {
			{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		colMaterials: {
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "seq", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "order_date", Value: -1}}},
		},
	}
	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("índices %s: %w", col, err)
		}
	}
	return nil
}
