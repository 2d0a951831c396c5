package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre MongoDB.
type CompanyRepo struct {
	col *mongo.Collection
}

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	if _, err := r.col.InsertOne(ctx, newCompanyDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *CompanyRepo) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"name_key": strings.ToLower(strings.TrimSpace(name))})
}

func (r *CompanyRepo) findOne(ctx context.Context, filter bson.M) (*entity.Company, error) {
	var d companyDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return d.entity(), nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, newCompanyDoc(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
