package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialOrderRepository = (*MaterialOrderRepo)(nil)

// MaterialOrderRepo implementación de MaterialOrderRepository sobre MongoDB.
type MaterialOrderRepo struct {
	col       *mongo.Collection
	materials *mongo.Collection
}

func (r *MaterialOrderRepo) Create(ctx context.Context, o *entity.MaterialOrder) error {
	if _, err := r.col.InsertOne(ctx, newOrderDoc(o)); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MaterialOrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.MaterialOrder, error) {
	var d orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return d.entity(), nil
}

// ListByCompany resuelve nombre y unidad del material en una segunda consulta.
func (r *MaterialOrderRepo) ListByCompany(ctx context.Context, companyID string) ([]repository.MaterialOrderView, error) {
	cur, err := r.col.Find(ctx, bson.M{"company_id": companyID},
		options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	mcur, err := r.materials.Find(ctx, bson.M{"company_id": companyID},
		options.Find().SetProjection(bson.M{"name": 1, "unit": 1}))
	if err != nil {
		return nil, fmt.Errorf("list order materials: %w", err)
	}
	var mats []struct {
		ID   string `bson:"_id"`
		Name string `bson:"name"`
		Unit string `bson:"unit"`
	}
	if err := mcur.All(ctx, &mats); err != nil {
		return nil, fmt.Errorf("decode order materials: %w", err)
	}
	names := make(map[string][2]string, len(mats))
	for _, m := range mats {
		names[m.ID] = [2]string{m.Name, m.Unit}
	}

	out := make([]repository.MaterialOrderView, 0, len(docs))
	for _, d := range docs {
		nu := names[d.MaterialID]
		out = append(out, repository.MaterialOrderView{Order: d.entity(), MaterialName: nu[0], Unit: nu[1]})
	}
	return out, nil
}

func (r *MaterialOrderRepo) Update(ctx context.Context, o *entity.MaterialOrder) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": o.ID, "company_id": o.CompanyID}, newOrderDoc(o))
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialOrderRepo) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
