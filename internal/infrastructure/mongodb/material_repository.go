package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// sin historial embebido
var summaryProjection = bson.M{"import_history": 0, "usage_history": 0}

// MaterialRepo implementación de MaterialRepository sobre MongoDB.
// Cada mutación del libro es un único FindOneAndUpdate sobre el documento del material;
// las condiciones (stock suficiente, entrada existente) van en el filtro.
type MaterialRepo struct {
	col      *mongo.Collection
	orders   *mongo.Collection
	counters *mongo.Collection
}

func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material, opening *entity.ImportEntry) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}
	doc := newMaterialDoc(m, seq)
	if opening != nil {
		doc.Imports = append(doc.Imports, newImportDoc(opening))
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// nextSeq numera los materiales para listar en orden de creación.
func (r *MaterialRepo) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": colMaterials},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("secuencia de materiales: %w", err)
	}
	return counter.Seq, nil
}

func (r *MaterialRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Material, error) {
	d, err := r.find(ctx, companyID, id, options.FindOne().SetProjection(summaryProjection))
	if err != nil || d == nil {
		return nil, err
	}
	return d.entity(), nil
}

func (r *MaterialRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Material, error) {
	cur, err := r.col.Find(ctx, bson.M{"company_id": companyID},
		options.Find().SetProjection(summaryProjection).SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	var docs []materialDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	out := make([]*entity.Material, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

// Update solo toca los campos descriptivos.
// Update aplica campos descriptivos y corrección de stock en un único FindOneAndUpdate.
// Con corrección, el filtro exige el stock leído: si otra escritura lo cambió devuelve domain.ErrConflict.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material, stock *decimal.Decimal) (*entity.Material, error) {
	d, err := r.find(ctx, m.CompanyID, m.ID, options.FindOne().SetProjection(summaryProjection))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	set := bson.M{
		"name":              m.Name,
		"daily_consumption": m.DailyConsumption,
		"unit":              m.Unit,
		"supplier":          m.Supplier,
		"origin_country":    m.OriginCountry,
		"payment_terms":     m.PaymentTerms,
		"last_modified_by":  m.LastModifiedBy,
		"last_modified_at":  m.LastModifiedAt,
		"updated_at":        m.UpdatedAt,
	}
	filter := bson.M{"_id": m.ID, "company_id": m.CompanyID}
	update := bson.M{"$set": set}
	if stock != nil {
		imp, use := inventory.CorrectionEntry(m.ID, d.Stock, *stock, m.UpdatedAt, m.LastModifiedBy)
		switch {
		case imp != nil:
			update["$push"] = bson.M{"import_history": newImportDoc(imp)}
		case use != nil:
			update["$push"] = bson.M{"usage_history": newUsageDoc(use)}
		}
		if imp != nil || use != nil {
			set["stock"] = *stock
			filter["stock"] = d.Stock
		}
	}
	updated, err := r.apply(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	if updated == nil {
		return nil, r.explainMiss(ctx, m.CompanyID, m.ID, domain.ErrConflict)
	}
	return updated.entity(), nil
}

// Delete elimina el material (con su historial) y sus pedidos.
func (r *MaterialRepo) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.orders.DeleteMany(ctx, bson.M{"company_id": companyID, "material_id": id}); err != nil {
		return fmt.Errorf("delete material orders: %w", err)
	}
	return nil
}

// GetLedger lee el documento completo: stock e historial salen de la misma lectura.
func (r *MaterialRepo) GetLedger(ctx context.Context, companyID, materialID string) (*entity.MaterialLedger, error) {
	d, err := r.find(ctx, companyID, materialID)
	if err != nil || d == nil {
		return nil, err
	}
	return d.ledger(), nil
}

func (r *MaterialRepo) AppendImport(ctx context.Context, companyID, materialID string, e *entity.ImportEntry) (*entity.Material, error) {
	d, err := r.apply(ctx, bson.M{"_id": materialID, "company_id": companyID}, bson.M{
		"$inc":  bson.M{"stock": e.Quantity},
		"$push": bson.M{"import_history": newImportDoc(e)},
		"$set":  touched(e.CreatedBy, e.CreatedAt),
	})
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	return d.entity(), nil
}

func (r *MaterialRepo) AppendUsage(ctx context.Context, companyID, materialID string, e *entity.UsageEntry) (*entity.Material, error) {
	d, err := r.apply(ctx, bson.M{"_id": materialID, "company_id": companyID, "stock": bson.M{"$gte": e.Quantity}}, bson.M{
		"$inc":  bson.M{"stock": e.Quantity.Neg()},
		"$push": bson.M{"usage_history": newUsageDoc(e)},
		"$set":  touched(e.CreatedBy, e.CreatedAt),
	})
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, r.explainMiss(ctx, companyID, materialID, domain.ErrInsufficientStock)
	}
	return d.entity(), nil
}

func (r *MaterialRepo) RemoveImport(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.ImportEntry, error) {
	d, err := r.find(ctx, companyID, materialID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	var entry *importDoc
	for i := range d.Imports {
		if d.Imports[i].ID == entryID {
			entry = &d.Imports[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("entrada %s: %w", entryID, domain.ErrNotFound)
	}

	filter := bson.M{"_id": materialID, "company_id": companyID, "import_history.id": entryID}
	update := bson.M{
		"$pull": bson.M{"import_history": bson.M{"id": entryID}},
		"$set":  touched(modifiedBy, time.Now()),
	}
	if adjustStock {
		filter["stock"] = bson.M{"$gte": entry.Quantity}
		update["$inc"] = bson.M{"stock": entry.Quantity.Neg()}
	}
	updated, err := r.apply(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, r.explainEntryMiss(ctx, companyID, materialID, "import_history.id", entryID)
	}
	out := entry.entity(materialID)
	return &out, nil
}

func (r *MaterialRepo) RemoveUsage(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.UsageEntry, error) {
	d, err := r.find(ctx, companyID, materialID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	var entry *usageDoc
	for i := range d.Usages {
		if d.Usages[i].ID == entryID {
			entry = &d.Usages[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("salida %s: %w", entryID, domain.ErrNotFound)
	}

	update := bson.M{
		"$pull": bson.M{"usage_history": bson.M{"id": entryID}},
		"$set":  touched(modifiedBy, time.Now()),
	}
	if adjustStock {
		update["$inc"] = bson.M{"stock": entry.Quantity}
	}
	updated, err := r.apply(ctx, bson.M{"_id": materialID, "company_id": companyID, "usage_history.id": entryID}, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("salida %s: %w", entryID, domain.ErrNotFound)
	}
	out := entry.entity(materialID)
	return &out, nil
}

type importHistoryRow struct {
	MaterialID string    `bson:"_id"`
	Name       string    `bson:"name"`
	Unit       string    `bson:"unit"`
	Entry      importDoc `bson:"entry"`
}

type usageHistoryRow struct {
	MaterialID string   `bson:"_id"`
	Name       string   `bson:"name"`
	Unit       string   `bson:"unit"`
	Entry      usageDoc `bson:"entry"`
}

func (r *MaterialRepo) ListImportHistory(ctx context.Context, companyID string, f repository.HistoryFilter) ([]repository.ImportHistoryItem, error) {
	cur, err := r.col.Aggregate(ctx, historyPipeline("import_history", companyID, f))
	if err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	var rows []importHistoryRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode import history: %w", err)
	}
	out := make([]repository.ImportHistoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.ImportHistoryItem{
			MaterialID: row.MaterialID, MaterialName: row.Name, Unit: row.Unit, Entry: row.Entry.entity(row.MaterialID),
		})
	}
	return out, nil
}

func (r *MaterialRepo) ListUsageHistory(ctx context.Context, companyID string, f repository.HistoryFilter) ([]repository.UsageHistoryItem, error) {
	cur, err := r.col.Aggregate(ctx, historyPipeline("usage_history", companyID, f))
	if err != nil {
		return nil, fmt.Errorf("usage history: %w", err)
	}
	var rows []usageHistoryRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode usage history: %w", err)
	}
	out := make([]repository.UsageHistoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.UsageHistoryItem{
			MaterialID: row.MaterialID, MaterialName: row.Name, Unit: row.Unit, Entry: row.Entry.entity(row.MaterialID),
		})
	}
	return out, nil
}

// historyPipeline aplana el arreglo embebido (imports o usages) y ordena por fecha descendente;
// a igual fecha, orden de creación del material y luego orden de inserción.
func historyPipeline(field, companyID string, f repository.HistoryFilter) mongo.Pipeline {
	dateMatch := bson.M{}
	if f.From != nil {
		dateMatch["$gte"] = *f.From
	}
	if f.To != nil {
		dateMatch["$lte"] = *f.To
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"company_id": companyID}}},
		{{Key: "$unwind", Value: bson.M{"path": "$" + field, "includeArrayIndex": "pos"}}},
	}
	if len(dateMatch) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{field + ".date": dateMatch}}})
	}
	return append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: field + ".date", Value: -1}, {Key: "seq", Value: 1}, {Key: "pos", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.M{"name": 1, "unit": 1, "entry": "$" + field}}},
	)
}

func (r *MaterialRepo) find(ctx context.Context, companyID, id string, opts ...*options.FindOneOptions) (*materialDoc, error) {
	var d materialDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}, opts...).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &d, nil
}

// apply ejecuta la actualización atómica y devuelve el documento resultante sin historial; nil si el filtro no casó.
func (r *MaterialRepo) apply(ctx context.Context, filter, update bson.M) (*materialDoc, error) {
	var d materialDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(summaryProjection),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update material: %w", err)
	}
	return &d, nil
}

// explainMiss distingue material inexistente de condición no cumplida.
func (r *MaterialRepo) explainMiss(ctx context.Context, companyID, materialID string, condErr error) error {
	d, err := r.find(ctx, companyID, materialID, options.FindOne().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	return condErr
}

// explainEntryMiss: si la entrada ya no está fue borrada en paralelo; si sigue, faltó stock.
func (r *MaterialRepo) explainEntryMiss(ctx context.Context, companyID, materialID, path, entryID string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": materialID, "company_id": companyID, path: entryID})
	if err != nil {
		return fmt.Errorf("get material: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entrada %s: %w", entryID, domain.ErrNotFound)
	}
	return domain.ErrInsufficientStock
}

func touched(by string, at time.Time) bson.M {
	return bson.M{"last_modified_by": by, "last_modified_at": at, "updated_at": at}
}
