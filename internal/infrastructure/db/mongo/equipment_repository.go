package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sipe/inventory-api/internal/core/domain"
	"github.com/sipe/inventory-api/internal/core/ports"
)

const collectionEquipment = "equipos"

// EquipmentRepository implements ports.EquipmentRepository using MongoDB.
type EquipmentRepository struct {
	col *mongo.Collection
}

func NewEquipmentRepository(db *mongo.Database) *EquipmentRepository {
	return &EquipmentRepository{col: db.Collection(collectionEquipment)}
}

type mongoEquipment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Code         string             `bson:"code"`
	Name         string             `bson:"name"`
	PurchaseDate time.Time          `bson:"purchase_date"`
	Stock        int                `bson:"stock"`
	Notes        string             `bson:"notes"`
	LastUpdated  time.Time          `bson:"last_updated"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (e mongoEquipment) toDomain() *domain.Equipment {
	return &domain.Equipment{
		ID:           e.ID.Hex(),
		Code:         e.Code,
		Name:         e.Name,
		PurchaseDate: e.PurchaseDate.UTC(),
		Stock:        e.Stock,
		Notes:        e.Notes,
		LastUpdated:  e.LastUpdated.UTC(),
		CreatedAt:    e.CreatedAt.UTC(),
		UpdatedAt:    e.UpdatedAt.UTC(),
	}
}

// Create inserts a new item. The unique code index rejects duplicates.
func (r *EquipmentRepository) Create(ctx context.Context, e *domain.Equipment) (*domain.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEquipment{
		ID:           primitive.NewObjectID(),
		Code:         e.Code,
		Name:         e.Name,
		PurchaseDate: e.PurchaseDate,
		Stock:        e.Stock,
		Notes:        e.Notes,
		LastUpdated:  e.LastUpdated,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCodeExists
		}
		return nil, fmt.Errorf("insert equipment: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an item. Malformed ids are reported as not found.
func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*domain.Equipment, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEquipment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching items sorted by last_updated descending. Search text
// is matched literally and case-insensitively over name, code and notes.
func (r *EquipmentRepository) List(ctx context.Context, f ports.ListEquipmentFilter) ([]*domain.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, listFilter(f), options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEquipment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode equipment: %w", err)
	}
	items := make([]*domain.Equipment, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

func listFilter(f ports.ListEquipmentFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"code": rx},
			bson.M{"notes": rx},
		}
	}
	if f.LowStock {
		filter["stock"] = bson.M{"$lt": domain.LowStockThreshold}
	}
	return filter
}

// Update applies changes and refreshes last_updated in one findOneAndUpdate.
// As with SetStock, the previous document comes back from the write itself.
func (r *EquipmentRepository) Update(ctx context.Context, id string, c ports.EquipmentChanges, at time.Time) (*domain.Equipment, *domain.Equipment, error) {
	set := bson.M{"last_updated": at, "updated_at": at}
	if c.Code != nil {
		set["code"] = *c.Code
	}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.PurchaseDate != nil {
		set["purchase_date"] = *c.PurchaseDate
	}
	if c.Stock != nil {
		set["stock"] = *c.Stock
	}
	if c.Notes != nil {
		set["notes"] = *c.Notes
	}

	before, err := r.findOneAndUpdate(ctx, id, bson.M{}, bson.M{"$set": set}, options.Before)
	if mongo.IsDuplicateKeyError(err) {
		return nil, nil, domain.ErrCodeExists
	}
	if err != nil {
		return nil, nil, err
	}
	after := *before
	c.ApplyTo(&after)
	after.LastUpdated = at.UTC()
	after.UpdatedAt = at.UTC()
	return before, &after, nil
}

// Delete removes an item and returns it.
func (r *EquipmentRepository) Delete(ctx context.Context, id string) (*domain.Equipment, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEquipment
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("delete equipment: %w", err)
	}
	return doc.toDomain(), nil
}

// Stats computes the catalog summary with a single $group stage.
func (r *EquipmentRepository) Stats(ctx context.Context) (domain.InventoryStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"low": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$lt": bson.A{"$stock", domain.LowStockThreshold}}, 1, 0},
			}},
			"stock": bson.M{"$sum": "$stock"},
			"zero": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$stock", 0}}, 1, 0},
			}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.InventoryStats{}, fmt.Errorf("equipment stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
		Low   int64 `bson:"low"`
		Stock int64 `bson:"stock"`
		Zero  int64 `bson:"zero"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return domain.InventoryStats{}, fmt.Errorf("decode stats: %w", err)
	}
	if len(rows) == 0 {
		return domain.InventoryStats{}, nil
	}
	return domain.InventoryStats{
		TotalItems:    rows[0].Total,
		LowStockItems: rows[0].Low,
		TotalStock:    rows[0].Stock,
		OutOfStock:    rows[0].Zero,
	}, nil
}

// SetStock overwrites the stock. The previous document comes back from the
// same write, so before and after describe one atomic change.
func (r *EquipmentRepository) SetStock(ctx context.Context, id string, stock int, at time.Time) (*domain.Equipment, *domain.Equipment, error) {
	before, err := r.findOneAndUpdate(ctx, id, bson.M{},
		bson.M{"$set": bson.M{"stock": stock, "last_updated": at, "updated_at": at}},
		options.Before,
	)
	if err != nil {
		return nil, nil, err
	}
	after := *before
	after.Stock = stock
	after.LastUpdated = at.UTC()
	after.UpdatedAt = at.UTC()
	return before, &after, nil
}

func (r *EquipmentRepository) IncrementStock(ctx context.Context, id string, delta int, at time.Time) (*domain.Equipment, error) {
	if delta <= 0 {
		return nil, domain.Invalid("quantity must be greater than zero")
	}
	return r.findOneAndUpdate(ctx, id, bson.M{},
		bson.M{
			"$inc": bson.M{"stock": delta},
			"$set": bson.M{"last_updated": at, "updated_at": at},
		},
		options.After,
	)
}

// DecrementStock only matches when stock >= quantity, so concurrent callers
// can never drive the stock negative.
func (r *EquipmentRepository) DecrementStock(ctx context.Context, id string, quantity int, at time.Time) (*domain.Equipment, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("quantity must be greater than zero")
	}
	updated, err := r.findOneAndUpdate(ctx, id,
		bson.M{"stock": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"stock": -quantity},
			"$set": bson.M{"last_updated": at, "updated_at": at},
		},
		options.After,
	)
	if !errors.Is(err, domain.ErrEquipmentNotFound) {
		return updated, err
	}

	// No match: either the item is gone or it holds too few units.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInsufficientStock
}

// findOneAndUpdate runs a single-document update on id merged with extra.
// ErrNoDocuments maps to domain.ErrEquipmentNotFound; duplicate key errors are
// returned unwrapped for the caller to translate.
func (r *EquipmentRepository) findOneAndUpdate(ctx context.Context, id string, extra bson.M, update bson.M, ret options.ReturnDocument) (*domain.Equipment, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}

	var doc mongoEquipment
	err := r.col.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(ret)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEquipmentNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique code index and the list ordering index.
func (r *EquipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_updated", Value: -1}}},
		{Keys: bson.D{{Key: "stock", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
