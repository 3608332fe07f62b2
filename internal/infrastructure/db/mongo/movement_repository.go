package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sipe/inventory-api/internal/core/domain"
)

const collectionMovements = "stock_movements"

// MovementRepository implements ports.MovementRepository using MongoDB.
type MovementRepository struct {
	col *mongo.Collection
}

func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{col: db.Collection(collectionMovements)}
}

type mongoMovement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EquipmentID string             `bson:"equipment_id"`
	Code        string             `bson:"code"`
	Kind        string             `bson:"kind"`
	Quantity    int                `bson:"quantity"`
	Before      int                `bson:"before"`
	After       int                `bson:"after"`
	ActorID     string             `bson:"actor_id,omitempty"`
	Reference   string             `bson:"reference,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
	RecordedAt  time.Time          `bson:"recorded_at"`
}

// Insert persists a movement to the stock_movements audit collection.
func (r *MovementRepository) Insert(ctx context.Context, m domain.StockMovement) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoMovement{
		EquipmentID: m.EquipmentID,
		Code:        m.Code,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		Before:      m.Before,
		After:       m.After,
		ActorID:     m.ActorID,
		Reference:   m.Reference,
		Timestamp:   m.Timestamp.UTC(),
		RecordedAt:  time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepository) ListByEquipment(ctx context.Context, equipmentID string, limit int) ([]domain.StockMovement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"equipment_id": equipmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMovement
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}
	out := make([]domain.StockMovement, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.StockMovement{
			EquipmentID: d.EquipmentID,
			Code:        d.Code,
			Kind:        domain.MovementKind(d.Kind),
			Quantity:    d.Quantity,
			Before:      d.Before,
			After:       d.After,
			ActorID:     d.ActorID,
			Reference:   d.Reference,
			Timestamp:   d.Timestamp.UTC(),
		})
	}
	return out, nil
}

func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "equipment_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}
