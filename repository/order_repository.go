package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sohan0019/PlantNet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines data-access operations for orders.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]models.Order, error)
	FindBySellerEmail(ctx context.Context, email string) ([]models.Order, error)
	MarkStockAdjusted(ctx context.Context, transactionID string) error
}

// MongoOrderRepository implements OrderRepository over a Mongo collection.
// It relies on the unique index on transaction_id created at startup.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

// Insert writes a new order. A duplicate-key violation on
// transaction_id is reported as ErrDuplicateTransaction so callers can
// recover the already-settled order instead of failing.
func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) (string, error) {
	order.CreatedAt = time.Now().UTC()
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateTransaction
		}
		return "", fmt.Errorf("insert order: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoOrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order by transaction: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByCustomerEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.findAll(ctx, bson.M{"customer_email": email})
}

func (r *MongoOrderRepository) FindBySellerEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.findAll(ctx, bson.M{"seller.email": email})
}

func (r *MongoOrderRepository) findAll(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// MarkStockAdjusted records that the inventory decrement for the order
// has been applied.
func (r *MongoOrderRepository) MarkStockAdjusted(ctx context.Context, transactionID string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"transaction_id": transactionID},
		bson.M{"$set": bson.M{"stock_adjusted": true}},
	)
	if err != nil {
		return fmt.Errorf("mark stock adjusted: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
