package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sohan0019/PlantNet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SellerRequestRepository defines data access for become-seller requests.
type SellerRequestRepository interface {
	Create(ctx context.Context, email string) error
	FindAll(ctx context.Context) ([]models.SellerRequest, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// MongoSellerRequestRepository implements SellerRequestRepository.
type MongoSellerRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoSellerRequestRepository creates a new MongoSellerRequestRepository.
func NewMongoSellerRequestRepository(db *mongo.Database) *MongoSellerRequestRepository {
	return &MongoSellerRequestRepository{collection: db.Collection("seller_requests")}
}

// Create inserts a request; the unique index on email turns a repeat
// request into ErrAlreadyRequested.
func (r *MongoSellerRequestRepository) Create(ctx context.Context, email string) error {
	req := models.SellerRequest{Email: email, RequestedAt: time.Now().UTC()}
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRequested
		}
		return fmt.Errorf("insert seller request: %w", err)
	}
	return nil
}

func (r *MongoSellerRequestRepository) FindAll(ctx context.Context) ([]models.SellerRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find seller requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.SellerRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode seller requests: %w", err)
	}
	return requests, nil
}

func (r *MongoSellerRequestRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete seller request: %w", err)
	}
	return nil
}
