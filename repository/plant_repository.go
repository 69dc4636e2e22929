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
)

// PlantRepository defines data-access operations for plants.
type PlantRepository interface {
	Create(ctx context.Context, plant *models.Plant) (string, error)
	FindByID(ctx context.Context, id string) (*models.Plant, error)
	FindAll(ctx context.Context) ([]models.Plant, error)
	FindBySellerEmail(ctx context.Context, email string) ([]models.Plant, error)
	DecrementQuantity(ctx context.Context, id string, quantity int) error
}

// MongoPlantRepository implements PlantRepository over a Mongo collection.
type MongoPlantRepository struct {
	collection *mongo.Collection
}

// NewMongoPlantRepository creates a new MongoPlantRepository.
func NewMongoPlantRepository(db *mongo.Database) *MongoPlantRepository {
	return &MongoPlantRepository{collection: db.Collection("plants")}
}

func (r *MongoPlantRepository) Create(ctx context.Context, plant *models.Plant) (string, error) {
	now := time.Now().UTC()
	plant.CreatedAt = now
	plant.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, plant)
	if err != nil {
		return "", fmt.Errorf("insert plant: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoPlantRepository) FindByID(ctx context.Context, id string) (*models.Plant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var plant models.Plant
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&plant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find plant %s: %w", id, err)
	}
	return &plant, nil
}

func (r *MongoPlantRepository) FindAll(ctx context.Context) ([]models.Plant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find plants: %w", err)
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		return nil, fmt.Errorf("decode plants: %w", err)
	}
	return plants, nil
}

func (r *MongoPlantRepository) FindBySellerEmail(ctx context.Context, email string) ([]models.Plant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"seller.email": email})
	if err != nil {
		return nil, fmt.Errorf("find plants by seller: %w", err)
	}
	defer cursor.Close(ctx)

	var plants []models.Plant
	if err := cursor.All(ctx, &plants); err != nil {
		return nil, fmt.Errorf("decode plants: %w", err)
	}
	return plants, nil
}

// DecrementQuantity atomically subtracts quantity from a plant's stock.
// The quantity floor is enforced in the update filter, so a concurrent
// sale of the last units fails here rather than going negative.
func (r *MongoPlantRepository) DecrementQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("invalid decrement quantity %d", quantity)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	filter := bson.M{"_id": oid, "quantity": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"quantity": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("decrement plant %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		// Either the plant vanished or stock fell below the request.
		if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
