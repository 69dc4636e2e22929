package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sohan0019/PlantNet/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines data-access operations for users.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) (created bool, err error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAllExcept(ctx context.Context, email string) ([]models.User, error)
	UpdateRole(ctx context.Context, email, role string) error
	RoleOf(ctx context.Context, email string) (string, error)
}

// MongoUserRepository implements UserRepository over a Mongo collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Upsert creates the user on first login with the customer role, and
// only refreshes last_logged_in on subsequent logins. Existing role is
// never overwritten by a login.
func (r *MongoUserRepository) Upsert(ctx context.Context, user *models.User) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"email": user.Email}

	var existing models.User
	err := r.collection.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"last_logged_in": now}})
		if err != nil {
			return false, fmt.Errorf("refresh user login: %w", err)
		}
		return false, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		user.Role = models.RoleCustomer
		user.CreatedAt = now
		user.LastLoggedIn = now
		if _, err := r.collection.InsertOne(ctx, user); err != nil {
			return false, fmt.Errorf("insert user: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("find user: %w", err)
	}
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindAllExcept(ctx context.Context, email string) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": bson.M{"$ne": email}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) UpdateRole(ctx context.Context, email, role string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RoleOf returns the role string for an email, used by the
// role-checking middleware before protected operations.
func (r *MongoUserRepository) RoleOf(ctx context.Context, email string) (string, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
