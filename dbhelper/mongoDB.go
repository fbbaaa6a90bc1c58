package dbhelper

import (
	"context"
	"errors"
	"fmt"

	"github.com/addwise/authapi/models"
	"github.com/addwise/authapi/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const USERS_COLLECTION = "users"

// MongoStore keeps users as documents, one per user, with the reset code
// embedded as a sub-document.
type MongoStore struct {
	users *mongo.Collection
}

// NewMongoStore ensures the unique email index exists before returning.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	users := db.Collection(USERS_COLLECTION)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating email index: %w", err)
	}
	return &MongoStore{users: users}, nil
}

func (s *MongoStore) Create(ctx context.Context, user *models.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ErrDuplicateIdentity
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) Save(ctx context.Context, user *models.User) error {
	result, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ErrDuplicateIdentity
		}
		return fmt.Errorf("error saving user: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return &user, nil
}
