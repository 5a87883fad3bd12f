package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/claudiojara/cart-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores one document per (user, product) pairing. Every
// mutation is a single atomic update, so concurrent increments on the same
// item never read-modify-write each other's state away.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("cart_items"),
	}
}

func (m *MongoRepository) UpsertAdd(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "product_id": productID}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"user_id":    userID,
			"product_id": productID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item domain.CartItem
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return &item, nil
}

func (m *MongoRepository) SetQuantity(ctx context.Context, userID string, productID int64, quantity int) (*domain.CartItem, error) {
	filter := bson.M{"user_id": userID, "product_id": productID}

	if quantity <= 0 {
		result, err := m.collection.DeleteOne(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to delete cart item: %w", err)
		}
		if result.DeletedCount == 0 {
			return nil, ErrItemNotFound
		}
		return nil, nil
	}

	update := bson.M{
		"$set": bson.M{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.CartItem
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set cart item quantity: %w", err)
	}
	return &item, nil
}

func (m *MongoRepository) Remove(ctx context.Context, userID string, productID int64) error {
	filter := bson.M{"user_id": userID, "product_id": productID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *MongoRepository) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	var items []domain.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return items, nil
}

func (m *MongoRepository) Clear(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CreateIndexes sets up the uniqueness invariant and an expiry on
// abandoned carts.
func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "product_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
