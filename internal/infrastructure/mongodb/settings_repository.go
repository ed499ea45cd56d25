package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	storage "github.com/warehouse-ops/dashboard-service/pkg/mongodb"
)

type UserRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewUserRepository(client *storage.CircuitBreakerClient) *UserRepository {
	repo := &UserRepository{collection: client.Collection("users")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *UserRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r.collection.CreateIndex(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true),
	})
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(storage.SortAscending("displayName")))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

type BreakRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewBreakRepository(client *storage.CircuitBreakerClient) *BreakRepository {
	return &BreakRepository{collection: client.Collection("system_breaks")}
}

func (r *BreakRepository) Save(ctx context.Context, b *domain.SystemBreak) error {
	if b.ID.IsZero() {
		result, err := r.collection.InsertOne(ctx, b)
		if err != nil {
			return fmt.Errorf("failed to insert break: %w", err)
		}
		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			b.ID = oid
		}
		return nil
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": b.ID}, b, opts); err != nil {
		return fmt.Errorf("failed to save break: %w", err)
	}
	return nil
}

func (r *BreakRepository) FindAll(ctx context.Context) ([]domain.SystemBreak, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(storage.SortAscending("start")))
	if err != nil {
		return nil, fmt.Errorf("failed to query breaks: %w", err)
	}
	defer cursor.Close(ctx)

	var breaks []domain.SystemBreak
	if err := cursor.All(ctx, &breaks); err != nil {
		return nil, fmt.Errorf("failed to decode breaks: %w", err)
	}
	return breaks, nil
}

func (r *BreakRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid break id: %w", err)
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete break: %w", err)
	}
	return nil
}
