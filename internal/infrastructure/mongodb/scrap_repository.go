package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	storage "github.com/warehouse-ops/dashboard-service/pkg/mongodb"
)

type ScrapMetalRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewScrapMetalRepository(client *storage.CircuitBreakerClient) *ScrapMetalRepository {
	repo := &ScrapMetalRepository{collection: client.Collection("scrap_metals")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ScrapMetalRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r.collection.CreateIndex(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "metalId", Value: 1}}, Options: options.Index().SetUnique(true),
	})
}

func (r *ScrapMetalRepository) Save(ctx context.Context, metal *domain.ScrapMetal) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"metalId": metal.MetalID}
	if _, err := r.collection.ReplaceOne(ctx, filter, metal, opts); err != nil {
		return fmt.Errorf("failed to save metal: %w", err)
	}
	return nil
}

func (r *ScrapMetalRepository) FindByID(ctx context.Context, metalID string) (*domain.ScrapMetal, error) {
	var metal domain.ScrapMetal
	err := r.collection.FindOne(ctx, bson.M{"metalId": metalID}).Decode(&metal)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find metal: %w", err)
	}
	return &metal, nil
}

func (r *ScrapMetalRepository) FindAll(ctx context.Context) ([]domain.ScrapMetal, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(storage.SortAscending("metalId")))
	if err != nil {
		return nil, fmt.Errorf("failed to query metals: %w", err)
	}
	defer cursor.Close(ctx)

	var metals []domain.ScrapMetal
	if err := cursor.All(ctx, &metals); err != nil {
		return nil, fmt.Errorf("failed to decode metals: %w", err)
	}
	return metals, nil
}

func (r *ScrapMetalRepository) Delete(ctx context.Context, metalID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"metalId": metalID}); err != nil {
		return fmt.Errorf("failed to delete metal: %w", err)
	}
	return nil
}

type ScrapPriceRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewScrapPriceRepository(client *storage.CircuitBreakerClient) *ScrapPriceRepository {
	repo := &ScrapPriceRepository{collection: client.Collection("scrap_prices")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ScrapPriceRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r.collection.CreateIndex(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "metalId", Value: 1},
			{Key: "year", Value: 1},
			{Key: "month", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
}

// Upsert keeps at most one price row per metal and calendar month
func (r *ScrapPriceRepository) Upsert(ctx context.Context, price *domain.ScrapPrice) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{
		"metalId": price.MetalID,
		"year":    price.Year,
		"month":   price.Month,
	}
	update := bson.M{"$set": bson.M{
		"metalId": price.MetalID,
		"year":    price.Year,
		"month":   price.Month,
		"price":   price.Price,
	}}
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

func (r *ScrapPriceRepository) FindByMetalAndMonth(ctx context.Context, metalID string, month, year int) (*domain.ScrapPrice, error) {
	var price domain.ScrapPrice
	err := r.collection.FindOne(ctx, bson.M{"metalId": metalID, "month": month, "year": year}).Decode(&price)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find price: %w", err)
	}
	return &price, nil
}

func (r *ScrapPriceRepository) FindAll(ctx context.Context) ([]domain.ScrapPrice, error) {
	opts := options.Find().SetSort(storage.SortMultiple(
		storage.SortField{Field: "year"},
		storage.SortField{Field: "month"},
		storage.SortField{Field: "metalId"},
	))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer cursor.Close(ctx)

	var prices []domain.ScrapPrice
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}
	return prices, nil
}

type ScrapBinRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewScrapBinRepository(client *storage.CircuitBreakerClient) *ScrapBinRepository {
	repo := &ScrapBinRepository{collection: client.Collection("scrap_bins")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ScrapBinRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r.collection.CreateIndex(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true),
	})
}

func (r *ScrapBinRepository) Save(ctx context.Context, bin *domain.ScrapBin) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"name": bin.Name}, bin, opts); err != nil {
		return fmt.Errorf("failed to save bin: %w", err)
	}
	return nil
}

func (r *ScrapBinRepository) FindByName(ctx context.Context, name string) (*domain.ScrapBin, error) {
	var bin domain.ScrapBin
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&bin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bin: %w", err)
	}
	return &bin, nil
}

func (r *ScrapBinRepository) FindAll(ctx context.Context) ([]domain.ScrapBin, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(storage.SortAscending("name")))
	if err != nil {
		return nil, fmt.Errorf("failed to query bins: %w", err)
	}
	defer cursor.Close(ctx)

	var bins []domain.ScrapBin
	if err := cursor.All(ctx, &bins); err != nil {
		return nil, fmt.Errorf("failed to decode bins: %w", err)
	}
	return bins, nil
}

func (r *ScrapBinRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("failed to delete bin: %w", err)
	}
	return nil
}

type ScrapArchiveRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewScrapArchiveRepository(client *storage.CircuitBreakerClient) *ScrapArchiveRepository {
	repo := &ScrapArchiveRepository{collection: client.Collection("scrap_archives")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ScrapArchiveRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "archiveId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "dispatchDate", Value: 1}}},
	}
	for _, model := range indexes {
		r.collection.CreateIndex(ctx, model)
	}
}

func (r *ScrapArchiveRepository) Save(ctx context.Context, archive *domain.ScrapArchive) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"archiveId": archive.ArchiveID}
	if _, err := r.collection.ReplaceOne(ctx, filter, archive, opts); err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}
	return nil
}

func (r *ScrapArchiveRepository) FindByID(ctx context.Context, archiveID string) (*domain.ScrapArchive, error) {
	var archive domain.ScrapArchive
	err := r.collection.FindOne(ctx, bson.M{"archiveId": archiveID}).Decode(&archive)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find archive: %w", err)
	}
	return &archive, nil
}

func (r *ScrapArchiveRepository) FindByDispatchRange(ctx context.Context, from, to int64) ([]domain.ScrapArchive, error) {
	filter := bson.M{"dispatchDate": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(storage.SortAscending("dispatchDate"))
	return r.find(ctx, filter, opts)
}

func (r *ScrapArchiveRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.ScrapArchive, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("dispatchDate")).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *ScrapArchiveRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.ScrapArchive, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query archives: %w", err)
	}
	defer cursor.Close(ctx)

	var archives []domain.ScrapArchive
	if err := cursor.All(ctx, &archives); err != nil {
		return nil, fmt.Errorf("failed to decode archives: %w", err)
	}
	return archives, nil
}
