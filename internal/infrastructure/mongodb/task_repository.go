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

type TaskRepository struct {
	collection *storage.CircuitBreakerCollection
}

func NewTaskRepository(client *storage.CircuitBreakerClient) *TaskRepository {
	repo := &TaskRepository{collection: client.Collection("tasks")}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *TaskRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "taskId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "completedAt", Value: 1}}},
		{Keys: bson.D{{Key: "completedBy", Value: 1}, {Key: "completedAt", Value: 1}}},
		{Keys: bson.D{{Key: "isDone", Value: 1}}},
	}
	for _, model := range indexes {
		r.collection.CreateIndex(ctx, model)
	}
}

func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"taskId": task.TaskID}

	if _, err := r.collection.ReplaceOne(ctx, filter, task, opts); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*domain.Task, error) {
	var task domain.Task
	err := r.collection.FindOne(ctx, bson.M{"taskId": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByTimeRange matches on creation or completion time so that a task
// completed inside the window is returned even when it was created
// before it.
func (r *TaskRepository) FindByTimeRange(ctx context.Context, from, to int64) ([]domain.Task, error) {
	filter := bson.M{"$or": []bson.M{
		{"createdAt": bson.M{"$gte": from, "$lte": to}},
		{"completedAt": bson.M{"$gte": from, "$lte": to}},
	}}
	return r.find(ctx, filter, options.Find().SetSort(storage.SortAscending("createdAt")))
}

func (r *TaskRepository) FindByWorker(ctx context.Context, userID string, from, to int64) ([]domain.Task, error) {
	filter := bson.M{
		"$and": []bson.M{
			{"$or": []bson.M{
				{"createdAt": bson.M{"$gte": from, "$lte": to}},
				{"completedAt": bson.M{"$gte": from, "$lte": to}},
			}},
			{"$or": []bson.M{
				{"completedBy": userID},
				{"inProgressBy": userID},
				{"searchedBy": userID},
				{"auditBy": userID},
			}},
		},
	}
	return r.find(ctx, filter, options.Find().SetSort(storage.SortAscending("createdAt")))
}

func (r *TaskRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	opts := options.Find().
		SetSort(storage.SortDescending("createdAt")).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"taskId": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Task, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}
