package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/internal/infrastructure/mongodb"
	storage "github.com/warehouse-ops/dashboard-service/pkg/mongodb"
	sharedtesting "github.com/warehouse-ops/dashboard-service/pkg/testing"
)

func setupTestDatabase(t *testing.T) (context.Context, func() *testRepos) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := sharedtesting.NewMongoDBContainer(ctx)
	require.NoError(t, err)

	cfg := storage.DefaultConfig()
	cfg.URI = mongoContainer.URI
	cfg.Database = fmt.Sprintf("dashboard_test_%d", time.Now().UnixNano())

	baseClient, err := storage.NewClient(ctx, cfg)
	require.NoError(t, err)

	// Same instrumented, breaker-protected stack the service runs on
	client := storage.NewCircuitBreakerClient(storage.NewInstrumentedClient(baseClient, nil, nil), nil)

	t.Cleanup(func() {
		_ = client.Close(ctx)
		_ = mongoContainer.Close(ctx)
	})

	return ctx, func() *testRepos {
		return &testRepos{
			tasks:    mongodb.NewTaskRepository(client),
			metals:   mongodb.NewScrapMetalRepository(client),
			prices:   mongodb.NewScrapPriceRepository(client),
			archives: mongodb.NewScrapArchiveRepository(client),
			breaks:   mongodb.NewBreakRepository(client),
		}
	}
}

type testRepos struct {
	tasks    *mongodb.TaskRepository
	metals   *mongodb.ScrapMetalRepository
	prices   *mongodb.ScrapPriceRepository
	archives *mongodb.ScrapArchiveRepository
	breaks   *mongodb.BreakRepository
}

func TestTaskRepositoryRoundTrip(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	now := time.Now().UnixMilli()
	task := domain.NewTask("T-100", "PN-55", "WP-01", "4", domain.UnitPallet, domain.PriorityUrgent, true, false, "planner", now)
	require.NoError(t, r.tasks.Save(ctx, task))

	found, err := r.tasks.FindByID(ctx, "T-100")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "PN-55", found.PartNumber)
	assert.Equal(t, domain.PriorityUrgent, found.Priority)

	// Save is an upsert keyed on taskId
	require.NoError(t, found.StartProgress("worker-1", now+1000))
	require.NoError(t, r.tasks.Save(ctx, found))

	updated, err := r.tasks.FindByID(ctx, "T-100")
	require.NoError(t, err)
	assert.True(t, updated.IsInProgress)
	assert.Equal(t, "worker-1", updated.InProgressBy)

	missing, err := r.tasks.FindByID(ctx, "T-999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskRepositoryTimeRangeMatchesCompletion(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC).UnixMilli()

	// Created before the window, completed inside it
	old := domain.NewTask("T-1", "PN-1", "WP-1", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "planner", base-48*3600*1000)
	require.NoError(t, old.StartProgress("w1", base))
	require.NoError(t, old.Complete("w1", base+1000))
	require.NoError(t, r.tasks.Save(ctx, old))

	// Entirely outside the window
	outside := domain.NewTask("T-2", "PN-2", "WP-2", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "planner", base-96*3600*1000)
	require.NoError(t, r.tasks.Save(ctx, outside))

	tasks, err := r.tasks.FindByTimeRange(ctx, base-3600*1000, base+3600*1000)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T-1", tasks[0].TaskID)
}

func TestTaskRepositoryFindByWorker(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	base := time.Now().UnixMilli()

	mine := domain.NewTask("T-10", "PN-1", "WP-1", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "planner", base)
	require.NoError(t, mine.StartProgress("worker-7", base+10))
	require.NoError(t, mine.Complete("worker-7", base+20))
	require.NoError(t, r.tasks.Save(ctx, mine))

	other := domain.NewTask("T-11", "PN-2", "WP-2", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "planner", base)
	require.NoError(t, other.StartProgress("worker-8", base+10))
	require.NoError(t, r.tasks.Save(ctx, other))

	tasks, err := r.tasks.FindByWorker(ctx, "worker-7", base-1000, base+1000)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T-10", tasks[0].TaskID)
}

func TestScrapPriceRepositoryUpsertIsIdempotent(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	price := &domain.ScrapPrice{MetalID: "CU", Month: 3, Year: 2026, Price: 6.5}
	require.NoError(t, r.prices.Upsert(ctx, price))

	price.Price = 7.1
	require.NoError(t, r.prices.Upsert(ctx, price))

	found, err := r.prices.FindByMetalAndMonth(ctx, "CU", 3, 2026)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.InDelta(t, 7.1, found.Price, 1e-9)

	all, err := r.prices.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestScrapArchiveRepositoryDispatchRange(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	mar := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC).UnixMilli()
	jun := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC).UnixMilli()

	require.NoError(t, r.archives.Save(ctx, &domain.ScrapArchive{
		ArchiveID:    "A-1",
		DispatchDate: mar,
		Items:        []domain.ScrapRecord{{MetalID: "CU", Netto: 10, Timestamp: mar}},
	}))
	require.NoError(t, r.archives.Save(ctx, &domain.ScrapArchive{
		ArchiveID:    "A-2",
		DispatchDate: jun,
		Items:        []domain.ScrapRecord{{MetalID: "AL", Netto: 4, Timestamp: jun}},
	}))

	found, err := r.archives.FindByDispatchRange(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC).UnixMilli())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A-1", found[0].ArchiveID)
}

func TestBreakRepositoryLifecycle(t *testing.T) {
	ctx, repos := setupTestDatabase(t)
	r := repos()

	b := &domain.SystemBreak{Name: "lunch", Start: 12 * 3600 * 1000, End: 12*3600*1000 + 30*60*1000}
	require.NoError(t, r.breaks.Save(ctx, b))
	require.False(t, b.ID.IsZero())

	all, err := r.breaks.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, r.breaks.Delete(ctx, b.ID.Hex()))

	all, err = r.breaks.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
