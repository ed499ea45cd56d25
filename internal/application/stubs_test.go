package application

import (
	"context"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/metrics"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func testMetrics() *metrics.Metrics {
	return metrics.New(metrics.DefaultConfig("test"))
}

type stubTaskRepo struct {
	saveFn            func(ctx context.Context, task *domain.Task) error
	findByIDFn        func(ctx context.Context, taskID string) (*domain.Task, error)
	findByTimeRangeFn func(ctx context.Context, from, to int64) ([]domain.Task, error)
	findByWorkerFn    func(ctx context.Context, userID string, from, to int64) ([]domain.Task, error)
	findAllFn         func(ctx context.Context, limit, offset int) ([]domain.Task, error)
	deleteFn          func(ctx context.Context, taskID string) error
}

func (s *stubTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, task)
	}
	return nil
}

func (s *stubTaskRepo) FindByID(ctx context.Context, taskID string) (*domain.Task, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, taskID)
	}
	return nil, nil
}

func (s *stubTaskRepo) FindByTimeRange(ctx context.Context, from, to int64) ([]domain.Task, error) {
	if s.findByTimeRangeFn != nil {
		return s.findByTimeRangeFn(ctx, from, to)
	}
	return nil, nil
}

func (s *stubTaskRepo) FindByWorker(ctx context.Context, userID string, from, to int64) ([]domain.Task, error) {
	if s.findByWorkerFn != nil {
		return s.findByWorkerFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (s *stubTaskRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *stubTaskRepo) Delete(ctx context.Context, taskID string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, taskID)
	}
	return nil
}

type stubMetalRepo struct {
	saveFn     func(ctx context.Context, metal *domain.ScrapMetal) error
	findByIDFn func(ctx context.Context, metalID string) (*domain.ScrapMetal, error)
	findAllFn  func(ctx context.Context) ([]domain.ScrapMetal, error)
	deleteFn   func(ctx context.Context, metalID string) error
}

func (s *stubMetalRepo) Save(ctx context.Context, metal *domain.ScrapMetal) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, metal)
	}
	return nil
}

func (s *stubMetalRepo) FindByID(ctx context.Context, metalID string) (*domain.ScrapMetal, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, metalID)
	}
	return nil, nil
}

func (s *stubMetalRepo) FindAll(ctx context.Context) ([]domain.ScrapMetal, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx)
	}
	return nil, nil
}

func (s *stubMetalRepo) Delete(ctx context.Context, metalID string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, metalID)
	}
	return nil
}

type stubPriceRepo struct {
	upsertFn           func(ctx context.Context, price *domain.ScrapPrice) error
	findByMetalMonthFn func(ctx context.Context, metalID string, month, year int) (*domain.ScrapPrice, error)
	findAllFn          func(ctx context.Context) ([]domain.ScrapPrice, error)
}

func (s *stubPriceRepo) Upsert(ctx context.Context, price *domain.ScrapPrice) error {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, price)
	}
	return nil
}

func (s *stubPriceRepo) FindByMetalAndMonth(ctx context.Context, metalID string, month, year int) (*domain.ScrapPrice, error) {
	if s.findByMetalMonthFn != nil {
		return s.findByMetalMonthFn(ctx, metalID, month, year)
	}
	return nil, nil
}

func (s *stubPriceRepo) FindAll(ctx context.Context) ([]domain.ScrapPrice, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx)
	}
	return nil, nil
}

type stubBinRepo struct {
	saveFn       func(ctx context.Context, bin *domain.ScrapBin) error
	findByNameFn func(ctx context.Context, name string) (*domain.ScrapBin, error)
	findAllFn    func(ctx context.Context) ([]domain.ScrapBin, error)
	deleteFn     func(ctx context.Context, name string) error
}

func (s *stubBinRepo) Save(ctx context.Context, bin *domain.ScrapBin) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, bin)
	}
	return nil
}

func (s *stubBinRepo) FindByName(ctx context.Context, name string) (*domain.ScrapBin, error) {
	if s.findByNameFn != nil {
		return s.findByNameFn(ctx, name)
	}
	return nil, nil
}

func (s *stubBinRepo) FindAll(ctx context.Context) ([]domain.ScrapBin, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx)
	}
	return nil, nil
}

func (s *stubBinRepo) Delete(ctx context.Context, name string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, name)
	}
	return nil
}

type stubArchiveRepo struct {
	saveFn                func(ctx context.Context, archive *domain.ScrapArchive) error
	findByIDFn            func(ctx context.Context, archiveID string) (*domain.ScrapArchive, error)
	findByDispatchRangeFn func(ctx context.Context, from, to int64) ([]domain.ScrapArchive, error)
	findAllFn             func(ctx context.Context, limit, offset int) ([]domain.ScrapArchive, error)
}

func (s *stubArchiveRepo) Save(ctx context.Context, archive *domain.ScrapArchive) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, archive)
	}
	return nil
}

func (s *stubArchiveRepo) FindByID(ctx context.Context, archiveID string) (*domain.ScrapArchive, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, archiveID)
	}
	return nil, nil
}

func (s *stubArchiveRepo) FindByDispatchRange(ctx context.Context, from, to int64) ([]domain.ScrapArchive, error) {
	if s.findByDispatchRangeFn != nil {
		return s.findByDispatchRangeFn(ctx, from, to)
	}
	return nil, nil
}

func (s *stubArchiveRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.ScrapArchive, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

type stubUserRepo struct {
	findByIDFn func(ctx context.Context, userID string) (*domain.User, error)
	findAllFn  func(ctx context.Context) ([]domain.User, error)
}

func (s *stubUserRepo) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx)
	}
	return nil, nil
}

type stubBreakRepo struct {
	saveFn    func(ctx context.Context, b *domain.SystemBreak) error
	findAllFn func(ctx context.Context) ([]domain.SystemBreak, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (s *stubBreakRepo) Save(ctx context.Context, b *domain.SystemBreak) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, b)
	}
	return nil
}

func (s *stubBreakRepo) FindAll(ctx context.Context) ([]domain.SystemBreak, error) {
	if s.findAllFn != nil {
		return s.findAllFn(ctx)
	}
	return nil, nil
}

func (s *stubBreakRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}
