package application

import (
	"context"
	"fmt"
	"time"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/metrics"
)

// AnalyticsService runs the dashboard aggregations. All day, shift and
// month boundaries are computed in the configured reporting location.
type AnalyticsService struct {
	tasks    domain.TaskRepository
	users    domain.UserRepository
	breaks   domain.BreakRepository
	archives domain.ScrapArchiveRepository
	prices   domain.ScrapPriceRepository
	metals   domain.ScrapMetalRepository
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	tasks domain.TaskRepository,
	users domain.UserRepository,
	breaks domain.BreakRepository,
	archives domain.ScrapArchiveRepository,
	prices domain.ScrapPriceRepository,
	metals domain.ScrapMetalRepository,
	loc *time.Location,
	m *metrics.Metrics,
	logger *logging.Logger,
) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{
		tasks:    tasks,
		users:    users,
		breaks:   breaks,
		archives: archives,
		prices:   prices,
		metals:   metals,
		loc:      loc,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// TaskAnalytics aggregates the tasks passing the filter into the
// dashboard view: counts, per-worker breakdown, quality tallies, hourly
// load and high runners.
func (s *AnalyticsService) TaskAnalytics(ctx context.Context, query TaskAnalyticsQuery) (*TaskAnalyticsDTO, error) {
	started := time.Now()
	now := s.now().In(s.loc)

	tasks, err := s.fetchTasks(ctx, query.Filter, now)
	if err != nil {
		return nil, err
	}

	resolve, err := s.nameResolver(ctx)
	if err != nil {
		return nil, err
	}

	filtered := domain.FilterTasks(tasks, query.Filter, now)
	stats := domain.BuildTaskStats(filtered, resolve, s.loc)

	s.metrics.RecordAnalyticsRun("tasks", time.Since(started))
	s.logger.AnalyticsRun(ctx, "tasks", len(filtered), time.Since(started))
	return ToTaskAnalyticsDTO(stats), nil
}

// WorkerDetail computes the composite performance profile of one worker
// over the filtered window.
func (s *AnalyticsService) WorkerDetail(ctx context.Context, query WorkerDetailQuery) (*WorkerDetailDTO, error) {
	started := time.Now()
	now := s.now().In(s.loc)

	from, to := fetchBounds(query.Filter, now)
	tasks, err := s.tasks.FindByWorker(ctx, query.UserID, from, to)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch worker tasks", "userId", query.UserID)
		return nil, fmt.Errorf("failed to fetch worker tasks: %w", err)
	}

	breaks, err := s.breaks.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch breaks")
		return nil, fmt.Errorf("failed to fetch breaks: %w", err)
	}

	name := query.UserID
	if user, err := s.users.FindByID(ctx, query.UserID); err == nil && user != nil {
		name = user.DisplayName
	}

	filtered := domain.FilterTasks(tasks, query.Filter, now)
	score := domain.ComputeWorkerScore(filtered, breaks, s.loc)

	s.metrics.RecordAnalyticsRun("worker", time.Since(started))
	s.logger.AnalyticsRun(ctx, "worker", len(filtered), time.Since(started))
	return &WorkerDetailDTO{UserID: query.UserID, Name: name, Score: score}, nil
}

// ScrapAnalytics aggregates export archives dispatched inside the range
// into totals, the weight distribution, and the monthly trend.
func (s *AnalyticsService) ScrapAnalytics(ctx context.Context, query ScrapAnalyticsQuery) (*domain.ScrapStats, error) {
	if query.Start == 0 || query.End == 0 {
		return nil, errors.ErrValidation("start and end are required")
	}
	if query.End < query.Start {
		return nil, errors.ErrValidation("end must not precede start")
	}

	started := time.Now()

	archives, err := s.archives.FindByDispatchRange(ctx, query.Start, query.End)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch archives")
		return nil, fmt.Errorf("failed to fetch archives: %w", err)
	}

	prices, err := s.prices.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch prices")
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	metals, err := s.metals.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch metals")
		return nil, fmt.Errorf("failed to fetch metals: %w", err)
	}

	stats := domain.ProcessScrapAnalytics(archives, prices, metals, query.Start, query.End, s.loc)

	s.metrics.RecordAnalyticsRun("scrap", time.Since(started))
	s.logger.AnalyticsRun(ctx, "scrap", len(archives), time.Since(started))
	return stats, nil
}

// fetchTasks loads a superset of the filter window; the exact predicate
// is applied in memory by FilterTasks.
func (s *AnalyticsService) fetchTasks(ctx context.Context, f domain.TaskFilter, now time.Time) ([]domain.Task, error) {
	if f.Mode == domain.FilterCustom && (f.CustomStart == 0 || f.CustomEnd == 0) {
		return nil, nil
	}

	from, to := fetchBounds(f, now)
	tasks, err := s.tasks.FindByTimeRange(ctx, from, to)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch tasks")
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// fetchBounds returns a coarse epoch-millisecond range guaranteed to
// cover the filter window, with a day of slack on either side for
// timezone offsets.
func fetchBounds(f domain.TaskFilter, now time.Time) (int64, int64) {
	const day = 24 * time.Hour

	upper := now.Add(day)
	var lower time.Time
	switch f.Mode {
	case domain.FilterYesterday:
		lower = now.Add(-2 * day)
	case domain.FilterWeek:
		lower = now.Add(-8 * day)
	case domain.FilterMonth:
		lower = now.Add(-32 * day)
	case domain.FilterCustom:
		lower = time.UnixMilli(f.CustomStart).Add(-day)
		upper = time.UnixMilli(f.CustomEnd).Add(2 * day)
	default:
		lower = now.Add(-2 * day)
	}
	return lower.UnixMilli(), upper.UnixMilli()
}

// nameResolver snapshots the user directory into a NameResolver
func (s *AnalyticsService) nameResolver(ctx context.Context) (domain.NameResolver, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch users")
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.UserID] = u.DisplayName
	}
	return func(userID string) string {
		if name, ok := byID[userID]; ok && name != "" {
			return name
		}
		return userID
	}, nil
}
