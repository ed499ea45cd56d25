package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
	"github.com/warehouse-ops/dashboard-service/pkg/logging"
	"github.com/warehouse-ops/dashboard-service/pkg/metrics"
)

// TaskApplicationService handles the task lifecycle use cases
type TaskApplicationService struct {
	repo    domain.TaskRepository
	metrics *metrics.Metrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewTaskApplicationService creates a new TaskApplicationService
func NewTaskApplicationService(repo domain.TaskRepository, m *metrics.Metrics, logger *logging.Logger) *TaskApplicationService {
	return &TaskApplicationService{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateTask records a new task event
func (s *TaskApplicationService) CreateTask(ctx context.Context, cmd CreateTaskCommand) (*TaskDTO, error) {
	taskID := cmd.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	task := domain.NewTask(taskID, cmd.PartNumber, cmd.Workplace, cmd.Quantity,
		cmd.QuantityUnit, cmd.Priority, cmd.IsProduction, cmd.IsLogistics,
		cmd.CreatedBy, s.now().UnixMilli())
	task.StandardTime = cmd.StandardTime

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save task", "taskId", task.TaskID)
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.metrics.RecordTaskCreated(string(task.Priority))
	s.logger.Info("Created task", "taskId", task.TaskID, "partNumber", task.PartNumber)
	return ToTaskDTO(task), nil
}

// GetTask retrieves a task by ID
func (s *TaskApplicationService) GetTask(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	task, err := s.loadTask(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	return ToTaskDTO(task), nil
}

// ListTasks retrieves tasks page by page
func (s *TaskApplicationService) ListTasks(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	tasks, err := s.repo.FindAll(ctx, limit, query.Offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return ToTaskDTOs(tasks), nil
}

// StartProgress marks a task as picked up by a worker
func (s *TaskApplicationService) StartProgress(ctx context.Context, cmd StartProgressCommand) (*TaskDTO, error) {
	return s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.StartProgress(cmd.UserID, s.now().UnixMilli())
	})
}

// StopProgress releases a task without completing it
func (s *TaskApplicationService) StopProgress(ctx context.Context, cmd StopProgressCommand) (*TaskDTO, error) {
	return s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.StopProgress(s.now().UnixMilli())
	})
}

// CompleteTask marks a task done
func (s *TaskApplicationService) CompleteTask(ctx context.Context, cmd CompleteTaskCommand) (*TaskDTO, error) {
	dto, err := s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.Complete(cmd.UserID, s.now().UnixMilli())
	})
	if err != nil {
		return nil, err
	}

	source := "production"
	if dto.IsLogistics {
		source = "logistics"
	}
	s.metrics.RecordTaskCompleted(source)
	return dto, nil
}

// ReportMissing flags a task's item as not found
func (s *TaskApplicationService) ReportMissing(ctx context.Context, cmd ReportMissingCommand) (*TaskDTO, error) {
	dto, err := s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.ReportMissing(cmd.UserID, cmd.Reason)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMissingReport()
	return dto, nil
}

// BlockTask manually blocks a task
func (s *TaskApplicationService) BlockTask(ctx context.Context, cmd BlockTaskCommand) (*TaskDTO, error) {
	return s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.Block(cmd.UserID, s.now().UnixMilli())
	})
}

// UnblockTask lifts a manual block
func (s *TaskApplicationService) UnblockTask(ctx context.Context, cmd UnblockTaskCommand) (*TaskDTO, error) {
	return s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.Unblock(s.now().UnixMilli())
	})
}

// StartAudit begins a missing-item audit
func (s *TaskApplicationService) StartAudit(ctx context.Context, cmd StartAuditCommand) (*TaskDTO, error) {
	return s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.StartAudit(cmd.UserID)
	})
}

// CompleteAudit records a missing-item audit outcome
func (s *TaskApplicationService) CompleteAudit(ctx context.Context, cmd CompleteAuditCommand) (*TaskDTO, error) {
	dto, err := s.mutate(ctx, cmd.TaskID, func(t *domain.Task) error {
		return t.CompleteAudit(cmd.Result)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuditCompleted(string(cmd.Result))
	return dto, nil
}

// mutate loads a task, applies a domain operation, and saves the result
func (s *TaskApplicationService) mutate(ctx context.Context, taskID string, op func(*domain.Task) error) (*TaskDTO, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := op(task); err != nil {
		return nil, errors.MapDomainError(err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save task", "taskId", taskID)
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info("Updated task", "taskId", taskID)
	return ToTaskDTO(task), nil
}

func (s *TaskApplicationService) loadTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get task", "taskId", taskID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, errors.ErrNotFoundWithID("task", taskID)
	}
	return task, nil
}
