package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
)

func fixedNow(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms).UTC() }
}

func TestCreateTask(t *testing.T) {
	var saved *domain.Task
	repo := &stubTaskRepo{
		saveFn: func(ctx context.Context, task *domain.Task) error {
			saved = task
			return nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())
	svc.now = fixedNow(1_700_000_000_000)

	dto, err := svc.CreateTask(context.Background(), CreateTaskCommand{
		PartNumber:   "A-100",
		Workplace:    "WP-01",
		Quantity:     "3,5",
		QuantityUnit: domain.UnitPallet,
		IsProduction: true,
		CreatedBy:    "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.NotEmpty(t, dto.TaskID)
	assert.Equal(t, int64(1_700_000_000_000), dto.CreatedAt)
	assert.Equal(t, domain.PriorityNormal, dto.Priority)
	assert.False(t, dto.IsDone)
}

func TestCreateTaskKeepsExplicitID(t *testing.T) {
	repo := &stubTaskRepo{}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())

	dto, err := svc.CreateTask(context.Background(), CreateTaskCommand{
		TaskID:     "t-42",
		PartNumber: "A-100",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-42", dto.TaskID)
}

func TestGetTaskNotFound(t *testing.T) {
	svc := NewTaskApplicationService(&stubTaskRepo{}, testMetrics(), testLogger())

	_, err := svc.GetTask(context.Background(), GetTaskQuery{TaskID: "missing"})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestCompleteTaskLifecycle(t *testing.T) {
	task := domain.NewTask("t1", "A-100", "WP-01", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "u1", 1000)
	var saved *domain.Task
	repo := &stubTaskRepo{
		findByIDFn: func(ctx context.Context, taskID string) (*domain.Task, error) {
			return task, nil
		},
		saveFn: func(ctx context.Context, t *domain.Task) error {
			saved = t
			return nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())
	svc.now = fixedNow(5000)

	dto, err := svc.CompleteTask(context.Background(), CompleteTaskCommand{TaskID: "t1", UserID: "u2"})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.True(t, dto.IsDone)
	assert.Equal(t, "u2", dto.CompletedBy)
	assert.Equal(t, int64(5000), dto.CompletedAt)
}

func TestCompleteTaskAlreadyDone(t *testing.T) {
	task := domain.NewTask("t1", "A-100", "WP-01", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "u1", 1000)
	require.NoError(t, task.Complete("u1", 2000))

	repo := &stubTaskRepo{
		findByIDFn: func(ctx context.Context, taskID string) (*domain.Task, error) {
			return task, nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())

	_, err := svc.CompleteTask(context.Background(), CompleteTaskCommand{TaskID: "t1", UserID: "u2"})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

func TestStartStopProgressRecordsInterval(t *testing.T) {
	task := domain.NewTask("t1", "A-100", "WP-01", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "u1", 1000)
	repo := &stubTaskRepo{
		findByIDFn: func(ctx context.Context, taskID string) (*domain.Task, error) {
			return task, nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())

	svc.now = fixedNow(2000)
	_, err := svc.StartProgress(context.Background(), StartProgressCommand{TaskID: "t1", UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), task.StartedAt)

	svc.now = fixedNow(3000)
	_, err = svc.StopProgress(context.Background(), StopProgressCommand{TaskID: "t1"})
	require.NoError(t, err)
	require.Len(t, task.InventoryHistory, 1)
	assert.Equal(t, int64(3000), task.InventoryHistory[0].Start)
	assert.Zero(t, task.InventoryHistory[0].End)
}

func TestAuditFlow(t *testing.T) {
	task := domain.NewTask("t1", "A-100", "WP-01", "1", domain.UnitPiece, domain.PriorityNormal, true, false, "u1", 1000)
	repo := &stubTaskRepo{
		findByIDFn: func(ctx context.Context, taskID string) (*domain.Task, error) {
			return task, nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())

	_, err := svc.ReportMissing(context.Background(), ReportMissingCommand{TaskID: "t1", UserID: "u2", Reason: "empty slot"})
	require.NoError(t, err)

	_, err = svc.StartAudit(context.Background(), StartAuditCommand{TaskID: "t1", UserID: "aud"})
	require.NoError(t, err)

	dto, err := svc.CompleteAudit(context.Background(), CompleteAuditCommand{TaskID: "t1", Result: domain.AuditNOK})
	require.NoError(t, err)
	assert.Equal(t, domain.AuditNOK, dto.AuditResult)
	assert.False(t, dto.IsAuditInProgress)
}

func TestListTasksDefaultsLimit(t *testing.T) {
	var gotLimit int
	repo := &stubTaskRepo{
		findAllFn: func(ctx context.Context, limit, offset int) ([]domain.Task, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewTaskApplicationService(repo, testMetrics(), testLogger())

	_, err := svc.ListTasks(context.Background(), ListTasksQuery{})
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
}
