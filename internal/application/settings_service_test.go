package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
)

func TestSaveBreakRejectsInvertedWindow(t *testing.T) {
	svc := NewSettingsApplicationService(&stubBreakRepo{}, &stubUserRepo{}, testLogger())

	_, err := svc.SaveBreak(context.Background(), SaveBreakCommand{Name: "lunch", Start: 2000, End: 1000})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestDeleteBreakRejectsBadID(t *testing.T) {
	svc := NewSettingsApplicationService(&stubBreakRepo{}, &stubUserRepo{}, testLogger())

	err := svc.DeleteBreak(context.Background(), "not-a-hex-id")
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestDeleteBreakPassesHexID(t *testing.T) {
	var deleted string
	repo := &stubBreakRepo{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewSettingsApplicationService(repo, &stubUserRepo{}, testLogger())

	id := primitive.NewObjectID().Hex()
	require.NoError(t, svc.DeleteBreak(context.Background(), id))
	assert.Equal(t, id, deleted)
}

func TestListUsersMapsDirectory(t *testing.T) {
	users := &stubUserRepo{
		findAllFn: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{
				{UserID: "u1", DisplayName: "Alice"},
				{UserID: "u2", DisplayName: "Bob"},
			}, nil
		},
	}
	svc := NewSettingsApplicationService(&stubBreakRepo{}, users, testLogger())

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].DisplayName)
}
