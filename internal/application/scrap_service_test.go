package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
)

func newScrapService(metals *stubMetalRepo, prices *stubPriceRepo, bins *stubBinRepo, archives *stubArchiveRepo) *ScrapApplicationService {
	if metals == nil {
		metals = &stubMetalRepo{}
	}
	if prices == nil {
		prices = &stubPriceRepo{}
	}
	if bins == nil {
		bins = &stubBinRepo{}
	}
	if archives == nil {
		archives = &stubArchiveRepo{}
	}
	return NewScrapApplicationService(metals, prices, bins, archives, testMetrics(), testLogger())
}

func TestUpsertPriceUnknownMetal(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	_, err := svc.UpsertPrice(context.Background(), UpsertPriceCommand{
		MetalID: "unobtainium", Month: 3, Year: 2024, Price: 1.5,
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestUpsertPriceInvalidMonth(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	_, err := svc.UpsertPrice(context.Background(), UpsertPriceCommand{
		MetalID: "cu", Month: 13, Year: 2024, Price: 1.5,
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestUpsertPrice(t *testing.T) {
	metals := &stubMetalRepo{
		findByIDFn: func(ctx context.Context, metalID string) (*domain.ScrapMetal, error) {
			return &domain.ScrapMetal{MetalID: metalID, Type: "Copper"}, nil
		},
	}
	var upserted *domain.ScrapPrice
	prices := &stubPriceRepo{
		upsertFn: func(ctx context.Context, price *domain.ScrapPrice) error {
			upserted = price
			return nil
		},
	}
	svc := newScrapService(metals, prices, nil, nil)

	dto, err := svc.UpsertPrice(context.Background(), UpsertPriceCommand{
		MetalID: "cu", Month: 3, Year: 2024, Price: 6.12345,
	})
	require.NoError(t, err)
	require.NotNil(t, upserted)
	assert.Equal(t, 6.12345, dto.Price)
}

func TestWeighScrap(t *testing.T) {
	bins := &stubBinRepo{
		findByNameFn: func(ctx context.Context, name string) (*domain.ScrapBin, error) {
			return &domain.ScrapBin{Name: name, Tara: 12.5}, nil
		},
	}
	svc := newScrapService(nil, nil, bins, nil)

	dto, err := svc.WeighScrap(context.Background(), WeighScrapCommand{BinName: "blue-1", Brutto: 40})
	require.NoError(t, err)
	assert.Equal(t, 27.5, dto.Netto)

	// gross below tare clamps to zero
	dto, err = svc.WeighScrap(context.Background(), WeighScrapCommand{BinName: "blue-1", Brutto: 10})
	require.NoError(t, err)
	assert.Zero(t, dto.Netto)
}

func TestWeighScrapUnknownBin(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	_, err := svc.WeighScrap(context.Background(), WeighScrapCommand{BinName: "ghost", Brutto: 40})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestCreateArchive(t *testing.T) {
	var saved *domain.ScrapArchive
	archives := &stubArchiveRepo{
		saveFn: func(ctx context.Context, archive *domain.ScrapArchive) error {
			saved = archive
			return nil
		},
	}
	svc := newScrapService(nil, nil, nil, archives)
	svc.now = fixedNow(1_700_000_000_000)

	dto, err := svc.CreateArchive(context.Background(), CreateArchiveCommand{
		ExternalValue: 420,
		Items: []ScrapItemInput{
			{MetalID: "cu", Netto: 10},
			{MetalID: "al", Netto: 5, Timestamp: 1_600_000_000_000},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.NotEmpty(t, dto.ArchiveID)
	assert.Equal(t, int64(1_700_000_000_000), dto.DispatchDate)
	assert.Equal(t, 15.0, dto.TotalNetto)
	// item without a timestamp inherits the dispatch date
	assert.Equal(t, int64(1_700_000_000_000), saved.Items[0].Timestamp)
	assert.Equal(t, int64(1_600_000_000_000), saved.Items[1].Timestamp)
}

func TestCreateArchiveRequiresItems(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	_, err := svc.CreateArchive(context.Background(), CreateArchiveCommand{})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestSaveBinRejectsNegativeTara(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	_, err := svc.SaveBin(context.Background(), SaveBinCommand{Name: "blue-1", Tara: -1})
	require.Error(t, err)
}

func TestDeleteMetalNotFound(t *testing.T) {
	svc := newScrapService(nil, nil, nil, nil)

	err := svc.DeleteMetal(context.Background(), "ghost")
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}
