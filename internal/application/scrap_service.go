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

// ScrapApplicationService handles scrap master data and export use cases
type ScrapApplicationService struct {
	metals   domain.ScrapMetalRepository
	prices   domain.ScrapPriceRepository
	bins     domain.ScrapBinRepository
	archives domain.ScrapArchiveRepository
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewScrapApplicationService creates a new ScrapApplicationService
func NewScrapApplicationService(
	metals domain.ScrapMetalRepository,
	prices domain.ScrapPriceRepository,
	bins domain.ScrapBinRepository,
	archives domain.ScrapArchiveRepository,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ScrapApplicationService {
	return &ScrapApplicationService{
		metals:   metals,
		prices:   prices,
		bins:     bins,
		archives: archives,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// SaveMetal creates or updates a metal definition
func (s *ScrapApplicationService) SaveMetal(ctx context.Context, cmd SaveMetalCommand) (*ScrapMetalDTO, error) {
	metal := &domain.ScrapMetal{
		MetalID:     cmd.MetalID,
		Type:        cmd.Type,
		Description: cmd.Description,
	}

	if err := s.metals.Save(ctx, metal); err != nil {
		s.logger.WithError(err).Error("Failed to save metal", "metalId", cmd.MetalID)
		return nil, fmt.Errorf("failed to save metal: %w", err)
	}

	s.logger.Info("Saved metal", "metalId", cmd.MetalID)
	return ToMetalDTO(metal), nil
}

// ListMetals retrieves all metal definitions
func (s *ScrapApplicationService) ListMetals(ctx context.Context) ([]ScrapMetalDTO, error) {
	metals, err := s.metals.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list metals")
		return nil, fmt.Errorf("failed to list metals: %w", err)
	}
	return ToMetalDTOs(metals), nil
}

// DeleteMetal removes a metal definition
func (s *ScrapApplicationService) DeleteMetal(ctx context.Context, metalID string) error {
	metal, err := s.metals.FindByID(ctx, metalID)
	if err != nil {
		return fmt.Errorf("failed to get metal: %w", err)
	}
	if metal == nil {
		return errors.ErrNotFoundWithID("metal", metalID)
	}

	if err := s.metals.Delete(ctx, metalID); err != nil {
		s.logger.WithError(err).Error("Failed to delete metal", "metalId", metalID)
		return fmt.Errorf("failed to delete metal: %w", err)
	}

	s.logger.Info("Deleted metal", "metalId", metalID)
	return nil
}

// UpsertPrice sets the monthly price of a metal. The metal must exist
// and at most one price row exists per metal and calendar month.
func (s *ScrapApplicationService) UpsertPrice(ctx context.Context, cmd UpsertPriceCommand) (*ScrapPriceDTO, error) {
	price := &domain.ScrapPrice{
		MetalID: cmd.MetalID,
		Month:   cmd.Month,
		Year:    cmd.Year,
		Price:   cmd.Price,
	}
	if err := price.Validate(); err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	metal, err := s.metals.FindByID(ctx, cmd.MetalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get metal: %w", err)
	}
	if metal == nil {
		return nil, errors.ErrNotFoundWithID("metal", cmd.MetalID)
	}

	if err := s.prices.Upsert(ctx, price); err != nil {
		s.logger.WithError(err).Error("Failed to upsert price",
			"metalId", cmd.MetalID, "month", cmd.Month, "year", cmd.Year)
		return nil, fmt.Errorf("failed to upsert price: %w", err)
	}

	s.logger.Info("Upserted price", "metalId", cmd.MetalID, "month", cmd.Month, "year", cmd.Year)
	return ToPriceDTO(price), nil
}

// ListPrices retrieves the full price list
func (s *ScrapApplicationService) ListPrices(ctx context.Context) ([]ScrapPriceDTO, error) {
	prices, err := s.prices.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list prices")
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return ToPriceDTOs(prices), nil
}

// SaveBin creates or updates a scrap container
func (s *ScrapApplicationService) SaveBin(ctx context.Context, cmd SaveBinCommand) (*ScrapBinDTO, error) {
	if cmd.Tara < 0 {
		return nil, errors.ErrValidation("tara must not be negative")
	}

	bin := &domain.ScrapBin{Name: cmd.Name, Tara: cmd.Tara}
	if err := s.bins.Save(ctx, bin); err != nil {
		s.logger.WithError(err).Error("Failed to save bin", "name", cmd.Name)
		return nil, fmt.Errorf("failed to save bin: %w", err)
	}

	s.logger.Info("Saved bin", "name", cmd.Name)
	return ToBinDTO(bin), nil
}

// ListBins retrieves all scrap containers
func (s *ScrapApplicationService) ListBins(ctx context.Context) ([]ScrapBinDTO, error) {
	bins, err := s.bins.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bins")
		return nil, fmt.Errorf("failed to list bins: %w", err)
	}
	return ToBinDTOs(bins), nil
}

// DeleteBin removes a scrap container
func (s *ScrapApplicationService) DeleteBin(ctx context.Context, name string) error {
	bin, err := s.bins.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get bin: %w", err)
	}
	if bin == nil {
		return errors.ErrNotFoundWithID("bin", name)
	}

	if err := s.bins.Delete(ctx, name); err != nil {
		s.logger.WithError(err).Error("Failed to delete bin", "name", name)
		return fmt.Errorf("failed to delete bin: %w", err)
	}

	s.logger.Info("Deleted bin", "name", name)
	return nil
}

// WeighScrap converts a gross weighing on a named bin to net kilograms
func (s *ScrapApplicationService) WeighScrap(ctx context.Context, cmd WeighScrapCommand) (*WeighingDTO, error) {
	bin, err := s.bins.FindByName(ctx, cmd.BinName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bin: %w", err)
	}
	if bin == nil {
		return nil, errors.ErrNotFoundWithID("bin", cmd.BinName)
	}

	return &WeighingDTO{
		BinName: bin.Name,
		Brutto:  cmd.Brutto,
		Tara:    bin.Tara,
		Netto:   bin.NetWeight(cmd.Brutto),
	}, nil
}

// CreateArchive records a scrap export event
func (s *ScrapApplicationService) CreateArchive(ctx context.Context, cmd CreateArchiveCommand) (*ScrapArchiveDTO, error) {
	if len(cmd.Items) == 0 {
		return nil, errors.ErrValidation("an export needs at least one item")
	}

	dispatch := cmd.DispatchDate
	if dispatch == 0 {
		dispatch = s.now().UnixMilli()
	}

	archive := &domain.ScrapArchive{
		ArchiveID:     uuid.NewString(),
		DispatchDate:  dispatch,
		ExternalValue: cmd.ExternalValue,
		Items:         make([]domain.ScrapRecord, 0, len(cmd.Items)),
	}
	for _, it := range cmd.Items {
		ts := it.Timestamp
		if ts == 0 {
			ts = dispatch
		}
		archive.Items = append(archive.Items, domain.ScrapRecord{
			MetalID:   it.MetalID,
			Netto:     it.Netto,
			Timestamp: ts,
		})
	}

	if err := s.archives.Save(ctx, archive); err != nil {
		s.logger.WithError(err).Error("Failed to save archive", "archiveId", archive.ArchiveID)
		return nil, fmt.Errorf("failed to save archive: %w", err)
	}

	s.metrics.RecordScrapDispatched(archive.TotalNetto())
	s.logger.Info("Created scrap archive",
		"archiveId", archive.ArchiveID, "items", len(archive.Items), "totalNetto", archive.TotalNetto())
	return ToArchiveDTO(archive), nil
}

// GetArchive retrieves one export event
func (s *ScrapApplicationService) GetArchive(ctx context.Context, archiveID string) (*ScrapArchiveDTO, error) {
	archive, err := s.archives.FindByID(ctx, archiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get archive: %w", err)
	}
	if archive == nil {
		return nil, errors.ErrNotFoundWithID("archive", archiveID)
	}
	return ToArchiveDTO(archive), nil
}

// ListArchives retrieves export events page by page
func (s *ScrapApplicationService) ListArchives(ctx context.Context, limit, offset int) ([]ScrapArchiveDTO, error) {
	if limit <= 0 {
		limit = 50
	}

	archives, err := s.archives.FindAll(ctx, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list archives")
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return ToArchiveDTOs(archives), nil
}
