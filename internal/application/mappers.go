package application

import "github.com/warehouse-ops/dashboard-service/internal/domain"

// ToTaskDTO converts a domain task to its DTO
func ToTaskDTO(t *domain.Task) *TaskDTO {
	if t == nil {
		return nil
	}
	return &TaskDTO{
		TaskID:            t.TaskID,
		PartNumber:        t.PartNumber,
		Workplace:         t.Workplace,
		Quantity:          t.Quantity,
		QuantityUnit:      t.QuantityUnit,
		Priority:          t.Priority,
		CreatedAt:         t.CreatedAt,
		StartedAt:         t.StartedAt,
		CompletedAt:       t.CompletedAt,
		IsDone:            t.IsDone,
		IsProduction:      t.IsProduction,
		IsLogistics:       t.IsLogistics,
		IsMissing:         t.IsMissing,
		IsBlocked:         t.IsBlocked,
		IsInProgress:      t.IsInProgress,
		IsAuditInProgress: t.IsAuditInProgress,
		CreatedBy:         t.CreatedBy,
		CompletedBy:       t.CompletedBy,
		InProgressBy:      t.InProgressBy,
		AuditResult:       t.AuditResult,
		MissingReason:     t.MissingReason,
		StandardTime:      t.StandardTime,
	}
}

// ToTaskDTOs converts a slice of domain tasks to DTOs
func ToTaskDTOs(tasks []domain.Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, *ToTaskDTO(&tasks[i]))
	}
	return dtos
}

// ToMetalDTO converts a metal definition to its DTO
func ToMetalDTO(m *domain.ScrapMetal) *ScrapMetalDTO {
	if m == nil {
		return nil
	}
	return &ScrapMetalDTO{
		MetalID:     m.MetalID,
		Type:        m.Type,
		Description: m.Description,
	}
}

// ToMetalDTOs converts a slice of metal definitions to DTOs
func ToMetalDTOs(metals []domain.ScrapMetal) []ScrapMetalDTO {
	dtos := make([]ScrapMetalDTO, 0, len(metals))
	for i := range metals {
		dtos = append(dtos, *ToMetalDTO(&metals[i]))
	}
	return dtos
}

// ToPriceDTO converts a price row to its DTO
func ToPriceDTO(p *domain.ScrapPrice) *ScrapPriceDTO {
	if p == nil {
		return nil
	}
	return &ScrapPriceDTO{
		MetalID: p.MetalID,
		Month:   p.Month,
		Year:    p.Year,
		Price:   p.Price,
	}
}

// ToPriceDTOs converts a slice of price rows to DTOs
func ToPriceDTOs(prices []domain.ScrapPrice) []ScrapPriceDTO {
	dtos := make([]ScrapPriceDTO, 0, len(prices))
	for i := range prices {
		dtos = append(dtos, *ToPriceDTO(&prices[i]))
	}
	return dtos
}

// ToBinDTO converts a scrap container to its DTO
func ToBinDTO(b *domain.ScrapBin) *ScrapBinDTO {
	if b == nil {
		return nil
	}
	return &ScrapBinDTO{Name: b.Name, Tara: b.Tara}
}

// ToBinDTOs converts a slice of scrap containers to DTOs
func ToBinDTOs(bins []domain.ScrapBin) []ScrapBinDTO {
	dtos := make([]ScrapBinDTO, 0, len(bins))
	for i := range bins {
		dtos = append(dtos, *ToBinDTO(&bins[i]))
	}
	return dtos
}

// ToArchiveDTO converts an export archive to its DTO
func ToArchiveDTO(a *domain.ScrapArchive) *ScrapArchiveDTO {
	if a == nil {
		return nil
	}
	return &ScrapArchiveDTO{
		ArchiveID:     a.ArchiveID,
		DispatchDate:  a.DispatchDate,
		ExternalValue: a.ExternalValue,
		TotalNetto:    a.TotalNetto(),
		Items:         a.Items,
	}
}

// ToArchiveDTOs converts a slice of export archives to DTOs
func ToArchiveDTOs(archives []domain.ScrapArchive) []ScrapArchiveDTO {
	dtos := make([]ScrapArchiveDTO, 0, len(archives))
	for i := range archives {
		dtos = append(dtos, *ToArchiveDTO(&archives[i]))
	}
	return dtos
}

// ToBreakDTO converts a break window to its DTO
func ToBreakDTO(b *domain.SystemBreak) *SystemBreakDTO {
	if b == nil {
		return nil
	}
	dto := &SystemBreakDTO{Name: b.Name, Start: b.Start, End: b.End}
	if !b.ID.IsZero() {
		dto.ID = b.ID.Hex()
	}
	return dto
}

// ToBreakDTOs converts a slice of break windows to DTOs
func ToBreakDTOs(breaks []domain.SystemBreak) []SystemBreakDTO {
	dtos := make([]SystemBreakDTO, 0, len(breaks))
	for i := range breaks {
		dtos = append(dtos, *ToBreakDTO(&breaks[i]))
	}
	return dtos
}

// ToUserDTOs converts directory entries to DTOs
func ToUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, UserDTO{UserID: u.UserID, DisplayName: u.DisplayName})
	}
	return dtos
}

// ToTaskAnalyticsDTO converts the aggregation result to its DTO,
// stripping the per-worker task slices.
func ToTaskAnalyticsDTO(stats *domain.TaskStats) *TaskAnalyticsDTO {
	if stats == nil {
		return nil
	}
	workers := make([]WorkerSummaryDTO, 0, len(stats.Workers))
	for _, w := range stats.Workers {
		workers = append(workers, WorkerSummaryDTO{UserID: w.UserID, Name: w.Name, Count: w.Count})
	}
	return &TaskAnalyticsDTO{
		Total:               stats.Total,
		Done:                stats.Done,
		Workers:             workers,
		TotalAuditedMissing: stats.TotalAuditedMissing,
		RealErrorsCount:     stats.RealErrorsCount,
		FalseAlarmsCount:    stats.FalseAlarmsCount,
		TopMissingParts:     stats.TopMissingParts,
		HourlyData:          stats.HourlyData,
		TopWorkplaces:       stats.TopWorkplaces,
		TopParts:            stats.TopParts,
	}
}
