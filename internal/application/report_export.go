package application

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportTaskReport renders the task analytics for the filter window as
// an xlsx workbook: a summary sheet, the per-worker breakdown, the
// hourly load histogram and the high-runner rankings.
func (s *AnalyticsService) ExportTaskReport(ctx context.Context, query TaskAnalyticsQuery) ([]byte, error) {
	stats, err := s.TaskAnalytics(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	setRow(f, summary, 1, "Generated", s.now().In(s.loc).Format(time.RFC3339))
	setRow(f, summary, 2, "Filter", string(query.Filter.Mode))
	setRow(f, summary, 3, "Total tasks", stats.Total)
	setRow(f, summary, 4, "Completed", stats.Done)
	setRow(f, summary, 5, "Audited missing", stats.TotalAuditedMissing)
	setRow(f, summary, 6, "Real errors", stats.RealErrorsCount)
	setRow(f, summary, 7, "False alarms", stats.FalseAlarmsCount)

	const workers = "Workers"
	if _, err := f.NewSheet(workers); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	setRow(f, workers, 1, "User", "Name", "Completed")
	for i, w := range stats.Workers {
		setRow(f, workers, i+2, w.UserID, w.Name, w.Count)
	}

	const hourly = "Hourly load"
	if _, err := f.NewSheet(hourly); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	setRow(f, hourly, 1, "Hour", "Production", "Logistics")
	for i, h := range stats.HourlyData {
		setRow(f, hourly, i+2, h.Hour, h.Production, h.Logistics)
	}

	const runners = "High runners"
	if _, err := f.NewSheet(runners); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	setRow(f, runners, 1, "Workplace", "Load", "Pallets", "Requests")
	row := 2
	for _, r := range stats.TopWorkplaces {
		setRow(f, runners, row, r.Key, r.Load, r.Pal, r.Req)
		row++
	}
	row++
	setRow(f, runners, row, "Part number", "Load", "Pallets", "Requests")
	row++
	for _, r := range stats.TopParts {
		setRow(f, runners, row, r.Key, r.Load, r.Pal, r.Req)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	s.metrics.RecordReportExported("tasks")
	s.logger.Info("Exported task report", "rows", len(stats.Workers))
	return buf.Bytes(), nil
}

// ExportScrapReport renders the scrap analytics for the range as an
// xlsx workbook: totals, the weight distribution, and the monthly trend.
func (s *AnalyticsService) ExportScrapReport(ctx context.Context, query ScrapAnalyticsQuery) ([]byte, error) {
	stats, err := s.ScrapAnalytics(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)
	setRow(f, summary, 1, "Generated", s.now().In(s.loc).Format(time.RFC3339))
	setRow(f, summary, 2, "Total weight (kg)", stats.TotalWeight)
	setRow(f, summary, 3, "Internal value (EUR)", stats.TotalValue)
	setRow(f, summary, 4, "External value (EUR)", stats.TotalExternalValue)

	const distribution = "Distribution"
	if _, err := f.NewSheet(distribution); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	setRow(f, distribution, 1, "Metal", "Weight (kg)")
	for i, w := range stats.WeightDistribution {
		setRow(f, distribution, i+2, w.Type, w.Weight)
	}

	const trend = "Trend"
	if _, err := f.NewSheet(trend); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	setRow(f, trend, 1, "Month", "Weight (kg)", "Internal value (EUR)", "External value (EUR)")
	for i, p := range stats.TrendData {
		setRow(f, trend, i+2, p.Month, p.Weight, p.Value, p.ExternalValue)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	s.metrics.RecordReportExported("scrap")
	s.logger.Info("Exported scrap report", "months", len(stats.TrendData))
	return buf.Bytes(), nil
}

// setRow writes values left to right starting at column A of the row
func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}
