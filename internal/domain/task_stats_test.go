package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTaskStatsCounts(t *testing.T) {
	tasks := []Task{
		{TaskID: "1", IsDone: true, CompletedBy: "alice", CompletedAt: msUTC(2024, time.May, 10, 8, 0, 0)},
		{TaskID: "2", IsDone: true, CompletedBy: "bob", CompletedAt: msUTC(2024, time.May, 10, 9, 0, 0)},
		{TaskID: "3", CreatedAt: msUTC(2024, time.May, 10, 9, 30, 0)},
	}

	stats := BuildTaskStats(tasks, nil, time.UTC)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Done)
}

// One pallet task with a comma-decimal quantity yields a single worker
// entry and contributes its parsed quantity to the workplace pal sum.
func TestBuildTaskStatsPalletQuantity(t *testing.T) {
	tasks := []Task{
		{
			TaskID:       "1",
			PartNumber:   "PN-1",
			Workplace:    "WP-01",
			Quantity:     "3,5",
			QuantityUnit: UnitPallet,
			IsDone:       true,
			CompletedBy:  "alice",
			CompletedAt:  msUTC(2024, time.May, 10, 8, 0, 0),
		},
	}

	stats := BuildTaskStats(tasks, nil, time.UTC)

	require.Len(t, stats.Workers, 1)
	assert.Equal(t, "alice", stats.Workers[0].UserID)
	assert.Equal(t, 1, stats.Workers[0].Count)

	require.Len(t, stats.TopWorkplaces, 1)
	assert.Equal(t, "WP-01", stats.TopWorkplaces[0].Key)
	assert.Equal(t, 3.5, stats.TopWorkplaces[0].Load)
	assert.Equal(t, 3.5, stats.TopWorkplaces[0].Pal)
	assert.Equal(t, 1, stats.TopWorkplaces[0].Req)
}

func TestBuildTaskStatsWorkerOrdering(t *testing.T) {
	ts := msUTC(2024, time.May, 10, 8, 0, 0)
	tasks := []Task{
		{TaskID: "1", IsDone: true, CompletedBy: "alice", CompletedAt: ts},
		{TaskID: "2", IsDone: true, CompletedBy: "bob", CompletedAt: ts},
		{TaskID: "3", IsDone: true, CompletedBy: "carol", CompletedAt: ts},
		{TaskID: "4", IsDone: true, CompletedBy: "bob", CompletedAt: ts},
		{TaskID: "5", IsDone: true, CompletedBy: "carol", CompletedAt: ts},
	}

	resolve := func(userID string) string {
		return map[string]string{"alice": "Alice A", "bob": "Bob B", "carol": "Carol C"}[userID]
	}
	stats := BuildTaskStats(tasks, resolve, time.UTC)

	require.Len(t, stats.Workers, 3)
	// bob and carol tie on 2; bob was seen first and stays ahead
	assert.Equal(t, "bob", stats.Workers[0].UserID)
	assert.Equal(t, "Bob B", stats.Workers[0].Name)
	assert.Equal(t, "carol", stats.Workers[1].UserID)
	assert.Equal(t, "alice", stats.Workers[2].UserID)
	assert.Len(t, stats.Workers[0].Tasks, 2)
}

func TestBuildTaskStatsQualityTallies(t *testing.T) {
	ts := msUTC(2024, time.May, 10, 8, 0, 0)
	tasks := []Task{
		{TaskID: "1", PartNumber: "PN-A", IsMissing: true, AuditResult: AuditOK, CreatedAt: ts},
		{TaskID: "2", PartNumber: "PN-A", IsMissing: true, AuditResult: AuditNOK, CreatedAt: ts},
		{TaskID: "3", PartNumber: "PN-B", IsMissing: true, CreatedAt: ts},
		{TaskID: "4", PartNumber: "PN-C", CreatedAt: ts},
	}

	stats := BuildTaskStats(tasks, nil, time.UTC)

	assert.Equal(t, 2, stats.TotalAuditedMissing)
	assert.Equal(t, 1, stats.RealErrorsCount)
	assert.Equal(t, 1, stats.FalseAlarmsCount)

	require.Len(t, stats.TopMissingParts, 2)
	assert.Equal(t, MissingPart{PartNumber: "PN-A", Count: 2}, stats.TopMissingParts[0])
	assert.Equal(t, MissingPart{PartNumber: "PN-B", Count: 1}, stats.TopMissingParts[1])
}

func TestBuildTaskStatsHourlyLoad(t *testing.T) {
	tasks := []Task{
		{TaskID: "1", QuantityUnit: UnitPallet, Quantity: "2", IsProduction: true, CompletedAt: msUTC(2024, time.May, 10, 9, 15, 0)},
		{TaskID: "2", IsLogistics: true, CompletedAt: msUTC(2024, time.May, 10, 9, 45, 0)},
		{TaskID: "3", IsProduction: true, CompletedAt: msUTC(2024, time.May, 10, 7, 0, 0)},
	}

	stats := BuildTaskStats(tasks, nil, time.UTC)

	require.Len(t, stats.HourlyData, 2, "only hours with tasks appear")
	assert.Equal(t, HourlyLoad{Hour: 7, Production: 1}, stats.HourlyData[0])
	assert.Equal(t, HourlyLoad{Hour: 9, Production: 2, Logistics: 1}, stats.HourlyData[1])

	// conservation: histogram sums equal the summed load points
	var histSum, loadSum float64
	for _, h := range stats.HourlyData {
		histSum += h.Production + h.Logistics
	}
	for _, task := range tasks {
		loadSum += task.LoadPoints()
	}
	assert.Equal(t, loadSum, histSum)
}

func TestBuildTaskStatsTopRunnersBound(t *testing.T) {
	ts := msUTC(2024, time.May, 10, 8, 0, 0)
	var tasks []Task
	workplaces := []string{"WP-01", "WP-02", "WP-03", "WP-04", "WP-05"}
	for i, wp := range workplaces {
		for j := 0; j <= i; j++ {
			tasks = append(tasks, Task{
				TaskID:      wp,
				Workplace:   wp,
				PartNumber:  "PN-" + wp,
				IsDone:      true,
				CompletedBy: "alice",
				CompletedAt: ts,
			})
		}
	}

	stats := BuildTaskStats(tasks, nil, time.UTC)

	require.Len(t, stats.TopWorkplaces, 3)
	assert.Equal(t, "WP-05", stats.TopWorkplaces[0].Key)
	assert.Equal(t, "WP-04", stats.TopWorkplaces[1].Key)
	assert.Equal(t, "WP-03", stats.TopWorkplaces[2].Key)
	require.Len(t, stats.TopParts, 3)
	for i := 1; i < len(stats.TopWorkplaces); i++ {
		assert.GreaterOrEqual(t, stats.TopWorkplaces[i-1].Load, stats.TopWorkplaces[i].Load)
	}
}

// Running the builder twice over the same input yields identical output.
func TestBuildTaskStatsIdempotent(t *testing.T) {
	tasks := []Task{
		{TaskID: "1", Workplace: "WP-01", PartNumber: "PN-1", IsDone: true, CompletedBy: "alice", CompletedAt: msUTC(2024, time.May, 10, 8, 0, 0)},
		{TaskID: "2", Workplace: "WP-02", PartNumber: "PN-2", IsMissing: true, CreatedAt: msUTC(2024, time.May, 10, 9, 0, 0)},
	}

	first := BuildTaskStats(tasks, nil, time.UTC)
	second := BuildTaskStats(tasks, nil, time.UTC)
	assert.Equal(t, first, second)
}
