package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetals = []ScrapMetal{
	{MetalID: "cu", Type: "copper"},
	{MetalID: "al", Type: "aluminium"},
}

func TestProcessScrapAnalyticsMonthAxis(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		end   int64
		want  []string
	}{
		{
			name:  "range within one month",
			start: msUTC(2024, time.March, 10, 0, 0, 0),
			end:   msUTC(2024, time.March, 20, 0, 0, 0),
			want:  []string{"2024-03"},
		},
		{
			name:  "start floored to month begin",
			start: msUTC(2024, time.January, 25, 0, 0, 0),
			end:   msUTC(2024, time.April, 2, 0, 0, 0),
			want:  []string{"2024-01", "2024-02", "2024-03", "2024-04"},
		},
		{
			name:  "year boundary",
			start: msUTC(2023, time.November, 15, 0, 0, 0),
			end:   msUTC(2024, time.February, 1, 0, 0, 0),
			want:  []string{"2023-11", "2023-12", "2024-01", "2024-02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ProcessScrapAnalytics(nil, nil, testMetals, tt.start, tt.end, time.UTC)
			months := make([]string, 0, len(stats.TrendData))
			for _, p := range stats.TrendData {
				months = append(months, p.Month)
			}
			assert.Equal(t, tt.want, months)
		})
	}
}

// Months without archives still appear on the axis and still carry the
// historical prices on file.
func TestProcessScrapAnalyticsEmptyMonthsKeepPrices(t *testing.T) {
	prices := []ScrapPrice{
		{MetalID: "cu", Month: 2, Year: 2024, Price: 6.5},
	}

	stats := ProcessScrapAnalytics(nil, prices, testMetals,
		msUTC(2024, time.January, 1, 0, 0, 0), msUTC(2024, time.March, 31, 0, 0, 0), time.UTC)

	require.Len(t, stats.TrendData, 3)
	feb := stats.TrendData[1]
	assert.Equal(t, "2024-02", feb.Month)
	assert.Zero(t, feb.Weight)
	assert.Equal(t, 6.5, feb.Prices["copper"])
	assert.NotContains(t, feb.Prices, "aluminium")
	assert.Nil(t, stats.TrendData[0].Prices, "no price rows for january")
}

// Internal value looks prices up by the item's own timestamp month; a
// month without a price row values the item at zero.
func TestProcessScrapAnalyticsPriceLookupByItemMonth(t *testing.T) {
	prices := []ScrapPrice{
		{MetalID: "cu", Month: 3, Year: 2024, Price: 6.5},
	}
	archives := []ScrapArchive{
		{
			ArchiveID:    "A1",
			DispatchDate: msUTC(2024, time.April, 20, 0, 0, 0),
			Items: []ScrapRecord{
				{MetalID: "cu", Netto: 100, Timestamp: msUTC(2024, time.April, 5, 0, 0, 0)},
			},
		},
	}

	stats := ProcessScrapAnalytics(archives, prices, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.April, 30, 0, 0, 0), time.UTC)

	assert.Equal(t, int64(100), stats.TotalWeight)
	assert.Zero(t, stats.TotalValue, "april has no price on file for cu")
}

// External value is attributed to the dispatch month even when the items
// were weighed in an earlier month.
func TestProcessScrapAnalyticsDualDateAttribution(t *testing.T) {
	prices := []ScrapPrice{
		{MetalID: "cu", Month: 3, Year: 2024, Price: 6.0},
	}
	archives := []ScrapArchive{
		{
			ArchiveID:     "A1",
			DispatchDate:  msUTC(2024, time.April, 2, 0, 0, 0),
			ExternalValue: 650,
			Items: []ScrapRecord{
				{MetalID: "cu", Netto: 100, Timestamp: msUTC(2024, time.March, 28, 0, 0, 0)},
			},
		},
	}

	stats := ProcessScrapAnalytics(archives, prices, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.April, 30, 0, 0, 0), time.UTC)

	require.Len(t, stats.TrendData, 2)
	march, april := stats.TrendData[0], stats.TrendData[1]

	// weight and internal value land in march (item timestamp)
	assert.Equal(t, int64(100), march.Weight)
	assert.Equal(t, int64(600), march.Value)
	assert.Zero(t, march.ExternalValue)

	// buyer payout lands in april (dispatch date)
	assert.Zero(t, april.Weight)
	assert.Zero(t, april.Value)
	assert.Equal(t, int64(650), april.ExternalValue)

	assert.Equal(t, int64(100), stats.TotalWeight)
	assert.Equal(t, int64(600), stats.TotalValue)
	assert.Equal(t, int64(650), stats.TotalExternalValue)
}

func TestProcessScrapAnalyticsDispatchRangeFilter(t *testing.T) {
	archives := []ScrapArchive{
		{ArchiveID: "in", DispatchDate: msUTC(2024, time.March, 15, 0, 0, 0), ExternalValue: 100,
			Items: []ScrapRecord{{MetalID: "cu", Netto: 10, Timestamp: msUTC(2024, time.March, 14, 0, 0, 0)}}},
		{ArchiveID: "out", DispatchDate: msUTC(2024, time.May, 1, 0, 0, 0), ExternalValue: 999,
			Items: []ScrapRecord{{MetalID: "cu", Netto: 500, Timestamp: msUTC(2024, time.April, 30, 0, 0, 0)}}},
	}

	stats := ProcessScrapAnalytics(archives, nil, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.April, 30, 0, 0, 0), time.UTC)

	assert.Equal(t, int64(10), stats.TotalWeight)
	assert.Equal(t, int64(100), stats.TotalExternalValue)
}

func TestProcessScrapAnalyticsUnknownMetalFallsBackToOther(t *testing.T) {
	archives := []ScrapArchive{
		{
			ArchiveID:    "A1",
			DispatchDate: msUTC(2024, time.March, 15, 0, 0, 0),
			Items: []ScrapRecord{
				{MetalID: "cu", Netto: 40, Timestamp: msUTC(2024, time.March, 10, 0, 0, 0)},
				{MetalID: "unobtainium", Netto: 7, Timestamp: msUTC(2024, time.March, 11, 0, 0, 0)},
			},
		},
	}

	stats := ProcessScrapAnalytics(archives, nil, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.March, 31, 0, 0, 0), time.UTC)

	require.Len(t, stats.WeightDistribution, 2)
	assert.Equal(t, MetalWeight{Type: "copper", Weight: 40}, stats.WeightDistribution[0])
	assert.Equal(t, MetalWeight{Type: OtherMetalLabel, Weight: 7}, stats.WeightDistribution[1])
	assert.Equal(t, int64(47), stats.TotalWeight)
	assert.Zero(t, stats.TotalValue, "unknown metal is priced at zero")
}

func TestProcessScrapAnalyticsRounding(t *testing.T) {
	prices := []ScrapPrice{
		{MetalID: "cu", Month: 3, Year: 2024, Price: 6.12345},
	}
	archives := []ScrapArchive{
		{
			ArchiveID:     "A1",
			DispatchDate:  msUTC(2024, time.March, 15, 0, 0, 0),
			ExternalValue: 100.6,
			Items: []ScrapRecord{
				{MetalID: "cu", Netto: 10.4, Timestamp: msUTC(2024, time.March, 10, 0, 0, 0)},
			},
		},
	}

	stats := ProcessScrapAnalytics(archives, prices, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.March, 31, 0, 0, 0), time.UTC)

	assert.Equal(t, int64(10), stats.TotalWeight)
	assert.Equal(t, int64(64), stats.TotalValue) // 10.4 * 6.12345 = 63.68
	assert.Equal(t, int64(101), stats.TotalExternalValue)
}

func TestProcessScrapAnalyticsIdempotent(t *testing.T) {
	archives := []ScrapArchive{
		{ArchiveID: "A1", DispatchDate: msUTC(2024, time.March, 15, 0, 0, 0), ExternalValue: 10,
			Items: []ScrapRecord{{MetalID: "al", Netto: 3, Timestamp: msUTC(2024, time.March, 14, 0, 0, 0)}}},
	}

	first := ProcessScrapAnalytics(archives, nil, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.March, 31, 0, 0, 0), time.UTC)
	second := ProcessScrapAnalytics(archives, nil, testMetals,
		msUTC(2024, time.March, 1, 0, 0, 0), msUTC(2024, time.March, 31, 0, 0, 0), time.UTC)

	assert.Equal(t, first, second)
}
