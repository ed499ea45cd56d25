package domain

import (
	"fmt"
	"math"
	"time"
)

// OtherMetalLabel buckets records whose metalId matches no known metal
const OtherMetalLabel = "other"

// MetalWeight is one slice of the weight distribution, in rounded kg
type MetalWeight struct {
	Type   string `json:"type"`
	Weight int64  `json:"weight"`
}

// ScrapTrendPoint is one calendar month on the trend axis. Weight and
// the internal value are attributed by item timestamp; external value by
// archive dispatch date. Prices carries the historical price per metal
// type, sparse when no price is on file.
type ScrapTrendPoint struct {
	Month         string             `json:"month"`
	Year          int                `json:"year"`
	MonthNum      int                `json:"monthNum"`
	Weight        int64              `json:"weight"`
	Value         int64              `json:"value"`
	ExternalValue int64              `json:"externalValue"`
	Prices        map[string]float64 `json:"prices,omitempty"`
}

// ScrapStats is the aggregate over one scrap reporting range
type ScrapStats struct {
	TotalWeight        int64             `json:"totalWeight"`
	TotalValue         int64             `json:"totalValue"`
	TotalExternalValue int64             `json:"totalExternalValue"`
	WeightDistribution []MetalWeight     `json:"weightDistribution"`
	TrendData          []ScrapTrendPoint `json:"trendData"`
}

type priceKey struct {
	metalID string
	month   int
	year    int
}

// ProcessScrapAnalytics folds export archives into totals, a per-metal
// weight distribution, and a month-bucketed trend series covering every
// calendar month from the floor of start to end, even months without
// data. External value is attributed by dispatch date; weight and the
// internally estimated value (netto times the price on file for the
// item's own timestamp month, 0 when absent) by item timestamp. Records
// with an unknown metalId fall back to the "other" label. Month
// boundaries are computed in loc.
func ProcessScrapAnalytics(archives []ScrapArchive, prices []ScrapPrice, metals []ScrapMetal, start, end int64, loc *time.Location) *ScrapStats {
	priceByKey := make(map[priceKey]float64, len(prices))
	for _, p := range prices {
		priceByKey[priceKey{p.MetalID, p.Month, p.Year}] = p.Price
	}
	typeByMetal := make(map[string]string, len(metals))
	for _, m := range metals {
		typeByMetal[m.MetalID] = m.Type
	}

	// Month axis: floor(start) through the month containing end,
	// always at least one entry.
	var trend []ScrapTrendPoint
	trendIdx := make(map[string]int)
	startT := time.UnixMilli(start).In(loc)
	cur := time.Date(startT.Year(), startT.Month(), 1, 0, 0, 0, 0, loc)
	for first := true; first || cur.UnixMilli() <= end; first = false {
		point := ScrapTrendPoint{
			Month:    fmt.Sprintf("%04d-%02d", cur.Year(), int(cur.Month())),
			Year:     cur.Year(),
			MonthNum: int(cur.Month()),
		}
		for _, m := range metals {
			if price, ok := priceByKey[priceKey{m.MetalID, point.MonthNum, point.Year}]; ok {
				if point.Prices == nil {
					point.Prices = make(map[string]float64)
				}
				point.Prices[m.Type] = price
			}
		}
		trendIdx[point.Month] = len(trend)
		trend = append(trend, point)
		cur = cur.AddDate(0, 1, 0)
	}

	var totalWeight, totalValue, totalExternal float64
	monthWeights := make([]float64, len(trend))
	monthValues := make([]float64, len(trend))
	monthExternal := make([]float64, len(trend))
	distOrder := newOrderedTally()
	var distWeights []float64

	monthKeyOf := func(ms int64) string {
		t := time.UnixMilli(ms).In(loc)
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}

	for _, a := range archives {
		if a.DispatchDate < start || a.DispatchDate > end {
			continue
		}

		totalExternal += a.ExternalValue
		if i, ok := trendIdx[monthKeyOf(a.DispatchDate)]; ok {
			monthExternal[i] += a.ExternalValue
		}

		for _, item := range a.Items {
			metalType, known := typeByMetal[item.MetalID]
			if !known {
				metalType = OtherMetalLabel
			}

			totalWeight += item.Netto
			di := distOrder.at(metalType)
			if di == len(distWeights) {
				distWeights = append(distWeights, 0)
			}
			distWeights[di] += item.Netto

			itemT := time.UnixMilli(item.Timestamp).In(loc)
			price := priceByKey[priceKey{item.MetalID, int(itemT.Month()), itemT.Year()}]
			value := item.Netto * price
			totalValue += value

			if i, ok := trendIdx[monthKeyOf(item.Timestamp)]; ok {
				monthWeights[i] += item.Netto
				monthValues[i] += value
			}
		}
	}

	for i := range trend {
		trend[i].Weight = int64(math.Round(monthWeights[i]))
		trend[i].Value = int64(math.Round(monthValues[i]))
		trend[i].ExternalValue = int64(math.Round(monthExternal[i]))
	}

	dist := make([]MetalWeight, len(distWeights))
	for i, w := range distWeights {
		dist[i] = MetalWeight{Type: distOrder.keys[i], Weight: int64(math.Round(w))}
	}

	return &ScrapStats{
		TotalWeight:        int64(math.Round(totalWeight)),
		TotalValue:         int64(math.Round(totalValue)),
		TotalExternalValue: int64(math.Round(totalExternal)),
		WeightDistribution: dist,
		TrendData:          trend,
	}
}
