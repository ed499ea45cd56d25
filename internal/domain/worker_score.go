package domain

import (
	"math"
	"sort"
	"time"
)

// Worker score weighting. Quality and utilization are the most
// controllable levers for a picker role; reaction time is a minor
// tie-breaker. The constants are business policy and must match
// historical reports.
const (
	shiftCapacityMinutes = 450  // one 7.5h shift
	overheadFactor       = 1.15 // 15% allowance for walking, scanning, handover

	qualityWeight     = 3.5
	utilizationWeight = 3.0
	standardsWeight   = 2.5
	reactionWeight    = 1.0

	standardsNoDataScore = 2.0 // no norm data on file is not penalized
	performanceRatioCap  = 120

	reactionFastSec = 60
	reactionOkSec   = 180
)

// FrequencyEntry is a key counted by occurrence
type FrequencyEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// MissingReport is one missing-item report filed by the worker
type MissingReport struct {
	PartNumber string `json:"partNumber"`
	Reason     string `json:"reason"`
	ReportedAt int64  `json:"reportedAt"`
}

// WorkerScore is the composite performance profile of one worker over a
// task window: the 0-10 index, its weighted components, and the raw
// figures behind them.
type WorkerScore struct {
	TasksCompleted       int     `json:"tasksCompleted"`
	DaysWorked           int     `json:"daysWorked"`
	TotalExecMs          int64   `json:"totalExecMs"`
	PureWorkMinutes      float64 `json:"pureWorkMinutes"`
	EffectiveWorkMinutes float64 `json:"effectiveWorkMinutes"`
	UtilizationPercent   float64 `json:"utilizationPercent"`
	PerformanceRatio     float64 `json:"performanceRatio"`
	AvgReactionSec       float64 `json:"avgReactionSec"`
	HasReactionData      bool    `json:"hasReactionData"`
	MissingReported      int     `json:"missingReported"`
	RealErrors           int     `json:"realErrors"`
	ConfidenceRating     float64 `json:"confidenceRating"`

	FastestTaskMs     int64   `json:"fastestTaskMs"`
	LongestTaskMs     int64   `json:"longestTaskMs"`
	TotalLoad         float64 `json:"totalLoad"`
	AvgMsPerLoadPoint float64 `json:"avgMsPerLoadPoint"`

	TopWorkplaces      []FrequencyEntry `json:"topWorkplaces"`
	TopParts           []FrequencyEntry `json:"topParts"`
	LastMissingReports []MissingReport  `json:"lastMissingReports"`

	QualityComponent     float64 `json:"qualityComponent"`
	UtilizationComponent float64 `json:"utilizationComponent"`
	StandardsComponent   float64 `json:"standardsComponent"`
	ReactionComponent    float64 `json:"reactionComponent"`
	WorkerIndex          float64 `json:"workerIndex"`
}

// ComputeWorkerScore derives the composite 0-10 performance index for
// one worker from that worker's tasks and the global break list. Net
// execution time is the raw started-to-completed duration minus every
// overlap with the task's own inventory history and with system breaks;
// only tasks with positive net time feed the duration figures. Calendar
// days are counted in loc.
func ComputeWorkerScore(tasks []Task, breaks []SystemBreak, loc *time.Location) *WorkerScore {
	score := &WorkerScore{}

	days := make(map[string]struct{})
	var totalStandardTime float64
	var reactionSumMs, reactionCount int64

	wpOrder := newOrderedTally()
	var workplaces []FrequencyEntry
	partOrder := newOrderedTally()
	var parts []FrequencyEntry

	for _, t := range tasks {
		if t.IsDone {
			score.TasksCompleted++
		}
		if t.CompletedAt != 0 {
			days[localDayKey(t.CompletedAt, loc)] = struct{}{}
		}

		if t.StartedAt != 0 && t.CompletedAt != 0 {
			net := t.CompletedAt - t.StartedAt
			for _, iv := range t.InventoryHistory {
				net -= overlapMillis(t.StartedAt, t.CompletedAt, iv.Start, iv.End)
			}
			for _, b := range breaks {
				net -= overlapMillis(t.StartedAt, t.CompletedAt, b.Start, b.End)
			}
			if net > 0 {
				score.TotalExecMs += net
				score.TotalLoad += t.LoadPoints()
				if score.FastestTaskMs == 0 || net < score.FastestTaskMs {
					score.FastestTaskMs = net
				}
				if net > score.LongestTaskMs {
					score.LongestTaskMs = net
				}
				if t.StandardTime > 0 {
					totalStandardTime += t.StandardTime
				}
			}
		}

		if t.CreatedAt != 0 && t.StartedAt != 0 {
			if reaction := t.StartedAt - t.CreatedAt; reaction > 0 {
				reactionSumMs += reaction
				reactionCount++
			}
		}

		if t.IsMissing {
			score.MissingReported++
			if t.AuditResult == AuditNOK {
				score.RealErrors++
			}
			score.LastMissingReports = append(score.LastMissingReports, MissingReport{
				PartNumber: t.PartNumber,
				Reason:     t.MissingReason,
				ReportedAt: t.ReferenceTime(),
			})
			if len(score.LastMissingReports) > 5 {
				score.LastMissingReports = score.LastMissingReports[1:]
			}
		}

		if t.Workplace != "" {
			i := wpOrder.at(t.Workplace)
			if i == len(workplaces) {
				workplaces = append(workplaces, FrequencyEntry{Key: t.Workplace})
			}
			workplaces[i].Count++
		}
		if t.PartNumber != "" {
			i := partOrder.at(t.PartNumber)
			if i == len(parts) {
				parts = append(parts, FrequencyEntry{Key: t.PartNumber})
			}
			parts[i].Count++
		}
	}

	score.DaysWorked = len(days)
	if score.DaysWorked < 1 {
		score.DaysWorked = 1
	}

	capacity := float64(score.DaysWorked) * shiftCapacityMinutes
	score.PureWorkMinutes = float64(score.TotalExecMs) / 60000
	score.EffectiveWorkMinutes = score.PureWorkMinutes * overheadFactor
	if capacity > 0 {
		score.UtilizationPercent = score.EffectiveWorkMinutes / capacity * 100
	}

	if totalStandardTime > 0 && score.PureWorkMinutes > 0 {
		score.PerformanceRatio = totalStandardTime / score.PureWorkMinutes * 100
	}

	if reactionCount > 0 {
		score.HasReactionData = true
		score.AvgReactionSec = float64(reactionSumMs) / float64(reactionCount) / 1000
	}

	if score.MissingReported > 0 {
		score.ConfidenceRating = float64(score.MissingReported-score.RealErrors) / float64(score.MissingReported) * 100
	} else {
		score.ConfidenceRating = 100
	}

	if score.TotalLoad > 0 {
		score.AvgMsPerLoadPoint = float64(score.TotalExecMs) / score.TotalLoad
	}

	sort.SliceStable(workplaces, func(i, j int) bool { return workplaces[i].Count > workplaces[j].Count })
	if len(workplaces) > 3 {
		workplaces = workplaces[:3]
	}
	score.TopWorkplaces = workplaces
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].Count > parts[j].Count })
	if len(parts) > 3 {
		parts = parts[:3]
	}
	score.TopParts = parts

	score.QualityComponent = score.ConfidenceRating / 100 * qualityWeight
	score.UtilizationComponent = math.Min(score.UtilizationPercent, 100) / 100 * utilizationWeight
	if score.PerformanceRatio > 0 {
		score.StandardsComponent = math.Min(score.PerformanceRatio, performanceRatioCap) / performanceRatioCap * standardsWeight
	} else {
		score.StandardsComponent = standardsNoDataScore
	}
	switch {
	case !score.HasReactionData:
		score.ReactionComponent = 0.5
	case score.AvgReactionSec < reactionFastSec:
		score.ReactionComponent = reactionWeight
	case score.AvgReactionSec < reactionOkSec:
		score.ReactionComponent = 0.5
	default:
		score.ReactionComponent = 0
	}

	score.WorkerIndex = round1(score.QualityComponent + score.UtilizationComponent + score.StandardsComponent + score.ReactionComponent)
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
