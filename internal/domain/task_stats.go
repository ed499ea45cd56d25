package domain

import (
	"sort"
	"time"
)

// NameResolver maps an opaque user identifier to a display name. It is
// supplied by the caller from a user-directory snapshot and must be
// idempotent for the duration of one aggregation pass.
type NameResolver func(userID string) string

// WorkerGroup is one worker's slice of the completed tasks in the
// current window. Tasks are carried for the per-worker drill-down.
type WorkerGroup struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Tasks  []Task `json:"-"`
}

// HourlyLoad is one bucket of the hourly load histogram. Only hours with
// at least one task appear.
type HourlyLoad struct {
	Hour       int     `json:"hour"`
	Production float64 `json:"production"`
	Logistics  float64 `json:"logistics"`
}

// HighRunner is a workplace or part number ranked by cumulative load
type HighRunner struct {
	Key  string  `json:"key"`
	Load float64 `json:"load"`
	Pal  float64 `json:"pal"`
	Req  int     `json:"req"`
}

// MissingPart counts how often a part number was reported missing
type MissingPart struct {
	PartNumber string `json:"partNumber"`
	Count      int    `json:"count"`
}

// TaskStats is the aggregate over one filtered task window
type TaskStats struct {
	Total               int           `json:"total"`
	Done                int           `json:"done"`
	Workers             []WorkerGroup `json:"workers"`
	TotalAuditedMissing int           `json:"totalAuditedMissing"`
	RealErrorsCount     int           `json:"realErrorsCount"`
	FalseAlarmsCount    int           `json:"falseAlarmsCount"`
	TopMissingParts     []MissingPart `json:"topMissingParts"`
	HourlyData          []HourlyLoad  `json:"hourlyData"`
	TopWorkplaces       []HighRunner  `json:"topWorkplaces"`
	TopParts            []HighRunner  `json:"topParts"`
}

// orderedTally preserves first-seen key order so descending sorts break
// ties deterministically.
type orderedTally struct {
	keys []string
	idx  map[string]int
}

func newOrderedTally() *orderedTally {
	return &orderedTally{idx: make(map[string]int)}
}

func (o *orderedTally) at(key string) int {
	i, ok := o.idx[key]
	if !ok {
		i = len(o.keys)
		o.keys = append(o.keys, key)
		o.idx[key] = i
	}
	return i
}

// BuildTaskStats folds a filtered task window into the dashboard
// aggregate in a single traversal plus finishing sorts. resolve may be
// nil, in which case raw user IDs double as display names. Hour
// bucketing happens in loc.
func BuildTaskStats(tasks []Task, resolve NameResolver, loc *time.Location) *TaskStats {
	stats := &TaskStats{Total: len(tasks)}

	workerOrder := newOrderedTally()
	var workers []WorkerGroup

	missingOrder := newOrderedTally()
	var missing []MissingPart

	hourIdx := make(map[int]int)
	var hourly []HourlyLoad

	workplaceOrder := newOrderedTally()
	var workplaces []HighRunner
	partOrder := newOrderedTally()
	var parts []HighRunner

	for _, t := range tasks {
		if t.IsDone {
			stats.Done++
			if t.CompletedBy != "" {
				i := workerOrder.at(t.CompletedBy)
				if i == len(workers) {
					workers = append(workers, WorkerGroup{UserID: t.CompletedBy})
				}
				workers[i].Count++
				workers[i].Tasks = append(workers[i].Tasks, t)
			}
		}

		if t.AuditResult != "" {
			stats.TotalAuditedMissing++
			switch t.AuditResult {
			case AuditNOK:
				stats.RealErrorsCount++
			case AuditOK:
				stats.FalseAlarmsCount++
			}
		}

		if t.IsMissing {
			i := missingOrder.at(t.PartNumber)
			if i == len(missing) {
				missing = append(missing, MissingPart{PartNumber: t.PartNumber})
			}
			missing[i].Count++
		}

		if ref := t.ReferenceTime(); ref != 0 {
			hour := time.UnixMilli(ref).In(loc).Hour()
			i, ok := hourIdx[hour]
			if !ok {
				i = len(hourly)
				hourly = append(hourly, HourlyLoad{Hour: hour})
				hourIdx[hour] = i
			}
			if t.IsLogistics {
				hourly[i].Logistics += t.LoadPoints()
			} else {
				hourly[i].Production += t.LoadPoints()
			}
		}

		if t.IsDone {
			points := t.LoadPoints()
			pal := t.PalletQuantity()

			i := workplaceOrder.at(t.Workplace)
			if i == len(workplaces) {
				workplaces = append(workplaces, HighRunner{Key: t.Workplace})
			}
			workplaces[i].Load += points
			workplaces[i].Pal += pal
			workplaces[i].Req++

			j := partOrder.at(t.PartNumber)
			if j == len(parts) {
				parts = append(parts, HighRunner{Key: t.PartNumber})
			}
			parts[j].Load += points
			parts[j].Pal += pal
			parts[j].Req++
		}
	}

	sort.SliceStable(workers, func(i, j int) bool { return workers[i].Count > workers[j].Count })
	for i := range workers {
		workers[i].Name = workers[i].UserID
		if resolve != nil {
			if name := resolve(workers[i].UserID); name != "" {
				workers[i].Name = name
			}
		}
	}
	stats.Workers = workers

	sort.SliceStable(missing, func(i, j int) bool { return missing[i].Count > missing[j].Count })
	stats.TopMissingParts = topMissing(missing, 3)

	sort.Slice(hourly, func(i, j int) bool { return hourly[i].Hour < hourly[j].Hour })
	stats.HourlyData = hourly

	sort.SliceStable(workplaces, func(i, j int) bool { return workplaces[i].Load > workplaces[j].Load })
	stats.TopWorkplaces = topRunners(workplaces, 3)
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].Load > parts[j].Load })
	stats.TopParts = topRunners(parts, 3)

	return stats
}

func topRunners(rs []HighRunner, n int) []HighRunner {
	if len(rs) > n {
		rs = rs[:n]
	}
	return rs
}

func topMissing(ms []MissingPart, n int) []MissingPart {
	if len(ms) > n {
		ms = ms[:n]
	}
	return ms
}
