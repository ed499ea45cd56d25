package domain

import "time"

// FilterMode selects the time window tasks are reported over
type FilterMode string

const (
	FilterToday     FilterMode = "TODAY"
	FilterYesterday FilterMode = "YESTERDAY"
	FilterWeek      FilterMode = "WEEK"
	FilterMonth     FilterMode = "MONTH"
	FilterCustom    FilterMode = "CUSTOM"
)

// SourceFilter narrows tasks by origin
type SourceFilter string

const (
	SourceAll        SourceFilter = "ALL"
	SourceProduction SourceFilter = "PROD"
	SourceLogistics  SourceFilter = "LOG"
)

// ShiftFilter narrows tasks by the shift their reference time falls into
type ShiftFilter string

const (
	ShiftAll   ShiftFilter = "ALL"
	ShiftDay   ShiftFilter = "DAY"
	ShiftNight ShiftFilter = "NIGHT"
)

// endOfDayOffsetMillis is one millisecond short of a full day, so custom
// ranges include the whole end date.
const endOfDayOffsetMillis = 86_399_999

// TaskFilter carries the active filter parameters for a task analytics
// query. CustomStart/CustomEnd are epoch milliseconds and only consulted
// in CUSTOM mode.
type TaskFilter struct {
	Mode        FilterMode
	Source      SourceFilter
	Shift       ShiftFilter
	CustomStart int64
	CustomEnd   int64
}

// FilterTasks returns the tasks passing every active predicate of f. The
// reference time of a task is completedAt, falling back to createdAt;
// tasks with neither are excluded. Day and hour boundaries are computed
// in now's location. In CUSTOM mode a missing bound yields an empty
// result.
func FilterTasks(tasks []Task, f TaskFilter, now time.Time) []Task {
	loc := now.Location()
	todayStart := startOfDay(now)

	var lower, upper int64
	switch f.Mode {
	case FilterYesterday:
		lower = todayStart.AddDate(0, 0, -1).UnixMilli()
		upper = todayStart.UnixMilli() - 1
	case FilterWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		lower = todayStart.AddDate(0, 0, -(weekday - 1)).UnixMilli()
		upper = maxInt64
	case FilterMonth:
		lower = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).UnixMilli()
		upper = maxInt64
	case FilterCustom:
		if f.CustomStart == 0 || f.CustomEnd == 0 {
			return []Task{}
		}
		lower = startOfDay(time.UnixMilli(f.CustomStart).In(loc)).UnixMilli()
		upper = startOfDay(time.UnixMilli(f.CustomEnd).In(loc)).UnixMilli() + endOfDayOffsetMillis
	default: // FilterToday
		lower = todayStart.UnixMilli()
		upper = maxInt64
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		ref := t.ReferenceTime()
		if ref == 0 || ref < lower || ref > upper {
			continue
		}
		switch f.Source {
		case SourceProduction:
			// Keeps everything except pure-logistics tasks. Tasks
			// flagged neither production nor logistics stay in.
			if !t.IsProduction && t.IsLogistics {
				continue
			}
		case SourceLogistics:
			if !t.IsLogistics {
				continue
			}
		}
		if f.Shift != "" && f.Shift != ShiftAll {
			hour := time.UnixMilli(ref).In(loc).Hour()
			day := hour >= 6 && hour < 18
			if (f.Shift == ShiftDay) != day {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

const maxInt64 = int64(^uint64(0) >> 1)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
