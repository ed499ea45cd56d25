package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrTaskAlreadyDone    = errors.New("task is already completed")
	ErrTaskBlocked        = errors.New("task is blocked")
	ErrTaskNotInProgress  = errors.New("task is not in progress")
	ErrTaskNotBlocked     = errors.New("task is not blocked")
	ErrAuditNotInProgress = errors.New("no audit in progress")
	ErrAuditInProgress    = errors.New("audit already in progress")
	ErrInvalidAuditResult = errors.New("invalid audit result")
)

// QuantityUnit is the unit a task quantity is expressed in
type QuantityUnit string

const (
	UnitPiece  QuantityUnit = "piece"
	UnitPallet QuantityUnit = "pallet"
	UnitBox    QuantityUnit = "box"
)

// AuditResult is the outcome of a missing-item audit
type AuditResult string

const (
	AuditOK  AuditResult = "OK"
	AuditNOK AuditResult = "NOK"
)

// Priority represents task urgency
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// BlockInterval is a period during which a task was paused or blocked.
// End == 0 means the interval is still open.
type BlockInterval struct {
	Start int64 `bson:"start" json:"start"`
	End   int64 `bson:"end,omitempty" json:"end,omitempty"`
}

// SystemBreak is a shift-wide pause (e.g. lunch) subtracted from every
// worker's active time regardless of task.
type SystemBreak struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name  string             `bson:"name" json:"name"`
	Start int64              `bson:"start" json:"start"`
	End   int64              `bson:"end" json:"end"`
}

// Task is the aggregate root for warehouse task events. Timestamps are
// epoch milliseconds; zero means unset.
type Task struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TaskID            string             `bson:"taskId" json:"taskId"`
	PartNumber        string             `bson:"partNumber" json:"partNumber"`
	Workplace         string             `bson:"workplace" json:"workplace"`
	Quantity          string             `bson:"quantity" json:"quantity"`
	QuantityUnit      QuantityUnit       `bson:"quantityUnit" json:"quantityUnit"`
	Priority          Priority           `bson:"priority" json:"priority"`
	CreatedAt         int64              `bson:"createdAt" json:"createdAt"`
	StartedAt         int64              `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt       int64              `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	IsDone            bool               `bson:"isDone" json:"isDone"`
	IsProduction      bool               `bson:"isProduction" json:"isProduction"`
	IsLogistics       bool               `bson:"isLogistics" json:"isLogistics"`
	IsMissing         bool               `bson:"isMissing" json:"isMissing"`
	IsBlocked         bool               `bson:"isBlocked" json:"isBlocked"`
	IsManualBlocked   bool               `bson:"isManualBlocked" json:"isManualBlocked"`
	IsInProgress      bool               `bson:"isInProgress" json:"isInProgress"`
	IsAuditInProgress bool               `bson:"isAuditInProgress" json:"isAuditInProgress"`
	CreatedBy         string             `bson:"createdBy" json:"createdBy"`
	CompletedBy       string             `bson:"completedBy,omitempty" json:"completedBy,omitempty"`
	InProgressBy      string             `bson:"inProgressBy,omitempty" json:"inProgressBy,omitempty"`
	AuditBy           string             `bson:"auditBy,omitempty" json:"auditBy,omitempty"`
	SearchedBy        string             `bson:"searchedBy,omitempty" json:"searchedBy,omitempty"`
	BlockedBy         string             `bson:"blockedBy,omitempty" json:"blockedBy,omitempty"`
	AuditResult       AuditResult        `bson:"auditResult,omitempty" json:"auditResult,omitempty"`
	MissingReason     string             `bson:"missingReason,omitempty" json:"missingReason,omitempty"`
	StandardTime      float64            `bson:"standardTime,omitempty" json:"standardTime,omitempty"`
	InventoryHistory  []BlockInterval    `bson:"inventoryHistory,omitempty" json:"inventoryHistory,omitempty"`
}

// NewTask creates a new task event record
func NewTask(taskID, partNumber, workplace, quantity string, unit QuantityUnit, priority Priority, isProduction, isLogistics bool, createdBy string, now int64) *Task {
	if priority == "" {
		priority = PriorityNormal
	}
	return &Task{
		TaskID:       taskID,
		PartNumber:   partNumber,
		Workplace:    workplace,
		Quantity:     quantity,
		QuantityUnit: unit,
		Priority:     priority,
		IsProduction: isProduction,
		IsLogistics:  isLogistics,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
}

// ReferenceTime is the timestamp a task is bucketed by: completedAt when
// present, otherwise createdAt. Zero means the task has no usable time.
func (t *Task) ReferenceTime() int64 {
	if t.CompletedAt != 0 {
		return t.CompletedAt
	}
	return t.CreatedAt
}

// ParseQuantity parses the quantity string, accepting both comma and dot
// decimal separators. Unparseable quantities yield 0.
func (t *Task) ParseQuantity() float64 {
	v, _ := t.parseQuantity()
	return v
}

func (t *Task) parseQuantity() (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(t.Quantity), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LoadPoints is the normalized workload weight of a task: the parsed
// quantity for pallet tasks, 1 for everything else. Only a pallet
// quantity that fails to parse falls back to 1; a parsed "0" counts
// as zero load.
func (t *Task) LoadPoints() float64 {
	if t.QuantityUnit == UnitPallet {
		if q, ok := t.parseQuantity(); ok {
			return q
		}
	}
	return 1
}

// PalletQuantity is the parsed quantity for pallet tasks, 0 otherwise.
func (t *Task) PalletQuantity() float64 {
	if t.QuantityUnit != UnitPallet {
		return 0
	}
	return t.ParseQuantity()
}

// StartProgress marks the task as picked up by a worker. The first
// pickup stamps startedAt.
func (t *Task) StartProgress(userID string, now int64) error {
	if t.IsDone {
		return ErrTaskAlreadyDone
	}
	if t.IsBlocked {
		return ErrTaskBlocked
	}
	if t.IsInProgress {
		return errors.New("task is already in progress")
	}
	t.IsInProgress = true
	t.InProgressBy = userID
	if t.StartedAt == 0 {
		t.StartedAt = now
	}
	return nil
}

// StopProgress releases the task without completing it and records the
// paused period in the inventory history.
func (t *Task) StopProgress(now int64) error {
	if !t.IsInProgress {
		return ErrTaskNotInProgress
	}
	t.IsInProgress = false
	t.InProgressBy = ""
	t.InventoryHistory = append(t.InventoryHistory, BlockInterval{Start: now})
	return nil
}

// Complete marks the task done
func (t *Task) Complete(userID string, now int64) error {
	if t.IsDone {
		return ErrTaskAlreadyDone
	}
	if t.IsBlocked {
		return ErrTaskBlocked
	}
	t.closeOpenInterval(now)
	t.IsDone = true
	t.IsInProgress = false
	t.InProgressBy = ""
	t.CompletedBy = userID
	t.CompletedAt = now
	if t.StartedAt == 0 {
		t.StartedAt = now
	}
	return nil
}

// ReportMissing flags the task's item as not found
func (t *Task) ReportMissing(userID, reason string) error {
	if t.IsDone {
		return ErrTaskAlreadyDone
	}
	t.IsMissing = true
	t.MissingReason = reason
	t.SearchedBy = userID
	return nil
}

// Block manually blocks the task and opens a blocked interval
func (t *Task) Block(userID string, now int64) error {
	if t.IsDone {
		return ErrTaskAlreadyDone
	}
	if t.IsBlocked {
		return ErrTaskBlocked
	}
	t.IsBlocked = true
	t.IsManualBlocked = true
	t.BlockedBy = userID
	t.IsInProgress = false
	t.InProgressBy = ""
	t.InventoryHistory = append(t.InventoryHistory, BlockInterval{Start: now})
	return nil
}

// Unblock lifts a manual block and closes the open blocked interval
func (t *Task) Unblock(now int64) error {
	if !t.IsBlocked {
		return ErrTaskNotBlocked
	}
	t.IsBlocked = false
	t.IsManualBlocked = false
	t.BlockedBy = ""
	t.closeOpenInterval(now)
	return nil
}

// StartAudit begins a missing-item audit
func (t *Task) StartAudit(userID string) error {
	if !t.IsMissing {
		return errors.New("task is not reported missing")
	}
	if t.IsAuditInProgress {
		return ErrAuditInProgress
	}
	t.IsAuditInProgress = true
	t.AuditBy = userID
	return nil
}

// CompleteAudit records the audit outcome. OK means the auditor found
// the item (a worker-side reporting error); NOK confirms it missing.
func (t *Task) CompleteAudit(result AuditResult) error {
	if !t.IsAuditInProgress {
		return ErrAuditNotInProgress
	}
	if result != AuditOK && result != AuditNOK {
		return ErrInvalidAuditResult
	}
	t.IsAuditInProgress = false
	t.AuditResult = result
	return nil
}

func (t *Task) closeOpenInterval(now int64) {
	for i := len(t.InventoryHistory) - 1; i >= 0; i-- {
		if t.InventoryHistory[i].End == 0 {
			t.InventoryHistory[i].End = now
			return
		}
	}
}

// overlapMillis returns the length of the intersection of [a,b] and [c,d].
func overlapMillis(a, b, c, d int64) int64 {
	lo := a
	if c > lo {
		lo = c
	}
	hi := b
	if d < hi {
		hi = d
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// localDayKey buckets an epoch-millisecond timestamp into a calendar date
// in the given location.
func localDayKey(ms int64, loc *time.Location) string {
	return time.UnixMilli(ms).In(loc).Format("2006-01-02")
}
