package application

import "github.com/warehouse-ops/dashboard-service/internal/domain"

// CreateTaskCommand records a new task event
type CreateTaskCommand struct {
	TaskID       string
	PartNumber   string
	Workplace    string
	Quantity     string
	QuantityUnit domain.QuantityUnit
	Priority     domain.Priority
	IsProduction bool
	IsLogistics  bool
	StandardTime float64
	CreatedBy    string
}

// GetTaskQuery retrieves a task by ID
type GetTaskQuery struct {
	TaskID string
}

// StartProgressCommand marks a task as picked up by a worker
type StartProgressCommand struct {
	TaskID string
	UserID string
}

// StopProgressCommand releases a task without completing it
type StopProgressCommand struct {
	TaskID string
}

// CompleteTaskCommand marks a task done
type CompleteTaskCommand struct {
	TaskID string
	UserID string
}

// ReportMissingCommand flags a task's item as not found
type ReportMissingCommand struct {
	TaskID string
	UserID string
	Reason string
}

// BlockTaskCommand manually blocks a task
type BlockTaskCommand struct {
	TaskID string
	UserID string
}

// UnblockTaskCommand lifts a manual block
type UnblockTaskCommand struct {
	TaskID string
}

// StartAuditCommand begins a missing-item audit
type StartAuditCommand struct {
	TaskID string
	UserID string
}

// CompleteAuditCommand records a missing-item audit outcome
type CompleteAuditCommand struct {
	TaskID string
	Result domain.AuditResult
}

// ListTasksQuery retrieves tasks page by page
type ListTasksQuery struct {
	Limit  int
	Offset int
}

// TaskAnalyticsQuery runs the dashboard aggregation over a filter window
type TaskAnalyticsQuery struct {
	Filter domain.TaskFilter
}

// WorkerDetailQuery computes the performance profile of one worker
type WorkerDetailQuery struct {
	UserID string
	Filter domain.TaskFilter
}

// ScrapAnalyticsQuery runs the scrap aggregation over a dispatch range
type ScrapAnalyticsQuery struct {
	Start int64
	End   int64
}

// SaveMetalCommand creates or updates a scrap metal definition
type SaveMetalCommand struct {
	MetalID     string
	Type        string
	Description string
}

// UpsertPriceCommand sets the monthly price of a metal
type UpsertPriceCommand struct {
	MetalID string
	Month   int
	Year    int
	Price   float64
}

// SaveBinCommand creates or updates a scrap container
type SaveBinCommand struct {
	Name string
	Tara float64
}

// WeighScrapCommand converts a gross weighing on a named bin to net kg
type WeighScrapCommand struct {
	BinName string
	Brutto  float64
}

// CreateArchiveCommand records a scrap export event
type CreateArchiveCommand struct {
	DispatchDate  int64
	ExternalValue float64
	Items         []ScrapItemInput
}

// ScrapItemInput is one weighed item of an export
type ScrapItemInput struct {
	MetalID   string
	Netto     float64
	Timestamp int64
}

// SaveBreakCommand creates or updates a system-wide break window
type SaveBreakCommand struct {
	Name  string
	Start int64
	End   int64
}
