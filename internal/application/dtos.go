package application

import "github.com/warehouse-ops/dashboard-service/internal/domain"

// TaskDTO is the API representation of a task event
type TaskDTO struct {
	TaskID            string              `json:"taskId"`
	PartNumber        string              `json:"partNumber"`
	Workplace         string              `json:"workplace"`
	Quantity          string              `json:"quantity"`
	QuantityUnit      domain.QuantityUnit `json:"quantityUnit"`
	Priority          domain.Priority     `json:"priority"`
	CreatedAt         int64               `json:"createdAt"`
	StartedAt         int64               `json:"startedAt,omitempty"`
	CompletedAt       int64               `json:"completedAt,omitempty"`
	IsDone            bool                `json:"isDone"`
	IsProduction      bool                `json:"isProduction"`
	IsLogistics       bool                `json:"isLogistics"`
	IsMissing         bool                `json:"isMissing"`
	IsBlocked         bool                `json:"isBlocked"`
	IsInProgress      bool                `json:"isInProgress"`
	IsAuditInProgress bool                `json:"isAuditInProgress"`
	CreatedBy         string              `json:"createdBy"`
	CompletedBy       string              `json:"completedBy,omitempty"`
	InProgressBy      string              `json:"inProgressBy,omitempty"`
	AuditResult       domain.AuditResult  `json:"auditResult,omitempty"`
	MissingReason     string              `json:"missingReason,omitempty"`
	StandardTime      float64             `json:"standardTime,omitempty"`
}

// ScrapMetalDTO is the API representation of a metal definition
type ScrapMetalDTO struct {
	MetalID     string `json:"metalId"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ScrapPriceDTO is the API representation of one monthly price row
type ScrapPriceDTO struct {
	MetalID string  `json:"metalId"`
	Month   int     `json:"month"`
	Year    int     `json:"year"`
	Price   float64 `json:"price"`
}

// ScrapBinDTO is the API representation of a scrap container
type ScrapBinDTO struct {
	Name string  `json:"name"`
	Tara float64 `json:"tara"`
}

// WeighingDTO is the result of a gross-to-net conversion
type WeighingDTO struct {
	BinName string  `json:"binName"`
	Brutto  float64 `json:"brutto"`
	Tara    float64 `json:"tara"`
	Netto   float64 `json:"netto"`
}

// ScrapArchiveDTO is the API representation of one export event
type ScrapArchiveDTO struct {
	ArchiveID     string               `json:"archiveId"`
	DispatchDate  int64                `json:"dispatchDate"`
	ExternalValue float64              `json:"externalValue"`
	TotalNetto    float64              `json:"totalNetto"`
	Items         []domain.ScrapRecord `json:"items"`
}

// SystemBreakDTO is the API representation of a shift-wide break window
type SystemBreakDTO struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// UserDTO is the API representation of a directory entry
type UserDTO struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// WorkerSummaryDTO is one row of the per-worker breakdown. The backing
// tasks stay server-side; the drill-down goes through WorkerDetail.
type WorkerSummaryDTO struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// TaskAnalyticsDTO is the dashboard aggregate for one filter window
type TaskAnalyticsDTO struct {
	Total               int                  `json:"total"`
	Done                int                  `json:"done"`
	Workers             []WorkerSummaryDTO   `json:"workers"`
	TotalAuditedMissing int                  `json:"totalAuditedMissing"`
	RealErrorsCount     int                  `json:"realErrorsCount"`
	FalseAlarmsCount    int                  `json:"falseAlarmsCount"`
	TopMissingParts     []domain.MissingPart `json:"topMissingParts"`
	HourlyData          []domain.HourlyLoad  `json:"hourlyData"`
	TopWorkplaces       []domain.HighRunner  `json:"topWorkplaces"`
	TopParts            []domain.HighRunner  `json:"topParts"`
}

// WorkerDetailDTO is the drill-down profile for one worker
type WorkerDetailDTO struct {
	UserID string              `json:"userId"`
	Name   string              `json:"name"`
	Score  *domain.WorkerScore `json:"score"`
}
