package domain

import "context"

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, taskID string) (*Task, error)
	FindByTimeRange(ctx context.Context, from, to int64) ([]Task, error)
	FindByWorker(ctx context.Context, userID string, from, to int64) ([]Task, error)
	FindAll(ctx context.Context, limit, offset int) ([]Task, error)
	Delete(ctx context.Context, taskID string) error
}

// ScrapArchiveRepository defines the interface for scrap export archives
type ScrapArchiveRepository interface {
	Save(ctx context.Context, archive *ScrapArchive) error
	FindByID(ctx context.Context, archiveID string) (*ScrapArchive, error)
	FindByDispatchRange(ctx context.Context, from, to int64) ([]ScrapArchive, error)
	FindAll(ctx context.Context, limit, offset int) ([]ScrapArchive, error)
}

// ScrapMetalRepository defines the interface for metal definitions
type ScrapMetalRepository interface {
	Save(ctx context.Context, metal *ScrapMetal) error
	FindByID(ctx context.Context, metalID string) (*ScrapMetal, error)
	FindAll(ctx context.Context) ([]ScrapMetal, error)
	Delete(ctx context.Context, metalID string) error
}

// ScrapPriceRepository defines the interface for the monthly price list
type ScrapPriceRepository interface {
	Upsert(ctx context.Context, price *ScrapPrice) error
	FindByMetalAndMonth(ctx context.Context, metalID string, month, year int) (*ScrapPrice, error)
	FindAll(ctx context.Context) ([]ScrapPrice, error)
}

// ScrapBinRepository defines the interface for scrap containers
type ScrapBinRepository interface {
	Save(ctx context.Context, bin *ScrapBin) error
	FindByName(ctx context.Context, name string) (*ScrapBin, error)
	FindAll(ctx context.Context) ([]ScrapBin, error)
	Delete(ctx context.Context, name string) error
}

// UserRepository defines the interface for the user directory
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
}

// BreakRepository defines the interface for system-wide break settings
type BreakRepository interface {
	Save(ctx context.Context, b *SystemBreak) error
	FindAll(ctx context.Context) ([]SystemBreak, error)
	Delete(ctx context.Context, id string) error
}
