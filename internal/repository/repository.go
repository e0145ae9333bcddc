package repository

import (
	"context"
	"time"

	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/models"
)

// ScheduleRepository defines the interface for feeding schedule storage.
// Upsert semantics: one row per pet, saves replace in place.
type ScheduleRepository interface {
	database.Repository
	Upsert(ctx context.Context, schedule *models.FeedingSchedule) error
	Get(ctx context.Context, petID string) (*models.FeedingSchedule, error)
	List(ctx context.Context) ([]*models.FeedingSchedule, error)
	DeleteByPet(ctx context.Context, petID string) error
}

// DeviceLinkRepository defines the interface for device-pet bindings
type DeviceLinkRepository interface {
	database.Repository
	Get(ctx context.Context, deviceID string) (*models.DeviceLink, error)
	GetForPet(ctx context.Context, petID string, kind models.DeviceKind) (*models.DeviceLink, error)
	// Upsert inserts or refreshes a binding; it fails with a conflict when
	// the device already belongs to a different pet.
	Upsert(ctx context.Context, link *models.DeviceLink) error
	Delete(ctx context.Context, deviceID, petID, owner string) error
	ListByKind(ctx context.Context, kind models.DeviceKind) ([]*models.DeviceLink, error)
	DeleteByPet(ctx context.Context, petID string) error
}

// VitalsRepository defines the interface for the collar telemetry series
type VitalsRepository interface {
	database.Repository
	Insert(ctx context.Context, sample *models.VitalsSample) error
	Latest(ctx context.Context, petID string) (*models.VitalsSample, error)
	History(ctx context.Context, petID string, limit int) ([]*models.VitalsSample, error)
	SummaryForDay(ctx context.Context, petID string, day time.Time) (*models.ActivitySummary, error)
	DeleteByPet(ctx context.Context, petID string) error
}

// NotificationRepository defines the interface for alert history records
type NotificationRepository interface {
	database.Repository
	Create(ctx context.Context, notification *models.Notification) error
	ListByPet(ctx context.Context, petID string) ([]*models.Notification, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByPet(ctx context.Context, petID string) error
}

// PetRepository is the narrow read-only view of the externally managed pet
// profiles; this service only needs species and age for range lookups.
type PetRepository interface {
	Get(ctx context.Context, petID string) (*models.Pet, error)
}
