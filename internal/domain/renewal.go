package domain

import (
	"context"
	"time"
)

// Renewal statuses. All but cancelled can be derived from end_date;
// cancelled is sticky and only ever set by an explicit update.
const (
	StatusActive       = "active"
	StatusExpiringSoon = "expiring-soon"
	StatusExpired      = "expired"
	StatusCancelled    = "cancelled"
)

// ExpiringSoonDays is the width of the expiring-soon window, inclusive on
// both ends: a renewal ending exactly today or exactly 30 days out counts.
const ExpiringSoonDays = 30

type Renewal struct {
	ID           string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID       string    `gorm:"type:varchar(32);index;not null" json:"user_id"`
	ServiceName  string    `gorm:"size:128;not null" json:"service_name"`
	ServiceType  string    `gorm:"size:64;not null" json:"service_type"`
	Provider     string    `gorm:"size:128;not null" json:"provider"`
	StartDate    Date      `gorm:"type:date;not null" json:"start_date"`
	EndDate      Date      `gorm:"type:date;not null" json:"end_date"`
	Cost         float64   `gorm:"type:decimal(10,2);not null" json:"cost"`
	ReminderType string    `gorm:"size:32;not null" json:"reminder_type"`
	Status       string    `gorm:"size:16;not null;default:active" json:"status"`
	Notes        *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Renewal) TableName() string { return "renewals" }

// StatusAt derives the lifecycle status as of the given instant. The stored
// value wins only when it is cancelled; everything else is recomputed from
// end_date so reads never see a stale cached state.
func (r *Renewal) StatusAt(now time.Time) string {
	if r.Status == StatusCancelled {
		return StatusCancelled
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case end.Before(today):
		return StatusExpired
	case !end.After(today.AddDate(0, 0, ExpiringSoonDays)):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// Statistics is the aggregate view over the whole renewal set. TotalCost is
// the cost sum truncated to whole units; fractional cents are dropped, not
// rounded, to stay bit-compatible with existing consumers.
type Statistics struct {
	ActiveCount       int   `json:"active_count"`
	ExpiringSoonCount int   `json:"expiring_soon_count"`
	ExpiredCount      int   `json:"expired_count"`
	TotalCount        int   `json:"total_count"`
	TotalCost         int64 `json:"total_cost"`
}

type RenewalRepository interface {
	Create(ctx context.Context, r *Renewal) error
	FindByID(ctx context.Context, id string) (*Renewal, error)
	List(ctx context.Context) ([]Renewal, error)
	ListByUser(ctx context.Context, userID string) ([]Renewal, error)
	Update(ctx context.Context, r *Renewal) error
	Delete(ctx context.Context, id string) error
}
