package campaign

import (
	"time"
)

// Campaign is the persistence model for campaigns. Departments are referenced
// by immutable id; display names are resolved at read time so renames never
// need a cascading rewrite.
type Campaign struct {
	ID                  string     `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"not null"`
	InfluencerID        string     `json:"influencer_id" gorm:"column:influencer_id"`
	DepartmentID        string     `json:"department_id" gorm:"column:department_id;not null"`
	Status              string     `json:"status" gorm:"default:Pending"`
	Budget              int64      `json:"budget" gorm:"not null"`
	StartDate           time.Time  `json:"start_date" gorm:"column:start_date;type:date"`
	EndDate             *time.Time `json:"end_date,omitempty" gorm:"column:end_date;type:date"`
	Deliverables        string     `json:"deliverables"`
	CreatedBy           string     `json:"created_by" gorm:"column:created_by"`
	CreatedAt           time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	StatusChangedAt     *time.Time `json:"status_changed_at,omitempty" gorm:"column:status_changed_at"`
	StatusChangedBy     string     `json:"status_changed_by,omitempty" gorm:"column:status_changed_by"`
	StatusChangeSummary string     `json:"status_change_summary,omitempty" gorm:"column:status_change_summary"`
	CompletionDate      *time.Time `json:"completion_date,omitempty" gorm:"column:completion_date;type:date"`
	CompletionSummary   string     `json:"completion_summary,omitempty" gorm:"column:completion_summary"`
	LastUpdated         time.Time  `json:"last_updated" gorm:"column:last_updated;default:now()"`
	Version             int64      `json:"version" gorm:"default:1"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
