package campaign

import (
	"time"

	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
)

type Campaign struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	InfluencerID string `json:"influencer_id"`
	// Department is the display name, resolved from the immutable
	// department id at read time.
	Department   string     `json:"department"`
	DepartmentID string     `json:"department_id"`
	Status       string     `json:"status"`
	Budget       int64      `json:"budget"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Deliverables string     `json:"deliverables,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	StatusChangedAt     *time.Time `json:"status_changed_at,omitempty"`
	StatusChangedBy     string     `json:"status_changed_by,omitempty"`
	StatusChangeSummary string     `json:"status_change_summary,omitempty"`

	CompletionDate    *time.Time `json:"completion_date,omitempty"`
	CompletionSummary string     `json:"completion_summary,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
	Version     int64     `json:"version"`
}

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
)

// Transitions are one-way: Pending is the only legal source for a plain
// status change, and Completed is reachable only from Approved through the
// completion flow. Nothing ever returns to Pending.
func (c *Campaign) CanTransitionTo(target string) bool {
	if c.Status != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

func (c *Campaign) CanBeCompleted() bool {
	return c.Status == StatusApproved
}

func ValidTransitionTarget(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

func ToDataModel(c *Campaign) *campaignDatamodel.Campaign {
	return &campaignDatamodel.Campaign{
		ID:                  c.ID,
		Name:                c.Name,
		InfluencerID:        c.InfluencerID,
		DepartmentID:        c.DepartmentID,
		Status:              c.Status,
		Budget:              c.Budget,
		StartDate:           c.StartDate,
		EndDate:             c.EndDate,
		Deliverables:        c.Deliverables,
		CreatedBy:           c.CreatedBy,
		CreatedAt:           c.CreatedAt,
		StatusChangedAt:     c.StatusChangedAt,
		StatusChangedBy:     c.StatusChangedBy,
		StatusChangeSummary: c.StatusChangeSummary,
		CompletionDate:      c.CompletionDate,
		CompletionSummary:   c.CompletionSummary,
		LastUpdated:         c.LastUpdated,
		Version:             c.Version,
	}
}

func FromDataModel(c *campaignDatamodel.Campaign) *Campaign {
	return &Campaign{
		ID:                  c.ID,
		Name:                c.Name,
		InfluencerID:        c.InfluencerID,
		DepartmentID:        c.DepartmentID,
		Status:              c.Status,
		Budget:              c.Budget,
		StartDate:           c.StartDate,
		EndDate:             c.EndDate,
		Deliverables:        c.Deliverables,
		CreatedBy:           c.CreatedBy,
		CreatedAt:           c.CreatedAt,
		StatusChangedAt:     c.StatusChangedAt,
		StatusChangedBy:     c.StatusChangedBy,
		StatusChangeSummary: c.StatusChangeSummary,
		CompletionDate:      c.CompletionDate,
		CompletionSummary:   c.CompletionSummary,
		LastUpdated:         c.LastUpdated,
		Version:             c.Version,
	}
}

func FromDataModelSlice(campaigns []*campaignDatamodel.Campaign) []*Campaign {
	result := make([]*Campaign, len(campaigns))
	for i, c := range campaigns {
		result[i] = FromDataModel(c)
	}
	return result
}
