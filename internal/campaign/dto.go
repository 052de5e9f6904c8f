package campaign

import (
	"strings"
	"time"

	"github.com/nxthub/influencer-ops/internal"
)

const dateLayout = "2006-01-02"

// CreateCampaignDTO represents the request payload for creating a campaign.
// Dates travel as yyyy-mm-dd strings, matching the dashboard's date inputs.
type CreateCampaignDTO struct {
	Name         string `json:"name" validate:"required"`
	InfluencerID string `json:"influencer_id" validate:"required"`
	Department   string `json:"department,omitempty"`
	Budget       int64  `json:"budget" validate:"min=0"`
	StartDate    string `json:"start_date" validate:"required"`
	Deliverables string `json:"deliverables,omitempty"`
}

func (dto CreateCampaignDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "campaign name is required", internal.ErrCodeValidationFailed)
	}
	if dto.InfluencerID == "" {
		return internal.NewValidationFieldError("influencer_id", "influencer is required", internal.ErrCodeValidationFailed)
	}
	if dto.Budget < 0 {
		return internal.NewValidationError("budget cannot be negative", internal.ErrCodeInvalidBudget)
	}
	if _, err := dto.ParseStartDate(); err != nil {
		return internal.NewValidationError("start date must be in yyyy-mm-dd format", internal.ErrCodeInvalidDate)
	}
	return nil
}

func (dto CreateCampaignDTO) ParseStartDate() (time.Time, error) {
	return time.Parse(dateLayout, dto.StartDate)
}

// UpdateCampaignDTO carries content edits. Status never changes here;
// that goes through the transition and completion endpoints.
type UpdateCampaignDTO struct {
	Name         *string `json:"name,omitempty"`
	InfluencerID *string `json:"influencer_id,omitempty"`
	Budget       *int64  `json:"budget,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	Deliverables *string `json:"deliverables,omitempty"`
	Version      int64   `json:"version"`
}

func (dto UpdateCampaignDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internal.NewValidationFieldError("name", "campaign name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Budget != nil && *dto.Budget < 0 {
		return internal.NewValidationError("budget cannot be negative", internal.ErrCodeInvalidBudget)
	}
	if dto.StartDate != nil {
		if _, err := time.Parse(dateLayout, *dto.StartDate); err != nil {
			return internal.NewValidationError("start date must be in yyyy-mm-dd format", internal.ErrCodeInvalidDate)
		}
	}
	return nil
}

// TransitionDTO approves or rejects a pending campaign. The summary is
// mandatory; a status change without a recorded reason is rejected before
// anything is touched.
type TransitionDTO struct {
	Status  string `json:"status" validate:"required,oneof=Approved Rejected"`
	Summary string `json:"summary" validate:"required"`
}

func (dto TransitionDTO) Validate() error {
	if !ValidTransitionTarget(dto.Status) {
		return internal.ErrIllegalTransition
	}
	if strings.TrimSpace(dto.Summary) == "" {
		return internal.ErrSummaryRequired
	}
	return nil
}

// CompleteDTO closes out an approved campaign.
type CompleteDTO struct {
	CompletionDate string `json:"completion_date" validate:"required"`
	Summary        string `json:"summary" validate:"required"`
}

func (dto CompleteDTO) Validate() error {
	if strings.TrimSpace(dto.Summary) == "" {
		return internal.ErrSummaryRequired
	}
	if _, err := dto.ParseCompletionDate(); err != nil {
		return internal.NewValidationError("completion date must be in yyyy-mm-dd format", internal.ErrCodeInvalidDate)
	}
	return nil
}

func (dto CompleteDTO) ParseCompletionDate() (time.Time, error) {
	return time.Parse(dateLayout, dto.CompletionDate)
}

// ListFilter narrows campaign listings. Department filters by display
// name, status by exact workflow state.
type ListFilter struct {
	Department string
	Status     string
	Search     string
}
