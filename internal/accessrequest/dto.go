package accessrequest

import (
	"github.com/nxthub/influencer-ops/internal"
)

// CreateAccessRequestDTO asks for mobile visibility on one influencer.
type CreateAccessRequestDTO struct {
	InfluencerID string `json:"influencer_id" validate:"required"`
}

func (dto CreateAccessRequestDTO) Validate() error {
	if dto.InfluencerID == "" {
		return internal.NewValidationFieldError("influencer_id", "influencer is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ResolveDTO carries the resolver's decision.
type ResolveDTO struct {
	Action string `json:"action" validate:"required,oneof=approve reject revoke"`
}

// TargetStatus maps the action verb onto the stored status.
func (dto ResolveDTO) TargetStatus() (string, bool) {
	switch dto.Action {
	case "approve":
		return StatusApproved, true
	case "reject":
		return StatusRejected, true
	case "revoke":
		return StatusRevoked, true
	default:
		return "", false
	}
}

func (dto ResolveDTO) Validate() error {
	if _, ok := dto.TargetStatus(); !ok {
		return internal.NewValidationError("action must be one of approve, reject, revoke", internal.ErrCodeIllegalResolve)
	}
	return nil
}
