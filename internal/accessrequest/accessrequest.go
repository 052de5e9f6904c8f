package accessrequest

import (
	"time"

	accessrequestDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/accessrequest"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusRevoked  = "revoked"
)

// LegalResolution is the request lifecycle table. A pending request is
// approved or rejected; an approved grant can only be revoked. Rejected
// and revoked are terminal.
func LegalResolution(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusRevoked
	default:
		return false
	}
}

type AccessRequest struct {
	ID             string `json:"id"`
	RequesterID    string `json:"requester_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	InfluencerID   string `json:"influencer_id"`
	InfluencerName string `json:"influencer_name"`
	DepartmentID   string `json:"department_id"`
	Status         string `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
}

func FromDataModel(r *accessrequestDatamodel.AccessRequest) *AccessRequest {
	return &AccessRequest{
		ID:             r.ID,
		RequesterID:    r.RequesterID,
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		InfluencerID:   r.InfluencerID,
		InfluencerName: r.InfluencerName,
		DepartmentID:   r.DepartmentID,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
		ResolvedBy:     r.ResolvedBy,
	}
}

func FromDataModelSlice(records []*accessrequestDatamodel.AccessRequest) []*AccessRequest {
	result := make([]*AccessRequest, len(records))
	for i, r := range records {
		result[i] = FromDataModel(r)
	}
	return result
}
