package accessrequest

import (
	"time"
)

type AccessRequest struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	RequesterID    string     `json:"requester_id" gorm:"column:requester_id;not null"`
	RequesterName  string     `json:"requester_name" gorm:"column:requester_name"`
	RequesterEmail string     `json:"requester_email" gorm:"column:requester_email;not null"`
	InfluencerID   string     `json:"influencer_id" gorm:"column:influencer_id;not null"`
	InfluencerName string     `json:"influencer_name" gorm:"column:influencer_name"`
	DepartmentID   string     `json:"department_id" gorm:"column:department_id;not null"`
	Status         string     `json:"status" gorm:"default:pending"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	ResolvedBy     string     `json:"resolved_by,omitempty" gorm:"column:resolved_by"`
}

func (AccessRequest) TableName() string {
	return "access_requests"
}
