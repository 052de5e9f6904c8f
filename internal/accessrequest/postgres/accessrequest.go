package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/accessrequest"
	accessrequestDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/accessrequest"
)

// AccessRequestRepository implements the accessrequest.Repository
// interface using GORM. It also satisfies influencer.GrantChecker, so
// the influencer service reads grant state straight from this table.
type AccessRequestRepository struct {
	db *gorm.DB
}

func NewAccessRequestRepository(db *gorm.DB) *AccessRequestRepository {
	return &AccessRequestRepository{db: db}
}

func (r *AccessRequestRepository) List() ([]*accessrequestDatamodel.AccessRequest, error) {
	var records []*accessrequestDatamodel.AccessRequest
	err := r.db.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *AccessRequestRepository) ListByDepartment(departmentID string) ([]*accessrequestDatamodel.AccessRequest, error) {
	var records []*accessrequestDatamodel.AccessRequest
	err := r.db.Where("department_id = ?", departmentID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *AccessRequestRepository) ListByRequester(email string) ([]*accessrequestDatamodel.AccessRequest, error) {
	var records []*accessrequestDatamodel.AccessRequest
	err := r.db.Where("LOWER(requester_email) = LOWER(?)", email).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *AccessRequestRepository) GetByID(id string) (*accessrequestDatamodel.AccessRequest, error) {
	var record accessrequestDatamodel.AccessRequest
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *AccessRequestRepository) Create(req *accessrequestDatamodel.AccessRequest) error {
	return r.db.Create(req).Error
}

func (r *AccessRequestRepository) UpdateStatus(id, status, resolvedBy string, resolvedAt time.Time) error {
	result := r.db.Model(&accessrequestDatamodel.AccessRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrRequestNotFound
	}
	return nil
}

func (r *AccessRequestRepository) HasPending(requesterEmail, influencerID string) (bool, error) {
	var count int64
	err := r.db.Model(&accessrequestDatamodel.AccessRequest{}).
		Where("LOWER(requester_email) = LOWER(?) AND influencer_id = ? AND status = ?",
			requesterEmail, influencerID, accessrequest.StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *AccessRequestRepository) HasApprovedGrant(requesterEmail, influencerID string) (bool, error) {
	var count int64
	err := r.db.Model(&accessrequestDatamodel.AccessRequest{}).
		Where("LOWER(requester_email) = LOWER(?) AND influencer_id = ? AND status = ?",
			requesterEmail, influencerID, accessrequest.StatusApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *AccessRequestRepository) ApprovedInfluencerIDs(requesterEmail string) (map[string]struct{}, error) {
	var ids []string
	err := r.db.Model(&accessrequestDatamodel.AccessRequest{}).
		Where("LOWER(requester_email) = LOWER(?) AND status = ?", requesterEmail, accessrequest.StatusApproved).
		Pluck("influencer_id", &ids).Error
	if err != nil {
		return nil, err
	}

	granted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		granted[id] = struct{}{}
	}
	return granted, nil
}
