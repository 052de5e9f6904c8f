package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/campaign"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
)

// CampaignRepository implements the campaign.Repository interface using GORM
type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) campaign.Repository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) List(filter campaign.RepoFilter) ([]*campaignDatamodel.Campaign, error) {
	var records []*campaignDatamodel.Campaign

	query := r.db.Model(&campaignDatamodel.Campaign{})
	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *CampaignRepository) GetByID(id string) (*campaignDatamodel.Campaign, error) {
	var record campaignDatamodel.Campaign
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCampaignNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *CampaignRepository) Create(c *campaignDatamodel.Campaign) error {
	return r.db.Create(c).Error
}

// UpdateWithVersion is a compare-and-swap: the WHERE clause pins the
// version the caller read, and the version bump rides in the same
// statement. Zero rows affected on an existing row means a lost race.
func (r *CampaignRepository) UpdateWithVersion(id string, expectedVersion int64, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")

	result := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&campaignDatamodel.Campaign{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return internal.ErrCampaignNotFound
		}
		return internal.ErrStaleVersion
	}
	return nil
}

func (r *CampaignRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&campaignDatamodel.Campaign{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrCampaignNotFound
	}
	return nil
}
