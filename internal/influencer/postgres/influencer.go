package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	influencerDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/influencer"
)

// InfluencerRepository implements the influencer.Repository interface using GORM
type InfluencerRepository struct {
	db *gorm.DB
}

func NewInfluencerRepository(db *gorm.DB) *InfluencerRepository {
	return &InfluencerRepository{db: db}
}

// GetNameByID serves the access request flow, which stores the
// influencer display name alongside the request.
func (r *InfluencerRepository) GetNameByID(id string) (string, error) {
	record, err := r.GetByID(id)
	if err != nil {
		return "", err
	}
	return record.Name, nil
}

func (r *InfluencerRepository) List() ([]*influencerDatamodel.Influencer, error) {
	var records []*influencerDatamodel.Influencer
	err := r.db.Order("name ASC").Find(&records).Error
	return records, err
}

func (r *InfluencerRepository) GetByID(id string) (*influencerDatamodel.Influencer, error) {
	var record influencerDatamodel.Influencer
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrInfluencerNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByPAN matches case-insensitively even though PANs are stored
// uppercase; rows imported before normalization may differ in case.
func (r *InfluencerRepository) FindByPAN(pan string) (*influencerDatamodel.Influencer, error) {
	var record influencerDatamodel.Influencer
	err := r.db.Where("UPPER(pan) = UPPER(?)", pan).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrInfluencerNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *InfluencerRepository) Create(i *influencerDatamodel.Influencer) error {
	return r.db.Create(i).Error
}

func (r *InfluencerRepository) Update(i *influencerDatamodel.Influencer) error {
	i.UpdatedAt = time.Now()
	return r.db.Save(i).Error
}

func (r *InfluencerRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&influencerDatamodel.Influencer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrInfluencerNotFound
	}
	return nil
}

// RecordPromotion stamps the last-promotion columns after a campaign
// completes.
func (r *InfluencerRepository) RecordPromotion(id, promotedBy string, promoDate time.Time, pricePaid int64) error {
	result := r.db.Model(&influencerDatamodel.Influencer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_promo_by":   promotedBy,
			"last_promo_date": promoDate,
			"last_price_paid": pricePaid,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrInfluencerNotFound
	}
	return nil
}
