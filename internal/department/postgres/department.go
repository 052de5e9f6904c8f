package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
	departmentDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/department"
)

// DepartmentRepository implements department.Repository using GORM. It
// doubles as the campaign package's DepartmentDirectory: campaigns store
// department ids and resolve display names through it.
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List() ([]*departmentDatamodel.Department, error) {
	var records []*departmentDatamodel.Department
	err := r.db.Order("name ASC").Find(&records).Error
	return records, err
}

func (r *DepartmentRepository) GetByID(id string) (*departmentDatamodel.Department, error) {
	var record departmentDatamodel.Department
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *DepartmentRepository) FindByName(name string) (*departmentDatamodel.Department, error) {
	var record departmentDatamodel.Department
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *DepartmentRepository) Create(d *departmentDatamodel.Department) error {
	return r.db.Create(d).Error
}

func (r *DepartmentRepository) Update(d *departmentDatamodel.Department) error {
	d.UpdatedAt = time.Now()
	return r.db.Save(d).Error
}

func (r *DepartmentRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&departmentDatamodel.Department{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) CountCampaigns(departmentID string) (int64, error) {
	var count int64
	err := r.db.Model(&campaignDatamodel.Campaign{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

// ResolveName returns "" for an unknown id rather than erroring; a
// campaign pointing at a deleted department still renders.
func (r *DepartmentRepository) ResolveName(id string) (string, error) {
	record, err := r.GetByID(id)
	if err != nil {
		if err == internal.ErrDepartmentNotFound {
			return "", nil
		}
		return "", err
	}
	return record.Name, nil
}

func (r *DepartmentRepository) ResolveID(name string) (string, error) {
	record, err := r.FindByName(name)
	if err != nil {
		if err == internal.ErrDepartmentNotFound {
			return "", internal.ErrUnknownDepartment
		}
		return "", err
	}
	return record.ID, nil
}

func (r *DepartmentRepository) NameIndex() (map[string]string, error) {
	records, err := r.List()
	if err != nil {
		return nil, err
	}

	index := make(map[string]string, len(records))
	for _, d := range records {
		index[d.ID] = d.Name
	}
	return index, nil
}
