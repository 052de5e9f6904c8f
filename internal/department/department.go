package department

import (
	"time"

	departmentDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/department"
)

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HodName   string    `json:"hod_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:        d.ID,
		Name:      d.Name,
		HodName:   d.HodName,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func FromDataModelSlice(records []*departmentDatamodel.Department) []*Department {
	result := make([]*Department, len(records))
	for i, d := range records {
		result[i] = FromDataModel(d)
	}
	return result
}
