package department

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	departmentDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/department"
	"github.com/nxthub/influencer-ops/internal/permission"
)

type Repository interface {
	List() ([]*departmentDatamodel.Department, error)
	GetByID(id string) (*departmentDatamodel.Department, error)
	// FindByName matches case-insensitively; internal.ErrDepartmentNotFound
	// means the name is free.
	FindByName(name string) (*departmentDatamodel.Department, error)
	Create(d *departmentDatamodel.Department) error
	Update(d *departmentDatamodel.Department) error
	Delete(id string) error
	CountCampaigns(departmentID string) (int64, error)
}

type Service struct {
	repo   Repository
	perm   permission.Evaluator
	logger *slog.Logger
}

func NewService(repo Repository, perm permission.Evaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		perm:   perm,
		logger: logger,
	}
}

func (s *Service) List(actor auth.Actor) ([]*Department, error) {
	records, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) Get(actor auth.Actor, id string) (*Department, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(actor auth.Actor, dto CreateDepartmentDTO) (*Department, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	if err := s.ensureNameFree(name, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	record := &departmentDatamodel.Department{
		ID:        uuid.NewString(),
		Name:      name,
		HodName:   strings.TrimSpace(dto.HodName),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create department", "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", record.ID, "name", name, "created_by", actor.Email)
	return FromDataModel(record), nil
}

// Update renames a department or reassigns its head. Campaigns keep
// pointing at the same id, so a rename is visible everywhere at once.
func (s *Service) Update(actor auth.Actor, id string, dto UpdateDepartmentDTO) (*Department, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDepartmentNotFound
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if err := s.ensureNameFree(name, id); err != nil {
			return nil, err
		}
		record.Name = name
	}
	if dto.HodName != nil {
		record.HodName = strings.TrimSpace(*dto.HodName)
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update department", err)
	}

	return FromDataModel(record), nil
}

// Delete refuses to remove a department that still owns campaigns.
func (s *Service) Delete(actor auth.Actor, id string) error {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrDepartmentNotFound
	}

	count, err := s.repo.CountCampaigns(id)
	if err != nil {
		return internal.NewInternalError("failed to check department usage", err)
	}
	if count > 0 {
		return internal.NewConflictError("department still owns campaigns", internal.ErrCodeDepartmentInUse).
			WithDetails(map[string]int64{"campaigns": count})
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id, "deleted_by", actor.Email)
	return nil
}

// Import creates departments from parsed spreadsheet rows. Each row
// succeeds or fails on its own; one bad line never aborts the batch.
func (s *Service) Import(actor auth.Actor, rows []ImportRow) (*ImportReport, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, row := range rows {
		result := ImportRowResult{Line: row.Line, Name: row.Name}

		switch {
		case row.Name == "":
			result.Reason = "missing department name"
		default:
			_, err := s.Create(actor, CreateDepartmentDTO{Name: row.Name, HodName: row.HodName})
			if err != nil {
				if appErr, ok := internal.IsAppError(err); ok {
					result.Reason = appErr.Message
				} else {
					result.Reason = err.Error()
				}
			} else {
				result.Success = true
			}
		}

		if result.Success {
			report.Imported++
		} else {
			report.Failed++
		}
		report.Rows = append(report.Rows, result)
	}

	s.logger.Info("department import finished",
		"imported", report.Imported,
		"failed", report.Failed,
		"by", actor.Email)
	return report, nil
}

func (s *Service) ensureNameFree(name, excludeID string) error {
	existing, err := s.repo.FindByName(name)
	if err != nil {
		if err == internal.ErrDepartmentNotFound {
			return nil
		}
		return internal.NewInternalError("failed to check department name", err)
	}
	if existing.ID == excludeID {
		return nil
	}
	return internal.NewConflictError("a department with this name already exists", internal.ErrCodeDuplicateName)
}
