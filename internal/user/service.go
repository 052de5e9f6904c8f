package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	userDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/user"
	"github.com/nxthub/influencer-ops/internal/permission"
)

type Repository interface {
	List() ([]*userDatamodel.User, error)
	GetByID(id string) (*userDatamodel.User, error)
	// FindByEmail matches case-insensitively; internal.ErrUserNotFound
	// means the email is free.
	FindByEmail(email string) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id string) error
}

// DepartmentDirectory validates and resolves department names on
// account creation.
type DepartmentDirectory interface {
	ResolveID(name string) (string, error)
	NameIndex() (map[string]string, error)
}

type Service struct {
	repo        Repository
	departments DepartmentDirectory
	perm        permission.Evaluator
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo Repository, departments DepartmentDirectory, perm permission.Evaluator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		departments: departments,
		perm:        perm,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func (s *Service) List(actor auth.Actor) ([]*User, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}

	records, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	names, err := s.departments.NameIndex()
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve departments", err)
	}

	result := make([]*User, len(records))
	for i, record := range records {
		u := FromDataModel(record)
		u.Department = names[u.DepartmentID]
		result[i] = u
	}
	return result, nil
}

func (s *Service) Get(actor auth.Actor, id string) (*User, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(record), nil
}

// Create provisions an account. Managers and executives get bound to an
// existing department; a manager without one cannot be created at all,
// since they could never log in.
func (s *Service) Create(actor auth.Actor, dto CreateUserDTO) (*User, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, ok := auth.ParseRole(strings.ToLower(strings.TrimSpace(dto.Role)))
	if !ok {
		return nil, internal.ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	departmentID := ""
	if dto.Department != "" && (role == auth.RoleManager || role == auth.RoleExecutive) {
		id, err := s.departments.ResolveID(dto.Department)
		if err != nil {
			return nil, err
		}
		departmentID = id
	}
	if role == auth.RoleManager && departmentID == "" {
		return nil, internal.ErrManagerNeedsDepartment
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = NameFromEmail(email)
	}

	now := time.Now()
	record := &userDatamodel.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(role),
		DepartmentID: departmentID,
		Avatar:       AvatarURL(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "role", role, "created_by", actor.Email)
	return FromDataModel(record), nil
}

func (s *Service) Update(actor auth.Actor, id string, dto UpdateUserDTO) (*User, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Role != nil {
		role, ok := auth.ParseRole(strings.ToLower(strings.TrimSpace(*dto.Role)))
		if !ok {
			return nil, internal.ErrInvalidRole
		}
		record.Role = string(role)
	}
	if dto.Department != nil {
		if *dto.Department == "" {
			record.DepartmentID = ""
		} else {
			deptID, err := s.departments.ResolveID(*dto.Department)
			if err != nil {
				return nil, err
			}
			record.DepartmentID = deptID
		}
	}
	if record.Role == string(auth.RoleManager) && record.DepartmentID == "" {
		return nil, internal.ErrManagerNeedsDepartment
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) != "" {
		record.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		record.PasswordHash = string(hash)
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) Delete(actor auth.Actor, id string) error {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return err
	}

	if actor.ID == id {
		return internal.NewValidationError("you cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Delete(id); err != nil {
		if err == internal.ErrUserNotFound {
			return err
		}
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actor.Email)
	return nil
}

// Import provisions accounts from parsed spreadsheet rows. Email and
// password are mandatory per row; role defaults to executive. Each row
// succeeds or fails on its own.
func (s *Service) Import(actor auth.Actor, rows []ImportRow) (*ImportReport, error) {
	if err := s.perm.CanManageUsers(actor); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, row := range rows {
		result := ImportRowResult{Line: row.Line, Email: row.Email}

		switch {
		case row.Email == "":
			result.Reason = "missing email"
		case row.Password == "":
			result.Reason = "missing password"
		default:
			role := row.Role
			if role == "" {
				role = string(auth.RoleExecutive)
			}
			_, err := s.Create(actor, CreateUserDTO{
				Name:       row.Name,
				Email:      row.Email,
				Password:   row.Password,
				Role:       role,
				Department: row.Department,
			})
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

	s.logger.Info("user import finished",
		"imported", report.Imported,
		"failed", report.Failed,
		"by", actor.Email)
	return report, nil
}

func (s *Service) ensureEmailFree(email string) error {
	_, err := s.repo.FindByEmail(email)
	if err != nil {
		if err == internal.ErrUserNotFound {
			return nil
		}
		return internal.NewInternalError("failed to check email uniqueness", err)
	}
	return internal.ErrDuplicateEmail
}
