package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
	"github.com/nxthub/influencer-ops/internal/core/events"
	"github.com/nxthub/influencer-ops/internal/permission"
)

// RepoFilter is the storage-level filter; the display-name department
// filter is resolved to an id before it reaches the repository.
type RepoFilter struct {
	DepartmentID string
	Status       string
	Search       string
}

type Repository interface {
	List(filter RepoFilter) ([]*campaignDatamodel.Campaign, error)
	GetByID(id string) (*campaignDatamodel.Campaign, error)
	Create(c *campaignDatamodel.Campaign) error
	// UpdateWithVersion applies updates only if the stored version still
	// matches expectedVersion, then bumps the version. A version mismatch
	// returns internal.ErrStaleVersion.
	UpdateWithVersion(id string, expectedVersion int64, updates map[string]interface{}) error
	Delete(id string) error
}

// DepartmentDirectory resolves between immutable department ids and
// display names. Campaigns store only the id; names are looked up at
// read time so a department rename never strands its campaigns.
type DepartmentDirectory interface {
	ResolveName(id string) (string, error)
	ResolveID(name string) (string, error)
	NameIndex() (map[string]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	departments DepartmentDirectory
	perm        permission.Evaluator
	eventBus    EventPublisher
	logger      *slog.Logger
}

func NewService(repo Repository, departments DepartmentDirectory, perm permission.Evaluator, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		perm:        perm,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// List returns campaigns visible to the actor. Reads are open to every
// authenticated role; only writes are ownership-gated.
func (s *Service) List(actor auth.Actor, filter ListFilter) ([]*Campaign, error) {
	repoFilter := RepoFilter{Status: filter.Status, Search: filter.Search}
	if filter.Department != "" {
		deptID, err := s.departments.ResolveID(filter.Department)
		if err != nil {
			return nil, err
		}
		repoFilter.DepartmentID = deptID
	}

	records, err := s.repo.List(repoFilter)
	if err != nil {
		s.logger.Error("failed to list campaigns", "error", err)
		return nil, internal.NewInternalError("failed to list campaigns", err)
	}

	names, err := s.departments.NameIndex()
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve departments", err)
	}

	result := FromDataModelSlice(records)
	for _, c := range result {
		c.Department = names[c.DepartmentID]
	}
	return result, nil
}

func (s *Service) Get(actor auth.Actor, id string) (*Campaign, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCampaignNotFound
	}
	return s.toDomain(record)
}

// Create registers a new campaign. It always enters the workflow as
// Pending regardless of what the client sends; approval is a separate,
// audited step.
func (s *Service) Create(actor auth.Actor, dto CreateCampaignDTO) (*Campaign, error) {
	if err := s.perm.CanCreateCampaign(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	deptName := dto.Department
	if !actor.Role.AdminTier() {
		// Non-admins always create within their own department.
		deptName = actor.Department
	}
	if deptName == "" {
		return nil, internal.ErrUnknownDepartment
	}
	deptID, err := s.departments.ResolveID(deptName)
	if err != nil {
		return nil, err
	}

	startDate, _ := dto.ParseStartDate()
	now := time.Now()

	record := &campaignDatamodel.Campaign{
		ID:           uuid.NewString(),
		Name:         dto.Name,
		InfluencerID: dto.InfluencerID,
		DepartmentID: deptID,
		Status:       StatusPending,
		Budget:       dto.Budget,
		StartDate:    startDate,
		Deliverables: dto.Deliverables,
		CreatedBy:    actor.Email,
		CreatedAt:    now,
		LastUpdated:  now,
		Version:      1,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create campaign", "error", err)
		return nil, internal.NewInternalError("failed to create campaign", err)
	}

	s.logger.Info("campaign created",
		"campaign_id", record.ID,
		"department_id", deptID,
		"created_by", actor.Email)

	return s.toDomain(record)
}

// Update applies content edits. Status is untouchable here; the version
// check rejects edits made against a stale read.
func (s *Service) Update(actor auth.Actor, id string, dto UpdateCampaignDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCampaignNotFound
	}

	target, err := s.target(record)
	if err != nil {
		return nil, err
	}
	if err := s.perm.CanMutateCampaign(actor, target); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"last_updated": time.Now()}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.InfluencerID != nil {
		updates["influencer_id"] = *dto.InfluencerID
	}
	if dto.Budget != nil {
		updates["budget"] = *dto.Budget
	}
	if dto.StartDate != nil {
		startDate, _ := time.Parse(dateLayout, *dto.StartDate)
		updates["start_date"] = startDate
	}
	if dto.Deliverables != nil {
		updates["deliverables"] = *dto.Deliverables
	}

	expected := dto.Version
	if expected == 0 {
		expected = record.Version
	}

	if err := s.repo.UpdateWithVersion(id, expected, updates); err != nil {
		return nil, err
	}

	return s.Get(actor, id)
}

func (s *Service) Delete(actor auth.Actor, id string) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrCampaignNotFound
	}

	target, err := s.target(record)
	if err != nil {
		return err
	}
	if err := s.perm.CanDeleteCampaign(actor, target); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete campaign", "campaign_id", id, "error", err)
		return internal.NewInternalError("failed to delete campaign", err)
	}

	s.logger.Info("campaign deleted", "campaign_id", id, "deleted_by", actor.Email)
	return nil
}

// Transition moves a Pending campaign to Approved or Rejected. The
// summary requirement and the transition table are enforced before any
// write; a failed check leaves the campaign untouched.
func (s *Service) Transition(actor auth.Actor, id string, dto TransitionDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCampaignNotFound
	}

	target, err := s.target(record)
	if err != nil {
		return nil, err
	}
	if err := s.perm.CanTransitionCampaign(actor, target); err != nil {
		return nil, err
	}

	current := FromDataModel(record)
	if !current.CanTransitionTo(dto.Status) {
		s.logger.Warn("illegal status transition attempted",
			"campaign_id", id,
			"from", record.Status,
			"to", dto.Status,
			"actor", actor.Email)
		return nil, internal.ErrIllegalTransition
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":                dto.Status,
		"status_changed_at":     now,
		"status_changed_by":     actor.Email,
		"status_change_summary": dto.Summary,
		"last_updated":          now,
	}

	if err := s.repo.UpdateWithVersion(id, record.Version, updates); err != nil {
		return nil, err
	}

	s.logger.Info("campaign status changed",
		"campaign_id", id,
		"from", record.Status,
		"to", dto.Status,
		"changed_by", actor.Email)

	s.eventBus.Publish(context.Background(),
		events.NewCampaignStatusChangedEvent(id, record.Status, dto.Status, actor.Email, dto.Summary))

	return s.Get(actor, id)
}

// Complete closes out an Approved campaign. The completion date becomes
// the campaign end date and must not precede the start date.
func (s *Service) Complete(actor auth.Actor, id string, dto CompleteDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCampaignNotFound
	}

	target, err := s.target(record)
	if err != nil {
		return nil, err
	}
	if err := s.perm.CanTransitionCampaign(actor, target); err != nil {
		return nil, err
	}

	current := FromDataModel(record)
	if !current.CanBeCompleted() {
		return nil, internal.ErrIllegalTransition
	}

	completionDate, _ := dto.ParseCompletionDate()
	if completionDate.Before(record.StartDate) {
		return nil, internal.ErrCompletionBeforeStart
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":                StatusCompleted,
		"completion_date":       completionDate,
		"completion_summary":    dto.Summary,
		"end_date":              completionDate,
		"status_changed_at":     now,
		"status_changed_by":     actor.Email,
		"status_change_summary": dto.Summary,
		"last_updated":          now,
	}

	if err := s.repo.UpdateWithVersion(id, record.Version, updates); err != nil {
		return nil, err
	}

	s.logger.Info("campaign completed",
		"campaign_id", id,
		"completion_date", dto.CompletionDate,
		"completed_by", actor.Email)

	s.eventBus.Publish(context.Background(),
		events.NewCampaignCompletedEvent(id, record.InfluencerID, target.Department, record.Budget, completionDate, actor.Email))

	return s.Get(actor, id)
}

func (s *Service) target(record *campaignDatamodel.Campaign) (permission.CampaignTarget, error) {
	name, err := s.departments.ResolveName(record.DepartmentID)
	if err != nil {
		return permission.CampaignTarget{}, internal.NewInternalError("failed to resolve department", err)
	}
	return permission.CampaignTarget{Department: name, CreatedBy: record.CreatedBy}, nil
}

func (s *Service) toDomain(record *campaignDatamodel.Campaign) (*Campaign, error) {
	c := FromDataModel(record)
	name, err := s.departments.ResolveName(record.DepartmentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve department", err)
	}
	c.Department = name
	return c, nil
}
