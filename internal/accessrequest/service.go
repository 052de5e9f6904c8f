package accessrequest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	accessrequestDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/accessrequest"
	"github.com/nxthub/influencer-ops/internal/core/events"
	"github.com/nxthub/influencer-ops/internal/permission"
)

type Repository interface {
	List() ([]*accessrequestDatamodel.AccessRequest, error)
	ListByDepartment(departmentID string) ([]*accessrequestDatamodel.AccessRequest, error)
	ListByRequester(email string) ([]*accessrequestDatamodel.AccessRequest, error)
	GetByID(id string) (*accessrequestDatamodel.AccessRequest, error)
	Create(r *accessrequestDatamodel.AccessRequest) error
	UpdateStatus(id, status, resolvedBy string, resolvedAt time.Time) error
	HasPending(requesterEmail, influencerID string) (bool, error)
}

// InfluencerDirectory resolves the influencer named in a request, so the
// request list can show a name without joining at query time.
type InfluencerDirectory interface {
	GetNameByID(id string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	influencers InfluencerDirectory
	perm        permission.Evaluator
	eventBus    EventPublisher
	logger      *slog.Logger

	// allowDuplicatePending permits several open requests for the same
	// influencer by the same requester. Off by default.
	allowDuplicatePending bool
}

func NewService(repo Repository, influencers InfluencerDirectory, perm permission.Evaluator, eventBus EventPublisher, allowDuplicatePending bool, logger *slog.Logger) *Service {
	return &Service{
		repo:                  repo,
		influencers:           influencers,
		perm:                  perm,
		eventBus:              eventBus,
		allowDuplicatePending: allowDuplicatePending,
		logger:                logger,
	}
}

// Create raises a mobile-visibility request. Only executives need one;
// every other role already sees the number, so a request from them is a
// client bug and gets a validation error.
func (s *Service) Create(actor auth.Actor, dto CreateAccessRequestDTO) (*AccessRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if actor.Role != auth.RoleExecutive {
		return nil, internal.NewValidationError("your role already has mobile visibility", internal.ErrCodeValidationFailed)
	}

	// A request without a department id can never appear in any manager's
	// resolver queue, so it would sit unresolvable forever. Refuse it here
	// with something the requester can act on.
	if actor.DepartmentID == "" {
		s.logger.Warn("access request blocked: requester without department",
			"requester", actor.Email)
		return nil, internal.ErrRequesterNeedsDepartment
	}

	influencerName, err := s.influencers.GetNameByID(dto.InfluencerID)
	if err != nil {
		return nil, internal.ErrInfluencerNotFound
	}

	if !s.allowDuplicatePending {
		pending, err := s.repo.HasPending(actor.Email, dto.InfluencerID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check pending requests", err)
		}
		if pending {
			return nil, internal.ErrDuplicateRequest
		}
	}

	record := &accessrequestDatamodel.AccessRequest{
		ID:             uuid.NewString(),
		RequesterID:    actor.ID,
		RequesterName:  actor.Name,
		RequesterEmail: actor.Email,
		InfluencerID:   dto.InfluencerID,
		InfluencerName: influencerName,
		DepartmentID:   actor.DepartmentID,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create access request", "error", err)
		return nil, internal.NewInternalError("failed to create access request", err)
	}

	s.logger.Info("access request created",
		"request_id", record.ID,
		"influencer_id", dto.InfluencerID,
		"requester", actor.Email)

	return FromDataModel(record), nil
}

// ListForResolver returns the queue an approver works through: admins
// see everything, managers see their department's requests.
func (s *Service) ListForResolver(actor auth.Actor) ([]*AccessRequest, error) {
	var (
		records []*accessrequestDatamodel.AccessRequest
		err     error
	)
	switch {
	case actor.Role.AdminTier():
		records, err = s.repo.List()
	case actor.Role == auth.RoleManager:
		records, err = s.repo.ListByDepartment(actor.DepartmentID)
	default:
		return nil, internal.ErrReadOnlyObserver
	}
	if err != nil {
		s.logger.Error("failed to list access requests", "error", err)
		return nil, internal.NewInternalError("failed to list access requests", err)
	}
	return FromDataModelSlice(records), nil
}

// ListMine returns the actor's own requests so the dashboard can show
// request state per influencer.
func (s *Service) ListMine(actor auth.Actor) ([]*AccessRequest, error) {
	records, err := s.repo.ListByRequester(actor.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to list access requests", err)
	}
	return FromDataModelSlice(records), nil
}

// Resolve applies an approve, reject or revoke decision. The lifecycle
// table decides legality; an approved grant can only be revoked, never
// retroactively rejected.
func (s *Service) Resolve(actor auth.Actor, id string, dto ResolveDTO) (*AccessRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}

	if err := s.perm.CanResolveAccessRequest(actor, record.DepartmentID); err != nil {
		return nil, err
	}

	target, _ := dto.TargetStatus()
	if !LegalResolution(record.Status, target) {
		s.logger.Warn("illegal access request resolution",
			"request_id", id,
			"from", record.Status,
			"to", target,
			"actor", actor.Email)
		return nil, internal.ErrIllegalResolve
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(id, target, actor.Email, now); err != nil {
		s.logger.Error("failed to resolve access request", "request_id", id, "error", err)
		return nil, internal.NewInternalError("failed to resolve access request", err)
	}

	s.logger.Info("access request resolved",
		"request_id", id,
		"status", target,
		"resolved_by", actor.Email)

	s.eventBus.Publish(context.Background(),
		events.NewAccessRequestResolvedEvent(id, record.InfluencerID, record.RequesterEmail, target, actor.Email))

	record.Status = target
	record.ResolvedAt = &now
	record.ResolvedBy = actor.Email
	return FromDataModel(record), nil
}
