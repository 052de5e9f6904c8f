package influencer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	influencerDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/influencer"
	"github.com/nxthub/influencer-ops/internal/permission"
)

type Repository interface {
	List() ([]*influencerDatamodel.Influencer, error)
	GetByID(id string) (*influencerDatamodel.Influencer, error)
	// FindByPAN matches a normalized PAN; internal.ErrInfluencerNotFound
	// means the PAN is unclaimed.
	FindByPAN(pan string) (*influencerDatamodel.Influencer, error)
	Create(i *influencerDatamodel.Influencer) error
	Update(i *influencerDatamodel.Influencer) error
	Delete(id string) error
	RecordPromotion(id, promotedBy string, promoDate time.Time, pricePaid int64) error
}

// GrantChecker reports which influencers an executive may see unredacted.
// Backed by approved access requests.
type GrantChecker interface {
	HasApprovedGrant(requesterEmail, influencerID string) (bool, error)
	ApprovedInfluencerIDs(requesterEmail string) (map[string]struct{}, error)
}

type Service struct {
	repo   Repository
	perm   permission.Evaluator
	grants GrantChecker
	logger *slog.Logger
}

func NewService(repo Repository, perm permission.Evaluator, grants GrantChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		perm:   perm,
		grants: grants,
		logger: logger,
	}
}

// List returns the influencer roster with the mobile column redacted for
// actors without viewing rights. Redaction happens here, server-side;
// the restricted value never leaves the API for an unentitled actor.
func (s *Service) List(actor auth.Actor) ([]*Influencer, error) {
	records, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list influencers", "error", err)
		return nil, internal.NewInternalError("failed to list influencers", err)
	}

	var granted map[string]struct{}
	if actor.Role == auth.RoleExecutive {
		granted, err = s.grants.ApprovedInfluencerIDs(actor.Email)
		if err != nil {
			return nil, internal.NewInternalError("failed to load access grants", err)
		}
	}

	result := make([]*Influencer, len(records))
	for idx, record := range records {
		inf := FromDataModel(record)
		hasGrant := false
		if granted != nil {
			_, hasGrant = granted[inf.ID]
		}
		if !s.perm.CanViewMobile(actor, hasGrant) {
			inf.Redact()
		}
		result[idx] = inf
	}
	return result, nil
}

func (s *Service) Get(actor auth.Actor, id string) (*Influencer, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrInfluencerNotFound
	}

	inf := FromDataModel(record)
	hasGrant := false
	if actor.Role == auth.RoleExecutive {
		hasGrant, err = s.grants.HasApprovedGrant(actor.Email, id)
		if err != nil {
			return nil, internal.NewInternalError("failed to check access grant", err)
		}
	}
	if !s.perm.CanViewMobile(actor, hasGrant) {
		inf.Redact()
	}
	return inf, nil
}

func (s *Service) Create(actor auth.Actor, dto CreateInfluencerDTO) (*Influencer, error) {
	if err := s.perm.CanCreateInfluencer(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	pan := NormalizePAN(dto.PAN)
	if pan != "" {
		if err := s.ensurePANFree(pan, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	record := &influencerDatamodel.Influencer{
		ID:                uuid.NewString(),
		Name:              dto.Name,
		Handle:            dto.Handle,
		Avatar:            dto.Avatar,
		Category:          dto.Category,
		Type:              dto.Type,
		Language:          dto.Language,
		Location:          dto.Location,
		Email:             dto.Email,
		Mobile:            dto.Mobile,
		PAN:               pan,
		InstagramUsername: dto.InstagramUsername,
		InstagramChannel:  dto.InstagramChannel,
		YoutubeUsername:   dto.YoutubeUsername,
		YoutubeChannel:    dto.YoutubeChannel,
		CreatedBy:         actor.Email,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create influencer", "error", err)
		return nil, internal.NewInternalError("failed to create influencer", err)
	}

	s.logger.Info("influencer created", "influencer_id", record.ID, "created_by", actor.Email)
	return FromDataModel(record), nil
}

func (s *Service) Update(actor auth.Actor, id string, dto UpdateInfluencerDTO) (*Influencer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrInfluencerNotFound
	}

	if err := s.perm.CanEditInfluencer(actor, permission.InfluencerTarget{CreatedBy: record.CreatedBy}); err != nil {
		return nil, err
	}

	if dto.PAN != nil {
		pan := NormalizePAN(*dto.PAN)
		if pan != "" {
			if err := s.ensurePANFree(pan, id); err != nil {
				return nil, err
			}
		}
		record.PAN = pan
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&record.Name, dto.Name)
	applyString(&record.Handle, dto.Handle)
	applyString(&record.Avatar, dto.Avatar)
	applyString(&record.Category, dto.Category)
	applyString(&record.Type, dto.Type)
	applyString(&record.Language, dto.Language)
	applyString(&record.Location, dto.Location)
	applyString(&record.Email, dto.Email)
	applyString(&record.Mobile, dto.Mobile)
	applyString(&record.InstagramUsername, dto.InstagramUsername)
	applyString(&record.InstagramChannel, dto.InstagramChannel)
	applyString(&record.YoutubeUsername, dto.YoutubeUsername)
	applyString(&record.YoutubeChannel, dto.YoutubeChannel)
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update influencer", "influencer_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update influencer", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) Delete(actor auth.Actor, id string) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrInfluencerNotFound
	}

	if err := s.perm.CanDeleteInfluencer(actor, permission.InfluencerTarget{CreatedBy: record.CreatedBy}); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete influencer", "influencer_id", id, "error", err)
		return internal.NewInternalError("failed to delete influencer", err)
	}

	s.logger.Info("influencer deleted", "influencer_id", id, "deleted_by", actor.Email)
	return nil
}

// CheckPAN backs the registration form's availability probe. ExcludeID
// lets the edit form skip the record being edited.
func (s *Service) CheckPAN(actor auth.Actor, dto PANCheckDTO) (*PANCheckResult, error) {
	pan := NormalizePAN(dto.PAN)
	result := &PANCheckResult{PAN: pan}

	if !ValidPAN(pan) {
		return result, nil
	}
	result.Valid = true

	err := s.ensurePANFree(pan, dto.ExcludeID)
	switch {
	case err == nil:
		result.Available = true
	case err == internal.ErrPANTaken:
		result.Available = false
	default:
		return nil, err
	}
	return result, nil
}

func (s *Service) ensurePANFree(pan, excludeID string) error {
	existing, err := s.repo.FindByPAN(pan)
	if err != nil {
		if err == internal.ErrInfluencerNotFound {
			return nil
		}
		return internal.NewInternalError("failed to check PAN uniqueness", err)
	}
	if existing.ID == excludeID {
		return nil
	}
	return internal.ErrPANTaken
}
