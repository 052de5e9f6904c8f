package accessrequest_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/accessrequest"
	"github.com/nxthub/influencer-ops/internal/auth"
	accessrequestDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/accessrequest"
	"github.com/nxthub/influencer-ops/internal/core/events"
	"github.com/nxthub/influencer-ops/internal/permission"
)

func TestAccessRequestService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Access Request Service Suite")
}

// Mock repository for testing
type mockRequestRepository struct {
	requests    map[string]*accessrequestDatamodel.AccessRequest
	createError error
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{requests: make(map[string]*accessrequestDatamodel.AccessRequest)}
}

func (m *mockRequestRepository) List() ([]*accessrequestDatamodel.AccessRequest, error) {
	var result []*accessrequestDatamodel.AccessRequest
	for _, r := range m.requests {
		result = append(result, r)
	}
	return result, nil
}

func (m *mockRequestRepository) ListByDepartment(departmentID string) ([]*accessrequestDatamodel.AccessRequest, error) {
	var result []*accessrequestDatamodel.AccessRequest
	for _, r := range m.requests {
		if r.DepartmentID == departmentID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) ListByRequester(email string) ([]*accessrequestDatamodel.AccessRequest, error) {
	var result []*accessrequestDatamodel.AccessRequest
	for _, r := range m.requests {
		if r.RequesterEmail == email {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) GetByID(id string) (*accessrequestDatamodel.AccessRequest, error) {
	r, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrRequestNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *mockRequestRepository) Create(r *accessrequestDatamodel.AccessRequest) error {
	if m.createError != nil {
		return m.createError
	}
	m.requests[r.ID] = r
	return nil
}

func (m *mockRequestRepository) UpdateStatus(id, status, resolvedBy string, resolvedAt time.Time) error {
	r, exists := m.requests[id]
	if !exists {
		return internal.ErrRequestNotFound
	}
	r.Status = status
	r.ResolvedBy = resolvedBy
	r.ResolvedAt = &resolvedAt
	return nil
}

func (m *mockRequestRepository) HasPending(requesterEmail, influencerID string) (bool, error) {
	for _, r := range m.requests {
		if r.RequesterEmail == requesterEmail && r.InfluencerID == influencerID && r.Status == accessrequest.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

// Mock influencer directory
type mockInfluencerDirectory struct {
	names map[string]string
}

func (m *mockInfluencerDirectory) GetNameByID(id string) (string, error) {
	name, exists := m.names[id]
	if !exists {
		return "", internal.ErrInfluencerNotFound
	}
	return name, nil
}

// Mock event bus
type mockEventBus struct {
	published []events.Event
}

func (m *mockEventBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("AccessRequestService", func() {
	var (
		service   *accessrequest.Service
		mockRepo  *mockRequestRepository
		mockBus   *mockEventBus
		directory *mockInfluencerDirectory
		logger    *slog.Logger

		manager   auth.Actor
		executive auth.Actor
		admin     auth.Actor
	)

	newService := func(allowDuplicatePending bool) *accessrequest.Service {
		return accessrequest.NewService(mockRepo, directory, permission.NewEvaluator(), mockBus, allowDuplicatePending, logger)
	}

	seedRequest := func(id, requesterEmail, influencerID, departmentID, status string) *accessrequestDatamodel.AccessRequest {
		r := &accessrequestDatamodel.AccessRequest{
			ID:             id,
			RequesterID:    "u-2",
			RequesterName:  "Kabir",
			RequesterEmail: requesterEmail,
			InfluencerID:   influencerID,
			InfluencerName: "Riya Stories",
			DepartmentID:   departmentID,
			Status:         status,
			CreatedAt:      time.Now(),
		}
		mockRepo.requests[id] = r
		return r
	}

	BeforeEach(func() {
		mockRepo = newMockRequestRepository()
		mockBus = &mockEventBus{}
		directory = &mockInfluencerDirectory{names: map[string]string{"inf-1": "Riya Stories", "inf-2": "Dev Vlogs"}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = newService(false)

		manager = auth.Actor{ID: "u-1", Name: "Meera", Email: "meera@corp.in", Role: auth.RoleManager, Department: "Growth", DepartmentID: "dept-growth"}
		executive = auth.Actor{ID: "u-2", Name: "Kabir", Email: "kabir@corp.in", Role: auth.RoleExecutive, Department: "Growth", DepartmentID: "dept-growth"}
		admin = auth.Actor{ID: "u-3", Name: "Root", Email: "admin@corp.in", Role: auth.RoleSuperAdmin}
	})

	Describe("Create", func() {
		It("lets an executive raise a pending request", func() {
			result, err := service.Create(executive, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(accessrequest.StatusPending))
			Expect(result.RequesterEmail).To(Equal(executive.Email))
			Expect(result.InfluencerName).To(Equal("Riya Stories"))
			Expect(result.DepartmentID).To(Equal("dept-growth"))
		})

		It("rejects requests from roles that already see mobile numbers", func() {
			_, err := service.Create(manager, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("refuses a requester with no department instead of storing an unresolvable request", func() {
			orphan := auth.Actor{ID: "u-9", Name: "Solo", Email: "solo@corp.in", Role: auth.RoleExecutive}

			_, err := service.Create(orphan, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			Expect(err).To(Equal(internal.ErrRequesterNeedsDepartment))
			Expect(mockRepo.requests).To(BeEmpty())
		})

		It("rejects requests for unknown influencers", func() {
			_, err := service.Create(executive, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-missing"})

			Expect(err).To(Equal(internal.ErrInfluencerNotFound))
		})

		It("rejects a second pending request for the same influencer", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)

			_, err := service.Create(executive, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			Expect(err).To(Equal(internal.ErrDuplicateRequest))
		})

		It("allows a new request once the earlier one is resolved", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusRejected)

			_, err := service.Create(executive, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			Expect(err).ToNot(HaveOccurred())
		})

		It("allows duplicate pending requests when configured to", func() {
			service = newService(true)
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)

			_, err := service.Create(executive, accessrequest.CreateAccessRequestDTO{InfluencerID: "inf-1"})

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("ListForResolver", func() {
		BeforeEach(func() {
			seedRequest("r-1", "kabir@corp.in", "inf-1", "dept-growth", accessrequest.StatusPending)
			seedRequest("r-2", "asha@corp.in", "inf-2", "dept-brand", accessrequest.StatusPending)
		})

		It("gives admins the full queue", func() {
			result, err := service.ListForResolver(admin)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(2))
		})

		It("scopes managers to their department", func() {
			result, err := service.ListForResolver(manager)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("r-1"))
		})

		It("refuses executives", func() {
			_, err := service.ListForResolver(executive)

			Expect(err).To(Equal(internal.ErrReadOnlyObserver))
		})
	})

	Describe("ListMine", func() {
		It("returns only the actor's own requests", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)
			seedRequest("r-2", "asha@corp.in", "inf-2", "dept-brand", accessrequest.StatusApproved)

			result, err := service.ListMine(executive)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("r-1"))
		})
	})

	Describe("Resolve", func() {
		It("approves a pending request and records the resolver", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)

			result, err := service.Resolve(manager, "r-1", accessrequest.ResolveDTO{Action: "approve"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(accessrequest.StatusApproved))
			Expect(result.ResolvedBy).To(Equal(manager.Email))
			Expect(result.ResolvedAt).ToNot(BeNil())
		})

		It("publishes a resolution event", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)

			_, err := service.Resolve(manager, "r-1", accessrequest.ResolveDTO{Action: "reject"})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventAccessRequestResolved))
		})

		It("revokes an approved grant", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusApproved)

			result, err := service.Resolve(admin, "r-1", accessrequest.ResolveDTO{Action: "revoke"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(accessrequest.StatusRevoked))
		})

		It("never rejects an already approved grant", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusApproved)

			_, err := service.Resolve(admin, "r-1", accessrequest.ResolveDTO{Action: "reject"})

			Expect(err).To(Equal(internal.ErrIllegalResolve))
		})

		It("treats rejected and revoked as terminal", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusRejected)
			seedRequest("r-2", executive.Email, "inf-2", "dept-growth", accessrequest.StatusRevoked)

			_, err := service.Resolve(admin, "r-1", accessrequest.ResolveDTO{Action: "approve"})
			Expect(err).To(Equal(internal.ErrIllegalResolve))

			_, err = service.Resolve(admin, "r-2", accessrequest.ResolveDTO{Action: "approve"})
			Expect(err).To(Equal(internal.ErrIllegalResolve))
		})

		It("blocks a manager from another department", func() {
			seedRequest("r-1", "asha@corp.in", "inf-2", "dept-brand", accessrequest.StatusPending)

			_, err := service.Resolve(manager, "r-1", accessrequest.ResolveDTO{Action: "approve"})

			Expect(err).To(Equal(internal.ErrForeignDepartment))
		})

		It("rejects an unknown action verb", func() {
			seedRequest("r-1", executive.Email, "inf-1", "dept-growth", accessrequest.StatusPending)

			_, err := service.Resolve(admin, "r-1", accessrequest.ResolveDTO{Action: "escalate"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalResolve))
		})
	})
})
