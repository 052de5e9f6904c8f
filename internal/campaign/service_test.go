package campaign_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
	"github.com/nxthub/influencer-ops/internal/campaign"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
	"github.com/nxthub/influencer-ops/internal/core/events"
	"github.com/nxthub/influencer-ops/internal/permission"
)

func TestCampaignService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Campaign Service Suite")
}

// Mock repository for testing
type mockCampaignRepository struct {
	campaigns   map[string]*campaignDatamodel.Campaign
	createError error
	listError   error
}

func newMockCampaignRepository() *mockCampaignRepository {
	return &mockCampaignRepository{campaigns: make(map[string]*campaignDatamodel.Campaign)}
}

func (m *mockCampaignRepository) List(filter campaign.RepoFilter) ([]*campaignDatamodel.Campaign, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []*campaignDatamodel.Campaign
	for _, c := range m.campaigns {
		if filter.DepartmentID != "" && c.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCampaignRepository) GetByID(id string) (*campaignDatamodel.Campaign, error) {
	c, exists := m.campaigns[id]
	if !exists {
		return nil, internal.ErrCampaignNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCampaignRepository) Create(c *campaignDatamodel.Campaign) error {
	if m.createError != nil {
		return m.createError
	}
	m.campaigns[c.ID] = c
	return nil
}

func (m *mockCampaignRepository) UpdateWithVersion(id string, expectedVersion int64, updates map[string]interface{}) error {
	c, exists := m.campaigns[id]
	if !exists {
		return internal.ErrCampaignNotFound
	}
	if c.Version != expectedVersion {
		return internal.ErrStaleVersion
	}

	for key, value := range updates {
		switch key {
		case "name":
			c.Name = value.(string)
		case "influencer_id":
			c.InfluencerID = value.(string)
		case "budget":
			c.Budget = value.(int64)
		case "start_date":
			c.StartDate = value.(time.Time)
		case "deliverables":
			c.Deliverables = value.(string)
		case "status":
			c.Status = value.(string)
		case "status_changed_at":
			t := value.(time.Time)
			c.StatusChangedAt = &t
		case "status_changed_by":
			c.StatusChangedBy = value.(string)
		case "status_change_summary":
			c.StatusChangeSummary = value.(string)
		case "completion_date":
			t := value.(time.Time)
			c.CompletionDate = &t
		case "completion_summary":
			c.CompletionSummary = value.(string)
		case "end_date":
			t := value.(time.Time)
			c.EndDate = &t
		case "last_updated":
			c.LastUpdated = value.(time.Time)
		}
	}
	c.Version++
	return nil
}

func (m *mockCampaignRepository) Delete(id string) error {
	if _, exists := m.campaigns[id]; !exists {
		return internal.ErrCampaignNotFound
	}
	delete(m.campaigns, id)
	return nil
}

// Mock department directory
type mockDepartmentDirectory struct {
	byID   map[string]string
	byName map[string]string
}

func newMockDepartmentDirectory() *mockDepartmentDirectory {
	return &mockDepartmentDirectory{
		byID:   map[string]string{"dept-growth": "Growth", "dept-brand": "Brand"},
		byName: map[string]string{"growth": "dept-growth", "brand": "dept-brand"},
	}
}

func (m *mockDepartmentDirectory) ResolveName(id string) (string, error) {
	return m.byID[id], nil
}

func (m *mockDepartmentDirectory) ResolveID(name string) (string, error) {
	if id, ok := m.byName[strings.ToLower(name)]; ok {
		return id, nil
	}
	return "", internal.ErrUnknownDepartment
}

func (m *mockDepartmentDirectory) NameIndex() (map[string]string, error) {
	return m.byID, nil
}

// Mock event bus
type mockEventBus struct {
	published []events.Event
}

func (m *mockEventBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("CampaignService", func() {
	var (
		service  *campaign.Service
		mockRepo *mockCampaignRepository
		mockBus  *mockEventBus
		logger   *slog.Logger

		manager   auth.Actor
		executive auth.Actor
		admin     auth.Actor
	)

	seedCampaign := func(id, status, departmentID, createdBy string) *campaignDatamodel.Campaign {
		c := &campaignDatamodel.Campaign{
			ID:           id,
			Name:         "Festive Push",
			InfluencerID: "inf-1",
			DepartmentID: departmentID,
			Status:       status,
			Budget:       100000,
			StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			CreatedBy:    createdBy,
			CreatedAt:    time.Now(),
			LastUpdated:  time.Now(),
			Version:      1,
		}
		mockRepo.campaigns[id] = c
		return c
	}

	BeforeEach(func() {
		mockRepo = newMockCampaignRepository()
		mockBus = &mockEventBus{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = campaign.NewService(mockRepo, newMockDepartmentDirectory(), permission.NewEvaluator(), mockBus, logger)

		manager = auth.Actor{ID: "u-1", Name: "Meera", Email: "meera@corp.in", Role: auth.RoleManager, Department: "Growth", DepartmentID: "dept-growth"}
		executive = auth.Actor{ID: "u-2", Name: "Kabir", Email: "kabir@corp.in", Role: auth.RoleExecutive, Department: "Growth", DepartmentID: "dept-growth"}
		admin = auth.Actor{ID: "u-3", Name: "Root", Email: "admin@corp.in", Role: auth.RoleSuperAdmin}
	})

	Describe("Create", func() {
		It("always enters the workflow as Pending", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Spring Launch",
				InfluencerID: "inf-9",
				Budget:       50000,
				StartDate:    "2026-04-01",
			}

			result, err := service.Create(manager, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusPending))
			Expect(result.CreatedBy).To(Equal(manager.Email))
			Expect(result.Version).To(Equal(int64(1)))
		})

		It("binds non-admin creators to their own department", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Cross Dept Attempt",
				InfluencerID: "inf-9",
				Department:   "Brand",
				Budget:       50000,
				StartDate:    "2026-04-01",
			}

			result, err := service.Create(executive, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Department).To(Equal("Growth"))
		})

		It("lets an admin create for any department", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Brand Blitz",
				InfluencerID: "inf-9",
				Department:   "Brand",
				Budget:       50000,
				StartDate:    "2026-04-01",
			}

			result, err := service.Create(admin, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Department).To(Equal("Brand"))
		})

		It("rejects an unknown department", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Nowhere",
				InfluencerID: "inf-9",
				Department:   "Ghost",
				Budget:       50000,
				StartDate:    "2026-04-01",
			}

			_, err := service.Create(admin, dto)

			Expect(err).To(Equal(internal.ErrUnknownDepartment))
		})

		It("rejects a negative budget", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Refund Us",
				InfluencerID: "inf-9",
				Budget:       -1,
				StartDate:    "2026-04-01",
			}

			_, err := service.Create(manager, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidBudget))
		})

		It("allows a zero budget for unpaid collaborations", func() {
			dto := campaign.CreateCampaignDTO{
				Name:         "Barter Deal",
				InfluencerID: "inf-9",
				Budget:       0,
				StartDate:    "2026-04-01",
			}

			result, err := service.Create(manager, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Budget).To(Equal(int64(0)))
		})
	})

	Describe("Transition", func() {
		It("lets a manager approve a pending campaign in their department", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			result, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusApproved,
				Summary: "budget cleared with finance",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusApproved))
			Expect(result.StatusChangedBy).To(Equal(manager.Email))
			Expect(result.StatusChangeSummary).To(Equal("budget cleared with finance"))
			Expect(result.StatusChangedAt).ToNot(BeNil())
			Expect(result.Version).To(Equal(int64(2)))
		})

		It("publishes a status change event", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			_, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusRejected,
				Summary: "influencer unavailable",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventCampaignStatusChanged))
		})

		It("requires a justification summary and leaves the campaign untouched without one", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			_, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusApproved,
				Summary: "   ",
			})

			Expect(err).To(Equal(internal.ErrSummaryRequired))
			Expect(mockRepo.campaigns["c-1"].Status).To(Equal(campaign.StatusPending))
			Expect(mockRepo.campaigns["c-1"].Version).To(Equal(int64(1)))
		})

		It("rejects transitions out of a resolved status", func() {
			seedCampaign("c-1", campaign.StatusRejected, "dept-growth", executive.Email)

			_, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusApproved,
				Summary: "changed our mind",
			})

			Expect(err).To(Equal(internal.ErrIllegalTransition))
		})

		It("rejects Completed as a direct transition target", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			_, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusCompleted,
				Summary: "skipping approval",
			})

			Expect(err).To(Equal(internal.ErrIllegalTransition))
		})

		It("denies executives even on campaigns they created", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			_, err := service.Transition(executive, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusApproved,
				Summary: "approving my own work",
			})

			Expect(err).To(Equal(internal.ErrReadOnlyObserver))
		})

		It("denies managers on another department's campaign", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-brand", "someone@corp.in")

			_, err := service.Transition(manager, "c-1", campaign.TransitionDTO{
				Status:  campaign.StatusApproved,
				Summary: "reaching across",
			})

			Expect(err).To(Equal(internal.ErrForeignDepartment))
		})
	})

	Describe("Complete", func() {
		It("completes an approved campaign and sets the end date", func() {
			seedCampaign("c-1", campaign.StatusApproved, "dept-growth", executive.Email)

			result, err := service.Complete(manager, "c-1", campaign.CompleteDTO{
				CompletionDate: "2026-03-15",
				Summary:        "all deliverables posted",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(campaign.StatusCompleted))
			Expect(result.CompletionDate).ToNot(BeNil())
			Expect(result.EndDate).ToNot(BeNil())
			Expect(*result.EndDate).To(Equal(*result.CompletionDate))
			Expect(result.CompletionSummary).To(Equal("all deliverables posted"))
		})

		It("publishes a completion event carrying the payout details", func() {
			seedCampaign("c-1", campaign.StatusApproved, "dept-growth", executive.Email)

			_, err := service.Complete(manager, "c-1", campaign.CompleteDTO{
				CompletionDate: "2026-03-15",
				Summary:        "wrapped",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventCampaignCompleted))
			payload := mockBus.published[0].Payload().(map[string]interface{})
			Expect(payload["influencer_id"]).To(Equal("inf-1"))
			Expect(payload["budget"]).To(Equal(int64(100000)))
		})

		It("refuses to complete a pending campaign", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			_, err := service.Complete(manager, "c-1", campaign.CompleteDTO{
				CompletionDate: "2026-03-15",
				Summary:        "too eager",
			})

			Expect(err).To(Equal(internal.ErrIllegalTransition))
		})

		It("refuses a completion date before the start date", func() {
			seedCampaign("c-1", campaign.StatusApproved, "dept-growth", executive.Email)

			_, err := service.Complete(manager, "c-1", campaign.CompleteDTO{
				CompletionDate: "2026-02-01",
				Summary:        "finished before we started",
			})

			Expect(err).To(Equal(internal.ErrCompletionBeforeStart))
			Expect(mockRepo.campaigns["c-1"].Status).To(Equal(campaign.StatusApproved))
		})

		It("accepts a completion date in the future", func() {
			seedCampaign("c-1", campaign.StatusApproved, "dept-growth", executive.Email)

			_, err := service.Complete(manager, "c-1", campaign.CompleteDTO{
				CompletionDate: "2030-01-01",
				Summary:        "scheduled wrap",
			})

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("lets an executive edit a campaign they created", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)

			newBudget := int64(175000)
			result, err := service.Update(executive, "c-1", campaign.UpdateCampaignDTO{Budget: &newBudget})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Budget).To(Equal(newBudget))
			Expect(result.Version).To(Equal(int64(2)))
		})

		It("denies an executive on a campaign someone else created", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", "other@corp.in")

			newBudget := int64(175000)
			_, err := service.Update(executive, "c-1", campaign.UpdateCampaignDTO{Budget: &newBudget})

			Expect(err).To(Equal(internal.ErrReadOnlyObserver))
		})

		It("rejects an edit made against a stale version", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)
			mockRepo.campaigns["c-1"].Version = 3

			newBudget := int64(175000)
			_, err := service.Update(executive, "c-1", campaign.UpdateCampaignDTO{Budget: &newBudget, Version: 2})

			Expect(err).To(Equal(internal.ErrStaleVersion))
		})
	})

	Describe("Delete", func() {
		It("denies a manager on another department's campaign", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-brand", "someone@corp.in")

			err := service.Delete(manager, "c-1")

			Expect(err).To(Equal(internal.ErrForeignDepartment))
			Expect(mockRepo.campaigns).To(HaveKey("c-1"))
		})

		It("lets an admin delete any campaign", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-brand", "someone@corp.in")

			err := service.Delete(admin, "c-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.campaigns).ToNot(HaveKey("c-1"))
		})
	})

	Describe("List", func() {
		It("resolves department display names", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)
			seedCampaign("c-2", campaign.StatusApproved, "dept-brand", "other@corp.in")

			result, err := service.List(executive, campaign.ListFilter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(2))
			names := []string{result[0].Department, result[1].Department}
			Expect(names).To(ConsistOf("Growth", "Brand"))
		})

		It("filters by department name", func() {
			seedCampaign("c-1", campaign.StatusPending, "dept-growth", executive.Email)
			seedCampaign("c-2", campaign.StatusApproved, "dept-brand", "other@corp.in")

			result, err := service.List(executive, campaign.ListFilter{Department: "Brand"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal("c-2"))
		})

		It("surfaces repository failures", func() {
			mockRepo.listError = errors.New("connection reset")

			_, err := service.List(executive, campaign.ListFilter{})

			Expect(err).To(HaveOccurred())
		})
	})
})
