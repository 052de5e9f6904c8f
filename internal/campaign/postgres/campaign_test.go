package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/campaign"
	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
)

func TestCampaignRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CampaignRepository Suite")
}

type SQLiteCampaign struct {
	ID                  string     `gorm:"primaryKey"`
	Name                string     `gorm:"not null"`
	InfluencerID        string     `gorm:"column:influencer_id"`
	DepartmentID        string     `gorm:"column:department_id;not null"`
	Status              string     `gorm:"default:Pending"`
	Budget              int64      `gorm:"not null"`
	StartDate           time.Time  `gorm:"column:start_date"`
	EndDate             *time.Time `gorm:"column:end_date"`
	Deliverables        string     `gorm:"column:deliverables"`
	CreatedBy           string     `gorm:"column:created_by"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	StatusChangedAt     *time.Time `gorm:"column:status_changed_at"`
	StatusChangedBy     string     `gorm:"column:status_changed_by"`
	StatusChangeSummary string     `gorm:"column:status_change_summary"`
	CompletionDate      *time.Time `gorm:"column:completion_date"`
	CompletionSummary   string     `gorm:"column:completion_summary"`
	LastUpdated         time.Time  `gorm:"column:last_updated"`
	Version             int64      `gorm:"default:1"`
}

func (SQLiteCampaign) TableName() string {
	return "campaigns"
}

var _ = Describe("CampaignRepository", func() {
	var (
		db   *gorm.DB
		repo campaign.Repository
	)

	newCampaign := func(id, status string) *campaignDatamodel.Campaign {
		now := time.Now()
		return &campaignDatamodel.Campaign{
			ID:           id,
			Name:         "Festive Push",
			InfluencerID: "inf-1",
			DepartmentID: "dept-growth",
			Status:       status,
			Budget:       100000,
			StartDate:    now.AddDate(0, 0, -7),
			CreatedBy:    "meera@corp.in",
			CreatedAt:    now,
			LastUpdated:  now,
			Version:      1,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteCampaign{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewCampaignRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByID", func() {
		It("round-trips a campaign", func() {
			err := repo.Create(newCampaign("c-1", "Pending"))
			Expect(err).NotTo(HaveOccurred())

			record, err := repo.GetByID("c-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Name).To(Equal("Festive Push"))
			Expect(record.Version).To(Equal(int64(1)))
		})

		It("returns a typed not-found error", func() {
			_, err := repo.GetByID("missing")
			Expect(err).To(Equal(internal.ErrCampaignNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			c1 := newCampaign("c-1", "Pending")
			c2 := newCampaign("c-2", "Approved")
			c2.Name = "Brand Blitz"
			c2.DepartmentID = "dept-brand"
			Expect(repo.Create(c1)).To(Succeed())
			Expect(repo.Create(c2)).To(Succeed())
		})

		It("filters by department id", func() {
			records, err := repo.List(campaign.RepoFilter{DepartmentID: "dept-brand"})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("c-2"))
		})

		It("filters by status", func() {
			records, err := repo.List(campaign.RepoFilter{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("c-2"))
		})

		It("searches by name fragment, case-insensitively", func() {
			records, err := repo.List(campaign.RepoFilter{Search: "blitz"})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("c-2"))
		})
	})

	Describe("UpdateWithVersion", func() {
		BeforeEach(func() {
			Expect(repo.Create(newCampaign("c-1", "Pending"))).To(Succeed())
		})

		It("applies updates and bumps the version", func() {
			err := repo.UpdateWithVersion("c-1", 1, map[string]interface{}{
				"status":       "Approved",
				"last_updated": time.Now(),
			})
			Expect(err).NotTo(HaveOccurred())

			record, err := repo.GetByID("c-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal("Approved"))
			Expect(record.Version).To(Equal(int64(2)))
		})

		It("rejects a stale version without touching the row", func() {
			err := repo.UpdateWithVersion("c-1", 1, map[string]interface{}{"status": "Approved"})
			Expect(err).NotTo(HaveOccurred())

			err = repo.UpdateWithVersion("c-1", 1, map[string]interface{}{"status": "Rejected"})
			Expect(err).To(Equal(internal.ErrStaleVersion))

			record, getErr := repo.GetByID("c-1")
			Expect(getErr).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal("Approved"))
			Expect(record.Version).To(Equal(int64(2)))
		})

		It("distinguishes a missing row from a lost race", func() {
			err := repo.UpdateWithVersion("missing", 1, map[string]interface{}{"status": "Approved"})
			Expect(err).To(Equal(internal.ErrCampaignNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the row", func() {
			Expect(repo.Create(newCampaign("c-1", "Pending"))).To(Succeed())

			Expect(repo.Delete("c-1")).To(Succeed())

			_, err := repo.GetByID("c-1")
			Expect(err).To(Equal(internal.ErrCampaignNotFound))
		})

		It("reports a missing row", func() {
			Expect(repo.Delete("missing")).To(Equal(internal.ErrCampaignNotFound))
		})
	})
})
