package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	campaignDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/campaign"
	departmentDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/department"
	influencerDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/influencer"
	userDatamodel "github.com/nxthub/influencer-ops/internal/core/datamodel/user"
	"github.com/nxthub/influencer-ops/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Storage)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data")
			db.Exec("DELETE FROM access_requests")
			db.Exec("DELETE FROM campaigns")
			db.Exec("DELETE FROM influencers")
			db.Exec("DELETE FROM users")
			db.Exec("DELETE FROM departments")
		}

		now := time.Now()
		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		departments := []departmentDatamodel.Department{
			{ID: uuid.NewString(), Name: "Growth", HodName: "Meera Pillai", CreatedAt: now, UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Brand", HodName: "Arjun Rao", CreatedAt: now, UpdatedAt: now},
		}
		deptIDs := make(map[string]string)
		for i := range departments {
			d := &departments[i]
			var count int64
			db.Model(&departmentDatamodel.Department{}).Where("LOWER(name) = LOWER(?)", d.Name).Count(&count)
			if count > 0 {
				var existing departmentDatamodel.Department
				db.Where("LOWER(name) = LOWER(?)", d.Name).First(&existing)
				deptIDs[d.Name] = existing.ID
				fmt.Println("department already exists:", d.Name)
				continue
			}
			if err := db.Create(d).Error; err != nil {
				log.Fatalf("failed to seed department %s: %v", d.Name, err)
			}
			deptIDs[d.Name] = d.ID
			fmt.Println("Seeded department:", d.Name)
		}

		users := []userDatamodel.User{
			{ID: uuid.NewString(), Name: "Site Admin", Email: "admin@nxthub.io", Role: "super_admin", CreatedAt: now, UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Meera Pillai", Email: "meera@nxthub.io", Role: "manager", DepartmentID: deptIDs["Growth"], CreatedAt: now, UpdatedAt: now},
			{ID: uuid.NewString(), Name: "Kabir Shah", Email: "kabir@nxthub.io", Role: "executive", DepartmentID: deptIDs["Growth"], CreatedAt: now, UpdatedAt: now},
		}
		for i := range users {
			u := &users[i]
			var count int64
			db.Model(&userDatamodel.User{}).Where("LOWER(email) = LOWER(?)", u.Email).Count(&count)
			if count > 0 {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			u.PasswordHash = string(hash)
			u.Avatar = user.AvatarURL(u.Name)
			if err := db.Create(u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		influencers := []influencerDatamodel.Influencer{
			{
				ID: uuid.NewString(), Name: "Ananya Verma", Handle: "@ananya.codes",
				Category: "Tech", Type: "Macro", Language: "Hindi", Location: "Bengaluru",
				Email: "ananya@creatorhub.in", Mobile: "9876543210", PAN: "ABCDE1234F",
				InstagramUsername: "ananya.codes", CreatedBy: "meera@nxthub.io",
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: uuid.NewString(), Name: "Rohit Menon", Handle: "@rohit.eats",
				Category: "Food", Type: "Micro", Language: "Malayalam", Location: "Kochi",
				Email: "rohit@creatorhub.in", Mobile: "9123456780", PAN: "FGHIJ5678K",
				YoutubeUsername: "rohiteats", CreatedBy: "kabir@nxthub.io",
				CreatedAt: now, UpdatedAt: now,
			},
		}
		for i := range influencers {
			inf := &influencers[i]
			var count int64
			db.Model(&influencerDatamodel.Influencer{}).Where("UPPER(pan) = UPPER(?)", inf.PAN).Count(&count)
			if count > 0 {
				fmt.Println("influencer already exists:", inf.Name)
				continue
			}
			if err := db.Create(inf).Error; err != nil {
				log.Fatalf("failed to seed influencer %s: %v", inf.Name, err)
			}
			fmt.Println("Seeded influencer:", inf.Name)
		}

		var campaignCount int64
		db.Model(&campaignDatamodel.Campaign{}).Count(&campaignCount)
		if campaignCount == 0 && len(influencers) > 0 {
			c := campaignDatamodel.Campaign{
				ID:           uuid.NewString(),
				Name:         "Diwali Launch Teasers",
				InfluencerID: influencers[0].ID,
				DepartmentID: deptIDs["Growth"],
				Status:       "Pending",
				Budget:       250000,
				StartDate:    now.AddDate(0, 0, 14),
				Deliverables: "3 reels, 1 story set",
				CreatedBy:    "kabir@nxthub.io",
				CreatedAt:    now,
				LastUpdated:  now,
				Version:      1,
			}
			if err := db.Create(&c).Error; err != nil {
				log.Fatalf("failed to seed campaign: %v", err)
			}
			fmt.Println("Seeded campaign:", c.Name)
		}

		fmt.Println("Seeding complete")
	},
}
