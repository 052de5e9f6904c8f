package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/nxthub/influencer-ops/internal"
	"github.com/nxthub/influencer-ops/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	actors map[string]*auth.Actor
	hashes map[string]string
	ids    map[string]string
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		actors: make(map[string]*auth.Actor),
		hashes: make(map[string]string),
		ids:    make(map[string]string),
	}
}

func (m *mockAuthRepository) addUser(actor auth.Actor, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.actors[actor.ID] = &actor
	m.hashes[actor.Email] = string(hash)
	m.ids[actor.Email] = actor.ID
}

func (m *mockAuthRepository) GetCredentials(email string) (string, string, error) {
	hash, exists := m.hashes[email]
	if !exists {
		return "", "", internal.ErrUserNotFound
	}
	return hash, m.ids[email], nil
}

func (m *mockAuthRepository) GetActorByID(userID string) (*auth.Actor, error) {
	actor, exists := m.actors[userID]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return actor, nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-thirty-two-byte",
			"test-refresh-secret-thirty-two-bt",
			15*time.Minute,
			7*24*time.Hour,
		)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, logger)

		mockRepo.addUser(auth.Actor{
			ID: "u-1", Name: "Meera", Email: "meera@corp.in",
			Role: auth.RoleManager, Department: "Growth", DepartmentID: "dept-growth",
		}, "correct-password")
	})

	Describe("Authenticate", func() {
		It("returns tokens and the actor on valid credentials", func() {
			result, err := service.Authenticate(auth.LoginDTO{Email: "meera@corp.in", Password: "correct-password"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Tokens.AccessToken).ToNot(BeEmpty())
			Expect(result.Tokens.RefreshToken).ToNot(BeEmpty())
			Expect(result.Actor.Email).To(Equal("meera@corp.in"))
			Expect(result.Actor.Role).To(Equal(auth.RoleManager))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "meera@corp.in", Password: "wrong"})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a bad password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@corp.in", Password: "anything"})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("blocks a manager without a department at login", func() {
			mockRepo.addUser(auth.Actor{
				ID: "u-2", Name: "Lead", Email: "lead@corp.in", Role: auth.RoleManager,
			}, "correct-password")

			_, err := service.Authenticate(auth.LoginDTO{Email: "lead@corp.in", Password: "correct-password"})

			Expect(err).To(Equal(internal.ErrManagerNeedsDepartment))
		})

		It("lets an executive without a department in", func() {
			mockRepo.addUser(auth.Actor{
				ID: "u-3", Name: "Solo", Email: "solo@corp.in", Role: auth.RoleExecutive,
			}, "correct-password")

			_, err := service.Authenticate(auth.LoginDTO{Email: "solo@corp.in", Password: "correct-password"})

			Expect(err).ToNot(HaveOccurred())
		})

		It("requires both email and password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "meera@corp.in"})
			Expect(err).To(HaveOccurred())

			_, err = service.Authenticate(auth.LoginDTO{Password: "correct-password"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a new pair from a valid refresh token", func() {
			result, err := service.Authenticate(auth.LoginDTO{Email: "meera@corp.in", Password: "correct-password"})
			Expect(err).ToNot(HaveOccurred())

			tokens, err := service.RefreshTokens(result.Tokens.RefreshToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.AccessToken).ToNot(BeEmpty())
			Expect(tokens.RefreshToken).ToNot(BeEmpty())
		})

		It("rejects garbage input", func() {
			_, err := service.RefreshTokens("not-a-token")

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips the claims", func() {
			result, err := service.Authenticate(auth.LoginDTO{Email: "meera@corp.in", Password: "correct-password"})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateAccessToken(result.Tokens.AccessToken)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("u-1"))
			Expect(claims.Email).To(Equal("meera@corp.in"))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator("another-access-secret-entirely!!", "another-refresh-secret-entirely!", 15*time.Minute, 7*24*time.Hour)
			token, err := other.GenerateAccessToken("u-1", "meera@corp.in")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})

var _ = Describe("Role", func() {
	It("parses known roles case-insensitively", func() {
		role, ok := auth.ParseRole(" Manager ")
		Expect(ok).To(BeTrue())
		Expect(role).To(Equal(auth.RoleManager))
	})

	It("rejects unknown roles", func() {
		_, ok := auth.ParseRole("supervisor")
		Expect(ok).To(BeFalse())
	})

	It("places only admin and super_admin in the admin tier", func() {
		Expect(auth.RoleAdmin.AdminTier()).To(BeTrue())
		Expect(auth.RoleSuperAdmin.AdminTier()).To(BeTrue())
		Expect(auth.RoleManager.AdminTier()).To(BeFalse())
		Expect(auth.RoleExecutive.AdminTier()).To(BeFalse())
	})
})
