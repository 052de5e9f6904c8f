package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/nxthub/influencer-ops/internal/accessrequest"
	"github.com/nxthub/influencer-ops/internal/auth"
	"github.com/nxthub/influencer-ops/internal/campaign"
	"github.com/nxthub/influencer-ops/internal/department"
	"github.com/nxthub/influencer-ops/internal/influencer"
	"github.com/nxthub/influencer-ops/internal/transport/middleware"
	"github.com/nxthub/influencer-ops/internal/transport/swagger"
	"github.com/nxthub/influencer-ops/internal/user"
)

type Handlers struct {
	Auth          *auth.Handler
	Campaign      *campaign.Handler
	Influencer    *influencer.Handler
	Department    *department.Handler
	User          *user.Handler
	AccessRequest *accessrequest.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, backend string, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, backend)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/me", h.Auth.CurrentActor)

			pr.Route("/campaigns", func(cr chi.Router) {
				cr.Get("/", h.Campaign.ListCampaigns)
				cr.Post("/", h.Campaign.CreateCampaign)
				cr.Get("/{id}", h.Campaign.GetCampaign)
				cr.Put("/{id}", h.Campaign.UpdateCampaign)
				cr.Delete("/{id}", h.Campaign.DeleteCampaign)
				cr.Post("/{id}/transition", h.Campaign.TransitionCampaign)
				cr.Post("/{id}/complete", h.Campaign.CompleteCampaign)
			})

			pr.Route("/influencers", func(ir chi.Router) {
				ir.Get("/", h.Influencer.ListInfluencers)
				ir.Post("/", h.Influencer.CreateInfluencer)
				ir.Post("/pan-check", h.Influencer.CheckPAN)
				ir.Get("/{id}", h.Influencer.GetInfluencer)
				ir.Put("/{id}", h.Influencer.UpdateInfluencer)
				ir.Delete("/{id}", h.Influencer.DeleteInfluencer)
			})

			pr.Route("/access-requests", func(ar chi.Router) {
				ar.Post("/", h.AccessRequest.CreateRequest)
				ar.Get("/", h.AccessRequest.ListRequests)
				ar.Get("/mine", h.AccessRequest.ListMyRequests)
				ar.Post("/{id}/resolve", h.AccessRequest.ResolveRequest)
			})

			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", h.Department.ListDepartments)
				dr.Get("/{id}", h.Department.GetDepartment)

				// Management routes are admin tier only
				dr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireAdminTier)
					mr.Post("/", h.Department.CreateDepartment)
					mr.Post("/import", h.Department.ImportDepartments)
					mr.Put("/{id}", h.Department.UpdateDepartment)
					mr.Delete("/{id}", h.Department.DeleteDepartment)
				})
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(h.Auth.RequireAdminTier)
				ur.Get("/", h.User.ListUsers)
				ur.Post("/", h.User.CreateUser)
				ur.Post("/import", h.User.ImportUsers)
				ur.Get("/{id}", h.User.GetUser)
				ur.Put("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeleteUser)
			})
		})
	})
}
