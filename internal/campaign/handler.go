package campaign

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nxthub/influencer-ops/internal/auth"
	"github.com/nxthub/influencer-ops/internal/transport"
	"github.com/nxthub/influencer-ops/pkg/logger"
)

type ServiceAPI interface {
	List(actor auth.Actor, filter ListFilter) ([]*Campaign, error)
	Get(actor auth.Actor, id string) (*Campaign, error)
	Create(actor auth.Actor, dto CreateCampaignDTO) (*Campaign, error)
	Update(actor auth.Actor, id string, dto UpdateCampaignDTO) (*Campaign, error)
	Delete(actor auth.Actor, id string) error
	Transition(actor auth.Actor, id string, dto TransitionDTO) (*Campaign, error)
	Complete(actor auth.Actor, id string, dto CompleteDTO) (*Campaign, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := ListFilter{
		Department: r.URL.Query().Get("department"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("q"),
	}

	campaigns, err := h.Service.List(*actor, filter)
	if err != nil {
		h.Logger.Error("ListCampaigns: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c, err := h.Service.Get(*actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCampaignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCampaign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(*actor, dto)
	if err != nil {
		h.Logger.Error("CreateCampaign: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateCampaign: campaign created",
		"campaign_id", c.ID,
		"department", c.Department,
		"created_by", actor.Email)

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateCampaignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(*actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.Logger.Error("UpdateCampaign: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.Delete(*actor, chi.URLParam(r, "id")); err != nil {
		h.Logger.Error("DeleteCampaign: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TransitionCampaign handles POST /campaigns/{id}/transition for the
// Pending -> Approved/Rejected decision.
func (h *Handler) TransitionCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Transition(*actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.Logger.Error("TransitionCampaign: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// CompleteCampaign handles POST /campaigns/{id}/complete.
func (h *Handler) CompleteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CompleteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Complete(*actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.Logger.Error("CompleteCampaign: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
