package influencer

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
	List(actor auth.Actor) ([]*Influencer, error)
	Get(actor auth.Actor, id string) (*Influencer, error)
	Create(actor auth.Actor, dto CreateInfluencerDTO) (*Influencer, error)
	Update(actor auth.Actor, id string, dto UpdateInfluencerDTO) (*Influencer, error)
	Delete(actor auth.Actor, id string) error
	CheckPAN(actor auth.Actor, dto PANCheckDTO) (*PANCheckResult, error)
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

func (h *Handler) ListInfluencers(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	influencers, err := h.Service.List(*actor)
	if err != nil {
		h.Logger.Error("ListInfluencers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, influencers)
}

func (h *Handler) GetInfluencer(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	inf, err := h.Service.Get(*actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inf)
}

func (h *Handler) CreateInfluencer(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateInfluencerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inf, err := h.Service.Create(*actor, dto)
	if err != nil {
		h.Logger.Error("CreateInfluencer: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateInfluencer: influencer created", "influencer_id", inf.ID, "created_by", actor.Email)
	h.WriteJSON(w, http.StatusCreated, inf)
}

func (h *Handler) UpdateInfluencer(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateInfluencerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inf, err := h.Service.Update(*actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.Logger.Error("UpdateInfluencer: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inf)
}

func (h *Handler) DeleteInfluencer(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.Delete(*actor, chi.URLParam(r, "id")); err != nil {
		h.Logger.Error("DeleteInfluencer: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckPAN handles POST /influencers/pan-check, the availability probe
// behind the registration form's inline PAN feedback.
func (h *Handler) CheckPAN(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto PANCheckDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CheckPAN(*actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
