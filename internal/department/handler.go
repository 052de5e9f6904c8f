package department

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nxthub/influencer-ops/internal/auth"
	"github.com/nxthub/influencer-ops/internal/transport"
	"github.com/nxthub/influencer-ops/pkg/logger"
)

// maxImportSize caps xlsx uploads at 8 MiB.
const maxImportSize = 8 << 20

type ServiceAPI interface {
	List(actor auth.Actor) ([]*Department, error)
	Get(actor auth.Actor, id string) (*Department, error)
	Create(actor auth.Actor, dto CreateDepartmentDTO) (*Department, error)
	Update(actor auth.Actor, id string, dto UpdateDepartmentDTO) (*Department, error)
	Delete(actor auth.Actor, id string) error
	Import(actor auth.Actor, rows []ImportRow) (*ImportReport, error)
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

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	departments, err := h.Service.List(*actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dept, err := h.Service.Get(*actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dept)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Create(*actor, dto)
	if err != nil {
		h.Logger.Error("CreateDepartment: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dept)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Update(*actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.Logger.Error("UpdateDepartment: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dept)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.Delete(*actor, chi.URLParam(r, "id")); err != nil {
		h.Logger.Error("DeleteDepartment: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportDepartments handles POST /departments/import with a multipart
// xlsx upload under the "file" field.
func (h *Handler) ImportDepartments(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	rawRows, err := ReadWorkbook(file)
	if err != nil {
		h.Logger.Error("ImportDepartments: unreadable workbook", "error", err)
		h.WriteError(w, http.StatusBadRequest, "could not read workbook")
		return
	}

	rows, err := ParseRows(rawRows)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.Service.Import(*actor, rows)
	if err != nil {
		h.Logger.Error("ImportDepartments: service error", "error", err, "actor", actor.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}
