package deposits

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/platform/httpx"
	"github.com/salescope/salescope/internal/shared"
)

// Handler manages deposit endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers deposit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type depositView struct {
	Deposit
	Editable bool `json:"editable"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	visible := h.service.Visible(subject)
	views := make([]depositView, len(visible))
	for i, dep := range visible {
		views[i] = depositView{Deposit: dep, Editable: authz.CanEdit(subject, dep)}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	var draft DepositDraft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	dep, err := h.service.Create(subject, draft)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dep)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	var draft DepositDraft
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(draft); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	dep, err := h.service.Update(subject, chi.URLParam(r, "id"), draft)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dep)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	if err := h.service.Delete(subject, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
