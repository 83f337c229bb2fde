package insights

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salescope/salescope/internal/platform/httpx"
	"github.com/salescope/salescope/internal/shared"
)

// Handler wires HTTP endpoints for the analytical views.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers insight routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/leaderboard", h.handleLeaderboard)
	r.Get("/reports", h.handleReport)
	r.Get("/expiry", h.handleExpiry)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	stats, err := h.service.Dashboard(subject, ParsePeriod(r.URL.Query().Get("period")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	rows, err := h.service.Leaderboard(subject, ParsePeriod(r.URL.Query().Get("period")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	q := r.URL.Query()
	filter := ReportFilter{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Owner:    q.Get("owner"),
		Branch:   q.Get("branch"),
		Grouping: ParseGrouping(q.Get("grouping")),
	}
	report, err := h.service.BuildReport(subject, filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleExpiry(w http.ResponseWriter, r *http.Request) {
	subject := shared.SubjectFromContext(r.Context())
	report, err := h.service.Expiry(subject)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
