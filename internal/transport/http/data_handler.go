package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gradepulse/internal/errors"
	"gradepulse/internal/middleware"
	"gradepulse/internal/services"
	"gradepulse/pkg/contracts/domain"
)

// DataHandler serves the performance query surface. All routes sit behind
// the session authenticator; role gating happens here because the rule
// depends on which student is requested.
type DataHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service *services.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "data")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/classes", h.GetClasses)
	r.Get("/classes/{className}/subjects", h.GetSubjects)
	r.Get("/batch", h.GetBatch)
	r.Get("/performance", h.GetPerformance)

	return r
}

// GetClasses handles GET /api/data/classes.
func (h *DataHandler) GetClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.Classes(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, classes)
}

// GetSubjects handles GET /api/data/classes/{className}/subjects.
func (h *DataHandler) GetSubjects(w http.ResponseWriter, r *http.Request) {
	className := chi.URLParam(r, "className")

	names, err := h.service.SubjectNames(r.Context(), className)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, names)
}

// GetBatch handles GET /api/data/batch?class=...&subject=..., the staff-facing
// class view. Student-role sessions are denied regardless of the class
// requested.
func (h *DataHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		render.Render(w, r, apierrors.ErrUnauthorized)
		return
	}
	if claims.Role == domain.RoleStudent {
		h.logger.WarnContext(r.Context(), "student session denied batch view",
			slog.String("username", claims.Username))
		render.Render(w, r, apierrors.ErrForbidden)
		return
	}

	className := r.URL.Query().Get("class")
	if className == "" {
		render.Render(w, r, apierrors.ErrValidation("class", "class is required"))
		return
	}

	subjects, err := h.service.BatchView(r.Context(), className, r.URL.Query().Get("subject"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, subjects)
}

// GetPerformance handles GET /api/data/performance?student=..., the
// per-student history view. A student-role session may only request its own
// history.
func (h *DataHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		render.Render(w, r, apierrors.ErrUnauthorized)
		return
	}

	studentName := r.URL.Query().Get("student")
	if studentName == "" {
		render.Render(w, r, apierrors.ErrValidation("student", "student is required"))
		return
	}

	if claims.Role == domain.RoleStudent && studentName != claims.Username {
		h.logger.WarnContext(r.Context(), "student session denied foreign student view",
			slog.String("username", claims.Username),
			slog.String("requested", studentName))
		render.Render(w, r, apierrors.ErrForbidden)
		return
	}

	history, err := h.service.StudentView(r.Context(), studentName)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, history)
}

// renderError maps service errors onto structured API errors.
func (h *DataHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrClassNotFound) {
		render.Render(w, r, apierrors.NotFoundError("class"))
		return
	}
	h.logger.ErrorContext(r.Context(), "data query failed",
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrInternalServer)
}
