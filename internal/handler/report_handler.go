package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/validate"
	"campus-lostfound/pkg/apierror"
)

type ReportHandler struct {
	service *service.ReportService
	audit   *service.AuditService
}

func NewReportHandler(service *service.ReportService, audit *service.AuditService) *ReportHandler {
	return &ReportHandler{service: service, audit: audit}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateLostReportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.service.Create(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "report.create", actorFromRequest(r), "success", report.ID, nil, report, "")
	writeSuccess(w, http.StatusCreated, report, nil)
}

// ListMine returns the caller's own reports.
func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	query := r.URL.Query()
	reports, meta, err := h.service.ListForStudent(r.Context(), claims.UserID, model.LostReportFilter{
		Campus:   strings.TrimSpace(query.Get("campus")),
		Category: strings.TrimSpace(query.Get("category")),
		Status:   strings.TrimSpace(query.Get("status")),
		Page:     parseIntOrDefault(query.Get("page"), 1),
		Limit:    parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, reports, &meta)
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	reports, meta, err := h.service.List(r.Context(), model.LostReportFilter{
		Campus:    strings.TrimSpace(query.Get("campus")),
		Category:  strings.TrimSpace(query.Get("category")),
		Status:    strings.TrimSpace(query.Get("status")),
		StudentID: strings.TrimSpace(query.Get("student_id")),
		Page:      parseIntOrDefault(query.Get("page"), 1),
		Limit:     parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, reports, &meta)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	report, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// Students only see their own reports.
	if claims.Role == model.RoleStudent && report.StudentID != claims.UserID {
		writeError(w, model.ErrForbidden)
		return
	}

	writeSuccess(w, http.StatusOK, report, nil)
}

func (h *ReportHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.ReportVerified)
}

func (h *ReportHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.ReportRejected)
}

func (h *ReportHandler) review(w http.ResponseWriter, r *http.Request, target model.LostReportStatus) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	reportID := chi.URLParam(r, "id")
	report, err := h.service.Review(r.Context(), claims.UserID, reportID, target)
	if err != nil {
		h.audit.Log(r.Context(), "report.review", actorFromRequest(r), "failed", reportID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "report.review", actorFromRequest(r), "success", report.ID, nil, report, "")
	writeSuccess(w, http.StatusOK, report, nil)
}
