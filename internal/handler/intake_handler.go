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

type IntakeHandler struct {
	service *service.IntakeService
	audit   *service.AuditService
}

func NewIntakeHandler(service *service.IntakeService, audit *service.AuditService) *IntakeHandler {
	return &IntakeHandler{service: service, audit: audit}
}

func (h *IntakeHandler) Record(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.RecordIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	intake, err := h.service.Record(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "intake.record", actorFromRequest(r), "success", intake.ID, nil, intake, "")
	writeSuccess(w, http.StatusCreated, intake, nil)
}

func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	intake, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, intake, nil)
}

func (h *IntakeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	intakes, meta, err := h.service.List(r.Context(), model.IntakeFilter{
		Campus: strings.TrimSpace(query.Get("campus")),
		Status: strings.TrimSpace(query.Get("status")),
		Page:   parseIntOrDefault(query.Get("page"), 1),
		Limit:  parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, intakes, &meta)
}
