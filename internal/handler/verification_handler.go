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

type VerificationHandler struct {
	service *service.VerificationService
	audit   *service.AuditService
}

func NewVerificationHandler(service *service.VerificationService, audit *service.AuditService) *VerificationHandler {
	return &VerificationHandler{service: service, audit: audit}
}

func (h *VerificationHandler) Open(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.service.Open(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "verification.open", actorFromRequest(r), "success", request.ID, nil, request, "")
	writeSuccess(w, http.StatusOK, request, nil)
}

func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	request, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, request, nil)
}

func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	requests, meta, err := h.service.List(r.Context(), model.VerificationFilter{
		Status: strings.TrimSpace(query.Get("status")),
		Page:   parseIntOrDefault(query.Get("page"), 1),
		Limit:  parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, requests, &meta)
}

func (h *VerificationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.VerificationDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	requestID := chi.URLParam(r, "id")
	request, err := h.service.Decide(r.Context(), claims.UserID, requestID, payload)
	if err != nil {
		h.audit.Log(r.Context(), "verification.decide", actorFromRequest(r), "failed", requestID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "verification.decide", actorFromRequest(r), "success", request.ID, nil, request, "")
	writeSuccess(w, http.StatusOK, request, nil)
}
