package handler

import (
	"context"
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

type ClaimHandler struct {
	service *service.ClaimService
	audit   *service.AuditService
}

func NewClaimHandler(service *service.ClaimService, audit *service.AuditService) *ClaimHandler {
	return &ClaimHandler{service: service, audit: audit}
}

func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	claim, err := h.service.Create(r.Context(), claims.UserID, payload)
	if err != nil {
		h.audit.Log(r.Context(), "claim.create", actorFromRequest(r), "failed", payload.FoundItemID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "claim.create", actorFromRequest(r), "success", claim.ID, nil, claim, "")
	writeSuccess(w, http.StatusCreated, claim, nil)
}

func (h *ClaimHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	query := r.URL.Query()
	items, meta, err := h.service.ListForStudent(r.Context(), claims.UserID, model.ClaimFilter{
		Status: strings.TrimSpace(query.Get("status")),
		Page:   parseIntOrDefault(query.Get("page"), 1),
		Limit:  parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, &meta)
}

func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	items, meta, err := h.service.List(r.Context(), model.ClaimFilter{
		Campus:    strings.TrimSpace(query.Get("campus")),
		Status:    strings.TrimSpace(query.Get("status")),
		StudentID: strings.TrimSpace(query.Get("student_id")),
		Page:      parseIntOrDefault(query.Get("page"), 1),
		Limit:     parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, &meta)
}

func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	claimID := chi.URLParam(r, "id")

	if claims.Role == model.RoleStudent {
		claim, err := h.service.GetForStudent(r.Context(), claims.UserID, claimID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, claim, nil)
		return
	}

	claim, err := h.service.Get(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, claim, nil)
}

func (h *ClaimHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "claim.approve", h.service.Approve)
}

func (h *ClaimHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "claim.reject", h.service.Reject)
}

func (h *ClaimHandler) decide(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, staffID string, claimID string, note string) error) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	// The note is optional; an empty or absent body is fine.
	var payload model.ClaimDecisionRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	claimID := chi.URLParam(r, "id")
	if err := fn(r.Context(), claims.UserID, claimID, payload.Note); err != nil {
		h.audit.Log(r.Context(), action, actorFromRequest(r), "failed", claimID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), action, actorFromRequest(r), "success", claimID, nil, nil, "")
	writeNoContent(w)
}

func (h *ClaimHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	claimID := chi.URLParam(r, "id")
	if err := h.service.Cancel(r.Context(), claims.UserID, claimID); err != nil {
		h.audit.Log(r.Context(), "claim.cancel", actorFromRequest(r), "failed", claimID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "claim.cancel", actorFromRequest(r), "success", claimID, nil, nil, "")
	writeNoContent(w)
}
