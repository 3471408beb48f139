package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/validate"
	"campus-lostfound/pkg/apierror"
)

type ReturnHandler struct {
	service *service.ReturnService
	audit   *service.AuditService
}

func NewReturnHandler(service *service.ReturnService, audit *service.AuditService) *ReturnHandler {
	return &ReturnHandler{service: service, audit: audit}
}

func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.service.Create(r.Context(), claims.UserID, payload)
	if err != nil {
		h.audit.Log(r.Context(), "return.create", actorFromRequest(r), "failed", payload.ClaimID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "return.create", actorFromRequest(r), "success", receipt.ID, nil, receipt, "")
	writeSuccess(w, http.StatusOK, receipt, nil)
}

func (h *ReturnHandler) Get(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, receipt, nil)
}

func (h *ReturnHandler) GetByClaim(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.GetByClaim(r.Context(), chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, receipt, nil)
}
