package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/validate"
	"campus-lostfound/pkg/apierror"
)

type ItemHandler struct {
	service       *service.ItemService
	audit         *service.AuditService
	maxUploadSize int64
}

func NewItemHandler(service *service.ItemService, audit *service.AuditService, maxUploadSize int64) *ItemHandler {
	return &ItemHandler{service: service, audit: audit, maxUploadSize: maxUploadSize}
}

func (h *ItemHandler) ReceiveFromSecurity(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ReceiveFromSecurityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.ReceiveFromSecurity(r.Context(), claims.UserID, payload)
	if err != nil {
		h.audit.Log(r.Context(), "item.receive", actorFromRequest(r), "failed", payload.SecurityReceivedItemID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "item.receive", actorFromRequest(r), "success", item.ID, nil, item, "")
	writeSuccess(w, http.StatusCreated, item, nil)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	items, meta, err := h.service.List(r.Context(), model.FoundItemFilter{
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

	writeSuccess(w, http.StatusOK, items, &meta)
}

// BrowseList is the student-facing listing: only items still waiting for
// their owner show up.
func (h *ItemHandler) BrowseList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := strings.TrimSpace(query.Get("status"))
	if status != string(model.ItemPending) && status != string(model.ItemStored) {
		status = string(model.ItemStored)
	}

	items, meta, err := h.service.List(r.Context(), model.FoundItemFilter{
		Campus:   strings.TrimSpace(query.Get("campus")),
		Category: strings.TrimSpace(query.Get("category")),
		Status:   status,
		Page:     parseIntOrDefault(query.Get("page"), 1),
		Limit:    parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, &meta)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.UpdateFoundItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	itemID := chi.URLParam(r, "id")
	before, err := h.service.Get(r.Context(), itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), claims.UserID, itemID, payload)
	if err != nil {
		h.audit.Log(r.Context(), "item.update", actorFromRequest(r), "failed", itemID, before, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "item.update", actorFromRequest(r), "success", item.ID, before, item, "")
	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *ItemHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, apierror.BadRequest("invalid multipart body", ""))
		return
	}

	itemID := chi.URLParam(r, "id")

	var upload io.ReadCloser
	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			writeError(w, apierror.BadRequest("invalid multipart stream", nextErr.Error()))
			return
		}
		if part.FormName() == "image" && strings.TrimSpace(part.FileName()) != "" {
			upload = part
			break
		}
		_ = part.Close()
	}

	if upload == nil {
		writeError(w, apierror.BadRequest("image file is required", "image"))
		return
	}
	defer upload.Close()

	imageURL, err := h.service.AttachImage(r.Context(), claims.UserID, itemID, upload)
	if err != nil {
		h.audit.Log(r.Context(), "item.attach_image", actorFromRequest(r), "failed", itemID, nil, nil, err.Error())
		writeError(w, err)
		return
	}

	h.audit.Log(r.Context(), "item.attach_image", actorFromRequest(r), "success", itemID, nil, map[string]string{"image_url": imageURL}, "")
	writeSuccess(w, http.StatusOK, model.ImageUploadResponse{ImageURL: imageURL}, nil)
}
