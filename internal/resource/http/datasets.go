package http

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openlearnco/campus/internal/resource/domain"
	"github.com/openlearnco/campus/internal/resource/service"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// DatasetsHandler serves the user-facing dataset CRUD endpoints.
type DatasetsHandler struct {
	DatasetService *service.DatasetService
}

// DatasetResponse is the public view of a dataset. Content travels base64
// encoded and is omitted from listings.
type DatasetResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type datasetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Content     string `json:"content"` // base64
}

func toResponse(d domain.Dataset, withContent bool) DatasetResponse {
	resp := DatasetResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ContentType: d.ContentType,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if withContent {
		resp.Content = base64.StdEncoding.EncodeToString(d.Content)
	}
	return resp
}

func requirePrincipal(w http.ResponseWriter, r *http.Request) (httpx.Principal, bool) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "no authenticated principal")
	}
	return principal, ok
}

// HandleCreate serves POST /v1/datasets.
func (h *DatasetsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req datasetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "content must be base64 encoded")
		return
	}

	d, err := h.DatasetService.Create(ctx, principal.UserID, req.Name, req.Description, req.ContentType, content)
	if err != nil {
		writeDatasetError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(d, true))
}

// HandleList serves GET /v1/datasets.
func (h *DatasetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	list, err := h.DatasetService.List(ctx, principal.UserID)
	if err != nil {
		log.Error("dataset listing failed", "err", err)
		writeServerError(w)
		return
	}

	out := make([]DatasetResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toResponse(d, false))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet serves GET /v1/datasets/{id}.
func (h *DatasetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	d, err := h.DatasetService.Get(ctx, principal.UserID, r.PathValue("id"))
	if err != nil {
		writeDatasetError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(d, true))
}

// HandleUpdate serves PUT /v1/datasets/{id}.
func (h *DatasetsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req datasetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var content []byte
	if req.Content != "" {
		var err error
		content, err = base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_request", "content must be base64 encoded")
			return
		}
	}

	d, err := h.DatasetService.Update(ctx, principal.UserID, r.PathValue("id"), req.Name, req.Description, content)
	if err != nil {
		writeDatasetError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(d, true))
}

// HandleDelete serves DELETE /v1/datasets/{id}.
func (h *DatasetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.DatasetService.Delete(ctx, principal.UserID, r.PathValue("id")); err != nil {
		writeDatasetError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeDatasetError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrDatasetNotFound):
		httpx.WriteError(w, http.StatusNotFound,
			"dataset_not_found", "no such dataset")
	case errors.Is(err, service.ErrInvalidDataset):
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_dataset", "name and content are required")
	case errors.Is(err, service.ErrDatasetTooLarge):
		httpx.WriteError(w, http.StatusRequestEntityTooLarge,
			"dataset_too_large", "dataset content exceeds the size limit")
	default:
		log.Error("dataset operation failed", "err", err)
		writeServerError(w)
	}
}
