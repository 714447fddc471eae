package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/openlearnco/campus/internal/resource/service"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// InternalHandler serves the service-to-service surface. These routes sit
// behind the shared internal secret, not user tokens.
type InternalHandler struct {
	DatasetService *service.DatasetService
}

// HandleContent serves GET /internal/v1/datasets/{id}/content. The raw
// dataset bytes come back under their stored content type so the consuming
// service can stream them straight into its pipeline.
func (h *InternalHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	d, err := h.DatasetService.GetContent(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrDatasetNotFound) {
			httpx.WriteError(w, http.StatusNotFound,
				"dataset_not_found", "no such dataset")
			return
		}
		log.Error("internal content fetch failed", "err", err)
		writeServerError(w)
		return
	}

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Content)))
	w.Header().Set("X-Dataset-Owner", strconv.FormatInt(d.OwnerID, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Content)
}
