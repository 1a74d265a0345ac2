package cutout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/montagehq/montage/backend-go/internal/asset"
)

type Handler struct {
	client *Client
	store  *asset.Store
}

func NewHandler(client *Client, store *asset.Store) *Handler {
	return &Handler{client: client, store: store}
}

type createRequest struct {
	AssetID string `json:"assetId"`
}

type createResponse struct {
	CutoutAssetID string `json:"cutoutAssetId"`
	URL           string `json:"url"`
}

// Create handles POST /cutouts: loads the source asset, runs background
// removal, and stores the result as a new cut-out asset.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AssetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assetId is required"})
		return
	}

	src, err := h.store.Load(req.AssetID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "asset not found"})
		return
	}

	out, err := h.client.Process(r.Context(), src)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "cutout service not configured"})
			return
		}
		slog.Error("cutout processing failed", "error", err, "assetId", req.AssetID)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "cutout processing failed"})
		return
	}

	cutID, err := h.store.SaveCutoutPNG(out)
	if err != nil {
		slog.Error("save cutout failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		CutoutAssetID: cutID,
		URL:           "/assets/" + cutID + ".png",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
