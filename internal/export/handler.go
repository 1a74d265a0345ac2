package export

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strings"

	"github.com/montagehq/montage/backend-go/internal/document"
)

const maxBodySize = 10 << 20 // 10MB

type Handler struct {
	assets AssetLoader
}

func NewHandler(assets AssetLoader) *Handler {
	return &Handler{assets: assets}
}

// Composite handles POST /export/composite: the request body is a full
// composition document, the response is the flattened PNG.
func (h *Handler) Composite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var comp document.Composition
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		http.Error(w, "invalid composition body", http.StatusBadRequest)
		return
	}

	img, skipped, err := Flatten(&comp, h.assets)
	if err != nil {
		slog.Error("flatten failed", "error", err, "projectId", comp.Project.ID)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	if len(skipped) > 0 {
		slog.Warn("export skipped layers with missing assets",
			"projectId", comp.Project.ID, "layers", skipped)
	}

	name := sanitizeFilename(comp.Project.Name)
	if name == "" {
		name = "montage"
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	if err := png.Encode(w, img); err != nil {
		slog.Error("encode export png", "error", err)
	}
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSpace(name))
}
