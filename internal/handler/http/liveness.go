package http

import (
	"net/http"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/utils"
	"github.com/MKhiriev/go-service-sdk/models"
)

// Liveness probe paths.
const (
	RootPath    = "/"
	IsAlivePath = "/api/isalive"
)

func (h *Handler) withLiveness(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && (r.URL.Path == RootPath || r.URL.Path == IsAlivePath) {
			h.isAlive(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isAlive answers 200 once the service is initialized and 503 before that
// and during shutdown.
func (h *Handler) isAlive(w http.ResponseWriter, _ *http.Request) {
	phase := h.state.Phase()

	status := http.StatusServiceUnavailable
	if phase == appstate.Initialized {
		status = http.StatusOK
	}

	_, _ = utils.WriteJSON(w, models.Liveness{
		Name:    h.name,
		Version: h.version,
		Started: h.started,
		Ready:   phase == appstate.Initialized,
		Phase:   phase.String(),
	}, status)
}
