package http

import (
	"net/http"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/utils"
	"github.com/MKhiriev/go-service-sdk/models"
)

func (h *Handler) actionHandler(action models.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := action.HandleRequest(r)
		if err == nil && out == nil {
			err = ErrNilOutput
		}
		if err != nil {
			status := statusFromError(err, h.errorStatuses)
			log := logger.FromRequest(r)
			if status >= http.StatusInternalServerError {
				log.Err(err).Int("status", status).Msg("action failed")
			} else {
				log.Debug().Err(err).Int("status", status).Msg("action rejected request")
			}
			utils.WriteError(w, status, messageFromError(err, status), w.Header().Get(traceIDHeader))
			return
		}

		writeOutput(w, out)
	}
}

func writeOutput(w http.ResponseWriter, out *models.Output) {
	for k, v := range out.Headers {
		w.Header().Set(k, v)
	}

	status := out.Status
	switch body := out.Body.(type) {
	case nil:
		if status == 0 {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
	case []byte:
		if status == 0 {
			status = http.StatusOK
		}
		contentType := out.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	default:
		if status == 0 {
			status = http.StatusOK
		}
		_, _ = utils.WriteJSON(w, body, status)
	}
}

func (h *Handler) writeHTTPError(w http.ResponseWriter, e *models.HTTPError) {
	utils.WriteError(w, e.Status, e.Error(), w.Header().Get(traceIDHeader))
}
