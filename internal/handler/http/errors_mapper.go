package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-service-sdk/models"
)

var errorStatusMap = map[error]int{
	models.ErrInvalidInput: http.StatusBadRequest,
	models.ErrNotFound:     http.StatusNotFound,
	models.ErrConflict:     http.StatusConflict,

	context.DeadlineExceeded: http.StatusGatewayTimeout,
	context.Canceled:         http.StatusServiceUnavailable,
}

// statusFromError returns the status of an [models.HTTPError] in the chain
// of err, or the status mapped for a sentinel err wraps (extra first), or
// 500.
func statusFromError(err error, extra map[error]int) int {
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return httpErr.Status
	}

	for target, status := range extra {
		if errors.Is(err, target) {
			return status
		}
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError hides the text of unexpected failures.
func messageFromError(err error, status int) string {
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) || status < http.StatusInternalServerError {
		return err.Error()
	}
	return http.StatusText(status)
}
