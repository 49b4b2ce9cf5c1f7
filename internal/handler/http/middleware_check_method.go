// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-service-sdk/internal/utils"
)

// checkHTTPMethod is registered as the router's MethodNotAllowed handler.
//
// Chi responds with 405 whenever a path matches a registered route but the
// method is not handled. The pipeline answers 404 instead, hiding the
// existence of the route from callers that use an unsupported method.
func (h *Handler) checkHTTPMethod(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "route "+r.Method+" "+r.URL.Path+" is not found", w.Header().Get(traceIDHeader))
}
