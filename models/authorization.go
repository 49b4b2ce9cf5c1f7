package models

import (
	"net/http"
	"slices"
	"strings"
)

// Authorization maps a route key "VERB /route" to the claims a bearer token
// must carry to reach it. Routes absent from the map are public.
type Authorization map[string][]string

// RouteKey builds the key of a route in [Authorization].
func RouteKey(verb, route string) string {
	return strings.ToUpper(verb) + " " + route
}

// Merge adds other to a. Claims of a route present in both are unioned.
func (a Authorization) Merge(other Authorization) {
	for route, claims := range other {
		existing := a[route]
		for _, c := range claims {
			if !slices.Contains(existing, c) {
				existing = append(existing, c)
			}
		}
		if existing == nil {
			existing = []string{}
		}
		a[route] = existing
	}
}

// AuthErrorFactory builds the failures returned by route authorization.
type AuthErrorFactory interface {
	// Unauthorized is returned when the bearer token is missing or invalid.
	Unauthorized(r *http.Request, err error) *HTTPError
	// Forbidden is returned when the token lacks a required claim.
	Forbidden(r *http.Request, missing []string) *HTTPError
}

// DefaultAuthErrors responds with plain 401 and 403 failures.
type DefaultAuthErrors struct{}

func (DefaultAuthErrors) Unauthorized(_ *http.Request, _ error) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
}

func (DefaultAuthErrors) Forbidden(_ *http.Request, _ []string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
}
