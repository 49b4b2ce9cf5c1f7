package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/utils"
	"github.com/MKhiriev/go-service-sdk/models"
)

// withAuthorization enforces the claims required by the authorization map.
//
// The route of a request is resolved against routes before dispatch, on the
// same path the router dispatches on, so the map is keyed by the registered
// pattern ("GET /orders/{id}"), not by the raw path. Requests to routes
// absent from the map pass through untouched.
//
// The request is rejected with the factory's Unauthorized failure when the
// bearer token is missing or does not verify, and with Forbidden when the
// token lacks a required claim. On success the verified [models.Claims] are
// stored in the request context, see [utils.ClaimsFromContext].
func (h *Handler) withAuthorization(routes chi.Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.NewRouteContext()
			if !routes.Match(rctx, r.Method, routingPath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			required, ok := h.authorization[models.RouteKey(r.Method, rctx.RoutePattern())]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromRequest(r)

			claims, err := h.verifyBearer(r)
			if err != nil {
				log.Err(err).Msg("request is not authorized")
				h.writeHTTPError(w, h.authErrors.Unauthorized(r, err))
				return
			}

			if missing := claims.Missing(required); len(missing) > 0 {
				log.Warn().Strs("missing_claims", missing).Str("sub", claims.Subject).Msg("request is forbidden")
				h.writeHTTPError(w, h.authErrors.Forbidden(r, missing))
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

func (h *Handler) verifyBearer(r *http.Request) (*models.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrEmptyAuthorizationHeader
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return nil, err
	}

	if h.auth == nil || h.auth.TokenSignKey() == "" {
		return nil, ErrAuthorizationNotConfigured
	}

	return utils.ValidateAndParseJWTToken(tokenString, h.auth.TokenSignKey(), h.auth.TokenIssuer())
}
