package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/models"
)

// newTestHandler creates a Handler with a nop logger and no routes.
func newTestHandler() *Handler {
	return NewHandler(Options{Name: "orders", Version: "1.0.0", Logger: logger.Nop()})
}

// injectLogger puts a zerolog.Logger into the request context the same way
// withTraceID does.
func injectLogger(r *http.Request, l zerolog.Logger) *http.Request {
	return r.WithContext(l.WithContext(r.Context()))
}

func makeRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return injectLogger(req, zerolog.New(buf).With().Timestamp().Logger())
}

type staticAuth struct {
	key    string
	issuer string
}

func (a staticAuth) TokenSignKey() string { return a.key }
func (a staticAuth) TokenIssuer() string  { return a.issuer }

func jsonAction(body any) models.Action {
	return models.ActionFunc{Handle: func(*http.Request) (*models.Output, error) {
		return models.OK(body), nil
	}}
}

func errorAction(err error) models.Action {
	return models.ActionFunc{Handle: func(*http.Request) (*models.Output, error) {
		return nil, err
	}}
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}
