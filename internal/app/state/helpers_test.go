package state

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/api"
)

// newTestStore wires a full store against an in-process upstream.
func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := api.NewTokenStore()
	client := api.NewClient(srv.URL, 5*time.Second, tokens, zap.NewNop())
	return New(client, tokens, zap.NewNop())
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func jsonError(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
	}
}
