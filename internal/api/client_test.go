package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := NewTokenStore()
	return NewClient(srv.URL, 5*time.Second, tokens, zap.NewNop()), tokens
}

func TestClientBearerInjection(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{}}`))
	})

	t.Run("no header without a token", func(t *testing.T) {
		require.NoError(t, client.Get(context.Background(), "/hotels", nil, nil))
		assert.Empty(t, gotAuth)
	})

	t.Run("bearer header once a token is saved", func(t *testing.T) {
		tokens.Save("abc")
		require.NoError(t, client.Get(context.Background(), "/hotels", nil, nil))
		assert.Equal(t, "Bearer abc", gotAuth)
	})
}

func TestClientEnvelopeUnwrap(t *testing.T) {
	t.Run("unwraps success envelope to data", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"name":"Taj Palace"},"message":"ok"}`))
		})

		var out struct {
			Name string `json:"name"`
		}
		require.NoError(t, client.Get(context.Background(), "/hotels/h1", nil, &out))
		assert.Equal(t, "Taj Palace", out.Name)
	})

	t.Run("passes bare payloads through untouched", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"name":"a"},{"name":"b"}]`))
		})

		var out []struct {
			Name string `json:"name"`
		}
		require.NoError(t, client.Get(context.Background(), "/hotels", nil, &out))
		assert.Len(t, out, 2)
	})

	t.Run("envelope without data decodes as null", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"message":"deleted"}`))
		})

		var out *struct{}
		require.NoError(t, client.Delete(context.Background(), "/reviews/r1", &out))
		assert.Nil(t, out)
	})
}

func TestClientFailure(t *testing.T) {
	t.Run("surfaces the envelope message", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"destination is required"}`))
		})

		err := client.Post(context.Background(), "/generate", map[string]string{}, nil)
		require.Error(t, err)
		assert.Equal(t, "destination is required", Message(err))
		assert.True(t, errors.Is(err, models.ErrBadRequest))
	})

	t.Run("falls back to status text without a message", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := client.Get(context.Background(), "/hotels", nil, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), Message(err))
	})

	t.Run("401 clears the token and maps to the sentinel", func(t *testing.T) {
		client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"session expired"}`))
		})
		tokens.Save("stale-token")

		err := client.Get(context.Background(), "/users/getProfile", nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrUnauthenticated))
		assert.Empty(t, tokens.Get())
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := client.Get(context.Background(), "/itineraries/nope", nil, nil)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("transport errors keep status zero", func(t *testing.T) {
		tokens := NewTokenStore()
		client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, tokens, zap.NewNop())

		err := client.Get(context.Background(), "/hotels", nil, nil)
		require.Error(t, err)

		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Zero(t, apiErr.Status)
	})
}

func TestTokenStore(t *testing.T) {
	tokens := NewTokenStore()
	assert.Empty(t, tokens.Get())

	tokens.Save("abc")
	assert.Equal(t, "abc", tokens.Get())

	tokens.Clear()
	assert.Empty(t, tokens.Get())
}
