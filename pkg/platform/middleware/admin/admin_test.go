package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var sawAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdminToken("secret", logger)(next)

	t.Run("valid token passes and marks context", func(t *testing.T) {
		sawAdmin = false
		req := httptest.NewRequest(http.MethodPost, "/admin/pause", nil)
		req.Header.Set(HeaderAdminToken, "secret")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.True(t, sawAdmin)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/pause", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/pause", nil)
		req.Header.Set(HeaderAdminToken, "guess")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestIsAdminDefaultsFalse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.False(t, IsAdmin(req.Context()))
}
