package authapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/authapi"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects unusable base URLs", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"", "not-a-url", "/relative/path"} {
			_, err := authapi.New(bad)
			require.Error(t, err, "base URL %q must be rejected", bad)
		}
	})

	t.Run("accepts an origin and trims the trailing slash", func(t *testing.T) {
		t.Parallel()

		c, err := authapi.New("https://api.kaacib.app/")
		require.NoError(t, err)
		require.NotNil(t, c)
	})
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("success returns the token pair", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/login", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var creds struct {
				Identifier string `json:"identifier"`
				Secret     string `json:"secret"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, "amira@kaacib.app", creds.Identifier)
			require.Equal(t, "s3cret", creds.Secret)

			_ = json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "access-1",
				"refreshToken": "refresh-1",
			})
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		pair, err := c.Login(context.Background(), authapi.Credentials{
			Identifier: "amira@kaacib.app",
			Secret:     "s3cret",
		})
		require.NoError(t, err)
		require.Equal(t, "access-1", pair.AccessToken)
		require.Equal(t, "refresh-1", pair.RefreshToken)
	})

	t.Run("rejected credentials map to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{Identifier: "x", Secret: "y"})
		require.ErrorIs(t, err, authapi.ErrInvalidCredentials)
	})

	t.Run("empty credentials fail without a network call", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{})
		require.ErrorIs(t, err, authapi.ErrInvalidCredentials)
		require.Zero(t, calls.Load())
	})

	t.Run("server errors map to ErrBadResponse", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{Identifier: "x", Secret: "y"})
		require.ErrorIs(t, err, authapi.ErrBadResponse)
	})

	t.Run("unparseable body maps to ErrBadResponse", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>gateway</html>"))
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{Identifier: "x", Secret: "y"})
		require.ErrorIs(t, err, authapi.ErrBadResponse)
	})

	t.Run("response without an access token maps to ErrBadResponse", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"refreshToken": "only"})
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{Identifier: "x", Secret: "y"})
		require.ErrorIs(t, err, authapi.ErrBadResponse)
	})

	t.Run("transport failure maps to ErrNetwork", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		c, err := authapi.New(url)
		require.NoError(t, err)

		_, err = c.Login(context.Background(), authapi.Credentials{Identifier: "x", Secret: "y"})
		require.ErrorIs(t, err, authapi.ErrNetwork)
	})
}

func TestClient_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("success returns the rotated pair", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/refresh", r.URL.Path)

			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "refresh-old", body.RefreshToken)

			_ = json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "access-2",
				"refreshToken": "refresh-2",
			})
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		pair, err := c.Refresh(context.Background(), "refresh-old")
		require.NoError(t, err)
		require.Equal(t, "access-2", pair.AccessToken)
		require.Equal(t, "refresh-2", pair.RefreshToken)
	})

	t.Run("invalidated token maps to ErrRefreshRejected", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Refresh(context.Background(), "refresh-revoked")
		require.ErrorIs(t, err, authapi.ErrRefreshRejected)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	t.Run("carries the bearer token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/logout", r.URL.Path)
			require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		require.NoError(t, c.Logout(context.Background(), "access-1"))
	})

	t.Run("server failure is reported, for logging only", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c, err := authapi.New(srv.URL)
		require.NoError(t, err)

		require.Error(t, c.Logout(context.Background(), "access-1"))
	})
}
