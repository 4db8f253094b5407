package khaltirepo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Key test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tok-123", body["token"])
		require.Equal(t, 450000.0, body["amount"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idx":"txn-9","amount":450000,"state":{"name":"Completed"}}`))
	}))
	defer srv.Close()

	repo := NewHTTPWithBase("test-key", srv.URL, srv.Client())
	out, err := repo.Verify(context.Background(), VerifyReq{Token: "tok-123", Amount: 450000})
	require.NoError(t, err)
	require.Equal(t, "txn-9", out.Idx)
	require.Equal(t, 450000.0, out.Amount)
	require.Contains(t, string(out.RawPayload), `"state"`)
}

func TestVerify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
	}))
	defer srv.Close()

	repo := NewHTTPWithBase("test-key", srv.URL, srv.Client())
	out, err := repo.Verify(context.Background(), VerifyReq{Token: "bad", Amount: 100})
	require.NoError(t, err)
	require.Empty(t, out.Idx)
}

func TestVerify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewHTTPWithBase("test-key", srv.URL, srv.Client())
	_, err := repo.Verify(context.Background(), VerifyReq{Token: "tok", Amount: 100})
	require.Error(t, err)
}
