package bpstatus_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/cmd/admin/internal/bpstatus"
)

func TestStatus_ReturnsDecodedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status/round-1", r.URL.Path)
		w.Write([]byte(`{"roundId":"round-1","found":true,"rounds":2,"discoveredItems":3,"txHash":"0xabc"}`))
	}))
	defer srv.Close()

	client := bpstatus.NewClient(srv.URL)
	status, err := client.Status(context.Background(), "round-1")
	require.NoError(t, err)
	require.True(t, status.Found)
	require.Equal(t, 2, status.Rounds)
	require.Equal(t, "0xabc", status.TxHash)
}

func TestStatus_ReturnsErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := bpstatus.NewClient(srv.URL)
	_, err := client.Status(context.Background(), "round-2")
	require.Error(t, err)
}
