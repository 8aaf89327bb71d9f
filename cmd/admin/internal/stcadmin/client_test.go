package stcadmin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/cmd/admin/internal/stcadmin"
)

func TestUnregister_ReturnsTrueOnNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/unregister/0xabc", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := stcadmin.NewClient(srv.URL, "test-token")
	found, err := client.Unregister(context.Background(), "0xabc")
	require.NoError(t, err)
	require.True(t, found)
}

func TestUnregister_ReturnsFalseOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := stcadmin.NewClient(srv.URL, "")
	found, err := client.Unregister(context.Background(), "0xdeadbeef")
	require.NoError(t, err)
	require.False(t, found)
}

func TestListResponses_ReturnsBodyOnOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/responses", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := stcadmin.NewClient(srv.URL, "")
	body, err := client.ListResponses(context.Background(), 1, 50)
	require.NoError(t, err)
	require.JSONEq(t, `{"items":[]}`, body)
}
