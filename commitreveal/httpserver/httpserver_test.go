package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/commitreveal"
	"github.com/nativerollup/bridge/commitreveal/httpserver"
	"github.com/nativerollup/bridge/internal/chain"
)

type fakeWrapper struct {
	committed  map[chain.Hash32]chain.Address
	revealErr  error
	revealedAs chain.Address
}

func (f *fakeWrapper) Commit(committer chain.Address, h chain.Hash32) {
	if f.committed == nil {
		f.committed = make(map[chain.Hash32]chain.Address)
	}
	f.committed[h] = committer
}

func (f *fakeWrapper) RevealAndRegister(ctx context.Context, committer chain.Address, p commitreveal.Preimage) error {
	f.revealedAs = committer
	return f.revealErr
}

func newTestServer(t *testing.T, wrapper httpserver.Wrapper) *httpserver.Server {
	srv, err := httpserver.NewServer(httpserver.NewServerOpts{Wrapper: wrapper, Echo: echo.New()})
	require.NoError(t, err)
	return srv
}

func doRequest(srv *httpserver.Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCommit_RecordsCommitment(t *testing.T) {
	wrapper := &fakeWrapper{}
	srv := newTestServer(t, wrapper)

	body, _ := json.Marshal(httpserver.CommitRequestBody{
		Committer: chain.Address{0x01},
		Hash:      chain.Hash32{0xaa},
	})
	rec := doRequest(srv, http.MethodPost, "/commit", body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, wrapper.committed, chain.Hash32{0xaa})
}

func TestReveal_ForwardsIntoRegistration(t *testing.T) {
	wrapper := &fakeWrapper{}
	srv := newTestServer(t, wrapper)

	body, _ := json.Marshal(httpserver.RevealRequestBody{
		Committer: chain.Address{0x02},
		L2Address: chain.Address{0x03},
		Response:  &chain.IncomingCallResponse{},
		Scheme:    "admin-sig",
	})
	rec := doRequest(srv, http.MethodPost, "/reveal", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httpserver.RevealResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Registered)
	require.Equal(t, chain.Address{0x02}, wrapper.revealedAs)
}

func TestReveal_RejectsMissingResponse(t *testing.T) {
	srv := newTestServer(t, &fakeWrapper{})

	body, _ := json.Marshal(httpserver.RevealRequestBody{Committer: chain.Address{0x04}})
	rec := doRequest(srv, http.MethodPost, "/reveal", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReveal_PropagatesWrapperError(t *testing.T) {
	wrapper := &fakeWrapper{revealErr: &commitreveal.ErrNoSuchCommitment{Hash: chain.Hash32{0xff}}}
	srv := newTestServer(t, wrapper)

	body, _ := json.Marshal(httpserver.RevealRequestBody{
		Committer: chain.Address{0x05},
		Response:  &chain.IncomingCallResponse{},
		Scheme:    "admin-sig",
	})
	rec := doRequest(srv, http.MethodPost, "/reveal", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
