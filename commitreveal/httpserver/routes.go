package httpserver

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/nativerollup/bridge/commitreveal"
	"github.com/nativerollup/bridge/internal/proofverifier"
)

// commit records a commitment hash against its committer (spec §4.5,
// commit). No registration happens here; the response it protects stays
// opaque until reveal.
func (srv *Server) commit(c echo.Context) error {
	req := new(CommitRequestBody)
	if err := c.Bind(req); err != nil {
		return srv.returnError(c, http.StatusBadRequest, err)
	}

	srv.wrapper.Commit(req.Committer, req.Hash)
	return c.JSON(http.StatusOK, CommitResponse{Hash: req.Hash})
}

// reveal validates a previously-committed preimage's age and committer,
// then forwards it into RegisterIncomingCall (spec §4.5, reveal_and_register).
func (srv *Server) reveal(c echo.Context) error {
	req := new(RevealRequestBody)
	if err := c.Bind(req); err != nil {
		return srv.returnError(c, http.StatusBadRequest, err)
	}
	if req.Response == nil {
		return srv.returnError(c, http.StatusBadRequest, errors.New("require non nil response"))
	}

	preimage := commitreveal.Preimage{
		L2Address: req.L2Address,
		StateHash: req.StateHash,
		CallData:  req.CallData,
		Response:  req.Response,
		Proof:     req.Proof,
		Secret:    req.Secret,
		Scheme:    proofverifier.Scheme(req.Scheme),
	}

	if err := srv.wrapper.RevealAndRegister(c.Request().Context(), req.Committer, preimage); err != nil {
		return srv.returnError(c, http.StatusUnprocessableEntity, err)
	}
	return c.JSON(http.StatusOK, RevealResponse{Registered: true})
}
