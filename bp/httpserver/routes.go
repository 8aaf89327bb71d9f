package httpserver

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	echo "github.com/labstack/echo/v4"
	"github.com/holiman/uint256"

	"github.com/nativerollup/bridge/bp"
	"github.com/nativerollup/bridge/internal/chain"
)

func (srv *Server) parseRequest(c echo.Context) (bp.IncomingCallRequest, error) {
	reqBody := new(IncomingCallRequestBody)
	if err := c.Bind(reqBody); err != nil {
		return bp.IncomingCallRequest{}, err
	}
	if reqBody.L2Address == (common.Address{}) {
		return bp.IncomingCallRequest{}, errors.New("require non zero l2Address")
	}
	if len(reqBody.CallData) == 0 {
		return bp.IncomingCallRequest{}, errors.New("require non empty callData")
	}

	value := chain.ValueFromUint64(0)
	if reqBody.Value != "" {
		v, ok := new(uint256.Int).FromDecimal(reqBody.Value)
		if !ok {
			return bp.IncomingCallRequest{}, errors.New("value must be a decimal uint256 string")
		}
		value = v
	}

	return bp.IncomingCallRequest{
		L1Caller:  reqBody.L1Caller,
		L2Address: reqBody.L2Address,
		Value:     value,
		Gas:       reqBody.Gas,
		CallData:  reqBody.CallData,
	}, nil
}

// simulate runs discovery only: no registration, no broadcast (spec §6).
func (srv *Server) simulate(c echo.Context) error {
	req, err := srv.parseRequest(c)
	if err != nil {
		return srv.returnError(c, http.StatusBadRequest, err)
	}

	plan, err := srv.planner.Discover(c.Request().Context(), req)
	if err != nil {
		return srv.returnError(c, http.StatusUnprocessableEntity, err)
	}

	return c.JSON(http.StatusOK, PlanResponse{RoundID: plan.RoundID, Rounds: plan.Rounds, Items: len(plan.Items)})
}

// submit runs discovery, registers every discovered response on STC, and
// broadcasts the triggering transaction (spec §6).
func (srv *Server) submit(c echo.Context) error {
	req, err := srv.parseRequest(c)
	if err != nil {
		return srv.returnError(c, http.StatusBadRequest, err)
	}

	ctx := c.Request().Context()
	plan, err := srv.planner.Discover(ctx, req)
	if err != nil {
		return srv.returnError(c, http.StatusUnprocessableEntity, err)
	}
	if err := srv.planner.Register(ctx, plan); err != nil {
		return srv.returnError(c, http.StatusInternalServerError, err)
	}

	resp := PlanResponse{RoundID: plan.RoundID, Rounds: plan.Rounds, Items: len(plan.Items)}
	if srv.broadcaster != nil {
		txHash, err := srv.broadcaster.Broadcast(ctx, plan)
		if err != nil {
			return srv.returnError(c, http.StatusInternalServerError, err)
		}
		resp.TxHash = txHash
	}

	srv.statusCache.Set(resp.RoundID, resp, 0)
	return c.JSON(http.StatusOK, resp)
}

// status answers whether a previously submitted round is known, and its
// outcome (spec §6).
func (srv *Server) status(c echo.Context) error {
	roundID := c.Param("roundID")
	cached, found := srv.statusCache.Get(roundID)
	if !found {
		return c.JSON(http.StatusOK, StatusResponse{RoundID: roundID, Found: false})
	}
	resp := cached.(PlanResponse)
	return c.JSON(http.StatusOK, StatusResponse{
		RoundID: resp.RoundID, Found: true, Rounds: resp.Rounds, Items: resp.Items, TxHash: resp.TxHash,
	})
}
