// Package bpstatus is cmd/admin's client for polling BP's /status/:roundID
// surface (bp/httpserver), grounded on
// prover-register/internal/prover/client.go's own remote-polling shape
// but built on go-resty/resty/v2 rather than a hand-rolled net/http
// client, the ecosystem HTTP client this module standardizes on for
// admin-side polling.
package bpstatus

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Status mirrors bp/httpserver.StatusResponse's JSON shape.
type Status struct {
	RoundID string `json:"roundId"`
	Found   bool   `json:"found"`
	Rounds  int    `json:"rounds"`
	Items   int    `json:"discoveredItems"`
	TxHash  string `json:"txHash,omitempty"`
}

// Client polls one running cmd/bp instance's HTTP surface.
type Client struct {
	rest *resty.Client
}

// NewClient builds a Client against baseURL (BP's --bp.listenAddr).
func NewClient(baseURL string) *Client {
	return &Client{rest: resty.New().SetBaseURL(baseURL)}
}

// Status fetches the current status of a previously submitted round.
func (c *Client) Status(ctx context.Context, roundID string) (*Status, error) {
	var status Status
	resp, err := c.rest.R().SetContext(ctx).SetResult(&status).Get("/status/" + roundID)
	if err != nil {
		return nil, fmt.Errorf("bpstatus: get status: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("bpstatus: get status: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return &status, nil
}
