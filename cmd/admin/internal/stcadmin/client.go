// Package stcadmin is cmd/admin's client for STC's admin HTTP surface
// (internal/stc/rpcserver.AdminServer): the JWT-gated unregister route
// and the read-only paginated responses listing.
package stcadmin

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Client talks to one running cmd/stc instance's admin HTTP surface.
type Client struct {
	rest *resty.Client
}

// NewClient builds a Client. jwtToken authorizes Unregister; it is
// unused by ListResponses, which STC serves unauthenticated.
func NewClient(baseURL, jwtToken string) *Client {
	rest := resty.New().SetBaseURL(baseURL)
	if jwtToken != "" {
		rest.SetAuthToken(jwtToken)
	}
	return &Client{rest: rest}
}

// Unregister forcibly drops a registered response by its key
// (SPEC_FULL §D.1). Returns false if STC reports no such key.
func (c *Client) Unregister(ctx context.Context, keyHex string) (bool, error) {
	resp, err := c.rest.R().SetContext(ctx).Post("/admin/unregister/" + keyHex)
	if err != nil {
		return false, fmt.Errorf("stcadmin: unregister: %w", err)
	}
	switch resp.StatusCode() {
	case 204:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, fmt.Errorf("stcadmin: unregister: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
}

// ListResponses fetches one page of STC's registered-response listing.
func (c *Client) ListResponses(ctx context.Context, page, size int) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		SetQueryParam("size", fmt.Sprintf("%d", size)).
		Get("/admin/responses")
	if err != nil {
		return "", fmt.Errorf("stcadmin: list responses: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("stcadmin: list responses: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.String(), nil
}
