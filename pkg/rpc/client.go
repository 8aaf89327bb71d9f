// Package rpc bundles the L1 and L2 JSON-RPC connections every cmd/*
// binary in this module needs, the same role
// taiko-client/pkg/rpc.Client plays for that repo's driver/prover/proposer
// binaries (that package's own client.go was not present in the
// retrieved pack, but pkg/rpc/celestiaclient.go shows the same
// config-struct-plus-dial-with-retry shape this file follows).
package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ClientConfig names the two endpoints every binary dials.
type ClientConfig struct {
	L1Endpoint string
	L2Endpoint string
	// DialTimeout bounds each individual dial attempt; DialRetries bounds
	// how many times NewClient retries a failed dial before giving up.
	DialTimeout time.Duration
	DialRetries uint64
}

// Client holds the dialed L1 (host chain) and L2 (derived chain)
// connections, mirroring the rpc.L1/rpc.L2 fields
// proposer.go and prover.go read from their own *rpc.Client.
type Client struct {
	L1 *ethclient.Client
	L2 *ethclient.Client
}

// Default dial parameters for binaries that don't expose their own
// flags for this (cmd/stc and cmd/dfr each only need one side dialed).
const (
	DefaultDialTimeout = 10 * time.Second
	DefaultDialRetries = uint64(5)
)

// NewClient dials each non-empty endpoint, retrying with the same
// cenkalti/backoff strategy dfr.Driver uses for event replay. Either
// endpoint may be left blank when a binary only needs one side (e.g.
// cmd/stc dials only L1; cmd/dfr dials only L2).
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	var client Client
	if cfg.L1Endpoint != "" {
		l1, err := dialWithRetry(ctx, cfg.L1Endpoint, cfg.DialTimeout, cfg.DialRetries)
		if err != nil {
			return nil, fmt.Errorf("rpc: dial L1 %s: %w", cfg.L1Endpoint, err)
		}
		client.L1 = l1
	}
	if cfg.L2Endpoint != "" {
		l2, err := dialWithRetry(ctx, cfg.L2Endpoint, cfg.DialTimeout, cfg.DialRetries)
		if err != nil {
			return nil, fmt.Errorf("rpc: dial L2 %s: %w", cfg.L2Endpoint, err)
		}
		client.L2 = l2
	}
	return &client, nil
}

func dialWithRetry(ctx context.Context, endpoint string, timeout time.Duration, maxRetries uint64) (*ethclient.Client, error) {
	var client *ethclient.Client
	operation := func() error {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()
		c, err := ethclient.DialContext(attemptCtx, endpoint)
		if err != nil {
			return err
		}
		// An HTTP dial does not connect; a ChainID round-trip does.
		if _, err := c.ChainID(attemptCtx); err != nil {
			c.Close()
			return err
		}
		client = c
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return client, nil
}

// Close releases both underlying connections.
func (c *Client) Close() {
	if c.L1 != nil {
		c.L1.Close()
	}
	if c.L2 != nil {
		c.L2.Close()
	}
}
