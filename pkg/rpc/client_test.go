package rpc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nativerollup/bridge/pkg/rpc"
)

func TestNewClient_ReturnsErrorWhenEndpointsAreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rpc.NewClient(ctx, rpc.ClientConfig{
		L1Endpoint:  "http://127.0.0.1:1",
		L2Endpoint:  "http://127.0.0.1:1",
		DialTimeout: time.Second,
		DialRetries: 1,
	})
	require.Error(t, err)
}
