package commitreveal

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// L1BlockSource implements BlockSource by polling an L1 client and
// caching the latest block number, rather than issuing a fresh RPC call
// on every Commit/Reveal.
type L1BlockSource struct {
	client *ethclient.Client
	latest atomic.Uint64
}

// NewL1BlockSource starts polling client's block number every interval
// in the background until ctx is canceled.
func NewL1BlockSource(ctx context.Context, client *ethclient.Client, interval time.Duration) *L1BlockSource {
	s := &L1BlockSource{client: client}
	go s.pollLoop(ctx, interval)
	return s
}

// CurrentBlock implements BlockSource.
func (s *L1BlockSource) CurrentBlock() uint64 { return s.latest.Load() }

func (s *L1BlockSource) pollLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.client.BlockNumber(ctx)
			if err != nil {
				log.Warn("failed to poll L1 block number", "error", err)
				continue
			}
			s.latest.Store(n)
		}
	}
}
