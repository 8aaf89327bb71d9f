package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nativerollup/bridge/internal/chain"
)

const stateRowID = 1

// ErrNotFound is returned when a lookup by key finds no row.
var ErrNotFound = errors.New("store: not found")

// Repository is STC's persistence boundary: every method maps directly
// onto one piece of STC's in-memory ledger (spec §4.1-§4.2), so STC can
// be rehydrated from a database without replaying DFR from genesis.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an already-opened gorm connection. Schema
// management is goose's job (see migrations/), not gorm's AutoMigrate,
// matching the teacher monorepo's migration-file convention.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadState returns the persisted (l2Root, l2BlockNumber), or the zero
// value with ok=false if STC has never committed a block.
func (r *Repository) LoadState(ctx context.Context) (root chain.Hash32, blockNumber uint64, ok bool, err error) {
	var row StateRow
	result := r.db.WithContext(ctx).First(&row, stateRowID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return chain.Hash32{}, 0, false, nil
	}
	if result.Error != nil {
		return chain.Hash32{}, 0, false, result.Error
	}
	return chain.Hash32(row.L2Root), row.L2BlockNumber, true, nil
}

// SaveState upserts the singleton state row after a successful
// ProcessL2Block commit.
func (r *Repository) SaveState(ctx context.Context, root chain.Hash32, blockNumber uint64) error {
	row := StateRow{ID: stateRowID, L2Root: root.Bytes(), L2BlockNumber: blockNumber, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Save(&row).Error
}

// SaveResponse persists a newly registered incoming-call response.
func (r *Repository) SaveResponse(
	ctx context.Context,
	key chain.Hash32,
	l2Address chain.Address,
	stateHash chain.Hash32,
	callData chain.Bytes,
	response *chain.IncomingCallResponse,
) error {
	callsRLP, err := chain.EncodeOutgoingCalls(response.OutgoingCalls)
	if err != nil {
		return fmt.Errorf("encode outgoing calls: %w", err)
	}
	resultsJSON, err := json.Marshal(response.ExpectedResults)
	if err != nil {
		return fmt.Errorf("encode expected results: %w", err)
	}

	row := ResponseRow{
		ResponseKey:          key.Bytes(),
		L2Address:            l2Address.Bytes(),
		StateHash:            stateHash.Bytes(),
		CallDataHash:         chain.BytesHash(callData).Bytes(),
		PreOutgoingStateHash: response.PreOutgoingStateHash.Bytes(),
		OutgoingCallsRLP:     callsRLP,
		ExpectedResultsJSON:  resultsJSON,
		ReturnValue:          response.ReturnValue,
		FinalStateHash:       response.FinalStateHash.Bytes(),
		CreatedAt:            time.Now(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// LoadResponse reconstructs a response by its ResponseKey, or
// ErrNotFound if it has been consumed or never existed.
func (r *Repository) LoadResponse(ctx context.Context, key chain.Hash32) (*chain.IncomingCallResponse, error) {
	var row ResponseRow
	result := r.db.WithContext(ctx).First(&row, "response_key = ?", key.Bytes())
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	calls, err := chain.DecodeOutgoingCalls(row.OutgoingCallsRLP)
	if err != nil {
		return nil, fmt.Errorf("decode outgoing calls: %w", err)
	}
	var results []chain.Bytes
	if err := json.Unmarshal(row.ExpectedResultsJSON, &results); err != nil {
		return nil, fmt.Errorf("decode expected results: %w", err)
	}

	return &chain.IncomingCallResponse{
		PreOutgoingStateHash: chain.Hash32(row.PreOutgoingStateHash),
		OutgoingCalls:        calls,
		ExpectedResults:      results,
		ReturnValue:          row.ReturnValue,
		FinalStateHash:       chain.Hash32(row.FinalStateHash),
	}, nil
}

// DeleteResponse removes a response once HandleIncomingCall has
// consumed it.
func (r *Repository) DeleteResponse(ctx context.Context, key chain.Hash32) error {
	return r.db.WithContext(ctx).Delete(&ResponseRow{}, "response_key = ?", key.Bytes()).Error
}

// SaveSenderProxy persists a deployed SenderProxyL1 address.
func (r *Repository) SaveSenderProxy(ctx context.Context, l2Address, proxyL1 chain.Address) error {
	row := SenderProxyRow{L2Address: l2Address.Bytes(), ProxyL1: proxyL1.Bytes(), DeployedAt: time.Now()}
	return r.db.WithContext(ctx).Create(&row).Error
}

// LoadSenderProxies returns every deployed SenderProxyL1 mapping, used
// to rehydrate senderproxy.L1Registry's in-memory cache on startup.
func (r *Repository) LoadSenderProxies(ctx context.Context) (map[chain.Address]chain.Address, error) {
	var rows []SenderProxyRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[chain.Address]chain.Address, len(rows))
	for _, row := range rows {
		out[chain.Address(row.L2Address)] = chain.Address(row.ProxyL1)
	}
	return out, nil
}
