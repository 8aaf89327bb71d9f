// Package store persists STC's ledger (l2_root, l2_block_number, the
// registered/responses maps, and deployed SenderProxyL1 addresses) to a
// relational database, so a restarted STC process can resume from
// exactly where it left off instead of replaying from genesis through
// DFR every time. Grounded on the teacher monorepo's gorm.io/gorm +
// pressly/goose persistence stack (declared in its root go.mod
// alongside eventindexer/relayer, its own database-backed services) —
// no gorm-using source file was retrieved in this pack's sample, so
// the model/repository shape below follows gorm's own idiomatic
// conventions rather than imitating a specific teacher file.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// StateRow is the single-row table holding STC's current committed
// root and block number (spec §4.1). There is always exactly one row,
// keyed by a fixed ID.
type StateRow struct {
	ID            uint `gorm:"primaryKey"`
	L2Root        []byte
	L2BlockNumber uint64
	UpdatedAt     time.Time
}

// TableName pins the table name regardless of gorm's pluralization
// rules, since this table is conceptually a singleton, not a
// collection.
func (StateRow) TableName() string { return "stc_state" }

// ResponseRow persists one pre-registered incoming-call response,
// keyed by its ResponseKey (spec §4.1, register_incoming_call).
// OutgoingCalls is stored as an RLP-encoded blob (the same encoding DFR
// replays from STC's emitted events) and ExpectedResults as a JSON
// array, rather than as normalized child tables, since they are never
// queried independently of their parent response.
type ResponseRow struct {
	ResponseKey          []byte `gorm:"primaryKey"`
	L2Address            []byte `gorm:"index"`
	StateHash            []byte
	CallDataHash         []byte
	PreOutgoingStateHash []byte
	OutgoingCallsRLP     []byte
	ExpectedResultsJSON  datatypes.JSON
	ReturnValue          []byte
	FinalStateHash       []byte
	CreatedAt            time.Time
}

// TableName returns this model's table name.
func (ResponseRow) TableName() string { return "stc_responses" }

// SenderProxyRow persists one deployed SenderProxyL1 instance, keyed by
// the L2 address it represents (spec §4.2).
type SenderProxyRow struct {
	L2Address  []byte `gorm:"primaryKey"`
	ProxyL1    []byte
	DeployedAt time.Time
}

// TableName returns this model's table name.
func (SenderProxyRow) TableName() string { return "stc_sender_proxies" }
