// Package state implements the VM's persistent-store accessor: typed
// reads/writes against contract code, storage cells, balances and nonces,
// and the transactional snapshot/rollback primitive frames use to undo an
// out-of-gas failure.
package state

import (
	"github.com/paytokens/contractvm/core/types"
)

// BalanceError signals that a debit could not be satisfied by the account's
// balance. Per spec.md §7 this is swallowed at the call site inside a
// frame's value transfer and never surfaces as a Go error elsewhere.
type BalanceError struct {
	Address types.Address
	Have    uint64
	Want    uint64
}

func (e *BalanceError) Error() string {
	return "state: insufficient balance"
}

// Accessor is the VM's view of persistent state. Both the root Store and a
// nested Snapshot implement it, so frames can nest transactional scopes to
// arbitrary depth.
type Accessor interface {
	// GetCode returns a contract's code and whether it exists at all.
	GetCode(cid types.Address) ([]byte, bool)
	// PutCode installs a contract's code (used by CREATE/create_contract).
	PutCode(cid types.Address, code []byte)

	// GetBalance returns an address's native-asset balance.
	GetBalance(addr types.Address) uint64
	// Debit subtracts qty from addr's balance, returning *BalanceError if
	// insufficient.
	Debit(addr types.Address, qty uint64) error
	// Credit adds qty to addr's balance.
	Credit(addr types.Address, qty uint64)

	// GetStorage reads a contract's storage cell; a missing cell reads as
	// the zero word.
	GetStorage(cid types.Address, key types.Word) types.Word
	// SetStorage writes a contract's storage cell.
	SetStorage(cid types.Address, key, value types.Word)

	// GetNonce / SetNonce manage a contract's creation nonce.
	GetNonce(cid types.Address) uint64
	SetNonce(cid types.Address, n uint64)

	// Suicide marks cid for deletion at the end of the current
	// transaction.
	Suicide(cid types.Address)
	// Suicided reports whether cid has been marked for deletion in this
	// scope or any enclosing one.
	Suicided(cid types.Address) bool

	// Snapshot opens a nested transactional scope overlaying this
	// Accessor. Writes made through the returned Snapshot are invisible to
	// the parent until Commit is called.
	Snapshot() *Snapshot
}
