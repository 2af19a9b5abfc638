package vm

import (
	"github.com/paytokens/contractvm/core/types"
)

// BlockContext carries the six block-scoped values the source's PREVHASH,
// COINBASE, TIMESTAMP, NUMBER, DIFFICULTY and GASLIMIT opcodes read. No
// binding for these existed in the source (spec.md's first Open Question);
// resolving it, the host supplies one BlockContext per EVM.
type BlockContext struct {
	PrevHash   types.Hash
	Coinbase   types.Address
	Timestamp  uint64
	Number     uint64
	Difficulty uint64
	GasLimit   uint64
}

// Config is carried on the EVM alongside the BlockContext. The gas
// constants in gas.go are package constants and are not part of it.
type Config struct {
	// NoStackLimit is stored on the EVM but not read by the interpreter:
	// the Stack's stackLimit cap applies whatever its value.
	NoStackLimit bool
}

// EVM is the entry point for executing messages against a state accessor.
// It is re-created per transaction (or reused across transactions that
// share a BlockContext) and holds no per-frame state itself -- that lives
// in Compustate and the Accessor chain.
type EVM struct {
	Block  BlockContext
	Config Config
}

// NewEVM returns an EVM bound to the given block context.
func NewEVM(block BlockContext, cfg Config) *EVM {
	return &EVM{Block: block, Config: cfg}
}
