package processor

import (
	"github.com/paytokens/contractvm/core/state"
	"github.com/paytokens/contractvm/core/types"
	"github.com/paytokens/contractvm/core/vm"
	"github.com/paytokens/contractvm/log"
)

// logger resolves the processor's child logger at call time, so a default
// installed later through log.SetDefault (as the CLI does) is the one used.
func logger() *log.Logger { return log.Default().Module("processor") }

// ExecutionSink persists one executions row per parsed transaction, per
// spec.md §4.8's "append row to the executions table."
type ExecutionSink interface {
	Record(rec types.ExecutionRecord) error
}

// Compose is the VM-provided envelope builder spec.md §4.8 names: pack the
// contract ID and transaction parameters into wire bytes. Source is
// carried alongside the envelope by the caller (e.g. in the surrounding
// transaction record); it is not part of the wire format itself.
func Compose(contractID types.Address, gasprice, startgas, value uint64, payload []byte) []byte {
	return types.Compose(contractID, gasprice, startgas, value, payload)
}

// Parse unpacks envelope bytes and applies the resulting transaction against
// store, recording one ExecutionRecord via sink regardless of outcome. Any
// failure -- a malformed envelope, an intrinsic-gas or balance shortfall, or
// an out-of-gas frame -- is mapped to its status string rather than returned
// as a Go error; sink.Record's own error is the only one that propagates.
func Parse(evm *vm.EVM, store *state.Store, sink ExecutionSink, txIndex, blockIndex uint64, txHash types.Hash, source types.Address, raw []byte) error {
	env, err := types.Unpack(raw)
	if err != nil {
		logger().WithTx(txHash, types.Address{}).Warn("envelope unpack failed", "error", err)
		return sink.Record(types.ExecutionRecord{
			TxIndex:    txIndex,
			TxHash:     txHash,
			BlockIndex: blockIndex,
			Source:     source,
			Status:     types.StatusInvalidUnpack,
		})
	}

	result := ApplyTransaction(evm, store, source, env.ContractID, env.GasPrice, env.StartGas, env.Value, env.Payload, txHash)
	logger().WithTx(txHash, env.ContractID).Info("transaction applied", "status", result.Status, "gas_cost", result.GasCost)

	return sink.Record(types.ExecutionRecord{
		TxIndex:      txIndex,
		TxHash:       txHash,
		BlockIndex:   blockIndex,
		Source:       source,
		ContractID:   env.ContractID,
		GasPrice:     env.GasPrice,
		StartGas:     env.StartGas,
		GasCost:      result.GasCost,
		GasRemaining: result.GasRemaining,
		Value:        env.Value,
		Payload:      env.Payload,
		Output:       result.Output,
		Status:       result.Status,
	})
}
