// Package processor implements the transaction-level envelope around the
// VM: intrinsic-gas and balance checks, the post-queue drain loop, gas
// refund, and suicide sweep that together make up apply_transaction, plus
// the parse/compose façade that maps outcomes to status strings and records
// them.
package processor

import (
	"github.com/paytokens/contractvm/core/state"
	"github.com/paytokens/contractvm/core/types"
	"github.com/paytokens/contractvm/core/vm"
)

// Result is the outcome of applying one transaction: its status string,
// primary output, and gas accounting, ready to become an ExecutionRecord.
type Result struct {
	Status       string
	Output       []byte
	GasCost      uint64
	GasRemaining uint64
}

// ApplyTransaction runs spec.md §4.7's sequence: an intrinsic-gas check, a
// balance check on the sender's down payment, debiting it, seeding the
// post-queue with the primary message, draining the queue in FIFO order
// (each message either re-enters the VM against an existing contract or
// creates a new one), refunding unused gas, and finally sweeping any
// contracts marked suicided during the transaction.
//
// The transaction's output is the primary message's output or, when that is
// empty, the output of the first message POSTed during the transaction.
//
// contractID.IsZero() selects contract creation for the primary message,
// matching the envelope's "to" field doubling as the creation sentinel.
func ApplyTransaction(evm *vm.EVM, store *state.Store, origin, contractID types.Address, gasPrice, startGas, value uint64, payload []byte, txHash types.Hash) Result {
	intrinsic := vm.IntrinsicGas(len(payload))
	if startGas < intrinsic {
		return Result{Status: types.StatusInvalidInsufficientGas}
	}

	downPayment := value + gasPrice*startGas
	if store.GetBalance(origin) < downPayment {
		return Result{Status: types.StatusInvalidInsufficientBalance}
	}
	_ = store.Debit(origin, downPayment)

	postq := state.NewPostQueue()
	primaryGas := startGas - intrinsic
	var primary types.Message
	creating := contractID.IsZero()
	if creating {
		primary = types.NewCreateMessage(origin, types.WordFromUint64(value), types.WordFromUint64(primaryGas), payload)
	} else {
		primary = types.NewMessage(origin, contractID, types.WordFromUint64(value), types.WordFromUint64(primaryGas), payload)
	}
	postq.Push(primary)

	var primaryOK bool
	var primaryMissingContract bool
	var primaryGasRemaining uint64
	var primaryOutput []byte
	first := true
	firstPostedSeen := false

	for {
		msg, ok := postq.Pop()
		if !ok {
			break
		}

		var succeeded bool
		var missingContract bool
		var gasRemaining int64
		var output []byte

		if msg.Create {
			addr, cOK, gR, _ := vm.CreateContract(evm, store, msg.Sender, msg.Value, msg.Gas, msg.Data, origin, gasPrice, postq, txHash, first, 0)
			succeeded = cOK
			gasRemaining = gR
			if cOK {
				output = addr.Bytes()
			}
		} else {
			code, exists := store.GetCode(msg.To)
			if !exists {
				// get_code is only reached here, strictly after the step-3
				// down payment is already debited; per spec.md §7's error
				// table ContractError carries no "no debit" annotation the
				// way InsufficientStartGas/InsufficientBalance do, so the
				// down payment is kept just like an OutOfGas failure.
				missingContract = true
			} else {
				succeeded, gasRemaining, output = vm.ApplyMsg(evm, store, msg, code, msg.To, origin, gasPrice, postq, txHash, 0)
			}
		}

		if first {
			primaryOK = succeeded
			primaryMissingContract = missingContract
			if succeeded {
				primaryGasRemaining = uint64(gasRemaining)
			}
			primaryOutput = output
			first = false
		} else if !firstPostedSeen {
			firstPostedSeen = true
			if len(primaryOutput) == 0 {
				primaryOutput = output
			}
		}
	}

	if primaryMissingContract {
		store.SweepSuicides()
		return Result{
			Status:  types.StatusInvalidNoSuchContract,
			GasCost: gasPrice * startGas,
		}
	}

	if !primaryOK {
		// OutOfGas: the down payment already debited is not refunded.
		store.SweepSuicides()
		return Result{
			Status:  types.StatusOutOfGas,
			GasCost: gasPrice * startGas,
		}
	}

	refund := primaryGasRemaining * gasPrice
	store.Credit(origin, refund)
	store.SweepSuicides()

	return Result{
		Status:       types.StatusFinished,
		Output:       primaryOutput,
		GasCost:      gasPrice*startGas - gasPrice*primaryGasRemaining,
		GasRemaining: primaryGasRemaining,
	}
}
