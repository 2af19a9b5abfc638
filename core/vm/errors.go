package vm

import "fmt"

// UnpackError means the transaction envelope could not be decoded.
type UnpackError struct {
	Reason string
}

func (e *UnpackError) Error() string { return fmt.Sprintf("unpack error: %s", e.Reason) }

// ContractError means get_code was asked for a contract ID with no code on
// record.
type ContractError struct {
	ContractID string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("no such contract: %s", e.ContractID)
}

// InsufficientStartGasError means the transaction's declared gas budget did
// not cover intrinsic gas.
type InsufficientStartGasError struct {
	StartGas, Intrinsic uint64
}

func (e *InsufficientStartGasError) Error() string {
	return fmt.Sprintf("insufficient start gas: have %d, need %d", e.StartGas, e.Intrinsic)
}

// InsufficientBalanceError means the sender's balance could not cover the
// transaction's down payment (value + gasprice*startgas).
type InsufficientBalanceError struct {
	Have, Need uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Have, e.Need)
}

// OutOfGasError means a frame's gas went negative during a charge. The
// frame's snapshot has already been rolled back by the time this is
// returned.
type OutOfGasError struct {
	GasAtFailure int64
}

func (e *OutOfGasError) Error() string {
	return fmt.Sprintf("out of gas (gas at failure: %d)", e.GasAtFailure)
}
