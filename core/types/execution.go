package types

// Status strings recorded against a transaction's executions row.
const (
	StatusValid                      = "valid"
	StatusFinished                   = "finished"
	StatusOutOfGas                   = "out of gas"
	StatusInvalidUnpack              = "invalid: could not unpack"
	StatusInvalidNoSuchContract      = "invalid: no such contract"
	StatusInvalidInsufficientGas     = "invalid: insufficient start gas"
	StatusInvalidInsufficientBalance = "invalid: insufficient balance"
)

// ExecutionRecord is one row of the executions table: the durable audit
// trail of a parsed transaction's inputs, cost, and outcome.
type ExecutionRecord struct {
	TxIndex     uint64
	TxHash      Hash
	BlockIndex  uint64
	Source      Address
	ContractID  Address
	GasPrice    uint64
	StartGas    uint64
	GasCost     uint64
	GasRemaining uint64
	Value       uint64
	Payload     []byte
	Output      []byte
	Status      string
}
