package types

// Message is a single call frame's input: sender, destination, value
// transferred, gas budget, and calldata. It is immutable after construction.
// Create, not a zero To, signals contract creation.
type Message struct {
	Sender Address
	To     Address
	Create bool // true when this message creates a new contract (To is ignored)
	Value  Word
	Gas    Word
	Data   []byte
}

// NewMessage builds a Message for a regular call.
func NewMessage(sender, to Address, value, gas Word, data []byte) Message {
	return Message{Sender: sender, To: to, Value: value, Gas: gas, Data: data}
}

// NewCreateMessage builds a Message that creates a contract: the "to" field
// carries no meaning and is left zero.
func NewCreateMessage(sender Address, value, gas Word, data []byte) Message {
	return Message{Sender: sender, Create: true, Value: value, Gas: gas, Data: data}
}
