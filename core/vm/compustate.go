package vm

// Compustate is a frame's mutable per-call state: program counter, operand
// stack, byte-addressed memory, and remaining gas. Gas is signed so that a
// charge can transiently drive it negative, which is how out-of-gas is
// detected.
type Compustate struct {
	PC     uint64
	Stack  *Stack
	Memory *Memory
	Gas    int64
}

// NewCompustate initializes a frame's state with the given starting gas.
func NewCompustate(gas int64) *Compustate {
	return &Compustate{
		Stack:  NewStack(),
		Memory: NewMemory(),
		Gas:    gas,
	}
}

// Charge subtracts cost from the remaining gas. It never itself reports
// failure; callers check Gas < 0 immediately afterward, matching the
// source's "gas may transiently go negative" discipline.
func (c *Compustate) Charge(cost int64) {
	c.Gas -= cost
}

// OutOfGas reports whether the frame has run out of gas.
func (c *Compustate) OutOfGas() bool {
	return c.Gas < 0
}
