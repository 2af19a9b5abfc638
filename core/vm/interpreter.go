package vm

import (
	"github.com/paytokens/contractvm/core/state"
	"github.com/paytokens/contractvm/core/types"
	"github.com/paytokens/contractvm/crypto"
)

// frame bundles everything one execution of the opcode loop needs beyond
// the Compustate itself: the accessor it reads/writes through, the message
// that opened it, its code, the contract address its storage/balance
// resolve against, and the transaction-wide context (origin sender, gas
// price, post-queue) that is threaded unchanged through recursive calls.
type frame struct {
	evm      *EVM
	accessor state.Accessor
	msg      types.Message
	cs       *Compustate
	code     []byte
	self     types.Address
	origin   types.Address
	gasPrice uint64
	postq    *state.PostQueue
	txHash   types.Hash
	depth    int
}

func addressToWord(a types.Address) types.Word {
	return types.BigEndianToInt(a.Bytes())
}

func wordToAddress(w types.Word) types.Address {
	b := w.Bytes32()
	return types.BytesToAddress(b[:])
}

// run drives a frame's Compustate to completion: dispatches opcodes until
// one halts the frame or an out-of-gas charge occurs.
//
// Returns (output, oog). oog=true means a gas charge drove cs.Gas negative;
// output is nil in that case. Stack underflow and STOP/INVALID both halt
// with output == []byte{} (never nil), matching spec.md §4.4's "empty
// bytes" convention.
func (f *frame) run() (output []byte, oog bool) {
	for {
		op := f.currentOp()
		info := opTable[op]

		if f.cs.Stack.Len() < info.in {
			return []byte{}, false
		}

		f.cs.Charge(int64(info.gas))
		if f.cs.OutOfGas() {
			return nil, true
		}

		f.cs.PC++

		halt, didOOG := f.dispatch(op)
		if didOOG {
			return nil, true
		}
		if halt != nil {
			return halt, false
		}
	}
}

func (f *frame) currentOp() OpCode {
	if f.cs.PC >= uint64(len(f.code)) {
		return STOP
	}
	return OpCode(f.code[f.cs.PC])
}

// growMemory grows memory to cover [offset, offset+size) and charges the
// resulting gas. Returns true on OOG.
func (f *frame) growMemory(offset, size uint64) (oog bool) {
	if size == 0 {
		return false
	}
	words := f.cs.Memory.Resize(offset + size)
	f.cs.Charge(int64(MemoryGasCost(words)))
	return f.cs.OutOfGas()
}

// dispatch performs the effect of a single already-gas-charged,
// pc-already-advanced opcode. It returns (haltOutput, oog); haltOutput is
// nil to mean "continue".
func (f *frame) dispatch(op OpCode) (halt []byte, oog bool) {
	cs := f.cs
	st := cs.Stack

	if n, ok := isPush(op); ok {
		start := cs.PC
		end := start + uint64(n)
		var raw []byte
		if end <= uint64(len(f.code)) {
			raw = f.code[start:end]
		} else if start < uint64(len(f.code)) {
			raw = f.code[start:]
		}
		buf := types.Zpad(raw, n)
		st.Push(types.BigEndianToInt(buf))
		cs.PC = end
		return nil, false
	}
	if n, ok := isDup(op); ok {
		st.Dup(n)
		return nil, false
	}
	if n, ok := isSwap(op); ok {
		st.Swap(n)
		return nil, false
	}

	switch op {
	case STOP:
		return []byte{}, false
	case ADD:
		b, a := st.Pop(), st.Pop()
		st.Push(types.Add(a, b))
	case MUL:
		b, a := st.Pop(), st.Pop()
		st.Push(types.Mul(a, b))
	case SUB:
		// s0 - s1, with s0 the first-popped (topmost) operand.
		s0, s1 := st.Pop(), st.Pop()
		st.Push(types.Sub(s0, s1))
	case DIV:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(types.Div(s0, s1))
	case SDIV:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(types.SDiv(s0, s1))
	case MOD:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(types.Mod(s0, s1))
	case SMOD:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(types.SMod(s0, s1))
	case EXP:
		// base**exp, with base the first-popped operand.
		base, exp := st.Pop(), st.Pop()
		st.Push(types.Exp(base, exp))
	case NEG:
		a := st.Pop()
		st.Push(types.Neg(a))
	case LT:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(boolWord(types.Lt(s0, s1)))
	case GT:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(boolWord(types.Gt(s0, s1)))
	case SLT:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(boolWord(types.Slt(s0, s1)))
	case SGT:
		s0, s1 := st.Pop(), st.Pop()
		st.Push(boolWord(types.Sgt(s0, s1)))
	case EQ:
		b, a := st.Pop(), st.Pop()
		st.Push(boolWord(a.Eq(b)))
	case NOT:
		a := st.Pop()
		st.Push(boolWord(a.IsZero()))
	case AND:
		b, a := st.Pop(), st.Pop()
		st.Push(types.And(a, b))
	case OR:
		b, a := st.Pop(), st.Pop()
		st.Push(types.Or(a, b))
	case XOR:
		b, a := st.Pop(), st.Pop()
		st.Push(types.Xor(a, b))
	case BYTE:
		i, x := st.Pop(), st.Pop()
		st.Push(types.Byte(i, x))
	case ADDMOD:
		// (s0 + s1) mod s2.
		s0, s1, s2 := st.Pop(), st.Pop(), st.Pop()
		st.Push(types.AddMod(s0, s1, s2))
	case MULMOD:
		s0, s1, s2 := st.Pop(), st.Pop(), st.Pop()
		st.Push(types.MulMod(s0, s1, s2))
	case SHA3:
		offset, size := st.Pop(), st.Pop()
		off, sz := offset.Uint64(), size.Uint64()
		if f.growMemory(off, sz) {
			return nil, true
		}
		data := cs.Memory.Get(off, sz)
		st.Push(types.BigEndianToInt(crypto.Keccak256(data)))
	case ADDRESS:
		st.Push(addressToWord(f.self))
	case BALANCE:
		a := st.Pop()
		st.Push(types.WordFromUint64(f.accessor.GetBalance(wordToAddress(a))))
	case ORIGIN:
		st.Push(addressToWord(f.origin))
	case CALLER:
		st.Push(addressToWord(f.msg.Sender))
	case CALLVALUE:
		st.Push(f.msg.Value)
	case CALLDATALOAD:
		off := st.Pop().Uint64()
		st.Push(types.BigEndianToInt(readPadded(f.msg.Data, off, 32)))
	case CALLDATASIZE:
		st.Push(types.WordFromUint64(uint64(len(f.msg.Data))))
	case CALLDATACOPY:
		// dst, src, size, in that pop order.
		dst, src, size := st.Pop(), st.Pop(), st.Pop()
		if f.growMemory(dst.Uint64(), size.Uint64()) {
			return nil, true
		}
		cs.Memory.Set(dst.Uint64(), readPadded(f.msg.Data, src.Uint64(), size.Uint64()))
	case CODESIZE:
		st.Push(types.WordFromUint64(uint64(len(f.code))))
	case CODECOPY:
		dst, src, size := st.Pop(), st.Pop(), st.Pop()
		if f.growMemory(dst.Uint64(), size.Uint64()) {
			return nil, true
		}
		cs.Memory.Set(dst.Uint64(), readPadded(f.code, src.Uint64(), size.Uint64()))
	case GASPRICE:
		st.Push(types.WordFromUint64(f.gasPrice))
	case PREVHASH:
		st.Push(types.BigEndianToInt(f.evm.Block.PrevHash.Bytes()))
	case COINBASE:
		st.Push(addressToWord(f.evm.Block.Coinbase))
	case TIMESTAMP:
		st.Push(types.WordFromUint64(f.evm.Block.Timestamp))
	case NUMBER:
		st.Push(types.WordFromUint64(f.evm.Block.Number))
	case DIFFICULTY:
		st.Push(types.WordFromUint64(f.evm.Block.Difficulty))
	case GASLIMIT:
		st.Push(types.WordFromUint64(f.evm.Block.GasLimit))
	case POP:
		st.Pop()
	case MLOAD:
		offset := st.Pop()
		off := offset.Uint64()
		if f.growMemory(off, 32) {
			return nil, true
		}
		var buf [32]byte
		copy(buf[:], cs.Memory.Get(off, 32))
		st.Push(types.BigEndianToInt(buf[:]))
	case MSTORE:
		// offset popped first, then the value to write.
		offset, val := st.Pop(), st.Pop()
		off := offset.Uint64()
		if f.growMemory(off, 32) {
			return nil, true
		}
		cs.Memory.Set32(off, val.Bytes32())
	case MSTORE8:
		offset, val := st.Pop(), st.Pop()
		off := offset.Uint64()
		if f.growMemory(off, 1) {
			return nil, true
		}
		cs.Memory.SetByte(off, byte(val.Uint64()))
	case SLOAD:
		key := st.Pop()
		st.Push(f.accessor.GetStorage(f.self, key))
	case SSTORE:
		// key popped first, then the value to write.
		key, val := st.Pop(), st.Pop()
		current := f.accessor.GetStorage(f.self, key)
		cost := SstoreGasCost(!current.IsZero(), !val.IsZero())
		cs.Charge(cost)
		if cs.OutOfGas() {
			return nil, true
		}
		f.accessor.SetStorage(f.self, key, val)
	case JUMP:
		dest := st.Pop()
		cs.PC = dest.Uint64()
	case JUMPI:
		dest, cond := st.Pop(), st.Pop()
		if !cond.IsZero() {
			cs.PC = dest.Uint64()
		}
	case PC:
		// PC was already advanced past this opcode; push the byte index
		// of this instruction, i.e. cs.PC-1.
		st.Push(types.WordFromUint64(cs.PC - 1))
	case MSIZE:
		st.Push(types.WordFromUint64(uint64(cs.Memory.Len())))
	case GAS:
		st.Push(types.WordFromUint64(uint64(cs.Gas)))
	case RETURN:
		offset, size := st.Pop(), st.Pop()
		off, sz := offset.Uint64(), size.Uint64()
		if f.growMemory(off, sz) {
			return nil, true
		}
		return cs.Memory.Get(off, sz), false
	case SUICIDE:
		to := wordToAddress(st.Pop())
		bal := f.accessor.GetBalance(f.self)
		f.accessor.Credit(to, bal)
		_ = f.accessor.Debit(f.self, bal)
		f.accessor.Suicide(f.self)
		return []byte{}, false
	case CREATE:
		return f.opCreate()
	case CALL:
		return f.opCall(false)
	case CALL_STATELESS:
		return f.opCall(true)
	case POST:
		if f.opPost() {
			return nil, true
		}
	default:
		// Unknown byte: INVALID, halts with empty output per spec.md §4.2.
		return []byte{}, false
	}
	return nil, false
}

func boolWord(b bool) types.Word {
	if b {
		return types.WordFromUint64(1)
	}
	return types.Word{}
}

// readPadded returns n bytes of src starting at off, right-zero-padding
// when the requested range extends past len(src) or off is already past
// it.
func readPadded(src []byte, off, n uint64) []byte {
	out := make([]byte, n)
	if off >= uint64(len(src)) {
		return out
	}
	end := off + n
	if end > uint64(len(src)) {
		end = uint64(len(src))
	}
	copy(out, src[off:end])
	return out
}
