package vm

import (
	"strconv"

	"github.com/paytokens/contractvm/core/state"
	"github.com/paytokens/contractvm/core/types"
	"github.com/paytokens/contractvm/crypto"
)

// maxCallDepth bounds CALL/CALL_STATELESS/CREATE recursion; nothing in the
// source enforces this, but an unbounded Go call stack is a denial-of-service
// surface a real host has to close off.
const maxCallDepth = 1024

// ApplyMsg runs msg's code against parent inside its own transactional
// snapshot: it debits the transferred value from the sender up front and
// credits it to self, then drives the opcode loop to completion. A failed
// debit (insufficient balance) is not an error -- per spec.md §7 the call
// still runs, just without moving funds. An out-of-gas frame discards its
// snapshot so none of its storage writes, balance changes or suicides
// survive; anything else commits them.
func ApplyMsg(evm *EVM, parent state.Accessor, msg types.Message, code []byte, self types.Address, origin types.Address, gasPrice uint64, postq *state.PostQueue, txHash types.Hash, depth int) (ok bool, gasRemaining int64, output []byte) {
	if depth > maxCallDepth {
		return false, 0, nil
	}

	snap := parent.Snapshot()

	if !msg.Value.IsZero() {
		value := msg.Value.Uint64()
		if err := snap.Debit(msg.Sender, value); err == nil {
			snap.Credit(self, value)
		}
	}

	cs := NewCompustate(int64(msg.Gas.Uint64()))
	f := &frame{
		evm:      evm,
		accessor: snap,
		msg:      msg,
		cs:       cs,
		code:     code,
		self:     self,
		origin:   origin,
		gasPrice: gasPrice,
		postq:    postq,
		txHash:   txHash,
		depth:    depth,
	}

	out, oog := f.run()
	if oog {
		snap.Discard()
		return false, 0, nil
	}
	snap.Commit()
	return true, cs.Gas, out
}

// CreateContract derives a new contract's address, runs initCode as the
// executed code of a message addressed to it, and -- only when that run
// succeeds -- installs the returned bytes as the contract's code. A
// top-level creation seeds the address from the enclosing transaction hash;
// a sub-create (CREATE from inside running code) seeds it from the sender's
// own nonce, which is incremented first.
//
// original_source/lib/execute.py's create_contract inserts the returned code
// unconditionally, even when the init code ran out of gas. That is followed
// here only up to a point: an out-of-gas creation installs no code and
// reports failure, matching how CALL/CALL_STATELESS already treat their own
// failures and how spec.md's resolution of this Open Question asks for it --
// see DESIGN.md.
func CreateContract(evm *EVM, accessor state.Accessor, sender types.Address, value, gas types.Word, initCode []byte, origin types.Address, gasPrice uint64, postq *state.PostQueue, txHash types.Hash, topLevel bool, depth int) (addr types.Address, ok bool, gasRemaining int64, output []byte) {
	var seed []byte
	if topLevel {
		seed = txHash.Bytes()
	} else {
		nonce := accessor.GetNonce(sender)
		accessor.SetNonce(sender, nonce+1)
		seed = []byte(strconv.FormatUint(nonce, 10))
	}
	addr = crypto.ContractAddress(sender, seed)

	createMsg := types.NewCreateMessage(sender, value, gas, initCode)
	success, remaining, out := ApplyMsg(evm, accessor, createMsg, initCode, addr, origin, gasPrice, postq, txHash, depth)
	if !success {
		return types.Address{}, false, 0, nil
	}
	accessor.PutCode(addr, out)
	return addr, true, remaining, out
}

// opCreate implements CREATE: pop value, mstart, msz (in that order -- value
// is the top of stack), run mem[mstart:mstart+msz) as init code for a new
// contract funded with value, and push the new address (or zero on
// failure). The entire remaining gas of the current frame is handed to the
// creation, matching the source's "compustate.gas" argument.
func (f *frame) opCreate() (halt []byte, oog bool) {
	cs := f.cs
	st := cs.Stack

	value := st.Pop()
	mstart := st.Pop()
	msz := st.Pop()

	off, sz := mstart.Uint64(), msz.Uint64()
	if f.growMemory(off, sz) {
		return nil, true
	}
	data := cs.Memory.Get(off, sz)

	addr, ok, gasRemaining, _ := CreateContract(f.evm, f.accessor, f.self, value, types.WordFromUint64(uint64(cs.Gas)), data, f.origin, f.gasPrice, f.postq, f.txHash, false, f.depth+1)
	if ok {
		st.Push(addressToWord(addr))
		cs.Gas = gasRemaining
	} else {
		st.Push(types.Word{})
		cs.Gas = 0
	}
	return nil, false
}

// opCall implements both CALL and CALL_STATELESS, which share an identical
// stack shape and gas-reservation/refund protocol: pop gas, to, value,
// meminstart, meminsz, memoutstart, memoutsz (in that order), reserve gas
// out of the current frame up front, run the callee, and on success add its
// unused gas back and copy its output into the requested output region.
//
// stateless selects CALL_STATELESS's distinct effect: the callee's code is
// still loaded from the nominal target, but it executes against the
// caller's own storage and balance (self is rebound to f.self) rather than
// the target's -- spec.md's resolution of its third Open Question, since the
// source's CALL_STATELESS branch is, as written, dispatch-identical to CALL.
func (f *frame) opCall(stateless bool) (halt []byte, oog bool) {
	cs := f.cs
	st := cs.Stack

	gasW := st.Pop()
	to := st.Pop()
	value := st.Pop()
	inOff := st.Pop()
	inSz := st.Pop()
	outOff := st.Pop()
	outSz := st.Pop()

	inEnd := inOff.Uint64() + inSz.Uint64()
	outEnd := outOff.Uint64() + outSz.Uint64()
	total := inEnd
	if outEnd > total {
		total = outEnd
	}
	if f.growMemory(0, total) {
		return nil, true
	}

	gasReserve := int64(gasW.Uint64())
	if gasReserve > cs.Gas {
		return nil, true
	}
	cs.Charge(gasReserve)

	toAddr := wordToAddress(to)
	data := cs.Memory.Get(inOff.Uint64(), inSz.Uint64())

	callSelf := toAddr
	if stateless {
		callSelf = f.self
	}
	code, _ := f.accessor.GetCode(toAddr)

	callMsg := types.NewMessage(f.self, callSelf, value, types.WordFromUint64(uint64(gasReserve)), data)
	ok, gasRemaining, out := ApplyMsg(f.evm, f.accessor, callMsg, code, callSelf, f.origin, f.gasPrice, f.postq, f.txHash, f.depth+1)
	if !ok {
		st.Push(types.Word{})
		return nil, false
	}

	st.Push(types.WordFromUint64(1))
	cs.Gas += gasRemaining

	n := uint64(len(out))
	if n > outSz.Uint64() {
		n = outSz.Uint64()
	}
	cs.Memory.Set(outOff.Uint64(), out[:n])
	return nil, false
}

// opPost implements POST: pop gas, to, value, meminstart, meminsz, reserve
// the gas out of the current frame, and append the resulting message to the
// transaction's post-queue. Nothing is pushed back to the stack and nothing
// executes immediately -- the message waits for the processor to drain the
// queue after the current transaction's primary message finishes.
func (f *frame) opPost() (oog bool) {
	cs := f.cs
	st := cs.Stack

	gasW := st.Pop()
	to := st.Pop()
	value := st.Pop()
	inOff := st.Pop()
	inSz := st.Pop()

	off, sz := inOff.Uint64(), inSz.Uint64()
	if f.growMemory(off, sz) {
		return true
	}

	gasReserve := int64(gasW.Uint64())
	if gasReserve > cs.Gas {
		return true
	}
	cs.Charge(gasReserve)

	data := cs.Memory.Get(off, sz)
	postMsg := types.NewMessage(f.self, wordToAddress(to), value, types.WordFromUint64(uint64(gasReserve)), data)
	f.postq.Push(postMsg)
	return false
}
