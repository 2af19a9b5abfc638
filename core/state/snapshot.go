package state

import "github.com/paytokens/contractvm/core/types"

// storageKeyStr is a comparable key for the in-memory storage diff map.
type storageKeyStr struct {
	cid types.Address
	key [32]byte
}

// Snapshot is a copy-on-write overlay on a parent Accessor (either the root
// Store or another Snapshot). Writes are buffered in local diff maps and
// only become visible to the parent on Commit; Discard simply drops the
// overlay, leaving the parent untouched -- this is the mechanism §5's
// "rolled-back frame leaves the store as if it never ran" guarantee rests
// on, and it nests to arbitrary depth for free since a Snapshot is itself
// an Accessor.
type Snapshot struct {
	parent Accessor

	code     map[types.Address][]byte
	codeSet  map[types.Address]bool
	balance  map[types.Address]uint64
	storage  map[storageKeyStr]types.Word
	nonce    map[types.Address]uint64
	suicides map[types.Address]bool

	done bool
}

func newSnapshot(parent Accessor) *Snapshot {
	return &Snapshot{
		parent:   parent,
		code:     make(map[types.Address][]byte),
		codeSet:  make(map[types.Address]bool),
		balance:  make(map[types.Address]uint64),
		storage:  make(map[storageKeyStr]types.Word),
		nonce:    make(map[types.Address]uint64),
		suicides: make(map[types.Address]bool),
	}
}

// GetCode implements Accessor.
func (s *Snapshot) GetCode(cid types.Address) ([]byte, bool) {
	if s.codeSet[cid] {
		return s.code[cid], true
	}
	return s.parent.GetCode(cid)
}

// PutCode implements Accessor.
func (s *Snapshot) PutCode(cid types.Address, code []byte) {
	s.code[cid] = code
	s.codeSet[cid] = true
}

// GetBalance implements Accessor.
func (s *Snapshot) GetBalance(addr types.Address) uint64 {
	if v, ok := s.balance[addr]; ok {
		return v
	}
	return s.parent.GetBalance(addr)
}

// Debit implements Accessor.
func (s *Snapshot) Debit(addr types.Address, qty uint64) error {
	bal := s.GetBalance(addr)
	if bal < qty {
		return &BalanceError{Address: addr, Have: bal, Want: qty}
	}
	s.balance[addr] = bal - qty
	return nil
}

// Credit implements Accessor.
func (s *Snapshot) Credit(addr types.Address, qty uint64) {
	s.balance[addr] = s.GetBalance(addr) + qty
}

// GetStorage implements Accessor.
func (s *Snapshot) GetStorage(cid types.Address, key types.Word) types.Word {
	k := storageKeyStr{cid: cid, key: key.Bytes32()}
	if v, ok := s.storage[k]; ok {
		return v
	}
	return s.parent.GetStorage(cid, key)
}

// SetStorage implements Accessor.
func (s *Snapshot) SetStorage(cid types.Address, key, value types.Word) {
	k := storageKeyStr{cid: cid, key: key.Bytes32()}
	s.storage[k] = value
}

// GetNonce implements Accessor.
func (s *Snapshot) GetNonce(cid types.Address) uint64 {
	if v, ok := s.nonce[cid]; ok {
		return v
	}
	return s.parent.GetNonce(cid)
}

// SetNonce implements Accessor.
func (s *Snapshot) SetNonce(cid types.Address, n uint64) {
	s.nonce[cid] = n
}

// Suicide implements Accessor.
func (s *Snapshot) Suicide(cid types.Address) {
	s.suicides[cid] = true
}

// Suicided implements Accessor.
func (s *Snapshot) Suicided(cid types.Address) bool {
	if s.suicides[cid] {
		return true
	}
	return s.parent.Suicided(cid)
}

// Snapshot opens a further-nested overlay on top of this one.
func (s *Snapshot) Snapshot() *Snapshot {
	return newSnapshot(s)
}

// Commit flushes this overlay's diffs into its parent. After Commit the
// Snapshot must not be used again.
func (s *Snapshot) Commit() {
	if s.done {
		return
	}
	s.done = true
	for cid, code := range s.code {
		s.parent.PutCode(cid, code)
	}
	for addr, bal := range s.balance {
		current := s.parent.GetBalance(addr)
		if bal > current {
			s.parent.Credit(addr, bal-current)
		} else if bal < current {
			_ = s.parent.Debit(addr, current-bal)
		}
	}
	for k, v := range s.storage {
		s.parent.SetStorage(k.cid, types.BigEndianToInt(k.key[:]), v)
	}
	for cid, n := range s.nonce {
		s.parent.SetNonce(cid, n)
	}
	for cid := range s.suicides {
		s.parent.Suicide(cid)
	}
}

// Discard abandons this overlay's diffs. The parent is left exactly as it
// was before the Snapshot was opened -- the frame-rollback primitive OOG
// handling relies on.
func (s *Snapshot) Discard() {
	s.done = true
}
