package state

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/paytokens/contractvm/core/types"
)

// Store is the root Accessor, persisting contracts, storage cells, balances
// and nonces in a goleveldb database. Namespaced key prefixes keep the four
// tables disjoint within the single underlying keyspace.
type Store struct {
	db       *leveldb.DB
	suicided []types.Address
}

const (
	prefixCode    = 'c'
	prefixStorage = 's'
	prefixBalance = 'b'
	prefixNonce   = 'n'
)

// Open opens (creating if necessary) a goleveldb-backed Store at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func codeKey(cid types.Address) []byte {
	return append([]byte{prefixCode}, cid.Bytes()...)
}

func storageKey(cid types.Address, key types.Word) []byte {
	buf := make([]byte, 1+types.AddressLength+32)
	buf[0] = prefixStorage
	copy(buf[1:], cid.Bytes())
	kb := key.Bytes32()
	copy(buf[1+types.AddressLength:], kb[:])
	return buf
}

func balanceKey(addr types.Address) []byte {
	return append([]byte{prefixBalance}, addr.Bytes()...)
}

func nonceKey(cid types.Address) []byte {
	return append([]byte{prefixNonce}, cid.Bytes()...)
}

// GetCode implements Accessor.
func (s *Store) GetCode(cid types.Address) ([]byte, bool) {
	v, err := s.db.Get(codeKey(cid), nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

// PutCode implements Accessor.
func (s *Store) PutCode(cid types.Address, code []byte) {
	_ = s.db.Put(codeKey(cid), code, nil)
}

// GetBalance implements Accessor.
func (s *Store) GetBalance(addr types.Address) uint64 {
	v, err := s.db.Get(balanceKey(addr), nil)
	if err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func (s *Store) setBalance(addr types.Address, qty uint64) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, qty)
	_ = s.db.Put(balanceKey(addr), buf, nil)
}

// Debit implements Accessor.
func (s *Store) Debit(addr types.Address, qty uint64) error {
	bal := s.GetBalance(addr)
	if bal < qty {
		return &BalanceError{Address: addr, Have: bal, Want: qty}
	}
	s.setBalance(addr, bal-qty)
	return nil
}

// Credit implements Accessor.
func (s *Store) Credit(addr types.Address, qty uint64) {
	s.setBalance(addr, s.GetBalance(addr)+qty)
}

// GetStorage implements Accessor.
func (s *Store) GetStorage(cid types.Address, key types.Word) types.Word {
	v, err := s.db.Get(storageKey(cid, key), nil)
	if err != nil {
		return types.Word{}
	}
	return types.BigEndianToInt(v)
}

// SetStorage implements Accessor.
func (s *Store) SetStorage(cid types.Address, key, value types.Word) {
	b := value.Bytes32()
	_ = s.db.Put(storageKey(cid, key), b[:], nil)
}

// GetNonce implements Accessor.
func (s *Store) GetNonce(cid types.Address) uint64 {
	v, err := s.db.Get(nonceKey(cid), nil)
	if err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

// SetNonce implements Accessor.
func (s *Store) SetNonce(cid types.Address, n uint64) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	_ = s.db.Put(nonceKey(cid), buf, nil)
}

// Suicide marks a contract for deletion directly against the root store.
// Snapshot.Commit calls it when an overlay whose parent is the Store
// commits a suicide; the mark is held until SweepSuicides deletes it.
func (s *Store) Suicide(cid types.Address) {
	s.suicided = append(s.suicided, cid)
}

// Suicided reports whether cid was suicided directly against the root.
func (s *Store) Suicided(cid types.Address) bool {
	for _, c := range s.suicided {
		if c == cid {
			return true
		}
	}
	return false
}

// Snapshot opens a new copy-on-write overlay on the Store.
func (s *Store) Snapshot() *Snapshot {
	return newSnapshot(s)
}

// SweepSuicides deletes every contract marked suicided since the store was
// opened (or since the last sweep) and clears the set. Called once by the
// transaction applier after a transaction completes successfully, per
// spec.md §4.7 step 7.
func (s *Store) SweepSuicides() []types.Address {
	swept := s.suicided
	s.suicided = nil
	for _, cid := range swept {
		s.DeleteContract(cid)
	}
	return swept
}

// DeleteContract removes a contract's code, nonce and balance row, and its
// storage cells by iterating over the contract's storage prefix, since the
// store has no other range-scan index of a contract's keys.
func (s *Store) DeleteContract(cid types.Address) {
	_ = s.db.Delete(codeKey(cid), nil)
	_ = s.db.Delete(nonceKey(cid), nil)
	_ = s.db.Delete(balanceKey(cid), nil)
	s.deleteStorageRows(cid)
}

func (s *Store) deleteStorageRows(cid types.Address) {
	prefix := append([]byte{prefixStorage}, cid.Bytes()...)
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	var keys [][]byte
	for iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	for _, k := range keys {
		_ = s.db.Delete(k, nil)
	}
}
