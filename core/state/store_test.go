package state

import (
	"os"
	"testing"

	"github.com/paytokens/contractvm/core/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "contractvm-state-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreCodeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cid := types.HexToAddress("0x01")
	if _, ok := s.GetCode(cid); ok {
		t.Fatal("expected no code for unknown contract")
	}
	s.PutCode(cid, []byte{0x60, 0x01})
	code, ok := s.GetCode(cid)
	if !ok || len(code) != 2 {
		t.Fatalf("GetCode after PutCode = %x, %v", code, ok)
	}
}

func TestStoreBalanceDebitCredit(t *testing.T) {
	s := newTestStore(t)
	addr := types.HexToAddress("0x02")
	s.Credit(addr, 100)
	if got := s.GetBalance(addr); got != 100 {
		t.Fatalf("balance = %d, want 100", got)
	}
	if err := s.Debit(addr, 40); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if got := s.GetBalance(addr); got != 60 {
		t.Fatalf("balance after debit = %d, want 60", got)
	}
	if err := s.Debit(addr, 1000); err == nil {
		t.Fatal("expected BalanceError on over-debit")
	}
}

func TestStoreStorageRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cid := types.HexToAddress("0x03")
	key := types.WordFromUint64(7)
	if got := s.GetStorage(cid, key); !got.IsZero() {
		t.Fatal("expected zero for missing cell")
	}
	val := types.WordFromUint64(42)
	s.SetStorage(cid, key, val)
	if got := s.GetStorage(cid, key); !got.Eq(val) {
		t.Fatalf("GetStorage = %v, want %v", got, val)
	}
}

func TestStoreNonceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cid := types.HexToAddress("0x04")
	if got := s.GetNonce(cid); got != 0 {
		t.Fatalf("nonce = %d, want 0", got)
	}
	s.SetNonce(cid, 5)
	if got := s.GetNonce(cid); got != 5 {
		t.Fatalf("nonce = %d, want 5", got)
	}
}

func TestStoreDeleteContractRemovesStorage(t *testing.T) {
	s := newTestStore(t)
	cid := types.HexToAddress("0x05")
	s.PutCode(cid, []byte{0x00})
	s.SetStorage(cid, types.WordFromUint64(1), types.WordFromUint64(1))
	s.SetNonce(cid, 3)
	s.Credit(cid, 10)

	s.DeleteContract(cid)

	if _, ok := s.GetCode(cid); ok {
		t.Fatal("code should be gone")
	}
	if got := s.GetStorage(cid, types.WordFromUint64(1)); !got.IsZero() {
		t.Fatal("storage cell should read zero after delete")
	}
	if got := s.GetNonce(cid); got != 0 {
		t.Fatal("nonce should reset after delete")
	}
	if got := s.GetBalance(cid); got != 0 {
		t.Fatal("balance should reset after delete")
	}
}

func TestStoreSweepSuicides(t *testing.T) {
	s := newTestStore(t)
	cid := types.HexToAddress("0x06")
	s.PutCode(cid, []byte{0x00})
	s.Suicide(cid)
	swept := s.SweepSuicides()
	if len(swept) != 1 || swept[0] != cid {
		t.Fatalf("swept = %v, want [%v]", swept, cid)
	}
	if _, ok := s.GetCode(cid); ok {
		t.Fatal("suicided contract's code should be gone after sweep")
	}
	if more := s.SweepSuicides(); len(more) != 0 {
		t.Fatal("second sweep should be empty")
	}
}
