package vm

import (
	"testing"

	"github.com/paytokens/contractvm/core/types"
)

func TestStackPushPop(t *testing.T) {
	st := NewStack()
	if err := st.Push(types.WordFromUint64(1)); err != nil {
		t.Fatal(err)
	}
	if err := st.Push(types.WordFromUint64(2)); err != nil {
		t.Fatal(err)
	}
	if got := st.Pop(); got.Uint64() != 2 {
		t.Fatalf("pop = %d, want 2", got.Uint64())
	}
	if got := st.Pop(); got.Uint64() != 1 {
		t.Fatalf("pop = %d, want 1", got.Uint64())
	}
	if st.Len() != 0 {
		t.Fatalf("len = %d, want 0", st.Len())
	}
}

func TestStackOverflow(t *testing.T) {
	st := NewStack()
	for i := 0; i < stackLimit; i++ {
		if err := st.Push(types.WordFromUint64(uint64(i))); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := st.Push(types.WordFromUint64(0)); err == nil {
		t.Fatal("push past stackLimit should fail")
	}
}

func TestStackDup(t *testing.T) {
	st := NewStack()
	st.Push(types.WordFromUint64(10))
	st.Push(types.WordFromUint64(20))
	if err := st.Dup(2); err != nil {
		t.Fatal(err)
	}
	if got := st.Pop(); got.Uint64() != 10 {
		t.Fatalf("dup(2) top = %d, want 10", got.Uint64())
	}
	if got := st.Pop(); got.Uint64() != 20 {
		t.Fatalf("unchanged top = %d, want 20", got.Uint64())
	}
}

func TestStackSwap(t *testing.T) {
	st := NewStack()
	st.Push(types.WordFromUint64(1))
	st.Push(types.WordFromUint64(2))
	st.Push(types.WordFromUint64(3))
	st.Swap(2) // swap top (3) with element at depth 3 (1)
	if got := st.Back(0); got.Uint64() != 1 {
		t.Fatalf("top after swap = %d, want 1", got.Uint64())
	}
	if got := st.Back(2); got.Uint64() != 3 {
		t.Fatalf("bottom after swap = %d, want 3", got.Uint64())
	}
}

func TestStackBack(t *testing.T) {
	st := NewStack()
	st.Push(types.WordFromUint64(1))
	st.Push(types.WordFromUint64(2))
	st.Push(types.WordFromUint64(3))
	if got := st.Back(0); got.Uint64() != 3 {
		t.Fatalf("Back(0) = %d, want 3", got.Uint64())
	}
	if got := st.Back(2); got.Uint64() != 1 {
		t.Fatalf("Back(2) = %d, want 1", got.Uint64())
	}
}
