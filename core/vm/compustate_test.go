package vm

import "testing"

func TestCompustateChargeDrivesGasNegative(t *testing.T) {
	cs := NewCompustate(10)
	cs.Charge(4)
	if cs.OutOfGas() {
		t.Fatal("should not be out of gas yet")
	}
	cs.Charge(10)
	if !cs.OutOfGas() {
		t.Fatal("should be out of gas after overcharging")
	}
	if cs.Gas != -4 {
		t.Fatalf("Gas = %d, want -4 (transiently negative)", cs.Gas)
	}
}

func TestNewCompustateStartsWithEmptyStackAndMemory(t *testing.T) {
	cs := NewCompustate(100)
	if cs.Stack.Len() != 0 {
		t.Fatal("new Compustate should have an empty stack")
	}
	if cs.Memory.Len() != 0 {
		t.Fatal("new Compustate should have empty memory")
	}
	if cs.PC != 0 {
		t.Fatal("new Compustate should start at PC 0")
	}
}
