// Package crypto provides the VM's sole cryptographic primitives: the
// SHA3 (Keccak-256) opcode and contract-address derivation.
package crypto

import (
	"github.com/paytokens/contractvm/core/types"
	"golang.org/x/crypto/sha3"
)

// Keccak256 calculates the Keccak-256 hash of the given data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}

// ContractAddress derives a new contract's address as the low 20 bytes of
// Keccak256(sender || seed). seed is the parent transaction hash at the top
// level, or the sender's nonce rendered as a decimal string for sub-creates.
func ContractAddress(sender types.Address, seed []byte) types.Address {
	return types.BytesToAddress(Keccak256(sender.Bytes(), seed))
}
