package types

import (
	"encoding/binary"
	"fmt"
)

// MessageType is the VM's wire-level message-type tag.
const MessageType uint32 = 101

// contractIDFieldLen is the width of the envelope's contract-id field: a
// 32-byte word whose low 20 bytes hold the address.
const contractIDFieldLen = 32

const envelopeHeaderLen = 4 + contractIDFieldLen + 8 + 8 + 8

// Envelope is the decoded form of a transaction's wire encoding: a 4-byte
// type tag, a fixed header, and a variable-length payload.
type Envelope struct {
	Type       uint32
	ContractID Address
	GasPrice   uint64
	StartGas   uint64
	Value      uint64
	Payload    []byte
}

// ErrUnpack is returned by Unpack when the input is shorter than the fixed
// header. The message-type tag is decoded but not checked.
type ErrUnpack struct {
	Reason string
}

func (e *ErrUnpack) Error() string { return fmt.Sprintf("could not unpack: %s", e.Reason) }

// Pack serializes an Envelope into the wire format: big-endian, tightly
// packed, no padding and no length prefix on the payload.
func Pack(e Envelope) []byte {
	buf := make([]byte, envelopeHeaderLen+len(e.Payload))
	binary.BigEndian.PutUint32(buf[0:4], e.Type)
	copy(buf[4+contractIDFieldLen-AddressLength:4+contractIDFieldLen], e.ContractID.Bytes())
	off := 4 + contractIDFieldLen
	binary.BigEndian.PutUint64(buf[off:off+8], e.GasPrice)
	binary.BigEndian.PutUint64(buf[off+8:off+16], e.StartGas)
	binary.BigEndian.PutUint64(buf[off+16:off+24], e.Value)
	copy(buf[off+24:], e.Payload)
	return buf
}

// Unpack parses the wire format produced by Pack. It returns *ErrUnpack if
// the input is too short to contain the fixed header.
func Unpack(raw []byte) (Envelope, error) {
	if len(raw) < envelopeHeaderLen {
		return Envelope{}, &ErrUnpack{Reason: fmt.Sprintf("envelope too short: got %d bytes, need at least %d", len(raw), envelopeHeaderLen)}
	}
	var e Envelope
	e.Type = binary.BigEndian.Uint32(raw[0:4])
	e.ContractID = BytesToAddress(raw[4 : 4+contractIDFieldLen])
	off := 4 + contractIDFieldLen
	e.GasPrice = binary.BigEndian.Uint64(raw[off : off+8])
	e.StartGas = binary.BigEndian.Uint64(raw[off+8 : off+16])
	e.Value = binary.BigEndian.Uint64(raw[off+16 : off+24])
	e.Payload = append([]byte(nil), raw[off+24:]...)
	return e, nil
}

// Compose packs an envelope's fields into wire bytes. Source is informational
// only and is not encoded; callers that need to track provenance do so
// alongside the returned bytes (see core/processor.ExecutionSink).
func Compose(contractID Address, gasprice, startgas, value uint64, payload []byte) []byte {
	return Pack(Envelope{
		Type:       MessageType,
		ContractID: contractID,
		GasPrice:   gasprice,
		StartGas:   startgas,
		Value:      value,
		Payload:    payload,
	})
}
