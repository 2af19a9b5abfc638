package processor

import (
	"bytes"
	"encoding/gob"

	"github.com/paytokens/contractvm/core/types"
)

func encodeExecutionRecord(rec types.ExecutionRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeExecutionRecord(raw []byte) (types.ExecutionRecord, error) {
	var rec types.ExecutionRecord
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return types.ExecutionRecord{}, err
	}
	return rec, nil
}
