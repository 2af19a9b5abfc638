package processor

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/paytokens/contractvm/core/types"
)

// executionKeyPrefix namespaces the executions table within a goleveldb
// store shared with core/state's code/storage/balance/nonce prefixes.
const executionKeyPrefix = 'x'

// LevelDBSink persists ExecutionRecords in the same kind of goleveldb
// database core/state.Store uses, keyed by tx_index so rows come back out in
// transaction order on a prefix scan.
type LevelDBSink struct {
	db *leveldb.DB
}

// OpenLevelDBSink opens (creating if necessary) a goleveldb-backed
// ExecutionSink at path.
func OpenLevelDBSink(path string) (*LevelDBSink, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("processor: open %s: %w", path, err)
	}
	return &LevelDBSink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelDBSink) Close() error {
	return s.db.Close()
}

func executionKey(txIndex uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = executionKeyPrefix
	binary.BigEndian.PutUint64(buf[1:], txIndex)
	return buf
}

// Record implements ExecutionSink by gob-encoding the row under its
// tx_index key.
func (s *LevelDBSink) Record(rec types.ExecutionRecord) error {
	buf, err := encodeExecutionRecord(rec)
	if err != nil {
		return fmt.Errorf("processor: encode execution record: %w", err)
	}
	return s.db.Put(executionKey(rec.TxIndex), buf, nil)
}

// Get retrieves a previously recorded row by tx_index.
func (s *LevelDBSink) Get(txIndex uint64) (types.ExecutionRecord, bool, error) {
	buf, err := s.db.Get(executionKey(txIndex), nil)
	if err != nil {
		return types.ExecutionRecord{}, false, nil
	}
	rec, err := decodeExecutionRecord(buf)
	if err != nil {
		return types.ExecutionRecord{}, false, fmt.Errorf("processor: decode execution record: %w", err)
	}
	return rec, true, nil
}

// InMemorySink is an ExecutionSink that keeps rows in a slice, for tests and
// for the CLI's one-shot `run` subcommand where a durable table is overkill.
type InMemorySink struct {
	Records []types.ExecutionRecord
}

// Record implements ExecutionSink.
func (s *InMemorySink) Record(rec types.ExecutionRecord) error {
	s.Records = append(s.Records, rec)
	return nil
}
