package evm

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eth2030/zkevm/rlc"
)

// Read/write log construction errors.
var (
	ErrUndefinedRead  = errors.New("evm: read of undefined state")
	ErrReadMismatch   = errors.New("evm: read does not match last write")
	ErrStackSlotRange = errors.New("evm: stack slot out of range")
)

type rwStateKey struct {
	kind       RWKind
	contextID  uint64
	key        uint64
	storageKey fr.Element
}

// RWDictionary builds the read/write log of a trace. Each record call
// appends one row stamped with the next counter. Reads must observe the
// value last written to the same location; stack slots and call context
// fields have no implicit value and must be written or seeded first, while
// memory and storage read as zero. The first error sticks and stops
// recording.
type RWDictionary struct {
	counter uint64
	rows    []RWRow
	state   map[rwStateKey]rlc.Value
	err     error
}

// NewRWDictionary starts a log whose first record has counter start.
func NewRWDictionary(start uint64) *RWDictionary {
	return &RWDictionary{
		counter: start,
		state:   make(map[rwStateKey]rlc.Value),
	}
}

// SeedStack sets the value of a stack slot before the trace begins. No
// record is emitted.
func (d *RWDictionary) SeedStack(callID, slot uint64, v rlc.Value) *RWDictionary {
	if d.err == nil && slot >= StackLimit {
		d.err = fmt.Errorf("%w: %d", ErrStackSlotRange, slot)
	}
	if d.err == nil {
		d.state[rwStateKey{kind: RWStack, contextID: callID, key: slot}] = v
	}
	return d
}

// SeedCallContext sets a call context field before the trace begins. No
// record is emitted.
func (d *RWDictionary) SeedCallContext(callID uint64, field CallContextField, v rlc.Value) *RWDictionary {
	if d.err == nil {
		d.state[rwStateKey{kind: RWCallContext, contextID: callID, key: uint64(field)}] = v
	}
	return d
}

// SeedStorage sets the committed value of a storage slot.
func (d *RWDictionary) SeedStorage(accountID uint64, key, v rlc.Value) *RWDictionary {
	if d.err == nil {
		d.state[rwStateKey{kind: RWStorage, contextID: accountID, storageKey: key.Field()}] = v
	}
	return d
}

// StackRead records a read of slot in call callID.
func (d *RWDictionary) StackRead(callID, slot uint64, v rlc.Value) *RWDictionary {
	if d.err == nil && slot >= StackLimit {
		d.err = fmt.Errorf("%w: %d", ErrStackSlotRange, slot)
	}
	return d.record(RWRow{Kind: RWStack, ContextID: callID, Key: slot, Value: v})
}

// StackWrite records a write of slot in call callID.
func (d *RWDictionary) StackWrite(callID, slot uint64, v rlc.Value) *RWDictionary {
	if d.err == nil && slot >= StackLimit {
		d.err = fmt.Errorf("%w: %d", ErrStackSlotRange, slot)
	}
	return d.record(RWRow{IsWrite: true, Kind: RWStack, ContextID: callID, Key: slot, Value: v})
}

// MemoryRead records a one-byte memory read.
func (d *RWDictionary) MemoryRead(callID, addr uint64, b byte) *RWDictionary {
	return d.record(RWRow{Kind: RWMemory, ContextID: callID, Key: addr, Value: byteValue(b)})
}

// MemoryWrite records a one-byte memory write.
func (d *RWDictionary) MemoryWrite(callID, addr uint64, b byte) *RWDictionary {
	return d.record(RWRow{IsWrite: true, Kind: RWMemory, ContextID: callID, Key: addr, Value: byteValue(b)})
}

// StorageRead records a storage read of key in account accountID.
func (d *RWDictionary) StorageRead(accountID uint64, key, v rlc.Value) *RWDictionary {
	return d.record(RWRow{Kind: RWStorage, ContextID: accountID, StorageKey: key, Value: v})
}

// StorageWrite records a storage write of key in account accountID.
func (d *RWDictionary) StorageWrite(accountID uint64, key, v rlc.Value) *RWDictionary {
	return d.record(RWRow{IsWrite: true, Kind: RWStorage, ContextID: accountID, StorageKey: key, Value: v})
}

// CallContextRead records a read of a call context field.
func (d *RWDictionary) CallContextRead(callID uint64, field CallContextField, v rlc.Value) *RWDictionary {
	return d.record(RWRow{Kind: RWCallContext, ContextID: callID, Key: uint64(field), Value: v})
}

func (d *RWDictionary) record(row RWRow) *RWDictionary {
	if d.err != nil {
		return d
	}
	key := rwStateKey{kind: row.Kind, contextID: row.ContextID, key: row.Key, storageKey: row.StorageKey.Field()}
	if row.IsWrite {
		d.state[key] = row.Value
	} else {
		last, ok := d.state[key]
		if !ok {
			switch row.Kind {
			case RWMemory, RWStorage:
				// zero-initialised
			default:
				d.err = fmt.Errorf("%w: %s key %d in context %d at counter %d",
					ErrUndefinedRead, row.Kind, row.Key, row.ContextID, d.counter)
				return d
			}
		}
		if !last.Equal(row.Value) {
			d.err = fmt.Errorf("%w: %s key %d in context %d at counter %d: read %s, last %s",
				ErrReadMismatch, row.Kind, row.Key, row.ContextID, d.counter, row.Value, last)
			return d
		}
	}
	row.Counter = d.counter
	d.rows = append(d.rows, row)
	d.counter++
	return d
}

// byteValue encodes a single byte. The RLC of a byte is the byte itself
// under every challenge.
func byteValue(b byte) rlc.Value {
	return rlc.EncodeUint64(uint64(b), fr.Element{})
}

// Counter returns the counter the next record will receive.
func (d *RWDictionary) Counter() uint64 { return d.counter }

// Err returns the first construction error.
func (d *RWDictionary) Err() error { return d.err }

// Rows returns the recorded rows, or the first construction error.
func (d *RWDictionary) Rows() ([]RWRow, error) {
	if d.err != nil {
		return nil, d.err
	}
	return append([]RWRow(nil), d.rows...), nil
}
