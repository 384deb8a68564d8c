package evm

import (
	"errors"
	"testing"

	"github.com/eth2030/zkevm/rlc"
)

func TestRWDictionaryCounters(t *testing.T) {
	r := rlc.Field(99)
	v := rlc.EncodeUint64(7, r)
	d := NewRWDictionary(9).
		SeedStack(1, 1023, v).
		StackRead(1, 1023, v).
		StackWrite(1, 1022, v).
		StackRead(1, 1022, v)
	rows, err := d.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, row := range rows {
		if row.Counter != uint64(9+i) {
			t.Errorf("row %d counter = %d, want %d", i, row.Counter, 9+i)
		}
	}
	if rows[0].IsWrite || !rows[1].IsWrite || rows[2].IsWrite {
		t.Error("read/write flags not recorded in order")
	}
	if d.Counter() != 12 {
		t.Errorf("Counter = %d, want 12", d.Counter())
	}
}

func TestRWDictionaryUndefinedStackRead(t *testing.T) {
	r := rlc.Field(3)
	d := NewRWDictionary(1).StackRead(1, 1023, rlc.EncodeUint64(1, r))
	if !errors.Is(d.Err(), ErrUndefinedRead) {
		t.Fatalf("Err = %v, want ErrUndefinedRead", d.Err())
	}
	if _, err := d.Rows(); err == nil {
		t.Fatal("Rows returned no error")
	}
}

func TestRWDictionaryReadMismatch(t *testing.T) {
	r := rlc.Field(3)
	d := NewRWDictionary(1).
		StackWrite(1, 1000, rlc.EncodeUint64(1, r)).
		StackRead(1, 1000, rlc.EncodeUint64(2, r))
	if !errors.Is(d.Err(), ErrReadMismatch) {
		t.Fatalf("Err = %v, want ErrReadMismatch", d.Err())
	}
}

func TestRWDictionaryStickyError(t *testing.T) {
	r := rlc.Field(3)
	d := NewRWDictionary(5).
		StackRead(1, 1023, rlc.EncodeUint64(1, r)).
		StackWrite(1, 1023, rlc.EncodeUint64(1, r))
	if d.Counter() != 5 {
		t.Fatalf("Counter advanced after error: %d", d.Counter())
	}
}

func TestRWDictionaryStackSlotRange(t *testing.T) {
	d := NewRWDictionary(1).StackWrite(1, StackLimit, rlc.Value{})
	if !errors.Is(d.Err(), ErrStackSlotRange) {
		t.Fatalf("Err = %v, want ErrStackSlotRange", d.Err())
	}
}

func TestRWDictionaryMemoryDefaultsToZero(t *testing.T) {
	d := NewRWDictionary(1).
		MemoryRead(1, 0x40, 0).
		MemoryWrite(1, 0x40, 0xff).
		MemoryRead(1, 0x40, 0xff)
	if err := d.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	bad := NewRWDictionary(1).MemoryRead(1, 0x40, 1)
	if !errors.Is(bad.Err(), ErrReadMismatch) {
		t.Fatalf("Err = %v, want ErrReadMismatch", bad.Err())
	}
}

func TestRWDictionaryStorage(t *testing.T) {
	r := rlc.Field(11)
	key := rlc.EncodeUint64(0x1234, r)
	d := NewRWDictionary(1).
		StorageRead(7, key, rlc.Value{}).
		StorageWrite(7, key, rlc.EncodeUint64(5, r)).
		StorageRead(7, key, rlc.EncodeUint64(5, r)).
		SeedStorage(8, key, rlc.EncodeUint64(9, r)).
		StorageRead(8, key, rlc.EncodeUint64(9, r))
	rows, err := d.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if !rows[0].StorageKey.Equal(key) {
		t.Error("storage key not recorded")
	}
}

func TestRWDictionaryCallContext(t *testing.T) {
	r := rlc.Field(11)
	id := rlc.EncodeUint64(1, r)
	d := NewRWDictionary(1).CallContextRead(1, CallContextTxID, id)
	if !errors.Is(d.Err(), ErrUndefinedRead) {
		t.Fatalf("unseeded call context read: Err = %v", d.Err())
	}
	d = NewRWDictionary(1).
		SeedCallContext(1, CallContextTxID, id).
		CallContextRead(1, CallContextTxID, id)
	if err := d.Err(); err != nil {
		t.Fatalf("seeded call context read: %v", err)
	}
}
