package evm

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/eth2030/zkevm/rlc"
)

// Instruction is the view a gadget has of one step transition. It performs
// the table lookups on the gadget's behalf and counts every RW lookup so the
// verifier can check the counter delta.
type Instruction struct {
	challenge fr.Element
	tables    Tables
	cur       *StepState
	next      *StepState
	op        OpCode
	operation *operation

	rwOffset uint64
	jumpDest uint64
	jumped   bool
}

// Opcode returns the opcode executed by the step.
func (in *Instruction) Opcode() OpCode { return in.op }

// Encode encodes v under the run's challenge.
func (in *Instruction) Encode(v *uint256.Int) rlc.Value {
	return rlc.Encode(v, in.challenge)
}

// stackSlot resolves a slot relative to the current stack pointer.
func (in *Instruction) stackSlot(offset int) (uint64, error) {
	slot := int64(in.cur.StackPointer) + int64(offset)
	if slot < 0 || slot >= StackLimit {
		if slot < 0 {
			return 0, &StepError{Field: "stack_pointer", Err: errStackOverflow}
		}
		return 0, &StepError{Field: "stack_pointer", Err: errStackUnderflow}
	}
	return uint64(slot), nil
}

// StackRead looks up the read of the slot at stack pointer + offset and
// returns the value it observes.
func (in *Instruction) StackRead(offset int) (rlc.Value, error) {
	slot, err := in.stackSlot(offset)
	if err != nil {
		return rlc.Value{}, err
	}
	return in.rwRead(RWStack, in.cur.CallID, slot)
}

// StackWrite asserts that the slot at stack pointer + offset is written
// with v.
func (in *Instruction) StackWrite(offset int, v rlc.Value) error {
	slot, err := in.stackSlot(offset)
	if err != nil {
		return err
	}
	return in.rwWrite(RWStack, in.cur.CallID, slot, v)
}

// StackWritten looks up the write of the slot at stack pointer + offset and
// returns the value written. Gadgets whose result is fixed by the bytecode
// rather than by their inputs use it.
func (in *Instruction) StackWritten(offset int) (rlc.Value, error) {
	slot, err := in.stackSlot(offset)
	if err != nil {
		return rlc.Value{}, err
	}
	return in.rwLookup(true, RWStack, in.cur.CallID, slot)
}

// CallContextRead looks up the read of a field of the current call.
func (in *Instruction) CallContextRead(field CallContextField) (rlc.Value, error) {
	return in.rwRead(RWCallContext, in.cur.CallID, uint64(field))
}

func (in *Instruction) nextCounter() uint64 {
	c := in.cur.RWCounter + in.rwOffset
	in.rwOffset++
	return c
}

func (in *Instruction) rwRead(kind RWKind, contextID, key uint64) (rlc.Value, error) {
	return in.rwLookup(false, kind, contextID, key)
}

// rwLookup finds the record at the next counter and returns its value.
func (in *Instruction) rwLookup(isWrite bool, kind RWKind, contextID, key uint64) (rlc.Value, error) {
	counter := in.nextCounter()
	var (
		found rlc.Value
		hits  int
	)
	for _, row := range in.tables.RW.At(counter) {
		if row.IsWrite != isWrite || row.Kind != kind || row.ContextID != contextID || row.Key != key || !row.StorageKey.IsZero() {
			continue
		}
		if hits > 0 && !found.Equal(row.Value) {
			return rlc.Value{}, semanticViolation("conflicting %s records at rw counter %d", kind, counter)
		}
		found = row.Value
		hits++
	}
	access := "read"
	if isWrite {
		access = "write"
	}
	if hits == 0 {
		return rlc.Value{}, missingEntry(TableRW, "rw_counter", "no %s %s of key %d in context %d at counter %d",
			kind, access, key, contextID, counter)
	}
	if !found.Consistent(in.challenge) {
		return rlc.Value{}, missingEntry(TableRW, "value", "%s %s at counter %d is not encoded under the run challenge",
			kind, access, counter)
	}
	return found, nil
}

func (in *Instruction) rwWrite(kind RWKind, contextID, key uint64, want rlc.Value) error {
	counter := in.nextCounter()
	var got *rlc.Value
	for _, row := range in.tables.RW.At(counter) {
		if !row.IsWrite || row.Kind != kind || row.ContextID != contextID || row.Key != key || !row.StorageKey.IsZero() {
			continue
		}
		if row.Value.Equal(want) {
			return nil
		}
		v := row.Value
		got = &v
	}
	if got == nil {
		return missingEntry(TableRW, "rw_counter", "no %s write of key %d in context %d at counter %d",
			kind, key, contextID, counter)
	}
	return semanticViolation("%s: %s write at counter %d is %s, want %s", in.op, kind, counter, *got, want)
}

// opcodeAt returns the instruction byte at index of the current program.
func (in *Instruction) opcodeAt(index uint64) (OpCode, error) {
	rows := in.tables.Bytecode.At(in.cur.CodeHash, BytecodeByte, index)
	for _, row := range rows {
		if row.IsCode {
			if len(rows) > 1 {
				return 0, semanticViolation("conflicting bytecode rows at index %d", index)
			}
			return OpCode(row.Value), nil
		}
	}
	return 0, missingEntry(TableBytecode, "program_counter", "no opcode at index %d of code %s", index, in.cur.CodeHash)
}

// BytecodeData asserts that the byte at index is push data with value b.
func (in *Instruction) BytecodeData(index uint64, b byte) error {
	row := BytecodeRow{CodeHash: in.cur.CodeHash, Tag: BytecodeByte, Index: index, Value: uint64(b)}
	if !in.tables.Bytecode.Contains(row) {
		return missingEntry(TableBytecode, "index", "no data byte 0x%02x at index %d", b, index)
	}
	return nil
}

// codeLength returns the length row of the current program.
func (in *Instruction) codeLength() (uint64, error) {
	rows := in.tables.Bytecode.At(in.cur.CodeHash, BytecodeLength, 0)
	if len(rows) == 0 {
		return 0, missingEntry(TableBytecode, "code_hash", "no length row for code %s", in.cur.CodeHash)
	}
	if len(rows) > 1 {
		return 0, semanticViolation("conflicting length rows for code %s", in.cur.CodeHash)
	}
	return rows[0].Value, nil
}

// BlockLookup returns the block table value for tag.
func (in *Instruction) BlockLookup(tag BlockTag, index uint64) (rlc.Value, error) {
	rows := in.tables.Block.At(tag, index)
	if len(rows) != 1 {
		if len(rows) == 0 {
			return rlc.Value{}, missingEntry(TableBlock, "tag", "no block field %d at index %d", tag, index)
		}
		return rlc.Value{}, semanticViolation("conflicting block rows for field %d", tag)
	}
	if !rows[0].Value.Consistent(in.challenge) {
		return rlc.Value{}, missingEntry(TableBlock, "value", "block field %d is not encoded under the run challenge", tag)
	}
	return rows[0].Value, nil
}

// TxLookup returns the transaction table value for tag.
func (in *Instruction) TxLookup(txID uint64, tag TxTag, index uint64) (rlc.Value, error) {
	rows := in.tables.Tx.At(txID, tag, index)
	if len(rows) != 1 {
		if len(rows) == 0 {
			return rlc.Value{}, missingEntry(TableTx, "tag", "no field %d of tx %d at index %d", tag, txID, index)
		}
		return rlc.Value{}, semanticViolation("conflicting tx rows for tx %d field %d", txID, tag)
	}
	if !rows[0].Value.Consistent(in.challenge) {
		return rlc.Value{}, missingEntry(TableTx, "value", "field %d of tx %d is not encoded under the run challenge", tag, txID)
	}
	return rows[0].Value, nil
}

// JumpTo fixes the next program counter. The destination must be a
// JUMPDEST instruction of the current program.
func (in *Instruction) JumpTo(dest *uint256.Int) error {
	if !dest.IsUint64() {
		return semanticViolation("jump destination %s out of range", dest.Hex())
	}
	target := dest.Uint64()
	op, err := in.opcodeAt(target)
	if err != nil {
		return err
	}
	if op != JUMPDEST {
		return semanticViolation("jump destination %d is %s, not JUMPDEST", target, op)
	}
	in.jumpDest, in.jumped = target, true
	return nil
}
