package evm

import "github.com/holiman/uint256"

func gadgetPop(in *Instruction) error {
	_, err := in.StackRead(0)
	return err
}

// gadgetPush asserts that the pushed word is the big-endian immediate that
// follows the opcode in the bytecode, zero-padded on the right when the code
// ends inside the immediate.
func gadgetPush(in *Instruction) error {
	n := in.Opcode().PushSize()
	if n == 0 {
		return in.StackWrite(-1, in.Encode(new(uint256.Int)))
	}
	v, err := in.StackWritten(-1)
	if err != nil {
		return err
	}
	if v.Int().ByteLen() > n {
		return semanticViolation("%s: pushed %s does not fit %d bytes", in.Opcode(), v, n)
	}
	length, err := in.codeLength()
	if err != nil {
		return err
	}
	word := v.Int().Bytes32()
	for i, b := range word[32-n:] {
		index := in.cur.ProgramCounter + 1 + uint64(i)
		if index >= length {
			// Immediates of a truncated trailing push read as zero.
			if b != 0 {
				return missingEntry(TableBytecode, "index", "no data byte 0x%02x at index %d past code end %d", b, index, length)
			}
			continue
		}
		if err := in.BytecodeData(index, b); err != nil {
			return err
		}
	}
	return nil
}

// gadgetDup copies the n-th stack item (DUPn) onto the stack.
func gadgetDup(in *Instruction) error {
	n := int(in.Opcode()-DUP1) + 1
	v, err := in.StackRead(n - 1)
	if err != nil {
		return err
	}
	return in.StackWrite(-1, v)
}

// gadgetSwap exchanges the top item with the (n+1)-th (SWAPn).
func gadgetSwap(in *Instruction) error {
	n := int(in.Opcode()-SWAP1) + 1
	a, err := in.StackRead(0)
	if err != nil {
		return err
	}
	b, err := in.StackRead(n)
	if err != nil {
		return err
	}
	if err := in.StackWrite(0, b); err != nil {
		return err
	}
	return in.StackWrite(n, a)
}
