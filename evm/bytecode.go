package evm

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/zkevm/crypto"
	"github.com/eth2030/zkevm/rlc"
)

// Bytecode construction errors.
var (
	ErrPushWidth      = errors.New("evm: push width outside 1..32")
	ErrPushValueWidth = errors.New("evm: push value wider than operand")
	ErrStackItemIndex = errors.New("evm: dup/swap index outside 1..16")
)

// Bytecode is a program under construction. Every builder method appends to
// the program and returns the receiver; the first error sticks and later
// calls are ignored.
type Bytecode struct {
	code   []byte
	isCode []bool
	err    error
}

// NewBytecode returns an empty program.
func NewBytecode() *Bytecode {
	return &Bytecode{}
}

// BytecodeFromCode wraps raw code, marking push immediates as data. A
// truncated trailing push keeps only the bytes present; the verifier reads
// the missing immediate bytes as zero.
func BytecodeFromCode(code []byte) *Bytecode {
	b := &Bytecode{
		code:   append([]byte(nil), code...),
		isCode: make([]bool, len(code)),
	}
	for i := 0; i < len(code); i++ {
		b.isCode[i] = true
		if op := OpCode(code[i]); op.IsPush() {
			i += op.PushSize()
		}
	}
	return b
}

// Append adds bare instructions.
func (b *Bytecode) Append(ops ...OpCode) *Bytecode {
	if b.err != nil {
		return b
	}
	for _, op := range ops {
		b.code = append(b.code, byte(op))
		b.isCode = append(b.isCode, true)
	}
	return b
}

// Push appends a PUSHn with value as its big-endian operand of width bytes.
func (b *Bytecode) Push(value *uint256.Int, width int) *Bytecode {
	if b.err != nil {
		return b
	}
	if width < 1 || width > 32 {
		b.err = fmt.Errorf("%w: %d", ErrPushWidth, width)
		return b
	}
	if value.ByteLen() > width {
		b.err = fmt.Errorf("%w: %d bytes into PUSH%d", ErrPushValueWidth, value.ByteLen(), width)
		return b
	}
	word := value.Bytes32()
	b.Append(PushN(width))
	for _, v := range word[32-width:] {
		b.code = append(b.code, v)
		b.isCode = append(b.isCode, false)
	}
	return b
}

// Push1 appends a PUSH1.
func (b *Bytecode) Push1(v uint64) *Bytecode { return b.Push(uint256.NewInt(v), 1) }

// Push32 appends a PUSH32 of the full word.
func (b *Bytecode) Push32(v *uint256.Int) *Bytecode { return b.Push(v, 32) }

// Push0 appends a PUSH0.
func (b *Bytecode) Push0() *Bytecode { return b.Append(PUSH0) }

// Dup appends DUPn.
func (b *Bytecode) Dup(n int) *Bytecode {
	if b.err == nil && (n < 1 || n > 16) {
		b.err = fmt.Errorf("%w: DUP%d", ErrStackItemIndex, n)
	}
	return b.Append(DUP1 + OpCode(n-1))
}

// Swap appends SWAPn.
func (b *Bytecode) Swap(n int) *Bytecode {
	if b.err == nil && (n < 1 || n > 16) {
		b.err = fmt.Errorf("%w: SWAP%d", ErrStackItemIndex, n)
	}
	return b.Append(SWAP1 + OpCode(n-1))
}

func (b *Bytecode) Stop() *Bytecode     { return b.Append(STOP) }
func (b *Bytecode) Add() *Bytecode      { return b.Append(ADD) }
func (b *Bytecode) Sub() *Bytecode      { return b.Append(SUB) }
func (b *Bytecode) Shl() *Bytecode      { return b.Append(SHL) }
func (b *Bytecode) Shr() *Bytecode      { return b.Append(SHR) }
func (b *Bytecode) Sar() *Bytecode      { return b.Append(SAR) }
func (b *Bytecode) Pop() *Bytecode      { return b.Append(POP) }
func (b *Bytecode) Jump() *Bytecode     { return b.Append(JUMP) }
func (b *Bytecode) Jumpi() *Bytecode    { return b.Append(JUMPI) }
func (b *Bytecode) Jumpdest() *Bytecode { return b.Append(JUMPDEST) }

// Err returns the first construction error.
func (b *Bytecode) Err() error { return b.err }

// Len returns the serialised length.
func (b *Bytecode) Len() int { return len(b.code) }

// Code returns a copy of the serialised program.
func (b *Bytecode) Code() []byte { return append([]byte(nil), b.code...) }

// IsCode reports whether the byte at index is an instruction rather than a
// push immediate.
func (b *Bytecode) IsCode(index int) bool {
	return index >= 0 && index < len(b.isCode) && b.isCode[index]
}

// Hash returns the Keccak-256 content hash of the program.
func (b *Bytecode) Hash() common.Hash {
	return crypto.Keccak256Hash(b.code)
}

// CodeHash returns the content hash encoded under r.
func (b *Bytecode) CodeHash(r fr.Element) rlc.Value {
	h := b.Hash()
	return rlc.EncodeBytes(h[:], r)
}

// TableAssignments returns the length row followed by one row per byte.
func (b *Bytecode) TableAssignments(r fr.Element) []BytecodeRow {
	hash := b.CodeHash(r)
	rows := make([]BytecodeRow, 0, len(b.code)+1)
	rows = append(rows, BytecodeRow{
		CodeHash: hash,
		Tag:      BytecodeLength,
		Value:    uint64(len(b.code)),
	})
	for i, v := range b.code {
		rows = append(rows, BytecodeRow{
			CodeHash: hash,
			Tag:      BytecodeByte,
			Index:    uint64(i),
			IsCode:   b.isCode[i],
			Value:    uint64(v),
		})
	}
	return rows
}
