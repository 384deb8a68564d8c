package evm

import "fmt"

// OpCode is an EVM opcode byte.
type OpCode byte

const (
	STOP OpCode = 0x00
	ADD  OpCode = 0x01
	MUL  OpCode = 0x02
	SUB  OpCode = 0x03
	DIV  OpCode = 0x04
	MOD  OpCode = 0x06

	LT     OpCode = 0x10
	GT     OpCode = 0x11
	SLT    OpCode = 0x12
	SGT    OpCode = 0x13
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15
	AND    OpCode = 0x16
	OR     OpCode = 0x17
	XOR    OpCode = 0x18
	NOT    OpCode = 0x19
	BYTE   OpCode = 0x1a
	SHL    OpCode = 0x1b
	SHR    OpCode = 0x1c
	SAR    OpCode = 0x1d

	ORIGIN       OpCode = 0x32
	CALLER       OpCode = 0x33
	CALLVALUE    OpCode = 0x34
	CALLDATASIZE OpCode = 0x36
	GASPRICE     OpCode = 0x3a

	COINBASE   OpCode = 0x41
	TIMESTAMP  OpCode = 0x42
	NUMBER     OpCode = 0x43
	PREVRANDAO OpCode = 0x44
	GASLIMIT   OpCode = 0x45
	CHAINID    OpCode = 0x46
	BASEFEE    OpCode = 0x48

	POP      OpCode = 0x50
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	GAS      OpCode = 0x5a
	JUMPDEST OpCode = 0x5b

	PUSH0  OpCode = 0x5f
	PUSH1  OpCode = 0x60
	PUSH32 OpCode = 0x7f

	DUP1  OpCode = 0x80
	DUP16 OpCode = 0x8f

	SWAP1  OpCode = 0x90
	SWAP16 OpCode = 0x9f
)

var opCodeNames = map[OpCode]string{
	STOP:         "STOP",
	ADD:          "ADD",
	MUL:          "MUL",
	SUB:          "SUB",
	DIV:          "DIV",
	MOD:          "MOD",
	LT:           "LT",
	GT:           "GT",
	SLT:          "SLT",
	SGT:          "SGT",
	EQ:           "EQ",
	ISZERO:       "ISZERO",
	AND:          "AND",
	OR:           "OR",
	XOR:          "XOR",
	NOT:          "NOT",
	BYTE:         "BYTE",
	SHL:          "SHL",
	SHR:          "SHR",
	SAR:          "SAR",
	ORIGIN:       "ORIGIN",
	CALLER:       "CALLER",
	CALLVALUE:    "CALLVALUE",
	CALLDATASIZE: "CALLDATASIZE",
	GASPRICE:     "GASPRICE",
	COINBASE:     "COINBASE",
	TIMESTAMP:    "TIMESTAMP",
	NUMBER:       "NUMBER",
	PREVRANDAO:   "PREVRANDAO",
	GASLIMIT:     "GASLIMIT",
	CHAINID:      "CHAINID",
	BASEFEE:      "BASEFEE",
	POP:          "POP",
	JUMP:         "JUMP",
	JUMPI:        "JUMPI",
	PC:           "PC",
	GAS:          "GAS",
	JUMPDEST:     "JUMPDEST",
	PUSH0:        "PUSH0",
}

// String returns the mnemonic, or a hex form for opcodes outside the model.
func (op OpCode) String() string {
	switch {
	case op.IsPush():
		return fmt.Sprintf("PUSH%d", op.PushSize())
	case op.IsDup():
		return fmt.Sprintf("DUP%d", op-DUP1+1)
	case op.IsSwap():
		return fmt.Sprintf("SWAP%d", op-SWAP1+1)
	}
	if name, ok := opCodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode 0x%x", byte(op))
}

// IsPush returns true if the opcode is a PUSH instruction (PUSH1..PUSH32).
func (op OpCode) IsPush() bool {
	return op >= PUSH1 && op <= PUSH32
}

// PushSize returns the number of immediate bytes of a push, 0 otherwise.
func (op OpCode) PushSize() int {
	if !op.IsPush() {
		return 0
	}
	return int(op-PUSH1) + 1
}

// IsDup returns true for DUP1..DUP16.
func (op OpCode) IsDup() bool { return op >= DUP1 && op <= DUP16 }

// IsSwap returns true for SWAP1..SWAP16.
func (op OpCode) IsSwap() bool { return op >= SWAP1 && op <= SWAP16 }

// PushN returns the PUSH opcode with n immediate bytes (0..32).
func PushN(n int) OpCode {
	if n <= 0 {
		return PUSH0
	}
	return PUSH1 + OpCode(n-1)
}
