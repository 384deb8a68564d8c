package evm

import "github.com/holiman/uint256"

// binaryOp pops a at sp and b at sp+1 and asserts that sp+1 is written
// with f(a, b).
func binaryOp(in *Instruction, f func(z, a, b *uint256.Int)) error {
	a, err := in.StackRead(0)
	if err != nil {
		return err
	}
	b, err := in.StackRead(1)
	if err != nil {
		return err
	}
	var z uint256.Int
	f(&z, a.Int(), b.Int())
	return in.StackWrite(1, in.Encode(&z))
}

// unaryOp pops a at sp and asserts that sp is written with f(a).
func unaryOp(in *Instruction, f func(z, a *uint256.Int)) error {
	a, err := in.StackRead(0)
	if err != nil {
		return err
	}
	var z uint256.Int
	f(&z, a.Int())
	return in.StackWrite(0, in.Encode(&z))
}

func boolWord(z *uint256.Int, b bool) {
	if b {
		z.SetOne()
	} else {
		z.Clear()
	}
}

func gadgetAddSub(in *Instruction) error {
	return binaryOp(in, func(z, a, b *uint256.Int) {
		if in.Opcode() == SUB {
			z.Sub(a, b)
		} else {
			z.Add(a, b)
		}
	})
}

// gadgetMulDivMod covers MUL, DIV and MOD. Division and modulo by zero
// yield zero.
func gadgetMulDivMod(in *Instruction) error {
	return binaryOp(in, func(z, a, b *uint256.Int) {
		switch in.Opcode() {
		case MUL:
			z.Mul(a, b)
		case DIV:
			z.Div(a, b)
		case MOD:
			z.Mod(a, b)
		}
	})
}

func gadgetBitwise(in *Instruction) error {
	return binaryOp(in, func(z, a, b *uint256.Int) {
		switch in.Opcode() {
		case AND:
			z.And(a, b)
		case OR:
			z.Or(a, b)
		case XOR:
			z.Xor(a, b)
		}
	})
}

func gadgetNot(in *Instruction) error {
	return unaryOp(in, func(z, a *uint256.Int) { z.Not(a) })
}

func gadgetCmp(in *Instruction) error {
	return binaryOp(in, func(z, a, b *uint256.Int) {
		switch in.Opcode() {
		case LT:
			boolWord(z, a.Lt(b))
		case GT:
			boolWord(z, a.Gt(b))
		case SLT:
			boolWord(z, a.Slt(b))
		case SGT:
			boolWord(z, a.Sgt(b))
		case EQ:
			boolWord(z, a.Eq(b))
		}
	})
}

func gadgetIsZero(in *Instruction) error {
	return unaryOp(in, func(z, a *uint256.Int) { boolWord(z, a.IsZero()) })
}

// gadgetByte pops the byte index i and the word x and pushes the i-th
// big-endian byte of x, or zero for i >= 32.
func gadgetByte(in *Instruction) error {
	return binaryOp(in, func(z, i, x *uint256.Int) {
		z.Set(x)
		z.Byte(i)
	})
}
