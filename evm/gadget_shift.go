package evm

import "github.com/holiman/uint256"

// shiftOp reads the shifted word at sp and the shift amount at sp+1 and
// asserts that sp+1 is written with the result. Shift amounts of 256 or
// more reach f as 256.
func shiftOp(in *Instruction, f func(z, value *uint256.Int, shift uint)) error {
	value, err := in.StackRead(0)
	if err != nil {
		return err
	}
	shift, err := in.StackRead(1)
	if err != nil {
		return err
	}
	n := uint(256)
	if s := shift.Int(); s.LtUint64(256) {
		n = uint(s.Uint64())
	}
	var z uint256.Int
	f(&z, value.Int(), n)
	return in.StackWrite(1, in.Encode(&z))
}

// gadgetShl: result = value << shift mod 2^256, zero once shift >= 256.
func gadgetShl(in *Instruction) error {
	return shiftOp(in, func(z, value *uint256.Int, n uint) {
		if n >= 256 {
			z.Clear()
			return
		}
		z.Lsh(value, n)
	})
}

func gadgetShr(in *Instruction) error {
	return shiftOp(in, func(z, value *uint256.Int, n uint) {
		if n >= 256 {
			z.Clear()
			return
		}
		z.Rsh(value, n)
	})
}

// gadgetSar shifts in the sign bit; shift >= 256 saturates to 0 or -1.
func gadgetSar(in *Instruction) error {
	return shiftOp(in, func(z, value *uint256.Int, n uint) {
		if n >= 256 {
			if value.Sign() < 0 {
				z.SetAllOne()
			} else {
				z.Clear()
			}
			return
		}
		z.SRsh(value, n)
	})
}
