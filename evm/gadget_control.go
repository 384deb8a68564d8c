package evm

import "github.com/holiman/uint256"

func gadgetJumpdest(*Instruction) error { return nil }

func gadgetPC(in *Instruction) error {
	return in.StackWrite(-1, in.Encode(uint256.NewInt(in.cur.ProgramCounter)))
}

// gadgetGas pushes the gas left after paying for GAS itself.
func gadgetGas(in *Instruction) error {
	left := in.cur.GasLeft - in.operation.constantGas
	return in.StackWrite(-1, in.Encode(uint256.NewInt(left)))
}

func gadgetJump(in *Instruction) error {
	dest, err := in.StackRead(0)
	if err != nil {
		return err
	}
	return in.JumpTo(dest.Int())
}

// gadgetJumpi jumps when the condition at sp+1 is non-zero and falls
// through otherwise.
func gadgetJumpi(in *Instruction) error {
	dest, err := in.StackRead(0)
	if err != nil {
		return err
	}
	cond, err := in.StackRead(1)
	if err != nil {
		return err
	}
	if cond.IsZero() {
		return nil
	}
	return in.JumpTo(dest.Int())
}
