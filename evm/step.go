package evm

import "github.com/eth2030/zkevm/rlc"

// StepState is the witness of one executed instruction: the machine state
// before the instruction runs. Field names and units are the witness format
// a circuit exposes.
type StepState struct {
	ExecutionState ExecutionState
	RWCounter      uint64
	CallID         uint64
	IsRoot         bool
	IsCreate       bool
	CodeHash       rlc.Value
	ProgramCounter uint64
	StackPointer   uint64
	GasLeft        uint64
}
