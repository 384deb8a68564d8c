package evm

import "fmt"

// ExecutionState tags a step with the gadget that governs its transition.
type ExecutionState uint8

const (
	// StateStop is the terminal state of a trace.
	StateStop ExecutionState = iota
	StateAdd
	StateMul
	StateBitwise
	StateNot
	StateCmp
	StateIsZero
	StateByte
	StateShl
	StateShr
	StateSar
	StatePop
	StatePush
	StateDup
	StateSwap
	StateJumpdest
	StatePC
	StateGas
	StateJump
	StateJumpi
	StateBlockCtx
	StateCallCtx
	StateTxCtx

	numExecutionStates
)

var executionStateNames = [numExecutionStates]string{
	StateStop:     "STOP",
	StateAdd:      "ADD",
	StateMul:      "MUL",
	StateBitwise:  "BITWISE",
	StateNot:      "NOT",
	StateCmp:      "CMP",
	StateIsZero:   "ISZERO",
	StateByte:     "BYTE",
	StateShl:      "SHL",
	StateShr:      "SHR",
	StateSar:      "SAR",
	StatePop:      "POP",
	StatePush:     "PUSH",
	StateDup:      "DUP",
	StateSwap:     "SWAP",
	StateJumpdest: "JUMPDEST",
	StatePC:       "PC",
	StateGas:      "GAS",
	StateJump:     "JUMP",
	StateJumpi:    "JUMPI",
	StateBlockCtx: "BLOCKCTX",
	StateCallCtx:  "CALLCTX",
	StateTxCtx:    "TXCTX",
}

func (s ExecutionState) String() string {
	if s < numExecutionStates {
		return executionStateNames[s]
	}
	return fmt.Sprintf("ExecutionState(%d)", uint8(s))
}

// IsTerminal reports whether the state ends a trace.
func (s ExecutionState) IsTerminal() bool { return s == StateStop }
