package evm

// Gas cost constants for the modelled instructions.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10

	GasJumpDest uint64 = 1
	GasStop     uint64 = 0
)

// StackLimit is the number of stack slots; slot indices run 0..StackLimit-1
// and an empty stack has stack pointer StackLimit.
const StackLimit = 1024

// operation is the fixed transition contract of one opcode: the execution
// state that must claim it, how many RW table entries its gadget consumes,
// and the deltas it applies to the step.
type operation struct {
	state       ExecutionState
	rwEntries   uint64
	stackDelta  int    // applied to the stack pointer (pops are positive)
	constantGas uint64 // deducted from gas left
	pcDelta     uint64 // ignored when jumps is set
	jumps       bool   // the gadget fixes the next program counter
	halts       bool
}

// opTable maps every opcode byte to its operation, nil when not modelled.
type opTable [256]*operation

var operations = newOperationTable()

func newOperationTable() *opTable {
	var t opTable
	binary := func(state ExecutionState, gas uint64, ops ...OpCode) {
		for _, op := range ops {
			t[op] = &operation{state: state, rwEntries: 3, stackDelta: 1, constantGas: gas, pcDelta: 1}
		}
	}
	unary := func(state ExecutionState, ops ...OpCode) {
		for _, op := range ops {
			t[op] = &operation{state: state, rwEntries: 2, constantGas: GasFastestStep, pcDelta: 1}
		}
	}
	pusher := func(state ExecutionState, rw uint64, ops ...OpCode) {
		for _, op := range ops {
			t[op] = &operation{state: state, rwEntries: rw, stackDelta: -1, constantGas: GasQuickStep, pcDelta: 1}
		}
	}

	t[STOP] = &operation{state: StateStop, constantGas: GasStop, halts: true}

	binary(StateAdd, GasFastestStep, ADD, SUB)
	binary(StateMul, GasFastStep, MUL, DIV, MOD)
	binary(StateBitwise, GasFastestStep, AND, OR, XOR)
	binary(StateCmp, GasFastestStep, LT, GT, SLT, SGT, EQ)
	binary(StateByte, GasFastestStep, BYTE)
	binary(StateShl, GasFastestStep, SHL)
	binary(StateShr, GasFastestStep, SHR)
	binary(StateSar, GasFastestStep, SAR)
	unary(StateNot, NOT)
	unary(StateIsZero, ISZERO)

	t[POP] = &operation{state: StatePop, rwEntries: 1, stackDelta: 1, constantGas: GasQuickStep, pcDelta: 1}
	t[PUSH0] = &operation{state: StatePush, rwEntries: 1, stackDelta: -1, constantGas: GasQuickStep, pcDelta: 1}
	for op := PUSH1; op <= PUSH32; op++ {
		t[op] = &operation{
			state:       StatePush,
			rwEntries:   1,
			stackDelta:  -1,
			constantGas: GasFastestStep,
			pcDelta:     uint64(1 + op.PushSize()),
		}
	}
	for op := DUP1; op <= DUP16; op++ {
		t[op] = &operation{state: StateDup, rwEntries: 2, stackDelta: -1, constantGas: GasFastestStep, pcDelta: 1}
	}
	for op := SWAP1; op <= SWAP16; op++ {
		t[op] = &operation{state: StateSwap, rwEntries: 4, constantGas: GasFastestStep, pcDelta: 1}
	}

	t[JUMPDEST] = &operation{state: StateJumpdest, constantGas: GasJumpDest, pcDelta: 1}
	pusher(StatePC, 1, PC)
	pusher(StateGas, 1, GAS)
	t[JUMP] = &operation{state: StateJump, rwEntries: 1, stackDelta: 1, constantGas: GasMidStep, jumps: true}
	t[JUMPI] = &operation{state: StateJumpi, rwEntries: 2, stackDelta: 2, constantGas: GasSlowStep, pcDelta: 1, jumps: true}

	pusher(StateBlockCtx, 1, COINBASE, TIMESTAMP, NUMBER, PREVRANDAO, GASLIMIT, CHAINID, BASEFEE)
	pusher(StateCallCtx, 2, CALLER, CALLVALUE, CALLDATASIZE)
	pusher(StateTxCtx, 2, ORIGIN, GASPRICE)

	return &t
}

// lookupOperation returns the operation for op, nil when not modelled.
func lookupOperation(op OpCode) *operation {
	return operations[op]
}
