// Package evm is a behavioral model of zkEVM step verification. It defines,
// per execution state, the state transition a circuit enforces, and checks
// claimed traces of step witnesses against the block, transaction, bytecode
// and read/write tables of a run.
package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eth2030/zkevm/log"
	"github.com/eth2030/zkevm/metrics"
)

// gadget checks the relation of one execution state. It performs every
// lookup the state requires through in.
type gadget func(in *Instruction) error

var gadgets = [numExecutionStates]gadget{
	StateAdd:      gadgetAddSub,
	StateMul:      gadgetMulDivMod,
	StateBitwise:  gadgetBitwise,
	StateNot:      gadgetNot,
	StateCmp:      gadgetCmp,
	StateIsZero:   gadgetIsZero,
	StateByte:     gadgetByte,
	StateShl:      gadgetShl,
	StateShr:      gadgetShr,
	StateSar:      gadgetSar,
	StatePop:      gadgetPop,
	StatePush:     gadgetPush,
	StateDup:      gadgetDup,
	StateSwap:     gadgetSwap,
	StateJumpdest: gadgetJumpdest,
	StatePC:       gadgetPC,
	StateGas:      gadgetGas,
	StateJump:     gadgetJump,
	StateJumpi:    gadgetJumpi,
	StateBlockCtx: gadgetBlockCtx,
	StateCallCtx:  gadgetCallCtx,
	StateTxCtx:    gadgetTxCtx,
}

// Verifier checks traces against tables. A Verifier holds no per-run state
// and may verify independent traces concurrently.
type Verifier struct {
	cfg     Config
	log     *log.Logger
	metrics *metrics.Registry
}

// NewVerifier validates cfg and returns a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := cfg.Logger
	if l == nil {
		l = log.Default().Module("evm")
	}
	return &Verifier{cfg: cfg, log: l, metrics: cfg.Metrics}, nil
}

// VerifySteps verifies steps under challenge r with the default
// configuration.
func VerifySteps(r fr.Element, tables Tables, steps []StepState) error {
	v, err := NewVerifier(DefaultConfig())
	if err != nil {
		return err
	}
	return v.Verify(context.Background(), r, tables, steps)
}

// Verify checks that every adjacent pair of steps is a valid transition of
// the current step's execution state and that the trace ends in a terminal
// state. ctx is checked between steps.
func (v *Verifier) Verify(ctx context.Context, r fr.Element, tables Tables, steps []StepState) error {
	v.count("evm/verify/runs")
	if len(steps) == 0 {
		return v.reject(ErrEmptyTrace)
	}
	if v.cfg.MaxSteps > 0 && len(steps) > v.cfg.MaxSteps {
		return v.reject(fmt.Errorf("%w: %d > %d", ErrTooManySteps, len(steps), v.cfg.MaxSteps))
	}
	for i := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.verifyStep(r, tables, steps, i); err != nil {
			var se *StepError
			if errors.As(err, &se) {
				se.Step, se.State = i, steps[i].ExecutionState
			}
			return v.reject(err)
		}
	}
	v.count("evm/verify/accepted")
	if v.metrics != nil {
		v.metrics.Counter("evm/verify/steps").Add(int64(len(steps)))
		v.metrics.Histogram("evm/verify/steps_per_run").Observe(int64(len(steps)))
	}
	v.log.Info("trace verified", "steps", len(steps))
	return nil
}

func (v *Verifier) verifyStep(r fr.Element, tables Tables, steps []StepState, i int) error {
	cur := &steps[i]
	last := i == len(steps)-1
	if v.log.Enabled(slog.LevelDebug) {
		v.log.Debug("verify step", "step", i, "state", cur.ExecutionState.String(),
			"rw_counter", cur.RWCounter, "pc", cur.ProgramCounter, "sp", cur.StackPointer, "gas", cur.GasLeft)
	}

	if cur.StackPointer > StackLimit {
		return &StepError{Field: "stack_pointer", Err: fmt.Errorf("%w: %d exceeds %d",
			ErrCounterOrPointerMismatch, cur.StackPointer, StackLimit)}
	}
	if cur.ExecutionState >= numExecutionStates {
		return &StepError{Err: fmt.Errorf("%w: %d", ErrUnknownExecutionState, uint8(cur.ExecutionState))}
	}

	if !cur.CodeHash.Consistent(r) {
		return missingEntry(TableBytecode, "code_hash", "code hash %s is not encoded under the run challenge", cur.CodeHash)
	}

	in := &Instruction{challenge: r, tables: tables, cur: cur}
	if cur.ExecutionState.IsTerminal() {
		if !last {
			return semanticViolation("terminal state %s followed by %d more steps", cur.ExecutionState, len(steps)-1-i)
		}
		return verifyTerminal(in)
	}
	if last {
		return semanticViolation("trace ends in non-terminal state %s", cur.ExecutionState)
	}
	g := gadgets[cur.ExecutionState]
	if g == nil {
		return &StepError{Err: fmt.Errorf("%w: %s has no gadget", ErrUnknownExecutionState, cur.ExecutionState)}
	}
	in.next = &steps[i+1]

	op, err := in.opcodeAt(cur.ProgramCounter)
	if err != nil {
		return err
	}
	o := lookupOperation(op)
	if o == nil || o.state != cur.ExecutionState {
		return semanticViolation("opcode %s at pc %d is not executed by state %s", op, cur.ProgramCounter, cur.ExecutionState)
	}
	in.op, in.operation = op, o
	if cur.GasLeft < o.constantGas {
		return &StepError{Field: "gas_left", Err: fmt.Errorf("%w: have %d, need %d", errOutOfGas, cur.GasLeft, o.constantGas)}
	}

	if err := g(in); err != nil {
		return err
	}
	if in.rwOffset != o.rwEntries {
		return semanticViolation("%s consumed %d rw entries, declared %d", op, in.rwOffset, o.rwEntries)
	}
	if in.jumped && !o.jumps {
		return semanticViolation("%s does not jump", op)
	}
	return sameContextTransition(in)
}

// verifyTerminal checks a trailing terminal step: a halting instruction of
// the step's state, or a program counter at or past the end of the code.
func verifyTerminal(in *Instruction) error {
	length, err := in.codeLength()
	if err != nil {
		return err
	}
	if in.cur.ProgramCounter >= length {
		return nil
	}
	op, err := in.opcodeAt(in.cur.ProgramCounter)
	if err != nil {
		return err
	}
	if o := lookupOperation(op); o == nil || !o.halts || o.state != in.cur.ExecutionState {
		return semanticViolation("terminal state %s at pc %d executes %s", in.cur.ExecutionState, in.cur.ProgramCounter, op)
	}
	return nil
}

// sameContextTransition checks the deltas from cur to next for a step that
// stays in the same call.
func sameContextTransition(in *Instruction) error {
	cur, next, o := in.cur, in.next, in.operation

	if want := cur.RWCounter + in.rwOffset; next.RWCounter != want {
		return transitionMismatch("rw_counter", next.RWCounter, want)
	}
	wantPC := cur.ProgramCounter + o.pcDelta
	if in.jumped {
		wantPC = in.jumpDest
	}
	if next.ProgramCounter != wantPC {
		return transitionMismatch("program_counter", next.ProgramCounter, wantPC)
	}
	sp := int64(cur.StackPointer) + int64(o.stackDelta)
	if sp < 0 {
		return &StepError{Field: "stack_pointer", Err: errStackOverflow}
	}
	if sp > StackLimit {
		return &StepError{Field: "stack_pointer", Err: errStackUnderflow}
	}
	if next.StackPointer != uint64(sp) {
		return transitionMismatch("stack_pointer", next.StackPointer, uint64(sp))
	}
	if want := cur.GasLeft - o.constantGas; next.GasLeft != want {
		return transitionMismatch("gas_left", next.GasLeft, want)
	}
	if next.CallID != cur.CallID {
		return transitionMismatch("call_id", next.CallID, cur.CallID)
	}
	if next.IsRoot != cur.IsRoot {
		return transitionMismatch("is_root", boolUint(next.IsRoot), boolUint(cur.IsRoot))
	}
	if next.IsCreate != cur.IsCreate {
		return transitionMismatch("is_create", boolUint(next.IsCreate), boolUint(cur.IsCreate))
	}
	if !next.CodeHash.Equal(cur.CodeHash) {
		return &StepError{Field: "code_hash", Err: fmt.Errorf("%w: got %s, want %s",
			ErrCounterOrPointerMismatch, next.CodeHash, cur.CodeHash)}
	}
	return nil
}

func boolUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (v *Verifier) count(name string) {
	if v.metrics != nil {
		v.metrics.Counter(name).Inc()
	}
}

// reject records a rejection and returns err unchanged.
func (v *Verifier) reject(err error) error {
	v.count("evm/verify/rejected/" + errorClass(err))
	var se *StepError
	if errors.As(err, &se) {
		v.log.Warn("trace rejected", "step", se.Step, "state", se.State.String(),
			"table", se.Table, "field", se.Field, "err", err)
	} else {
		v.log.Warn("trace rejected", "err", err)
	}
	return err
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, ErrMissingTableEntry):
		return "missing_table_entry"
	case errors.Is(err, ErrSemanticViolation):
		return "semantic_violation"
	case errors.Is(err, ErrCounterOrPointerMismatch):
		return "counter_or_pointer_mismatch"
	case errors.Is(err, ErrUnknownExecutionState):
		return "unknown_execution_state"
	default:
		return "malformed_input"
	}
}
