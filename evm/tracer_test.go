package evm

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/zkevm/rlc"
)

const (
	tracerGas      = 1000
	tracerMaxSteps = 256
)

// tracer produces the witness of a short program from the root call of
// transaction 1. Data movement is traced directly while arithmetic results
// are taken in order from results, so the expected values come from the
// test rather than from the gadgets.
type tracer struct {
	t       *testing.T
	r       fr.Element
	code    *Bytecode
	block   Block
	tx      Transaction
	results []*uint256.Int

	rw    *RWDictionary
	slots map[uint64]*uint256.Int
	pc    uint64
	sp    uint64
	gas   uint64
	steps []StepState
}

func newTracer(t *testing.T, code *Bytecode, results ...*uint256.Int) *tracer {
	t.Helper()
	if err := code.Err(); err != nil {
		t.Fatalf("bytecode: %v", err)
	}
	callee := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	block := DefaultBlock()
	block.PrevRandao = common.HexToHash("0x4242")
	return &tracer{
		t:     t,
		r:     testChallenge(t),
		code:  code,
		block: block,
		tx: Transaction{
			ID:       1,
			Gas:      tracerGas,
			GasPrice: uint256.NewInt(7),
			Caller:   common.HexToAddress("0x00000000000000000000000000000000000000ca"),
			Callee:   &callee,
			Value:    uint256.NewInt(5),
			CallData: []byte{0xde, 0xad, 0xbe},
		},
		results: results,
		slots:   make(map[uint64]*uint256.Int),
		sp:      StackLimit,
		gas:     tracerGas,
	}
}

func (tr *tracer) enc(v *uint256.Int) rlc.Value { return rlc.Encode(v, tr.r) }

func (tr *tracer) read(offset int) *uint256.Int {
	slot := uint64(int64(tr.sp) + int64(offset))
	v, ok := tr.slots[slot]
	if !ok {
		tr.t.Fatalf("tracer: read of empty slot %d", slot)
	}
	tr.rw.StackRead(1, slot, tr.enc(v))
	return v
}

func (tr *tracer) write(offset int, v *uint256.Int) {
	slot := uint64(int64(tr.sp) + int64(offset))
	tr.slots[slot] = v
	tr.rw.StackWrite(1, slot, tr.enc(v))
}

func (tr *tracer) result() *uint256.Int {
	if len(tr.results) == 0 {
		tr.t.Fatalf("tracer: no result left for pc %d", tr.pc)
	}
	v := tr.results[0]
	tr.results = tr.results[1:]
	return v
}

func (tr *tracer) blockField(op OpCode) *uint256.Int {
	b := tr.block
	switch op {
	case COINBASE:
		return new(uint256.Int).SetBytes(b.Coinbase[:])
	case TIMESTAMP:
		return uint256.NewInt(b.Timestamp)
	case NUMBER:
		return uint256.NewInt(b.Number)
	case PREVRANDAO:
		return new(uint256.Int).SetBytes(b.PrevRandao[:])
	case GASLIMIT:
		return uint256.NewInt(b.GasLimit)
	case CHAINID:
		return uint256.NewInt(b.ChainID)
	case BASEFEE:
		return b.BaseFee
	}
	tr.t.Fatalf("tracer: %s is not a block field", op)
	return nil
}

// run traces the program and returns the tables and steps. Tracing stops at
// STOP, at the end of the code, or after tracerMaxSteps steps.
func (tr *tracer) run() (Tables, []StepState) {
	tr.t.Helper()
	tr.rw = NewRWDictionary(1).
		SeedCallContext(1, CallContextTxID, tr.enc(uint256.NewInt(tr.tx.ID))).
		SeedCallContext(1, CallContextCallerAddress, tr.enc(new(uint256.Int).SetBytes(tr.tx.Caller[:]))).
		SeedCallContext(1, CallContextValue, tr.enc(tr.tx.Value)).
		SeedCallContext(1, CallContextCallDataLength, tr.enc(uint256.NewInt(uint64(len(tr.tx.CallData)))))
	code := tr.code.Code()
	hash := tr.code.CodeHash(tr.r)

	for len(tr.steps) < tracerMaxSteps {
		step := StepState{
			RWCounter:      tr.rw.Counter(),
			CallID:         1,
			IsRoot:         true,
			CodeHash:       hash,
			ProgramCounter: tr.pc,
			StackPointer:   tr.sp,
			GasLeft:        tr.gas,
		}
		if tr.pc >= uint64(len(code)) || OpCode(code[tr.pc]) == STOP {
			step.ExecutionState = StateStop
			tr.steps = append(tr.steps, step)
			break
		}
		op := OpCode(code[tr.pc])
		o := lookupOperation(op)
		if o == nil {
			tr.t.Fatalf("tracer: %s not modelled", op)
		}
		step.ExecutionState = o.state
		tr.steps = append(tr.steps, step)
		tr.exec(op, code)
		tr.gas -= o.constantGas
	}
	rows, err := tr.rw.Rows()
	if err != nil {
		tr.t.Fatalf("tracer: rw log: %v", err)
	}
	return Tables{
		Block:    NewBlockTable(tr.block.TableAssignments(tr.r)...),
		Tx:       NewTxTable(tr.tx.TableAssignments(tr.r)...),
		Bytecode: NewBytecodeTable(tr.code.TableAssignments(tr.r)...),
		RW:       NewRWTable(rows...),
	}, tr.steps
}

func (tr *tracer) exec(op OpCode, code []byte) {
	next := tr.pc + 1
	switch {
	case op == NOT || op == ISZERO:
		tr.read(0)
		tr.write(0, tr.result())
	case op >= ADD && op <= SAR && op != NOT && op != ISZERO:
		tr.read(0)
		tr.read(1)
		tr.write(1, tr.result())
		tr.sp++
	case op == POP:
		tr.read(0)
		tr.sp++
	case op == PUSH0:
		tr.write(-1, new(uint256.Int))
		tr.sp--
	case op.IsPush():
		n := uint64(op.PushSize())
		tr.write(-1, new(uint256.Int).SetBytes(code[tr.pc+1:tr.pc+1+n]))
		tr.sp--
		next += n
	case op.IsDup():
		n := int(op-DUP1) + 1
		tr.write(-1, tr.read(n-1))
		tr.sp--
	case op.IsSwap():
		n := int(op-SWAP1) + 1
		a, b := tr.read(0), tr.read(n)
		tr.write(0, b)
		tr.write(n, a)
	case op == JUMPDEST:
	case op == PC:
		tr.write(-1, uint256.NewInt(tr.pc))
		tr.sp--
	case op == GAS:
		tr.write(-1, uint256.NewInt(tr.gas-GasQuickStep))
		tr.sp--
	case op == JUMP:
		next = tr.read(0).Uint64()
		tr.sp++
	case op == JUMPI:
		dest, cond := tr.read(0), tr.read(1)
		if !cond.IsZero() {
			next = dest.Uint64()
		}
		tr.sp += 2
	case blockContextTags[op] != 0:
		tr.write(-1, tr.blockField(op))
		tr.sp--
	case op == CALLER || op == CALLVALUE || op == CALLDATASIZE:
		var v *uint256.Int
		switch op {
		case CALLER:
			v = new(uint256.Int).SetBytes(tr.tx.Caller[:])
		case CALLVALUE:
			v = tr.tx.Value
		default:
			v = uint256.NewInt(uint64(len(tr.tx.CallData)))
		}
		tr.rw.CallContextRead(1, callContextFields[op], tr.enc(v))
		tr.write(-1, v)
		tr.sp--
	case op == ORIGIN || op == GASPRICE:
		tr.rw.CallContextRead(1, CallContextTxID, tr.enc(uint256.NewInt(tr.tx.ID)))
		v := new(uint256.Int).SetBytes(tr.tx.Caller[:])
		if op == GASPRICE {
			v = tr.tx.GasPrice
		}
		tr.write(-1, v)
		tr.sp--
	default:
		tr.t.Fatalf("tracer: %s not traced", op)
	}
	tr.pc = next
}

// tamperLastWrite returns rw with the value of its last write incremented.
func tamperLastWrite(t *testing.T, r fr.Element, rw *RWTable) *RWTable {
	t.Helper()
	rows := make([]RWRow, 0, rw.Len())
	for c := uint64(1); len(rows) < rw.Len(); c++ {
		rows = append(rows, rw.At(c)...)
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].IsWrite {
			v := new(uint256.Int).AddUint64(rows[i].Value.Int(), 1)
			rows[i].Value = rlc.Encode(v, r)
			return NewRWTable(rows...)
		}
	}
	t.Fatal("no write to tamper with")
	return nil
}
