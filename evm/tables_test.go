package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/zkevm/rlc"
)

func TestRWTableSetSemantics(t *testing.T) {
	r := rlc.Field(5)
	row := RWRow{Counter: 3, IsWrite: true, Kind: RWStack, ContextID: 1, Key: 1023, Value: rlc.EncodeUint64(42, r)}
	tbl := NewRWTable(row, row)
	tbl.Add(row)
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
	if !tbl.Contains(row) {
		t.Fatal("row not found")
	}
	if got := tbl.At(3); len(got) != 1 {
		t.Fatalf("At(3) = %d rows, want 1", len(got))
	}
	other := row
	other.Value = rlc.EncodeUint64(43, r)
	if tbl.Contains(other) {
		t.Fatal("row with different value found")
	}
}

func TestRWTableChallengeSeparation(t *testing.T) {
	r1, r2 := rlc.Field(5), rlc.Field(6)
	v := new(uint256.Int).Lsh(uint256.NewInt(0x4321), 240)
	row := RWRow{Counter: 1, Kind: RWStack, ContextID: 1, Key: 1, Value: rlc.Encode(v, r1)}
	tbl := NewRWTable(row)
	row.Value = rlc.Encode(v, r2)
	if tbl.Contains(row) {
		t.Fatal("row encoded under another challenge matched")
	}
}

func TestNilTables(t *testing.T) {
	var (
		rw *RWTable
		bc *BytecodeTable
		bt *BlockTable
		tx *TxTable
	)
	if rw.Contains(RWRow{}) || rw.At(0) != nil || rw.Len() != 0 {
		t.Error("nil RW table not empty")
	}
	if bc.Contains(BytecodeRow{}) || bc.At(rlc.Value{}, BytecodeByte, 0) != nil || bc.Len() != 0 {
		t.Error("nil bytecode table not empty")
	}
	if bt.Contains(BlockRow{}) || bt.At(BlockNumber, 0) != nil || bt.Len() != 0 {
		t.Error("nil block table not empty")
	}
	if tx.Contains(TxRow{}) || tx.At(1, TxGas, 0) != nil || tx.Len() != 0 {
		t.Error("nil tx table not empty")
	}
}

func TestBlockTableAssignments(t *testing.T) {
	r := rlc.Field(1 << 20)
	b := DefaultBlock()
	b.HistoryHashes = []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02")}
	tbl := NewBlockTable(b.TableAssignments(r)...)
	if tbl.Len() != 9 {
		t.Fatalf("Len = %d, want 9", tbl.Len())
	}
	num := tbl.At(BlockNumber, 0)
	if len(num) != 1 || !num[0].Value.Equal(rlc.EncodeUint64(b.Number, r)) {
		t.Fatalf("number row = %+v", num)
	}
	parent := tbl.At(BlockHistoryHash, 1)
	if len(parent) != 1 || !parent[0].Value.Equal(rlc.EncodeBytes(b.HistoryHashes[1][:], r)) {
		t.Fatalf("parent hash row = %+v", parent)
	}
}

func TestTxTableAssignments(t *testing.T) {
	r := rlc.Field(1 << 21)
	callee := common.HexToAddress("0xbeef")
	tx := Transaction{
		ID:       1,
		Gas:      21000,
		GasPrice: uint256.NewInt(7),
		Caller:   common.HexToAddress("0xcafe"),
		Callee:   &callee,
		CallData: []byte{1, 2, 3},
	}
	tbl := NewTxTable(tx.TableAssignments(r)...)
	if tbl.Len() != 8+3 {
		t.Fatalf("Len = %d, want 11", tbl.Len())
	}
	create := tbl.At(1, TxIsCreate, 0)
	if len(create) != 1 || !create[0].Value.IsZero() {
		t.Fatalf("is-create row = %+v", create)
	}
	data := tbl.At(1, TxCallData, 2)
	if len(data) != 1 || data[0].Value.Int().Uint64() != 3 {
		t.Fatalf("calldata[2] row = %+v", data)
	}
	tx.Callee = nil
	created := NewTxTable(tx.TableAssignments(r)...).At(1, TxIsCreate, 0)
	if len(created) != 1 || created[0].Value.Int().Uint64() != 1 {
		t.Fatalf("contract creation is-create row = %+v", created)
	}
}
