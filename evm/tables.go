package evm

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eth2030/zkevm/rlc"
)

// Tables bundles the four lookup relations of one verification run. Tables
// are built before verification and only read during it.
type Tables struct {
	Block    *BlockTable
	Tx       *TxTable
	Bytecode *BytecodeTable
	RW       *RWTable
}

// Table names used in verification errors.
const (
	TableBlock    = "block"
	TableTx       = "tx"
	TableBytecode = "bytecode"
	TableRW       = "rw"
)

// rowSet is a set of rows keyed by their encoded tuple, with a secondary
// index from a lookup key to the rows sharing it.
type rowSet[T comparable, K comparable, R any] struct {
	rows  map[T]R
	index map[K][]R
}

func newRowSet[T comparable, K comparable, R any]() rowSet[T, K, R] {
	return rowSet[T, K, R]{rows: make(map[T]R), index: make(map[K][]R)}
}

func (s *rowSet[T, K, R]) add(tuple T, key K, row R) {
	if _, ok := s.rows[tuple]; ok {
		return
	}
	s.rows[tuple] = row
	s.index[key] = append(s.index[key], row)
}

func (s *rowSet[T, K, R]) contains(tuple T) bool {
	_, ok := s.rows[tuple]
	return ok
}

// ---------------------------------------------------------------------------
// Read/write table
// ---------------------------------------------------------------------------

// RWKind is the target of a read/write record.
type RWKind uint8

const (
	RWStack RWKind = iota + 1
	RWMemory
	RWStorage
	RWCallContext
)

func (k RWKind) String() string {
	switch k {
	case RWStack:
		return "stack"
	case RWMemory:
		return "memory"
	case RWStorage:
		return "storage"
	case RWCallContext:
		return "call-context"
	default:
		return fmt.Sprintf("RWKind(%d)", uint8(k))
	}
}

// CallContextField selects a call context value stored in the RW table.
type CallContextField uint64

const (
	CallContextTxID CallContextField = iota + 1
	CallContextCallerAddress
	CallContextValue
	CallContextCallDataLength
)

// RWRow is one read/write record.
type RWRow struct {
	Counter   uint64
	IsWrite   bool
	Kind      RWKind
	ContextID uint64
	// Key is the stack slot, memory address or call context field.
	Key uint64
	// StorageKey is only set for storage records.
	StorageKey rlc.Value
	Value      rlc.Value
}

// RWTuple is the field-encoded form of an RWRow.
type RWTuple struct {
	Counter, IsWrite, Kind, ContextID, Key, StorageKey, Value fr.Element
}

// Tuple encodes the row.
func (r RWRow) Tuple() RWTuple {
	return RWTuple{
		Counter:    rlc.Field(r.Counter),
		IsWrite:    rlc.Bool(r.IsWrite),
		Kind:       rlc.Field(uint64(r.Kind)),
		ContextID:  rlc.Field(r.ContextID),
		Key:        rlc.Field(r.Key),
		StorageKey: r.StorageKey.Field(),
		Value:      r.Value.Field(),
	}
}

// RWTable is the set of all read/write records of a trace.
type RWTable struct {
	set rowSet[RWTuple, uint64, RWRow]
}

// NewRWTable returns a table holding rows.
func NewRWTable(rows ...RWRow) *RWTable {
	t := &RWTable{set: newRowSet[RWTuple, uint64, RWRow]()}
	t.Add(rows...)
	return t
}

// Add inserts rows; rows already present are ignored.
func (t *RWTable) Add(rows ...RWRow) {
	for _, r := range rows {
		t.set.add(r.Tuple(), r.Counter, r)
	}
}

// Contains reports whether the exact row is in the table.
func (t *RWTable) Contains(r RWRow) bool {
	return t != nil && t.set.contains(r.Tuple())
}

// At returns the rows recorded with the given counter.
func (t *RWTable) At(counter uint64) []RWRow {
	if t == nil {
		return nil
	}
	return t.set.index[counter]
}

// Len returns the number of distinct rows.
func (t *RWTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.set.rows)
}

// ---------------------------------------------------------------------------
// Bytecode table
// ---------------------------------------------------------------------------

// BytecodeFieldTag distinguishes the length row from byte rows.
type BytecodeFieldTag uint8

const (
	BytecodeLength BytecodeFieldTag = iota + 1
	BytecodeByte
)

// BytecodeRow is one entry of the bytecode table.
type BytecodeRow struct {
	CodeHash rlc.Value
	Tag      BytecodeFieldTag
	Index    uint64
	IsCode   bool
	Value    uint64
}

// BytecodeTuple is the field-encoded form of a BytecodeRow.
type BytecodeTuple struct {
	CodeHash, Tag, Index, IsCode, Value fr.Element
}

// Tuple encodes the row.
func (r BytecodeRow) Tuple() BytecodeTuple {
	return BytecodeTuple{
		CodeHash: r.CodeHash.Field(),
		Tag:      rlc.Field(uint64(r.Tag)),
		Index:    rlc.Field(r.Index),
		IsCode:   rlc.Bool(r.IsCode),
		Value:    rlc.Field(r.Value),
	}
}

type bytecodeKey struct {
	codeHash fr.Element
	tag      BytecodeFieldTag
	index    uint64
}

// BytecodeTable is the set of bytecode rows of every program in a run.
type BytecodeTable struct {
	set rowSet[BytecodeTuple, bytecodeKey, BytecodeRow]
}

// NewBytecodeTable returns a table holding rows.
func NewBytecodeTable(rows ...BytecodeRow) *BytecodeTable {
	t := &BytecodeTable{set: newRowSet[BytecodeTuple, bytecodeKey, BytecodeRow]()}
	t.Add(rows...)
	return t
}

// Add inserts rows; rows already present are ignored.
func (t *BytecodeTable) Add(rows ...BytecodeRow) {
	for _, r := range rows {
		t.set.add(r.Tuple(), bytecodeKey{r.CodeHash.Field(), r.Tag, r.Index}, r)
	}
}

// Contains reports whether the exact row is in the table.
func (t *BytecodeTable) Contains(r BytecodeRow) bool {
	return t != nil && t.set.contains(r.Tuple())
}

// At returns the rows for the code hash, tag and index.
func (t *BytecodeTable) At(codeHash rlc.Value, tag BytecodeFieldTag, index uint64) []BytecodeRow {
	if t == nil {
		return nil
	}
	return t.set.index[bytecodeKey{codeHash.Field(), tag, index}]
}

// Len returns the number of distinct rows.
func (t *BytecodeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.set.rows)
}

// ---------------------------------------------------------------------------
// Block table
// ---------------------------------------------------------------------------

// BlockTag selects a block context field.
type BlockTag uint8

const (
	BlockCoinbase BlockTag = iota + 1
	BlockGasLimit
	BlockNumber
	BlockTimestamp
	BlockPrevRandao
	BlockBaseFee
	BlockChainID
	BlockHistoryHash
)

// BlockRow is one entry of the block table. Index is only non-zero for
// history hashes.
type BlockRow struct {
	Tag   BlockTag
	Index uint64
	Value rlc.Value
}

// BlockTuple is the field-encoded form of a BlockRow.
type BlockTuple struct {
	Tag, Index, Value fr.Element
}

// Tuple encodes the row.
func (r BlockRow) Tuple() BlockTuple {
	return BlockTuple{Tag: rlc.Field(uint64(r.Tag)), Index: rlc.Field(r.Index), Value: r.Value.Field()}
}

type blockKey struct {
	tag   BlockTag
	index uint64
}

// BlockTable is the set of block context rows.
type BlockTable struct {
	set rowSet[BlockTuple, blockKey, BlockRow]
}

// NewBlockTable returns a table holding rows.
func NewBlockTable(rows ...BlockRow) *BlockTable {
	t := &BlockTable{set: newRowSet[BlockTuple, blockKey, BlockRow]()}
	t.Add(rows...)
	return t
}

// Add inserts rows; rows already present are ignored.
func (t *BlockTable) Add(rows ...BlockRow) {
	for _, r := range rows {
		t.set.add(r.Tuple(), blockKey{r.Tag, r.Index}, r)
	}
}

// Contains reports whether the exact row is in the table.
func (t *BlockTable) Contains(r BlockRow) bool {
	return t != nil && t.set.contains(r.Tuple())
}

// At returns the rows for the tag and index.
func (t *BlockTable) At(tag BlockTag, index uint64) []BlockRow {
	if t == nil {
		return nil
	}
	return t.set.index[blockKey{tag, index}]
}

// Len returns the number of distinct rows.
func (t *BlockTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.set.rows)
}

// ---------------------------------------------------------------------------
// Transaction table
// ---------------------------------------------------------------------------

// TxTag selects a transaction field.
type TxTag uint8

const (
	TxNonce TxTag = iota + 1
	TxGas
	TxGasPrice
	TxCallerAddress
	TxCalleeAddress
	TxIsCreate
	TxValue
	TxCallDataLength
	TxCallData
)

// TxRow is one entry of the transaction table. Index is only non-zero for
// call data bytes.
type TxRow struct {
	TxID  uint64
	Tag   TxTag
	Index uint64
	Value rlc.Value
}

// TxTuple is the field-encoded form of a TxRow.
type TxTuple struct {
	TxID, Tag, Index, Value fr.Element
}

// Tuple encodes the row.
func (r TxRow) Tuple() TxTuple {
	return TxTuple{
		TxID:  rlc.Field(r.TxID),
		Tag:   rlc.Field(uint64(r.Tag)),
		Index: rlc.Field(r.Index),
		Value: r.Value.Field(),
	}
}

type txKey struct {
	txID  uint64
	tag   TxTag
	index uint64
}

// TxTable is the set of transaction rows.
type TxTable struct {
	set rowSet[TxTuple, txKey, TxRow]
}

// NewTxTable returns a table holding rows.
func NewTxTable(rows ...TxRow) *TxTable {
	t := &TxTable{set: newRowSet[TxTuple, txKey, TxRow]()}
	t.Add(rows...)
	return t
}

// Add inserts rows; rows already present are ignored.
func (t *TxTable) Add(rows ...TxRow) {
	for _, r := range rows {
		t.set.add(r.Tuple(), txKey{r.TxID, r.Tag, r.Index}, r)
	}
}

// Contains reports whether the exact row is in the table.
func (t *TxTable) Contains(r TxRow) bool {
	return t != nil && t.set.contains(r.Tuple())
}

// At returns the rows for the transaction, tag and index.
func (t *TxTable) At(txID uint64, tag TxTag, index uint64) []TxRow {
	if t == nil {
		return nil
	}
	return t.set.index[txKey{txID, tag, index}]
}

// Len returns the number of distinct rows.
func (t *TxTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.set.rows)
}
