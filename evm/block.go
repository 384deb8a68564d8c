package evm

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/eth2030/zkevm/rlc"
)

// maxHistoryHashes bounds the history hashes a block exposes.
const maxHistoryHashes = 256

// Block is the block context a trace executes in.
type Block struct {
	Coinbase   common.Address
	GasLimit   uint64
	Number     uint64
	Timestamp  uint64
	PrevRandao common.Hash
	BaseFee    *uint256.Int
	ChainID    uint64

	// HistoryHashes holds the hashes of preceding blocks, most recent last.
	HistoryHashes []common.Hash
}

// DefaultBlock returns the block context used when a test does not care.
func DefaultBlock() Block {
	return Block{
		Coinbase:  common.HexToAddress("0x0000000000000000000000000000000000000010"),
		GasLimit:  30_000_000,
		Number:    0xcafe,
		Timestamp: 0x1234,
		BaseFee:   uint256.NewInt(1_000_000_000),
		ChainID:   1,
	}
}

// TableAssignments returns the block table rows with values encoded
// under r.
func (b Block) TableAssignments(r fr.Element) []BlockRow {
	baseFee := b.BaseFee
	if baseFee == nil {
		baseFee = new(uint256.Int)
	}
	rows := []BlockRow{
		{Tag: BlockCoinbase, Value: rlc.EncodeBytes(b.Coinbase[:], r)},
		{Tag: BlockGasLimit, Value: rlc.EncodeUint64(b.GasLimit, r)},
		{Tag: BlockNumber, Value: rlc.EncodeUint64(b.Number, r)},
		{Tag: BlockTimestamp, Value: rlc.EncodeUint64(b.Timestamp, r)},
		{Tag: BlockPrevRandao, Value: rlc.EncodeBytes(b.PrevRandao[:], r)},
		{Tag: BlockBaseFee, Value: rlc.Encode(baseFee, r)},
		{Tag: BlockChainID, Value: rlc.EncodeUint64(b.ChainID, r)},
	}
	history := b.HistoryHashes
	if len(history) > maxHistoryHashes {
		history = history[len(history)-maxHistoryHashes:]
	}
	for i, h := range history {
		// Index counts back from the current block: 1 is the parent.
		rows = append(rows, BlockRow{
			Tag:   BlockHistoryHash,
			Index: uint64(len(history) - i),
			Value: rlc.EncodeBytes(h[:], r),
		})
	}
	return rows
}

// Transaction is the transaction context of a trace.
type Transaction struct {
	ID       uint64
	Nonce    uint64
	Gas      uint64
	GasPrice *uint256.Int
	Caller   common.Address
	// Callee is nil for contract creation.
	Callee   *common.Address
	Value    *uint256.Int
	CallData []byte
}

// TableAssignments returns the transaction table rows with values encoded
// under r.
func (tx Transaction) TableAssignments(r fr.Element) []TxRow {
	orZero := func(v *uint256.Int) *uint256.Int {
		if v == nil {
			return new(uint256.Int)
		}
		return v
	}
	var callee common.Address
	if tx.Callee != nil {
		callee = *tx.Callee
	}
	var isCreate uint64
	if tx.Callee == nil {
		isCreate = 1
	}
	rows := []TxRow{
		{TxID: tx.ID, Tag: TxNonce, Value: rlc.EncodeUint64(tx.Nonce, r)},
		{TxID: tx.ID, Tag: TxGas, Value: rlc.EncodeUint64(tx.Gas, r)},
		{TxID: tx.ID, Tag: TxGasPrice, Value: rlc.Encode(orZero(tx.GasPrice), r)},
		{TxID: tx.ID, Tag: TxCallerAddress, Value: rlc.EncodeBytes(tx.Caller[:], r)},
		{TxID: tx.ID, Tag: TxCalleeAddress, Value: rlc.EncodeBytes(callee[:], r)},
		{TxID: tx.ID, Tag: TxIsCreate, Value: rlc.EncodeUint64(isCreate, r)},
		{TxID: tx.ID, Tag: TxValue, Value: rlc.Encode(orZero(tx.Value), r)},
		{TxID: tx.ID, Tag: TxCallDataLength, Value: rlc.EncodeUint64(uint64(len(tx.CallData)), r)},
	}
	for i, v := range tx.CallData {
		rows = append(rows, TxRow{TxID: tx.ID, Tag: TxCallData, Index: uint64(i), Value: rlc.EncodeUint64(uint64(v), r)})
	}
	return rows
}
