package evm

var blockContextTags = map[OpCode]BlockTag{
	COINBASE:   BlockCoinbase,
	TIMESTAMP:  BlockTimestamp,
	NUMBER:     BlockNumber,
	PREVRANDAO: BlockPrevRandao,
	GASLIMIT:   BlockGasLimit,
	CHAINID:    BlockChainID,
	BASEFEE:    BlockBaseFee,
}

var callContextFields = map[OpCode]CallContextField{
	CALLER:       CallContextCallerAddress,
	CALLVALUE:    CallContextValue,
	CALLDATASIZE: CallContextCallDataLength,
}

var txContextTags = map[OpCode]TxTag{
	ORIGIN:   TxCallerAddress,
	GASPRICE: TxGasPrice,
}

// gadgetBlockCtx pushes the block table value selected by the opcode.
func gadgetBlockCtx(in *Instruction) error {
	v, err := in.BlockLookup(blockContextTags[in.Opcode()], 0)
	if err != nil {
		return err
	}
	return in.StackWrite(-1, v)
}

// gadgetCallCtx pushes a field of the current call context.
func gadgetCallCtx(in *Instruction) error {
	v, err := in.CallContextRead(callContextFields[in.Opcode()])
	if err != nil {
		return err
	}
	return in.StackWrite(-1, v)
}

// gadgetTxCtx resolves the transaction of the current call and pushes one
// of its fields.
func gadgetTxCtx(in *Instruction) error {
	id, err := in.CallContextRead(CallContextTxID)
	if err != nil {
		return err
	}
	if !id.Int().IsUint64() {
		return semanticViolation("%s: tx id %s out of range", in.Opcode(), id)
	}
	v, err := in.TxLookup(id.Int().Uint64(), txContextTags[in.Opcode()], 0)
	if err != nil {
		return err
	}
	return in.StackWrite(-1, v)
}
