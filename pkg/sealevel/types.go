package sealevel

import (
	"github.com/gagliardetto/solana-go"
)

const MaxReturnData = 1024

// MaxPermittedDataLength is the largest an account's data may grow to.
const MaxPermittedDataLength = 10 * 1024 * 1024

// MaxPermittedAccountsDataAllocationsPerTransaction bounds the net data growth of one transaction.
const MaxPermittedAccountsDataAllocationsPerTransaction = 2 * MaxPermittedDataLength

// MaxSigners is the most PDA signers a single cross program invocation may carry.
const MaxSigners = 16

type Instruction struct {
	Accounts  []AccountMeta
	Data      []byte
	ProgramId solana.PublicKey
}

type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

type InstructionAccount struct {
	IndexInTransaction uint64
	IndexInCaller      uint64
	IndexInCallee      uint64
	IsSigner           bool
	IsWritable         bool
}

type TxReturnData struct {
	ProgramId solana.PublicKey
	Data      []byte
}
