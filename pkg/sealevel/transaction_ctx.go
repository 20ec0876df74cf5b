package sealevel

import (
	"bytes"

	"github.com/edwingeng/deque/v2"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/safemath"
	"k8s.io/klog/v2"
)

type TransactionCtx struct {
	Accounts                  *TransactionAccounts
	InstructionTrace          []*InstructionCtx
	instructionStack          *deque.Deque[uint64]
	ReturnData                TxReturnData
	MaxStackHeight            uint64
	MaxInstructionTraceLength uint64
	AccountsResizeDelta       int64
}

func NewTransactionCtx(txAccts *TransactionAccounts, maxStackHeight uint64, maxInstructionTraceLength uint64) *TransactionCtx {
	return &TransactionCtx{
		Accounts:                  txAccts,
		InstructionTrace:          []*InstructionCtx{new(InstructionCtx)},
		instructionStack:          deque.NewDeque[uint64](),
		MaxStackHeight:            maxStackHeight,
		MaxInstructionTraceLength: maxInstructionTraceLength,
	}
}

func (txCtx *TransactionCtx) IndexOfAccount(pubkey solana.PublicKey) (uint64, error) {
	for index, acct := range txCtx.Accounts.Accounts {
		if acct.Key == pubkey {
			return uint64(index), nil
		}
	}
	return 0, InstrErrMissingAccount
}

func (txCtx *TransactionCtx) KeyOfAccountAtIndex(index uint64) (solana.PublicKey, error) {
	acct, err := txCtx.Accounts.GetAccount(index)
	if err != nil {
		return solana.PublicKey{}, InstrErrNotEnoughAccountKeys
	}
	return acct.Key, nil
}

func (txCtx *TransactionCtx) InstructionTraceLength() uint64 {
	return safemath.SaturatingSubU64(uint64(len(txCtx.InstructionTrace)), 1)
}

func (txCtx *TransactionCtx) InstructionCtxStackHeight() uint64 {
	return uint64(txCtx.instructionStack.Len())
}

func (txCtx *TransactionCtx) InstructionCtxAtIndexInTrace(index uint64) (*InstructionCtx, error) {
	if index >= uint64(len(txCtx.InstructionTrace)) {
		return nil, InstrErrCallDepth
	}
	return txCtx.InstructionTrace[index], nil
}

func (txCtx *TransactionCtx) InstructionCtxAtNestingLevel(nestingLevel uint64) (*InstructionCtx, error) {
	if nestingLevel >= txCtx.InstructionCtxStackHeight() {
		return nil, InstrErrCallDepth
	}
	var indexInTrace uint64
	txCtx.instructionStack.Range(func(i int, index uint64) bool {
		if uint64(i) == nestingLevel {
			indexInTrace = index
			return false
		}
		return true
	})
	return txCtx.InstructionCtxAtIndexInTrace(indexInTrace)
}

// CurrentInstructionCtx returns the instruction on top of the stack.
func (txCtx *TransactionCtx) CurrentInstructionCtx() (*InstructionCtx, error) {
	level := txCtx.InstructionCtxStackHeight()
	if level == 0 {
		return nil, InstrErrCallDepth
	}
	return txCtx.InstructionCtxAtNestingLevel(level - 1)
}

// NextInstructionCtx returns the trace slot the next Push will activate.
func (txCtx *TransactionCtx) NextInstructionCtx() (*InstructionCtx, error) {
	if len(txCtx.InstructionTrace) == 0 {
		return nil, InstrErrCallDepth
	}
	return txCtx.InstructionTrace[len(txCtx.InstructionTrace)-1], nil
}

func (txCtx *TransactionCtx) Push() error {
	nestingLevel := txCtx.InstructionCtxStackHeight()

	if nestingLevel != 0 {
		callerInstrCtx, err := txCtx.CurrentInstructionCtx()
		if err != nil {
			return err
		}
		lamportsSum, err := txCtx.instructionAccountsLamportSum(callerInstrCtx)
		if err != nil {
			return err
		}
		if lamportsSum != callerInstrCtx.LamportsSum {
			klog.Errorf("caller lamports changed before push: %d != %d", lamportsSum, callerInstrCtx.LamportsSum)
			return InstrErrUnbalancedInstruction
		}
	}

	calleeInstrCtx, err := txCtx.NextInstructionCtx()
	if err != nil {
		return err
	}
	calleeInstrCtx.NestingLevel = nestingLevel
	calleeInstrCtx.LamportsSum, err = txCtx.instructionAccountsLamportSum(calleeInstrCtx)
	if err != nil {
		return err
	}

	indexInTrace := txCtx.InstructionTraceLength()
	if indexInTrace >= txCtx.MaxInstructionTraceLength {
		return InstrErrMaxInstructionTraceLengthExceeded
	}
	txCtx.InstructionTrace = append(txCtx.InstructionTrace, new(InstructionCtx))

	if nestingLevel >= txCtx.MaxStackHeight {
		return InstrErrCallDepth
	}
	txCtx.instructionStack.PushBack(indexInTrace)

	return nil
}

func (txCtx *TransactionCtx) Pop() error {
	if txCtx.instructionStack.Len() == 0 {
		return InstrErrCallDepth
	}

	var err error
	instrCtx, e := txCtx.CurrentInstructionCtx()
	if e != nil {
		err = e
	} else {
		for _, programIdx := range instrCtx.ProgramAccounts {
			if txCtx.Accounts.IsBorrowed(programIdx) {
				err = InstrErrAccountBorrowOutstanding
				break
			}
		}
		if err == nil {
			lamportsSum, e := txCtx.instructionAccountsLamportSum(instrCtx)
			if e != nil {
				err = e
			} else if lamportsSum != instrCtx.LamportsSum {
				klog.Errorf("instruction lamports unbalanced after execution: %d != %d", lamportsSum, instrCtx.LamportsSum)
				err = InstrErrUnbalancedInstruction
			}
		}
	}

	txCtx.instructionStack.PopBack()
	return err
}

func (txCtx *TransactionCtx) instructionAccountsLamportSum(instrCtx *InstructionCtx) (uint64, error) {
	var sum uint64
	for instrAcctIdx := range instrCtx.InstructionAccounts {
		isDuplicate, _, err := instrCtx.IsInstructionAccountDuplicate(uint64(instrAcctIdx))
		if err != nil {
			return 0, err
		}
		if isDuplicate {
			continue
		}

		acct, err := txCtx.Accounts.GetAccount(instrCtx.InstructionAccounts[instrAcctIdx].IndexInTransaction)
		if err != nil {
			return 0, err
		}
		sum, err = safemath.CheckedAddU64(sum, acct.Lamports)
		if err != nil {
			return 0, InstrErrArithmeticOverflow
		}
	}
	return sum, nil
}

func (txCtx *TransactionCtx) GetReturnData() (solana.PublicKey, []byte) {
	return txCtx.ReturnData.ProgramId, txCtx.ReturnData.Data
}

// SetReturnData replaces the transaction's return data slot.
func (txCtx *TransactionCtx) SetReturnData(programId solana.PublicKey, data []byte) error {
	if len(data) > MaxReturnData {
		return SyscallErrReturnDataTooLarge
	}
	txCtx.ReturnData = TxReturnData{ProgramId: programId, Data: bytes.Clone(data)}
	return nil
}
