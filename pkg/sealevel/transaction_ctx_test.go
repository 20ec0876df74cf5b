package sealevel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/accounts"
)

func configureNext(t *testing.T, txCtx *TransactionCtx, programIdx uint64, instrAccts []InstructionAccount) {
	t.Helper()
	next, err := txCtx.NextInstructionCtx()
	require.NoError(t, err)
	next.Configure([]uint64{programIdx}, instrAccts, nil)
}

func TestTransactionCtx_PushPop(t *testing.T) {
	programKey := randomPubkey(t)
	userKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts([]accounts.Account{
		{Key: programKey, Owner: NativeLoaderAddr, Executable: true},
		{Key: userKey, Lamports: 100, Owner: programKey},
	}), 2, 64)

	_, err := txCtx.CurrentInstructionCtx()
	assert.Equal(t, InstrErrCallDepth, err)
	assert.Equal(t, InstrErrCallDepth, txCtx.Pop())

	instrAccts := []InstructionAccount{{IndexInTransaction: 1, IndexInCaller: 1, IndexInCallee: 0, IsWritable: true}}
	configureNext(t, txCtx, 0, instrAccts)
	require.NoError(t, txCtx.Push())
	assert.Equal(t, uint64(1), txCtx.InstructionCtxStackHeight())
	assert.Equal(t, uint64(1), txCtx.InstructionTraceLength())

	current, err := txCtx.CurrentInstructionCtx()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), current.LamportsSum)
	assert.Equal(t, uint64(0), current.NestingLevel)

	configureNext(t, txCtx, 0, instrAccts)
	require.NoError(t, txCtx.Push())

	// stack is full
	configureNext(t, txCtx, 0, instrAccts)
	assert.Equal(t, InstrErrCallDepth, txCtx.Push())

	require.NoError(t, txCtx.Pop())
	require.NoError(t, txCtx.Pop())
	assert.Equal(t, uint64(0), txCtx.InstructionCtxStackHeight())
	assert.Equal(t, uint64(3), txCtx.InstructionTraceLength())
}

func TestTransactionCtx_InstructionStack(t *testing.T) {
	programKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts([]accounts.Account{
		{Key: programKey, Owner: NativeLoaderAddr, Executable: true},
	}), 5, 64)

	var pushed []*InstructionCtx
	for level := 0; level < 3; level++ {
		next, err := txCtx.NextInstructionCtx()
		require.NoError(t, err)
		next.Configure([]uint64{0}, nil, []byte{byte(level)})
		require.NoError(t, txCtx.Push())
		pushed = append(pushed, next)
	}
	require.Equal(t, uint64(3), txCtx.InstructionCtxStackHeight())

	for level, want := range pushed {
		got, err := txCtx.InstructionCtxAtNestingLevel(uint64(level))
		require.NoError(t, err)
		assert.Same(t, want, got)
		assert.Equal(t, uint64(level), got.NestingLevel)
	}
	_, err := txCtx.InstructionCtxAtNestingLevel(3)
	assert.Equal(t, InstrErrCallDepth, err)

	require.NoError(t, txCtx.Pop())
	current, err := txCtx.CurrentInstructionCtx()
	require.NoError(t, err)
	assert.Same(t, pushed[1], current)

	// a new frame reuses the popped depth but gets a fresh trace slot
	next, err := txCtx.NextInstructionCtx()
	require.NoError(t, err)
	next.Configure([]uint64{0}, nil, []byte{9})
	require.NoError(t, txCtx.Push())
	current, err = txCtx.CurrentInstructionCtx()
	require.NoError(t, err)
	assert.Same(t, next, current)
	assert.Equal(t, uint64(2), current.NestingLevel)
	assert.Equal(t, uint64(4), txCtx.InstructionTraceLength())
}

func TestTransactionCtx_MaxInstructionTraceLength(t *testing.T) {
	programKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts([]accounts.Account{
		{Key: programKey, Owner: NativeLoaderAddr, Executable: true},
	}), 5, 2)

	for i := 0; i < 2; i++ {
		configureNext(t, txCtx, 0, nil)
		require.NoError(t, txCtx.Push())
		require.NoError(t, txCtx.Pop())
	}
	configureNext(t, txCtx, 0, nil)
	assert.Equal(t, InstrErrMaxInstructionTraceLengthExceeded, txCtx.Push())
}

func TestTransactionCtx_UnbalancedInstruction(t *testing.T) {
	programKey := randomPubkey(t)
	userKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts([]accounts.Account{
		{Key: programKey, Owner: NativeLoaderAddr, Executable: true},
		{Key: userKey, Lamports: 100, Owner: programKey},
	}), 5, 64)

	configureNext(t, txCtx, 0, []InstructionAccount{{IndexInTransaction: 1, IndexInCaller: 1, IndexInCallee: 0, IsWritable: true}})
	require.NoError(t, txCtx.Push())

	acct, err := txCtx.Accounts.GetAccount(1)
	require.NoError(t, err)
	acct.Lamports = 99

	assert.Equal(t, InstrErrUnbalancedInstruction, txCtx.Pop())
	assert.Equal(t, uint64(0), txCtx.InstructionCtxStackHeight())
}

func TestTransactionCtx_BorrowOutstanding(t *testing.T) {
	programKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts([]accounts.Account{
		{Key: programKey, Owner: NativeLoaderAddr, Executable: true},
	}), 5, 64)

	configureNext(t, txCtx, 0, nil)
	require.NoError(t, txCtx.Push())

	instrCtx, err := txCtx.CurrentInstructionCtx()
	require.NoError(t, err)
	programAcct, err := instrCtx.BorrowLastProgramAccount(txCtx)
	require.NoError(t, err)

	_, err = instrCtx.BorrowLastProgramAccount(txCtx)
	assert.Equal(t, InstrErrAccountBorrowFailed, err)

	assert.Equal(t, InstrErrAccountBorrowOutstanding, txCtx.Pop())
	programAcct.Drop()
	programAcct.Drop()
	assert.False(t, txCtx.Accounts.IsBorrowed(0))
}

func TestTransactionCtx_ReturnData(t *testing.T) {
	programKey := randomPubkey(t)
	txCtx := NewTransactionCtx(NewTransactionAccounts(nil), 5, 64)

	data := []byte("hello")
	require.NoError(t, txCtx.SetReturnData(programKey, data))
	data[0] = 'j'

	id, got := txCtx.GetReturnData()
	assert.Equal(t, programKey, id)
	assert.Equal(t, []byte("hello"), got)

	assert.Equal(t, SyscallErrReturnDataTooLarge, txCtx.SetReturnData(programKey, bytes.Repeat([]byte{1}, MaxReturnData+1)))
	require.NoError(t, txCtx.SetReturnData(programKey, bytes.Repeat([]byte{1}, MaxReturnData)))
}

func TestInstructionAccountsFromMetas_Duplicates(t *testing.T) {
	a := randomPubkey(t)
	b := randomPubkey(t)
	txAccts := NewTransactionAccounts([]accounts.Account{{Key: a}, {Key: b}})

	instrAccts, err := InstructionAccountsFromMetas([]AccountMeta{{Pubkey: b}, {Pubkey: a}, {Pubkey: b}}, txAccts)
	require.NoError(t, err)
	require.Len(t, instrAccts, 3)
	assert.Equal(t, uint64(1), instrAccts[0].IndexInTransaction)
	assert.Equal(t, uint64(0), instrAccts[1].IndexInTransaction)
	assert.Equal(t, uint64(0), instrAccts[2].IndexInCallee)

	instrCtx := &InstructionCtx{InstructionAccounts: instrAccts}
	isDupe, first, err := instrCtx.IsInstructionAccountDuplicate(2)
	require.NoError(t, err)
	assert.True(t, isDupe)
	assert.Equal(t, uint64(0), first)

	_, err = InstructionAccountsFromMetas([]AccountMeta{{Pubkey: randomPubkey(t)}}, txAccts)
	assert.Equal(t, InstrErrMissingAccount, err)
}
