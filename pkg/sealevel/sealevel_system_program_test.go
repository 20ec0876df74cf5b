package sealevel

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/cu"
)

func newTestExecCtx(accts []accounts.Account, log *LogRecorder) *ExecutionCtx {
	transactionAccts := NewTransactionAccounts(accts)
	txCtx := NewTransactionCtx(transactionAccts, 5, 64)
	execCtx := &ExecutionCtx{
		TransactionContext: txCtx,
		ComputeMeter:       cu.NewComputeMeter(10000000000),
		Builtins:           DefaultBuiltins(),
	}
	if log != nil {
		execCtx.Log = log
	}
	return execCtx
}

func processTopLevel(t *testing.T, execCtx *ExecutionCtx, ix Instruction) error {
	t.Helper()
	instructionAccts, err := InstructionAccountsFromMetas(ix.Accounts, execCtx.TransactionContext.Accounts)
	require.NoError(t, err)
	programIdx, err := execCtx.TransactionContext.IndexOfAccount(ix.ProgramId)
	require.NoError(t, err)
	return execCtx.ProcessInstruction(ix.Data, instructionAccts, []uint64{programIdx})
}

func randomPubkey(t *testing.T) solana.PublicKey {
	privKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return privKey.PublicKey()
}

func systemProgramAcct() accounts.Account {
	return accounts.Account{Key: SystemProgramAddr, Lamports: 100000000, Data: make([]byte, 0), Owner: NativeLoaderAddr, Executable: true, RentEpoch: 100}
}

func TestExecute_Tx_System_Program_CreateAccount_Success(t *testing.T) {
	fundingPubkey := randomPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 10000, Data: make([]byte, 0), Owner: SystemProgramAddr, Executable: false, RentEpoch: 100}

	newPubkey := randomPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Lamports: 0, Data: make([]byte, 0), Owner: SystemProgramAddr, Executable: false, RentEpoch: 100}

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), fundingAcct, newAcct}, nil)

	ix := NewCreateAccountInstruction(fundingPubkey, newPubkey, 1234, 1234, BpfLoaderUpgradeableAddr)
	err := processTopLevel(t, execCtx, ix)
	assert.NoError(t, err)

	newAcctPost, err := execCtx.TransactionContext.Accounts.GetAccount(2)
	assert.NoError(t, err)

	// check new account has lamports, space and owner as expected
	assert.Equal(t, uint64(1234), newAcctPost.Lamports)
	assert.Equal(t, 1234, len(newAcctPost.Data))
	assert.Equal(t, BpfLoaderUpgradeableAddr, newAcctPost.Owner)

	fundingAcctPost, err := execCtx.TransactionContext.Accounts.GetAccount(1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(10000-1234), fundingAcctPost.Lamports)

	assert.Equal(t, uint64(CUSystemProgramDefaultComputeUnits), execCtx.ComputeMeter.Used())
	assert.True(t, execCtx.TransactionContext.Accounts.IsTouched(2))
	assert.Equal(t, int64(1234), execCtx.TransactionContext.AccountsResizeDelta)
}

func TestExecute_Tx_System_Program_CreateAccount_AlreadyInUse(t *testing.T) {
	fundingPubkey := randomPubkey(t)
	fundingAcct := accounts.Account{Key: fundingPubkey, Lamports: 10000, Owner: SystemProgramAddr}
	newPubkey := randomPubkey(t)
	newAcct := accounts.Account{Key: newPubkey, Lamports: 1, Owner: SystemProgramAddr}

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), fundingAcct, newAcct}, nil)

	err := processTopLevel(t, execCtx, NewCreateAccountInstruction(fundingPubkey, newPubkey, 10, 10, BpfLoaderUpgradeableAddr))
	assert.Equal(t, SystemProgErrAccountAlreadyInUse, err)
}

func TestExecute_Tx_System_Program_Transfer_Success(t *testing.T) {
	fromPubkey := randomPubkey(t)
	toPubkey := randomPubkey(t)
	fromAcct := accounts.Account{Key: fromPubkey, Lamports: 5000, Owner: SystemProgramAddr}
	toAcct := accounts.Account{Key: toPubkey, Lamports: 10, Owner: SystemProgramAddr}

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), fromAcct, toAcct}, nil)

	err := processTopLevel(t, execCtx, NewTransferInstruction(fromPubkey, toPubkey, 1000))
	assert.NoError(t, err)

	fromPost, _ := execCtx.TransactionContext.Accounts.GetAccount(1)
	toPost, _ := execCtx.TransactionContext.Accounts.GetAccount(2)
	assert.Equal(t, uint64(4000), fromPost.Lamports)
	assert.Equal(t, uint64(1010), toPost.Lamports)
}

func TestExecute_Tx_System_Program_Transfer_Insufficient(t *testing.T) {
	fromPubkey := randomPubkey(t)
	toPubkey := randomPubkey(t)
	fromAcct := accounts.Account{Key: fromPubkey, Lamports: 5, Owner: SystemProgramAddr}
	toAcct := accounts.Account{Key: toPubkey, Owner: SystemProgramAddr}

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), fromAcct, toAcct}, nil)

	err := processTopLevel(t, execCtx, NewTransferInstruction(fromPubkey, toPubkey, 1000))
	assert.Equal(t, SystemProgErrResultWithNegativeLamports, err)

	fromPost, _ := execCtx.TransactionContext.Accounts.GetAccount(1)
	assert.Equal(t, uint64(5), fromPost.Lamports)
}

func TestExecute_Tx_System_Program_Transfer_MissingSigner(t *testing.T) {
	fromPubkey := randomPubkey(t)
	toPubkey := randomPubkey(t)
	fromAcct := accounts.Account{Key: fromPubkey, Lamports: 5000, Owner: SystemProgramAddr}
	toAcct := accounts.Account{Key: toPubkey, Owner: SystemProgramAddr}

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), fromAcct, toAcct}, nil)

	ix := NewTransferInstruction(fromPubkey, toPubkey, 1000)
	ix.Accounts[0].IsSigner = false
	err := processTopLevel(t, execCtx, ix)
	assert.Equal(t, InstrErrMissingRequiredSignature, err)
}

func TestExecute_Tx_System_Program_Assign_And_Allocate(t *testing.T) {
	pubkey := randomPubkey(t)
	acct := accounts.Account{Key: pubkey, Lamports: 5000, Owner: SystemProgramAddr}
	newOwner := randomPubkey(t)

	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), acct}, nil)

	err := processTopLevel(t, execCtx, NewAllocateInstruction(pubkey, 64))
	assert.NoError(t, err)
	err = processTopLevel(t, execCtx, NewAssignInstruction(pubkey, newOwner))
	assert.NoError(t, err)

	post, _ := execCtx.TransactionContext.Accounts.GetAccount(1)
	assert.Equal(t, 64, len(post.Data))
	assert.Equal(t, newOwner, post.Owner)
	assert.Equal(t, uint64(2), execCtx.TransactionContext.InstructionTraceLength())
}

func TestExecute_Tx_System_Program_InvalidInstruction(t *testing.T) {
	pubkey := randomPubkey(t)
	execCtx := newTestExecCtx([]accounts.Account{systemProgramAcct(), {Key: pubkey, Owner: SystemProgramAddr}}, nil)

	ix := Instruction{ProgramId: SystemProgramAddr, Accounts: []AccountMeta{{Pubkey: pubkey, IsSigner: true, IsWritable: true}}, Data: []byte{0xff, 0, 0, 0}}
	err := processTopLevel(t, execCtx, ix)
	assert.Equal(t, InstrErrInvalidInstructionData, err)
}
