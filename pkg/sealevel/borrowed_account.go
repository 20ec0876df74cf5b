package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/safemath"
	"k8s.io/klog/v2"
)

// BorrowedAccount is an exclusive, permission checked handle on one
// transaction account. Drop must be called to release it.
type BorrowedAccount struct {
	TxCtx              *TransactionCtx
	InstrCtx           *InstructionCtx
	IndexInTransaction uint64
	IndexInInstruction uint64
	Account            *accounts.Account
	released           bool
}

func (acct *BorrowedAccount) Drop() {
	if acct.released {
		return
	}
	acct.released = true
	acct.TxCtx.Accounts.Release(acct.IndexInTransaction)
}

func (acct *BorrowedAccount) Key() solana.PublicKey {
	return acct.Account.Key
}

func (acct *BorrowedAccount) Owner() solana.PublicKey {
	return acct.Account.Owner
}

func (acct *BorrowedAccount) Lamports() uint64 {
	return acct.Account.Lamports
}

func (acct *BorrowedAccount) Data() []byte {
	return acct.Account.Data
}

func (acct *BorrowedAccount) RentEpoch() uint64 {
	return acct.Account.RentEpoch
}

func (acct *BorrowedAccount) IsExecutable() bool {
	return acct.Account.Executable
}

func (acct *BorrowedAccount) Touch() error {
	return acct.TxCtx.Accounts.Touch(acct.IndexInTransaction)
}

func (acct *BorrowedAccount) IsSigner() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	isSigner, err := instrCtx.IsInstructionAccountSigner(instrAcctIdx)
	if err != nil {
		return false
	}
	return isSigner
}

func (acct *BorrowedAccount) IsWritable() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	writable, err := instrCtx.IsInstructionAccountWritable(instrAcctIdx)
	if err != nil {
		return false
	}
	return writable
}

func (acct *BorrowedAccount) IsOwnedByCurrentProgram() bool {
	lastProgramKey, err := acct.InstrCtx.LastProgramKey(acct.TxCtx)
	if err != nil {
		return false
	}
	return lastProgramKey == acct.Owner()
}

func (acct *BorrowedAccount) IsZeroed() bool {
	for _, b := range acct.Account.Data {
		if b != 0 {
			return false
		}
	}
	return true
}

func (acct *BorrowedAccount) SetLamports(lamports uint64) error {
	// only the owner may withdraw
	if !acct.IsOwnedByCurrentProgram() && lamports < acct.Lamports() {
		return InstrErrExternalAccountLamportSpend
	}
	if !acct.IsWritable() {
		return InstrErrReadonlyLamportChange
	}
	if acct.IsExecutable() {
		return InstrErrExecutableLamportChange
	}
	if acct.Lamports() == lamports {
		return nil
	}

	err := acct.Touch()
	if err != nil {
		return err
	}
	acct.Account.Lamports = lamports
	return nil
}

func (acct *BorrowedAccount) CheckedAddLamports(lamports uint64) error {
	newLamports, err := safemath.CheckedAddU64(acct.Lamports(), lamports)
	if err != nil {
		return InstrErrArithmeticOverflow
	}
	return acct.SetLamports(newLamports)
}

func (acct *BorrowedAccount) CheckedSubLamports(lamports uint64) error {
	newLamports, err := safemath.CheckedSubU64(acct.Lamports(), lamports)
	if err != nil {
		return InstrErrArithmeticOverflow
	}
	return acct.SetLamports(newLamports)
}

func (acct *BorrowedAccount) DataCanBeChanged() error {
	if acct.IsExecutable() {
		return InstrErrExecutableDataModified
	}
	if !acct.IsWritable() {
		return InstrErrReadonlyDataModified
	}
	if !acct.IsOwnedByCurrentProgram() {
		return InstrErrExternalAccountDataModified
	}
	return nil
}

func (acct *BorrowedAccount) CanDataBeResized(newLength uint64) error {
	oldLength := uint64(len(acct.Data()))

	// only the owner may change the length of the data
	if newLength != oldLength && !acct.IsOwnedByCurrentProgram() {
		return InstrErrAccountDataSizeChanged
	}
	if newLength > MaxPermittedDataLength {
		return InstrErrInvalidRealloc
	}

	lengthDelta := int64(newLength) - int64(oldLength)
	if acct.TxCtx.AccountsResizeDelta+lengthDelta > MaxPermittedAccountsDataAllocationsPerTransaction {
		return InstrErrMaxAccountsDataAllocationsExceeded
	}
	return nil
}

func (acct *BorrowedAccount) updateAccountsResizeDelta(newLength uint64) {
	acct.TxCtx.AccountsResizeDelta += int64(newLength) - int64(len(acct.Data()))
}

func (acct *BorrowedAccount) SetData(data []byte) error {
	err := acct.CanDataBeResized(uint64(len(data)))
	if err != nil {
		return err
	}
	err = acct.DataCanBeChanged()
	if err != nil {
		return err
	}
	err = acct.Touch()
	if err != nil {
		return err
	}

	acct.updateAccountsResizeDelta(uint64(len(data)))
	acct.Account.SetData(data)
	return nil
}

// SetDataLength resizes the data, zero filling any growth.
func (acct *BorrowedAccount) SetDataLength(newLength uint64) error {
	err := acct.CanDataBeResized(newLength)
	if err != nil {
		return err
	}
	err = acct.DataCanBeChanged()
	if err != nil {
		return err
	}
	if uint64(len(acct.Data())) == newLength {
		return nil
	}
	err = acct.Touch()
	if err != nil {
		return err
	}

	acct.updateAccountsResizeDelta(newLength)
	acct.Account.Resize(newLength, 0)
	return nil
}

func (acct *BorrowedAccount) SetOwner(owner solana.PublicKey) error {
	if !acct.IsOwnedByCurrentProgram() || !acct.IsWritable() || acct.IsExecutable() || !acct.IsZeroed() {
		klog.V(2).Infof("owner change of %s to %s refused", acct.Key(), owner)
		return InstrErrModifiedProgramId
	}
	if acct.Owner() == owner {
		return nil
	}

	err := acct.Touch()
	if err != nil {
		return err
	}
	acct.Account.Owner = owner
	return nil
}
