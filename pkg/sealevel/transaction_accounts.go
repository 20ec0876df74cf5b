package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/accounts"
)

// TransactionAccounts holds the accounts a transaction loaded, together with
// the borrow state and touched flags for each slot.
type TransactionAccounts struct {
	Accounts []*accounts.Account
	Touched  []bool
	borrowed []bool
}

func NewTransactionAccounts(accts []accounts.Account) *TransactionAccounts {
	txAccts := &TransactionAccounts{
		Accounts: make([]*accounts.Account, len(accts)),
		Touched:  make([]bool, len(accts)),
		borrowed: make([]bool, len(accts)),
	}
	for i := range accts {
		txAccts.Accounts[i] = accts[i].Clone()
	}
	return txAccts
}

func (txAccounts *TransactionAccounts) Len() uint64 {
	return uint64(len(txAccounts.Accounts))
}

func (txAccounts *TransactionAccounts) GetAccount(idx uint64) (*accounts.Account, error) {
	if idx >= uint64(len(txAccounts.Accounts)) {
		return nil, InstrErrMissingAccount
	}
	return txAccounts.Accounts[idx], nil
}

func (txAccounts *TransactionAccounts) Touch(idx uint64) error {
	if idx >= uint64(len(txAccounts.Touched)) {
		return InstrErrNotEnoughAccountKeys
	}
	txAccounts.Touched[idx] = true
	return nil
}

func (txAccounts *TransactionAccounts) IsTouched(idx uint64) bool {
	return idx < uint64(len(txAccounts.Touched)) && txAccounts.Touched[idx]
}

// Borrow takes the exclusive borrow on slot idx.
func (txAccounts *TransactionAccounts) Borrow(idx uint64) (*accounts.Account, error) {
	acct, err := txAccounts.GetAccount(idx)
	if err != nil {
		return nil, err
	}
	if txAccounts.borrowed[idx] {
		return nil, InstrErrAccountBorrowFailed
	}
	txAccounts.borrowed[idx] = true
	return acct, nil
}

func (txAccounts *TransactionAccounts) Release(idx uint64) {
	if idx < uint64(len(txAccounts.borrowed)) {
		txAccounts.borrowed[idx] = false
	}
}

func (txAccounts *TransactionAccounts) IsBorrowed(idx uint64) bool {
	return idx < uint64(len(txAccounts.borrowed)) && txAccounts.borrowed[idx]
}

func (txAccounts *TransactionAccounts) Keys() []solana.PublicKey {
	keys := make([]solana.PublicKey, len(txAccounts.Accounts))
	for i, acct := range txAccounts.Accounts {
		keys[i] = acct.Key
	}
	return keys
}
