package sealevel

import "k8s.io/klog/v2"

// InstructionAccountsFromMetas resolves top level account metas against the
// transaction's accounts. Repeated keys point IndexInCallee at their first
// occurrence.
func InstructionAccountsFromMetas(instrAcctMetas []AccountMeta, txAccounts *TransactionAccounts) ([]InstructionAccount, error) {
	instrAccts := make([]InstructionAccount, 0, len(instrAcctMetas))

	for instrAcctIdx, accountMeta := range instrAcctMetas {
		idxInTx := -1
		for pos, acct := range txAccounts.Accounts {
			if acct.Key == accountMeta.Pubkey {
				idxInTx = pos
				break
			}
		}
		if idxInTx == -1 {
			klog.Errorf("account %s not loaded by transaction", accountMeta.Pubkey)
			return nil, InstrErrMissingAccount
		}

		idxInCallee := instrAcctIdx
		for pos, instrAcct := range instrAccts {
			if instrAcct.IndexInTransaction == uint64(idxInTx) {
				idxInCallee = pos
				break
			}
		}

		instrAccts = append(instrAccts, InstructionAccount{
			IndexInTransaction: uint64(idxInTx),
			IndexInCaller:      uint64(idxInTx),
			IndexInCallee:      uint64(idxInCallee),
			IsSigner:           accountMeta.IsSigner,
			IsWritable:         accountMeta.IsWritable,
		})
	}

	return instrAccts, nil
}
