package progtest

import (
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"k8s.io/klog/v2"
)

type calleeAccount struct {
	indexInCaller uint64
	info          *program.AccountInfo
}

// invokeSigned runs instruction as a cross program invocation of the
// current program. The caller's account views are written into the
// transaction before the call and the callee's writable accounts are read
// back into them afterwards.
func invokeSigned(instruction program.Instruction, accountInfos []*program.AccountInfo, signerSeeds [][][]byte) error {
	execCtx, err := currentInvokeContext()
	if err != nil {
		return err
	}
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	callerProgramId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	signers, err := deriveSigners(callerProgramId, signerSeeds)
	if err != nil {
		return err
	}

	ix := sealevel.Instruction{
		ProgramId: instruction.ProgramID,
		Data:      instruction.Data,
		Accounts: lo.Map(instruction.Accounts, func(meta program.AccountMeta, _ int) sealevel.AccountMeta {
			return sealevel.AccountMeta{Pubkey: meta.Pubkey, IsSigner: meta.IsSigner, IsWritable: meta.IsWritable}
		}),
	}

	instrAccts, programIndices, err := execCtx.PrepareInstruction(ix, signers)
	if err != nil {
		klog.V(2).Infof("cpi from %s to %s rejected: %s", callerProgramId, ix.ProgramId, err)
		return cpiError(err)
	}

	callees, err := syncCallerAccounts(execCtx, instrAccts, accountInfos)
	if err != nil {
		return cpiError(err)
	}

	sealevel.LogProgramInvoke(execCtx.Log, ix.ProgramId, execCtx.StackHeight()+1)
	err = execCtx.ProcessInstruction(ix.Data, instrAccts, programIndices)
	if err != nil {
		sealevel.LogProgramFailure(execCtx.Log, ix.ProgramId, err)
		return cpiError(err)
	}

	if err = syncCalleeAccounts(callees); err != nil {
		sealevel.LogProgramFailure(execCtx.Log, ix.ProgramId, err)
		return cpiError(err)
	}

	sealevel.LogProgramSuccess(execCtx.Log, ix.ProgramId)
	return nil
}

func deriveSigners(callerProgramId solana.PublicKey, signerSeeds [][][]byte) ([]solana.PublicKey, error) {
	if len(signerSeeds) > sealevel.MaxSigners {
		return nil, sealevel.SyscallErrTooManySigners
	}
	signers := make([]solana.PublicKey, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		signer, err := program.CreateProgramAddress(seeds, callerProgramId)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// syncCallerAccounts writes the caller's view of every account the callee
// will see into the transaction, returning the writable ones.
func syncCallerAccounts(execCtx *sealevel.ExecutionCtx, instrAccts []sealevel.InstructionAccount, accountInfos []*program.AccountInfo) ([]calleeAccount, error) {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return nil, err
	}

	uniqueAccts := lo.UniqBy(instrAccts, func(instrAcct sealevel.InstructionAccount) uint64 {
		return instrAcct.IndexInTransaction
	})

	callees := make([]calleeAccount, 0, len(uniqueAccts))
	for _, instrAcct := range uniqueAccts {
		key, err := txCtx.KeyOfAccountAtIndex(instrAcct.IndexInTransaction)
		if err != nil {
			return nil, err
		}
		info, ok := lo.Find(accountInfos, func(info *program.AccountInfo) bool {
			return info.Key == key
		})
		if !ok {
			klog.Errorf("cpi account %s missing from the caller's account infos", key)
			return nil, sealevel.InstrErrMissingAccount
		}

		borrowed, err := instrCtx.BorrowInstructionAccount(txCtx, instrAcct.IndexInCaller)
		if err != nil {
			return nil, err
		}
		err = reconcileAccount(borrowed, info)
		borrowed.Drop()
		if err != nil {
			return nil, err
		}

		if instrAcct.IsWritable {
			callees = append(callees, calleeAccount{indexInCaller: instrAcct.IndexInCaller, info: info})
		}
	}
	return callees, nil
}

// syncCalleeAccounts copies the post call state of the callee's writable
// accounts back into the caller's views.
func syncCalleeAccounts(callees []calleeAccount) error {
	execCtx, err := currentInvokeContext()
	if err != nil {
		return err
	}
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	for _, callee := range callees {
		borrowed, err := instrCtx.BorrowInstructionAccount(txCtx, callee.indexInCaller)
		if err != nil {
			return err
		}
		err = copyToAccountInfo(borrowed, callee.info)
		borrowed.Drop()
		if err != nil {
			return err
		}
	}
	return nil
}

func copyToAccountInfo(borrowed *sealevel.BorrowedAccount, info *program.AccountInfo) error {
	info.SetLamports(borrowed.Lamports())
	if owner := borrowed.Owner(); info.Owner() != owner {
		info.Assign(owner)
	}

	data := borrowed.Data()
	if info.DataLen() != len(data) {
		if err := info.Realloc(len(data), false); err != nil {
			return sealevel.InstrErrInvalidRealloc
		}
	}
	copy(info.Data(), data)
	return nil
}
