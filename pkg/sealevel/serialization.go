package sealevel

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/util"
)

const (
	MaxPermittedDataIncrease = 10 * 1024
	MaxInstructionAccounts   = 255
	NonDupMarker             = 0xff
	ReallocAlign             = 8
)

type serializeAcct struct {
	isDuplicate bool
	indexOfAcct uint64
	acct        *BorrowedAccount
}

// SerializeParameters flattens the current instruction into the aligned
// input layout: account records (data copied, followed by realloc headroom),
// instruction data and the program id. The second return value holds the
// data length of every non-duplicate account at serialization time.
func SerializeParameters(execCtx *ExecutionCtx) ([]byte, []uint64, error) {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return nil, nil, err
	}

	if instrCtx.NumberOfInstructionAccounts() > MaxInstructionAccounts {
		return nil, nil, InstrErrMaxAccountsExceeded
	}

	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return nil, nil, err
	}

	accts := make([]serializeAcct, 0, instrCtx.NumberOfInstructionAccounts())
	defer func() {
		for _, sa := range accts {
			if sa.acct != nil {
				sa.acct.Drop()
			}
		}
	}()

	size := uint64(8)
	for instrAcctIdx := uint64(0); instrAcctIdx < instrCtx.NumberOfInstructionAccounts(); instrAcctIdx++ {
		isDupe, idxInCallee, err := instrCtx.IsInstructionAccountDuplicate(instrAcctIdx)
		if err != nil {
			return nil, nil, err
		}
		if isDupe {
			accts = append(accts, serializeAcct{isDuplicate: true, indexOfAcct: idxInCallee})
			size += 8
			continue
		}

		acct, err := instrCtx.BorrowInstructionAccount(txCtx, instrAcctIdx)
		if err != nil {
			return nil, nil, err
		}
		accts = append(accts, serializeAcct{indexOfAcct: instrAcctIdx, acct: acct})

		dataLen := uint64(len(acct.Data()))
		alignedDataLen := util.AlignUp(dataLen, ReallocAlign)
		size += 1 + 1 + 1 + 1 + 4 // dup marker, signer, writable, executable, original data len
		size += 2 * solana.PublicKeyLength
		size += 8 + 8 // lamports, data len
		size += alignedDataLen + MaxPermittedDataIncrease
		size += 8 // rent epoch
	}
	instrData := instrCtx.Data
	size += 8 + uint64(len(instrData)) + solana.PublicKeyLength

	var preLens []uint64
	serializedData := make([]byte, 0, size)
	serializedData = binary.LittleEndian.AppendUint64(serializedData, uint64(len(accts)))

	for _, sa := range accts {
		if sa.isDuplicate {
			serializedData = append(serializedData, byte(sa.indexOfAcct))
			serializedData = append(serializedData, make([]byte, 7)...)
			continue
		}

		borrowedAcct := sa.acct
		serializedData = append(serializedData, NonDupMarker)
		serializedData = append(serializedData, boolByte(borrowedAcct.IsSigner()))
		serializedData = append(serializedData, boolByte(borrowedAcct.IsWritable()))
		serializedData = append(serializedData, boolByte(borrowedAcct.IsExecutable()))
		serializedData = append(serializedData, 0, 0, 0, 0)

		key := borrowedAcct.Key()
		serializedData = append(serializedData, key[:]...)
		owner := borrowedAcct.Owner()
		serializedData = append(serializedData, owner[:]...)
		serializedData = binary.LittleEndian.AppendUint64(serializedData, borrowedAcct.Lamports())

		dataLen := uint64(len(borrowedAcct.Data()))
		preLens = append(preLens, dataLen)
		serializedData = binary.LittleEndian.AppendUint64(serializedData, dataLen)
		serializedData = append(serializedData, borrowedAcct.Data()...)

		padding := MaxPermittedDataIncrease
		if offset := len(serializedData) % ReallocAlign; offset != 0 {
			padding += ReallocAlign - offset
		}
		serializedData = append(serializedData, make([]byte, padding)...)

		serializedData = binary.LittleEndian.AppendUint64(serializedData, borrowedAcct.RentEpoch())
	}

	serializedData = binary.LittleEndian.AppendUint64(serializedData, uint64(len(instrData)))
	serializedData = append(serializedData, instrData...)
	serializedData = append(serializedData, programId[:]...)

	if uint64(len(serializedData)) != size {
		panic("mismatch between serialized data and expected length")
	}

	return serializedData, preLens, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
