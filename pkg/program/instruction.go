package program

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

// Entrypoint is the signature of a native program's process instruction
// function.
type Entrypoint func(programID solana.PublicKey, accounts []*AccountInfo, data []byte) error

type AccountMeta struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

func NewAccountMeta(pubkey solana.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: true}
}

func NewReadonlyAccountMeta(pubkey solana.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner}
}

type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

var SystemProgramID = solana.PublicKey(base58.MustDecodeFromString("11111111111111111111111111111111"))

const (
	systemInstrCreateAccount = 0
	systemInstrAssign        = 1
	systemInstrTransfer      = 2
)

func systemInstruction(accounts []AccountMeta, write func(encoder *bin.Encoder) error) Instruction {
	buf := new(bytes.Buffer)
	if err := write(bin.NewBinEncoder(buf)); err != nil {
		panic("shouldn't fail")
	}
	return Instruction{ProgramID: SystemProgramID, Accounts: accounts, Data: buf.Bytes()}
}

// SystemTransfer builds a system program transfer instruction.
func SystemTransfer(from solana.PublicKey, to solana.PublicKey, lamports uint64) Instruction {
	return systemInstruction([]AccountMeta{NewAccountMeta(from, true), NewAccountMeta(to, false)}, func(encoder *bin.Encoder) error {
		_ = encoder.WriteUint32(systemInstrTransfer, bin.LE)
		return encoder.WriteUint64(lamports, bin.LE)
	})
}

func SystemCreateAccount(from solana.PublicKey, to solana.PublicKey, lamports uint64, space uint64, owner solana.PublicKey) Instruction {
	return systemInstruction([]AccountMeta{NewAccountMeta(from, true), NewAccountMeta(to, true)}, func(encoder *bin.Encoder) error {
		_ = encoder.WriteUint32(systemInstrCreateAccount, bin.LE)
		_ = encoder.WriteUint64(lamports, bin.LE)
		_ = encoder.WriteUint64(space, bin.LE)
		return encoder.WriteBytes(owner[:], false)
	})
}

func SystemAssign(pubkey solana.PublicKey, owner solana.PublicKey) Instruction {
	return systemInstruction([]AccountMeta{NewAccountMeta(pubkey, true)}, func(encoder *bin.Encoder) error {
		_ = encoder.WriteUint32(systemInstrAssign, bin.LE)
		return encoder.WriteBytes(owner[:], false)
	})
}
