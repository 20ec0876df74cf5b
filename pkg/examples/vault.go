package examples

import (
	"encoding/binary"
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/safemath"
)

const (
	VaultInstrOpen     = 0
	VaultInstrDeposit  = 1
	VaultInstrWithdraw = 2
)

// VaultStateSize is the size of the per user state account, which holds
// the deposited balance.
const VaultStateSize = 8

var (
	vaultSeed = []byte("vault")
	stateSeed = []byte("state")
)

// VaultAddress is the system owned PDA holding the lamports of user.
func VaultAddress(user solana.PublicKey) (solana.PublicKey, uint8) {
	addr, bump, err := program.FindProgramAddress([][]byte{vaultSeed, user[:]}, VaultID)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// StateAddress is the vault program owned PDA recording the balance of user.
func StateAddress(user solana.PublicKey) (solana.PublicKey, uint8) {
	addr, bump, err := program.FindProgramAddress([][]byte{stateSeed, user[:]}, VaultID)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// Vault moves lamports between a user and the user's vault. Accounts are
// user, vault, state and the system program in that order.
func Vault(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	if len(accounts) < 4 {
		return program.ErrNotEnoughAccountKeys
	}
	user, vault, state := accounts[0], accounts[1], accounts[2]

	decoder := bin.NewBinDecoder(data)
	tag, err := decoder.ReadUint8()
	if err != nil {
		return program.ErrInvalidInstructionData
	}

	switch tag {
	case VaultInstrOpen:
		return vaultOpen(programID, user, state, accounts)
	case VaultInstrDeposit, VaultInstrWithdraw:
		amount, err := decoder.ReadUint64(bin.LE)
		if err != nil {
			return program.ErrInvalidInstructionData
		}
		if tag == VaultInstrDeposit {
			return vaultDeposit(programID, user, vault, state, amount, accounts)
		}
		return vaultWithdraw(programID, user, vault, state, amount, accounts)
	default:
		return program.ErrInvalidInstructionData
	}
}

func vaultOpen(programID solana.PublicKey, user, state *program.AccountInfo, accounts []*program.AccountInfo) error {
	_, bump, err := program.FindProgramAddress([][]byte{stateSeed, user.Key[:]}, programID)
	if err != nil {
		return err
	}
	rent, err := program.GetRent()
	if err != nil {
		return err
	}

	ix := program.SystemCreateAccount(user.Key, state.Key, rent.MinimumBalance(VaultStateSize), VaultStateSize, programID)
	err = program.InvokeSigned(ix, accounts, [][][]byte{{stateSeed, user.Key[:], {bump}}})
	if err != nil {
		return err
	}

	program.Msgf("opened vault state %s", state.Key)
	return nil
}

func vaultDeposit(programID solana.PublicKey, user, vault, state *program.AccountInfo, amount uint64, accounts []*program.AccountInfo) error {
	if err := program.Invoke(program.SystemTransfer(user.Key, vault.Key, amount), accounts); err != nil {
		return err
	}
	return adjustBalance(programID, state, func(balance uint64) (uint64, error) {
		return safemath.CheckedAddU64(balance, amount)
	})
}

func vaultWithdraw(programID solana.PublicKey, user, vault, state *program.AccountInfo, amount uint64, accounts []*program.AccountInfo) error {
	_, bump, err := program.FindProgramAddress([][]byte{vaultSeed, user.Key[:]}, programID)
	if err != nil {
		return err
	}

	ix := program.SystemTransfer(vault.Key, user.Key, amount)
	err = program.InvokeSigned(ix, accounts, [][][]byte{{vaultSeed, user.Key[:], {bump}}})
	if err != nil {
		return err
	}

	return adjustBalance(programID, state, func(balance uint64) (uint64, error) {
		if balance < amount {
			return 0, program.ErrInsufficientFunds
		}
		return balance - amount, nil
	})
}

func adjustBalance(programID solana.PublicKey, state *program.AccountInfo, apply func(balance uint64) (uint64, error)) error {
	if state.Owner() != programID {
		return program.ErrIncorrectProgramId
	}
	balanceData := state.Data()
	if len(balanceData) < VaultStateSize {
		return program.ErrUninitializedAccount
	}

	balance, err := apply(binary.LittleEndian.Uint64(balanceData))
	if err != nil {
		if errors.Is(err, program.ErrInsufficientFunds) {
			return err
		}
		return program.ErrArithmeticOverflow
	}
	binary.LittleEndian.PutUint64(balanceData, balance)
	program.Msgf("vault balance %d", balance)
	return nil
}

func newVaultInstruction(user solana.PublicKey, userSigns bool, data []byte) program.Instruction {
	vault, _ := VaultAddress(user)
	state, _ := StateAddress(user)
	return program.Instruction{
		ProgramID: VaultID,
		Accounts: []program.AccountMeta{
			program.NewAccountMeta(user, userSigns),
			program.NewAccountMeta(vault, false),
			program.NewAccountMeta(state, false),
			program.NewReadonlyAccountMeta(program.SystemProgramID, false),
		},
		Data: data,
	}
}

func NewVaultOpenInstruction(user solana.PublicKey) program.Instruction {
	return newVaultInstruction(user, true, []byte{VaultInstrOpen})
}

func NewVaultDepositInstruction(user solana.PublicKey, amount uint64) program.Instruction {
	return newVaultInstruction(user, true, binary.LittleEndian.AppendUint64([]byte{VaultInstrDeposit}, amount))
}

func NewVaultWithdrawInstruction(user solana.PublicKey, amount uint64) program.Instruction {
	return newVaultInstruction(user, false, binary.LittleEndian.AppendUint64([]byte{VaultInstrWithdraw}, amount))
}
