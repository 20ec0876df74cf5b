package examples

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/program"
)

var RelayPrefix = []byte("relay:")

// Relay forwards its instruction data to echo for the first account and
// returns echo's return data with RelayPrefix in front.
func Relay(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return program.ErrNotEnoughAccountKeys
	}
	scratch, echo := accounts[0], accounts[1]

	ix := NewEchoInstruction(data, program.NewAccountMeta(scratch.Key, false))
	ix.ProgramID = echo.Key
	if err := program.Invoke(ix, accounts); err != nil {
		return err
	}

	returnProgramID, returned, ok := program.GetReturnData()
	if !ok || returnProgramID != echo.Key {
		return program.ErrInvalidAccountData
	}
	program.Msgf("echoed %d bytes at stack height %d", len(returned), program.GetStackHeight())
	program.LogData(scratch.Key[:], returned)

	return program.SetReturnData(append(append([]byte{}, RelayPrefix...), returned...))
}

func NewRelayInstruction(scratch solana.PublicKey, data []byte) program.Instruction {
	return program.Instruction{
		ProgramID: RelayID,
		Accounts: []program.AccountMeta{
			program.NewAccountMeta(scratch, false),
			program.NewReadonlyAccountMeta(EchoID, false),
		},
		Data: data,
	}
}
