package examples

import (
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/program"
)

// Echo resizes every account it is given to the length of the instruction
// data and copies the data in. Data that fits is also set as return data.
func Echo(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	for _, acct := range lo.Uniq(accounts) {
		if err := acct.Realloc(len(data), true); err != nil {
			return err
		}
		copy(acct.Data(), data)
	}

	if len(data) <= program.MaxReturnData {
		return program.SetReturnData(data)
	}
	return nil
}

func NewEchoInstruction(data []byte, targets ...program.AccountMeta) program.Instruction {
	return program.Instruction{
		ProgramID: EchoID,
		Accounts:  targets,
		Data:      data,
	}
}
