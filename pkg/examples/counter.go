package examples

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/safemath"
)

const CounterSize = 8

// Counter adds the u64 in the instruction data (1 if absent) to the counter
// stored in the first account.
func Counter(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	if len(accounts) < 1 {
		return program.ErrNotEnoughAccountKeys
	}
	counter := accounts[0]
	if counter.Owner() != programID {
		return program.ErrIncorrectProgramId
	}
	if !counter.IsWritable {
		return program.ErrInvalidArgument
	}

	step := uint64(1)
	if len(data) != 0 {
		var err error
		step, err = bin.NewBinDecoder(data).ReadUint64(bin.LE)
		if err != nil {
			return program.ErrInvalidInstructionData
		}
	}

	state := counter.Data()
	if len(state) < CounterSize {
		return program.ErrAccountDataTooSmall
	}
	count, err := safemath.CheckedAddU64(binary.LittleEndian.Uint64(state), step)
	if err != nil {
		return program.ErrArithmeticOverflow
	}
	binary.LittleEndian.PutUint64(state, count)

	program.Msgf("count: %d", count)
	return nil
}

func NewCounterInstruction(counter solana.PublicKey, step uint64) program.Instruction {
	return program.Instruction{
		ProgramID: CounterID,
		Accounts:  []program.AccountMeta{program.NewAccountMeta(counter, false)},
		Data:      binary.LittleEndian.AppendUint64(nil, step),
	}
}
