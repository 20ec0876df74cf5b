package examples

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/program"
)

const ClockRecordSize = 24

// ClockReader writes the current slot, unix timestamp and the rent exempt
// minimum for its own size into the first account.
func ClockReader(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	if len(accounts) < 1 {
		return program.ErrNotEnoughAccountKeys
	}
	record := accounts[0]
	if record.Owner() != programID {
		return program.ErrIllegalOwner
	}

	clock, err := program.GetClock()
	if err != nil {
		return err
	}
	rent, err := program.GetRent()
	if err != nil {
		return err
	}

	if record.DataLen() < ClockRecordSize {
		if err := record.Realloc(ClockRecordSize, true); err != nil {
			return err
		}
	}
	out := record.Data()
	binary.LittleEndian.PutUint64(out[0:], clock.Slot)
	binary.LittleEndian.PutUint64(out[8:], uint64(clock.UnixTimestamp))
	binary.LittleEndian.PutUint64(out[16:], rent.MinimumBalance(uint64(len(out))))

	program.Msgf("slot %d epoch %d", clock.Slot, clock.Epoch)
	program.LogComputeUnits()
	return nil
}

func NewClockInstruction(record solana.PublicKey) program.Instruction {
	return program.Instruction{
		ProgramID: ClockID,
		Accounts:  []program.AccountMeta{program.NewAccountMeta(record, false)},
	}
}
