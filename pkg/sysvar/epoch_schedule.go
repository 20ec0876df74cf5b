package sysvar

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

const EpochScheduleAddrStr = "SysvarEpochSchedu1e111111111111111111111111"

var EpochScheduleAddr = solana.PublicKey(base58.MustDecodeFromString(EpochScheduleAddrStr))

const EpochScheduleStructLen = 33

type EpochSchedule struct {
	SlotsPerEpoch            uint64
	LeaderScheduleSlotOffset uint64
	Warmup                   bool
	FirstNormalEpoch         uint64
	FirstNormalSlot          uint64
}

func DefaultEpochSchedule() EpochSchedule {
	return EpochSchedule{
		SlotsPerEpoch:            432000,
		LeaderScheduleSlotOffset: 432000,
		Warmup:                   true,
		FirstNormalEpoch:         14,
		FirstNormalSlot:          524256,
	}
}

func (ses *EpochSchedule) Kind() Kind {
	return KindEpochSchedule
}

func (ses *EpochSchedule) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	ses.SlotsPerEpoch, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read SlotsPerEpoch when decoding EpochSchedule: %w", err)
	}

	ses.LeaderScheduleSlotOffset, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LeaderScheduleSlotOffset when decoding EpochSchedule: %w", err)
	}

	ses.Warmup, err = decoder.ReadBool()
	if err != nil {
		return fmt.Errorf("failed to read Warmup when decoding EpochSchedule: %w", err)
	}

	ses.FirstNormalEpoch, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read FirstNormalEpoch when decoding EpochSchedule: %w", err)
	}

	ses.FirstNormalSlot, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read FirstNormalSlot when decoding EpochSchedule: %w", err)
	}
	return
}

func (ses *EpochSchedule) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint64(ses.SlotsPerEpoch, bin.LE)
	_ = encoder.WriteUint64(ses.LeaderScheduleSlotOffset, bin.LE)
	_ = encoder.WriteBool(ses.Warmup)
	_ = encoder.WriteUint64(ses.FirstNormalEpoch, bin.LE)
	return encoder.WriteUint64(ses.FirstNormalSlot, bin.LE)
}
