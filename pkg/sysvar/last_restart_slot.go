package sysvar

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

const LastRestartSlotAddrStr = "SysvarLastRestartS1ot1111111111111111111111"

var LastRestartSlotAddr = solana.PublicKey(base58.MustDecodeFromString(LastRestartSlotAddrStr))

const LastRestartSlotStructLen = 8

type LastRestartSlot struct {
	LastRestartSlot uint64
}

func (lrs *LastRestartSlot) Kind() Kind {
	return KindLastRestartSlot
}

func (lrs *LastRestartSlot) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	lrs.LastRestartSlot, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LastRestartSlot when decoding LastRestartSlot: %w", err)
	}
	return
}

func (lrs *LastRestartSlot) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint64(lrs.LastRestartSlot, bin.LE)
}
