package sysvar

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

const EpochRewardsAddrStr = "SysvarEpochRewards1111111111111111111111111"

var EpochRewardsAddr = solana.PublicKey(base58.MustDecodeFromString(EpochRewardsAddrStr))

const EpochRewardsStructLen = 24

type EpochRewards struct {
	TotalRewards                    uint64
	DistributedRewards              uint64
	DistributionCompleteBlockHeight uint64
}

func (ser *EpochRewards) Kind() Kind {
	return KindEpochRewards
}

func (ser *EpochRewards) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	ser.TotalRewards, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read TotalRewards when decoding EpochRewards: %w", err)
	}

	ser.DistributedRewards, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read DistributedRewards when decoding EpochRewards: %w", err)
	}

	ser.DistributionCompleteBlockHeight, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read DistributionCompleteBlockHeight when decoding EpochRewards: %w", err)
	}
	return
}

func (ser *EpochRewards) MarshalWithEncoder(encoder *bin.Encoder) error {
	_ = encoder.WriteUint64(ser.TotalRewards, bin.LE)
	_ = encoder.WriteUint64(ser.DistributedRewards, bin.LE)
	return encoder.WriteUint64(ser.DistributionCompleteBlockHeight, bin.LE)
}
