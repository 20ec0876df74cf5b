package sysvar

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

const FeesAddrStr = "SysvarFees111111111111111111111111111111111"

var FeesAddr = solana.PublicKey(base58.MustDecodeFromString(FeesAddrStr))

const FeesStructLen = 8

type FeeCalculator struct {
	LamportsPerSignature uint64
}

type Fees struct {
	FeeCalculator FeeCalculator
}

func (sf *Fees) Kind() Kind {
	return KindFees
}

func (sf *Fees) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	sf.FeeCalculator.LamportsPerSignature, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LamportsPerSignature when decoding Fees: %w", err)
	}
	return
}

func (sf *Fees) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint64(sf.FeeCalculator.LamportsPerSignature, bin.LE)
}
