// Package sysvar holds the system variable types exposed to programs,
// their well-known addresses and their account data encodings.
package sysvar

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/base58"
)

const OwnerAddrStr = "Sysvar1111111111111111111111111111111111111"

var OwnerAddr = solana.PublicKey(base58.MustDecodeFromString(OwnerAddrStr))

type Kind uint8

const (
	KindClock Kind = iota
	KindRent
	KindEpochSchedule
	KindEpochRewards
	KindFees
	KindLastRestartSlot
)

var kinds = []struct {
	name    string
	addr    solana.PublicKey
	dataLen uint64
}{
	KindClock:           {"clock", ClockAddr, ClockStructLen},
	KindRent:            {"rent", RentAddr, RentStructLen},
	KindEpochSchedule:   {"epoch_schedule", EpochScheduleAddr, EpochScheduleStructLen},
	KindEpochRewards:    {"epoch_rewards", EpochRewardsAddr, EpochRewardsStructLen},
	KindFees:            {"fees", FeesAddr, FeesStructLen},
	KindLastRestartSlot: {"last_restart_slot", LastRestartSlotAddr, LastRestartSlotStructLen},
}

func (k Kind) String() string {
	if int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kinds[k].name
}

func (k Kind) Address() solana.PublicKey {
	return kinds[k].addr
}

func (k Kind) StructLen() uint64 {
	return kinds[k].dataLen
}

// KindOf resolves a sysvar address.
func KindOf(addr solana.PublicKey) (Kind, bool) {
	for k, info := range kinds {
		if info.addr == addr {
			return Kind(k), true
		}
	}
	return 0, false
}

// Sysvar is implemented by pointers to every sysvar value type.
type Sysvar interface {
	Kind() Kind
	UnmarshalWithDecoder(decoder *bin.Decoder) error
	MarshalWithEncoder(encoder *bin.Encoder) error
}

func Marshal(s Sysvar) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := s.MarshalWithEncoder(bin.NewBinEncoder(buf))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte, dst Sysvar) error {
	return dst.UnmarshalWithDecoder(bin.NewBinDecoder(data))
}

// Read decodes dst from its sysvar account.
func Read(accts accounts.Accounts, dst Sysvar) error {
	acct, err := accts.GetAccount(dst.Kind().Address())
	if err != nil {
		return fmt.Errorf("failed to read %s sysvar account: %w", dst.Kind(), err)
	}
	return Unmarshal(acct.Data, dst)
}

// Write stores s into its sysvar account, creating the account if needed.
func Write(accts accounts.Accounts, s Sysvar) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize %s sysvar: %w", s.Kind(), err)
	}

	addr := s.Kind().Address()
	acct, err := accts.GetAccount(addr)
	if err != nil {
		acct = &accounts.Account{Key: addr, Lamports: 1, Owner: OwnerAddr}
	}
	acct.Data = data

	return accts.SetAccount(addr, acct)
}
