package sealevel

import (
	"errors"

	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/sysvar"
	"k8s.io/klog/v2"
)

// SysvarCache holds the sysvar values visible to programs. Unset entries
// read as InstrErrUnsupportedSysvar.
type SysvarCache struct {
	clock           *sysvar.Clock
	rent            *sysvar.Rent
	epochSchedule   *sysvar.EpochSchedule
	epochRewards    *sysvar.EpochRewards
	fees            *sysvar.Fees
	lastRestartSlot *sysvar.LastRestartSlot
}

func (sysvarCache *SysvarCache) Clock() (*sysvar.Clock, error) {
	if sysvarCache.clock == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.clock, nil
}

func (sysvarCache *SysvarCache) Rent() (*sysvar.Rent, error) {
	if sysvarCache.rent == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.rent, nil
}

func (sysvarCache *SysvarCache) EpochSchedule() (*sysvar.EpochSchedule, error) {
	if sysvarCache.epochSchedule == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.epochSchedule, nil
}

func (sysvarCache *SysvarCache) EpochRewards() (*sysvar.EpochRewards, error) {
	if sysvarCache.epochRewards == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.epochRewards, nil
}

func (sysvarCache *SysvarCache) Fees() (*sysvar.Fees, error) {
	if sysvarCache.fees == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.fees, nil
}

func (sysvarCache *SysvarCache) LastRestartSlot() (*sysvar.LastRestartSlot, error) {
	if sysvarCache.lastRestartSlot == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return sysvarCache.lastRestartSlot, nil
}

// Get returns the cached value of the given kind.
func (sysvarCache *SysvarCache) Get(kind sysvar.Kind) (sysvar.Sysvar, error) {
	var value sysvar.Sysvar
	switch kind {
	case sysvar.KindClock:
		if sysvarCache.clock != nil {
			value = sysvarCache.clock
		}
	case sysvar.KindRent:
		if sysvarCache.rent != nil {
			value = sysvarCache.rent
		}
	case sysvar.KindEpochSchedule:
		if sysvarCache.epochSchedule != nil {
			value = sysvarCache.epochSchedule
		}
	case sysvar.KindEpochRewards:
		if sysvarCache.epochRewards != nil {
			value = sysvarCache.epochRewards
		}
	case sysvar.KindFees:
		if sysvarCache.fees != nil {
			value = sysvarCache.fees
		}
	case sysvar.KindLastRestartSlot:
		if sysvarCache.lastRestartSlot != nil {
			value = sysvarCache.lastRestartSlot
		}
	}
	if value == nil {
		return nil, InstrErrUnsupportedSysvar
	}
	return value, nil
}

// Set stores a copy of value in the slot matching its kind.
func (sysvarCache *SysvarCache) Set(value sysvar.Sysvar) {
	switch v := value.(type) {
	case *sysvar.Clock:
		c := *v
		sysvarCache.clock = &c
	case *sysvar.Rent:
		r := *v
		sysvarCache.rent = &r
	case *sysvar.EpochSchedule:
		es := *v
		sysvarCache.epochSchedule = &es
	case *sysvar.EpochRewards:
		er := *v
		sysvarCache.epochRewards = &er
	case *sysvar.Fees:
		f := *v
		sysvarCache.fees = &f
	case *sysvar.LastRestartSlot:
		lrs := *v
		sysvarCache.lastRestartSlot = &lrs
	}
}

// Clear empties the slot of the given kind.
func (sysvarCache *SysvarCache) Clear(kind sysvar.Kind) {
	switch kind {
	case sysvar.KindClock:
		sysvarCache.clock = nil
	case sysvar.KindRent:
		sysvarCache.rent = nil
	case sysvar.KindEpochSchedule:
		sysvarCache.epochSchedule = nil
	case sysvar.KindEpochRewards:
		sysvarCache.epochRewards = nil
	case sysvar.KindFees:
		sysvarCache.fees = nil
	case sysvar.KindLastRestartSlot:
		sysvarCache.lastRestartSlot = nil
	}
}

// FillFromAccounts loads every sysvar account present in accts. Missing
// accounts leave their slot unset.
func (sysvarCache *SysvarCache) FillFromAccounts(accts accounts.Accounts) error {
	values := []sysvar.Sysvar{
		new(sysvar.Clock),
		new(sysvar.Rent),
		new(sysvar.EpochSchedule),
		new(sysvar.EpochRewards),
		new(sysvar.Fees),
		new(sysvar.LastRestartSlot),
	}
	for _, value := range values {
		err := sysvar.Read(accts, value)
		if errors.Is(err, accounts.ErrAccountNotFound) {
			continue
		} else if err != nil {
			klog.Errorf("failed to read sysvar %s: %s", value.Kind(), err)
			return err
		}
		sysvarCache.Set(value)
	}
	return nil
}
