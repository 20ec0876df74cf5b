package sealevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/sysvar"
)

func TestSysvarCache_Unset(t *testing.T) {
	var cache SysvarCache
	_, err := cache.Clock()
	assert.Equal(t, InstrErrUnsupportedSysvar, err)
	_, err = cache.Get(sysvar.KindRent)
	assert.Equal(t, InstrErrUnsupportedSysvar, err)
}

func TestSysvarCache_FillFromAccounts(t *testing.T) {
	accts := accounts.NewMemAccounts()
	clock := sysvar.Clock{Slot: 1234, UnixTimestamp: 99}
	require.NoError(t, sysvar.Write(accts, &clock))
	rent := sysvar.DefaultRent()
	require.NoError(t, sysvar.Write(accts, &rent))

	var cache SysvarCache
	require.NoError(t, cache.FillFromAccounts(accts))

	got, err := cache.Clock()
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), got.Slot)

	value, err := cache.Get(sysvar.KindRent)
	require.NoError(t, err)
	assert.Equal(t, rent, *value.(*sysvar.Rent))

	_, err = cache.Fees()
	assert.Equal(t, InstrErrUnsupportedSysvar, err)

	// values are copied in
	clock.Slot = 1
	assert.Equal(t, uint64(1234), got.Slot)
}

func TestSysvarCache_Clear(t *testing.T) {
	var cache SysvarCache
	cache.Set(&sysvar.LastRestartSlot{LastRestartSlot: 7})
	cache.Set(&sysvar.Fees{})

	cache.Clear(sysvar.KindLastRestartSlot)
	_, err := cache.LastRestartSlot()
	assert.Equal(t, InstrErrUnsupportedSysvar, err)

	_, err = cache.Fees()
	assert.NoError(t, err)
}
