package solana

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProgramAddress_MatchesSolanaGo(t *testing.T) {
	programID := solanago.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
	seeds := [][]byte{[]byte("vault"), {1, 2, 3}}

	addr, bump, err := FindProgramAddress(seeds, programID)
	require.NoError(t, err)

	expected, expectedBump, err := solanago.FindProgramAddress(seeds, programID)
	require.NoError(t, err)
	assert.Equal(t, [32]byte(expected), addr)
	assert.Equal(t, expectedBump, bump)
	assert.False(t, IsOnCurve(addr[:]))
}

func TestCreateProgramAddress_WithBump(t *testing.T) {
	programID := solanago.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
	addr, bump, err := FindProgramAddress([][]byte{[]byte("seed")}, programID)
	require.NoError(t, err)

	derived, err := CreateProgramAddress([][]byte{[]byte("seed"), {bump}}, programID)
	require.NoError(t, err)
	assert.Equal(t, addr, derived)
}

func TestCreateProgramAddress_Limits(t *testing.T) {
	var programID [32]byte

	_, err := CreateProgramAddress(make([][]byte, MaxSeeds+1), programID)
	assert.ErrorIs(t, err, ErrSeedLength)

	_, err = CreateProgramAddress([][]byte{make([]byte, MaxSeedLen+1)}, programID)
	assert.ErrorIs(t, err, ErrSeedTooLong)

	_, err = CreateProgramAddressBytes(nil, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrAddressLength)
}

func TestIsOnCurve(t *testing.T) {
	key := solanago.NewWallet().PublicKey()
	assert.True(t, IsOnCurve(key[:]))
}
