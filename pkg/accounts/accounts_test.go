package accounts

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_MarshalUnmarshal(t *testing.T) {
	key := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	acct := Account{Key: key, Lamports: 1234, Data: []byte{1, 2, 3}, Owner: owner, Executable: true, RentEpoch: 99}

	encoded, err := acct.Marshal()
	require.NoError(t, err)
	assert.Len(t, encoded, 8+8+3+32+1+8)

	decoded, err := Unmarshal(key, encoded)
	require.NoError(t, err)
	assert.Equal(t, acct, *decoded)
}

func TestAccount_UnmarshalTruncated(t *testing.T) {
	acct := Account{Lamports: 1, Data: make([]byte, 16)}
	encoded, err := acct.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(solana.PublicKey{}, encoded[:20])
	assert.Error(t, err)
}

func TestAccount_Resize(t *testing.T) {
	acct := Account{Data: []byte{1, 2}}
	acct.Resize(4, 0)
	assert.Equal(t, []byte{1, 2, 0, 0}, acct.Data)
	acct.Resize(1, 0)
	assert.Equal(t, []byte{1}, acct.Data)
}

func TestAccount_CloneIsDeep(t *testing.T) {
	acct := Account{Data: []byte{7}}
	clone := acct.Clone()
	clone.Data[0] = 8
	assert.Equal(t, byte(7), acct.Data[0])
}

func TestMemAccounts(t *testing.T) {
	m := NewMemAccounts()
	key := solana.NewWallet().PublicKey()

	_, err := m.GetAccount(key)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, m.SetAccount(key, &Account{Lamports: 5}))
	acct, err := m.GetAccount(key)
	require.NoError(t, err)
	assert.Equal(t, key, acct.Key)
	assert.Equal(t, []solana.PublicKey{key}, m.Keys())

	// overwrite keeps one entry
	require.NoError(t, m.SetAccount(key, &Account{Lamports: 6}))
	assert.Equal(t, 1, m.Len())

	low := solana.PublicKey{0}
	high := solana.PublicKey{0xff}
	require.NoError(t, m.SetAccount(high, &Account{}))
	require.NoError(t, m.SetAccount(low, &Account{}))
	keys := m.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, low, keys[0])
	assert.Equal(t, high, keys[2])
}
