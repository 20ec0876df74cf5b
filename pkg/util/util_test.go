package util

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"go.firedancer.io/progtest/pkg/accounts"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 8))
	assert.Equal(t, uint64(8), AlignUp(1, 8))
	assert.Equal(t, uint64(8), AlignUp(8, 8))
	assert.Equal(t, uint64(16), AlignUp(9, 8))
}

func TestPubkeyCmp(t *testing.T) {
	a := solana.PublicKey{1}
	b := solana.PublicKey{2}
	assert.True(t, PubkeyCmp(a, b))
	assert.False(t, PubkeyCmp(b, a))
	assert.False(t, PubkeyCmp(a, a))
}

func TestCalculateAcctHash(t *testing.T) {
	acct := accounts.Account{Key: solana.PublicKey{9}, Lamports: 10, Data: []byte{1, 2, 3}}
	h1 := CalculateAcctHash(acct)
	assert.Len(t, h1, 32)
	assert.Equal(t, h1, CalculateAcctHash(acct))

	acct.Data[0] = 4
	assert.NotEqual(t, h1, CalculateAcctHash(acct))

	acct.Data[0] = 1
	acct.Owner = solana.PublicKey{1}
	assert.NotEqual(t, h1, CalculateAcctHash(acct))
}
