package base58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustDecodeFromString_SystemProgram(t *testing.T) {
	addr := MustDecodeFromString("11111111111111111111111111111111")
	assert.Equal(t, [32]byte{}, addr)
}

func TestDecodeFromString_RoundTrip(t *testing.T) {
	const s = "SysvarC1ock11111111111111111111111111111111"
	addr, err := DecodeFromString(s)
	require.NoError(t, err)
	assert.Equal(t, s, Encode(addr[:]))
}

func TestDecodeFromString_BadLength(t *testing.T) {
	_, err := DecodeFromString("3mJr7AoUXx2Wqd")
	assert.Error(t, err)
}

func TestDecodeFromString_BadAlphabet(t *testing.T) {
	_, err := DecodeFromString("0OIl")
	assert.Error(t, err)
}
