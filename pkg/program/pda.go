package program

import (
	"github.com/gagliardetto/solana-go"
	sol "go.firedancer.io/progtest/pkg/solana"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

// CreateProgramAddress derives an off-curve address from seeds and a program id.
func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, ErrMaxSeedLengthExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return solana.PublicKey{}, ErrMaxSeedLengthExceeded
		}
	}
	addr, err := sol.CreateProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 down for a valid program address.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := sol.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, ErrInvalidSeeds
	}
	return addr, bump, nil
}
