package examples

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/program"
)

// Panic scribbles over its first account and then aborts.
func Panic(programID solana.PublicKey, accounts []*program.AccountInfo, data []byte) error {
	program.Msg("panicking")
	if len(accounts) > 0 {
		accounts[0].SetLamports(0)
	}
	panic("explicit panic")
}
