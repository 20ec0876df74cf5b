// Package examples holds small programs written against pkg/program. They
// are registered by the CLI and used to exercise the bridge end to end.
package examples

import (
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/minio/sha256-simd"
	"go.firedancer.io/progtest/pkg/program"
)

type Example struct {
	Name        string
	Description string
	ProgramID   solana.PublicKey
	Entrypoint  program.Entrypoint
}

// ProgramID derives the fixed program id an example is deployed at.
func ProgramID(name string) solana.PublicKey {
	sum := sha256.Sum256([]byte("progtest/examples/" + name))
	return solana.PublicKeyFromBytes(sum[:])
}

var (
	CounterID = ProgramID("counter")
	EchoID    = ProgramID("echo")
	VaultID   = ProgramID("vault")
	ClockID   = ProgramID("clock")
	RelayID   = ProgramID("relay")
	PanicID   = ProgramID("panic")
)

var registry = map[string]Example{
	"counter": {Name: "counter", ProgramID: CounterID, Entrypoint: Counter, Description: "increments a u64 counter held in a program owned account"},
	"echo":    {Name: "echo", ProgramID: EchoID, Entrypoint: Echo, Description: "resizes every passed account to the instruction data and copies it in"},
	"vault":   {Name: "vault", ProgramID: VaultID, Entrypoint: Vault, Description: "keeps lamports in a per user PDA, moved with signed system transfers"},
	"clock":   {Name: "clock", ProgramID: ClockID, Entrypoint: ClockReader, Description: "records the clock and rent sysvars into an account"},
	"relay":   {Name: "relay", ProgramID: RelayID, Entrypoint: Relay, Description: "calls echo and returns its return data with a prefix"},
	"panic":   {Name: "panic", ProgramID: PanicID, Entrypoint: Panic, Description: "aborts"},
}

func Lookup(name string) (Example, bool) {
	ex, ok := registry[name]
	return ex, ok
}

// All returns every example sorted by name.
func All() []Example {
	all := make([]Example, 0, len(registry))
	for _, ex := range registry {
		all = append(all, ex)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}
