package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/base58"
)

const NativeLoaderAddrStr = "NativeLoader1111111111111111111111111111111"

var NativeLoaderAddr = solana.PublicKey(base58.MustDecodeFromString(NativeLoaderAddrStr))

const SystemProgramAddrStr = "11111111111111111111111111111111"

var SystemProgramAddr = solana.PublicKey(base58.MustDecodeFromString(SystemProgramAddrStr))

const BpfLoaderUpgradeableAddrStr = "BPFLoaderUpgradeab1e11111111111111111111111"

var BpfLoaderUpgradeableAddr = solana.PublicKey(base58.MustDecodeFromString(BpfLoaderUpgradeableAddrStr))

// BuiltinFunction is the entrypoint of a natively executed program.
type BuiltinFunction func(execCtx *ExecutionCtx) error

// Builtins maps program ids to their native implementation.
type Builtins map[solana.PublicKey]BuiltinFunction

func DefaultBuiltins() Builtins {
	return Builtins{
		SystemProgramAddr: SystemProgramExecute,
	}
}

func (b Builtins) Add(programId solana.PublicKey, fn BuiltinFunction) {
	b[programId] = fn
}

func (b Builtins) resolve(programId solana.PublicKey) (BuiltinFunction, error) {
	if fn, ok := b[programId]; ok {
		return fn, nil
	}
	if programId == SystemProgramAddr {
		return SystemProgramExecute, nil
	}
	return nil, InstrErrUnsupportedProgramId
}

func verifySigner(authorized solana.PublicKey, signers []solana.PublicKey) error {
	for _, signer := range signers {
		if signer == authorized {
			return nil
		}
	}
	return InstrErrMissingRequiredSignature
}
