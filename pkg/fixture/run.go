package fixture

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/progtest"
	"go.firedancer.io/progtest/pkg/util"
)

// Outcome is the result of running a fixture.
type Outcome struct {
	Result *progtest.TxResult
	// Failures lists every expectation the run did not meet.
	Failures []string
	// Hashes maps every account the fixture expects to its post state hash.
	Hashes map[solana.PublicKey]string
	// Accounts holds the post state of every account the fixture expects.
	Accounts map[solana.PublicKey]*accounts.Account
}

func (o *Outcome) Passed() bool {
	return len(o.Failures) == 0
}

// Dump writes the post state of every expected account to dir, one
// "<pubkey>.bin" file each, in the binary account encoding.
func (o *Outcome) Dump(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for key, acct := range o.Accounts {
		encoded, err := acct.Marshal()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if err := os.WriteFile(filepath.Join(dir, key.String()+".bin"), encoded, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (o *Outcome) failf(format string, args ...any) {
	o.Failures = append(o.Failures, fmt.Sprintf(format, args...))
}

// Run executes the fixture's instructions as a single transaction. The
// returned error reports a malformed fixture, not a failed expectation.
func (f *Fixture) Run() (*Outcome, error) {
	pt, err := f.newProgramTest()
	if err != nil {
		return nil, err
	}
	for _, acct := range f.Accounts {
		key, state, err := f.account(acct)
		if err != nil {
			return nil, err
		}
		pt.AddAccount(key, state)
	}

	ixs, err := mapErr(f.Instructions, f.instruction)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Result:   pt.Process(ixs...),
		Hashes:   make(map[solana.PublicKey]string),
		Accounts: make(map[solana.PublicKey]*accounts.Account),
	}
	if err := f.check(pt, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (f *Fixture) check(pt *progtest.ProgramTest, outcome *Outcome) error {
	result := outcome.Result

	actualErr := ""
	if result.Err != nil {
		actualErr = result.Err.Error()
	}
	if actualErr != f.Expect.Error {
		outcome.failf("error: expected %q, got %q", f.Expect.Error, actualErr)
	}

	for _, expected := range f.Expect.Accounts {
		key, state, err := f.account(expected)
		if err != nil {
			return err
		}
		actual, err := pt.Account(key)
		if err != nil {
			outcome.failf("account %s: %s", expected.Pubkey, err)
			continue
		}
		outcome.Hashes[key] = hex.EncodeToString(util.CalculateAcctHash(*actual))
		outcome.Accounts[key] = actual
		compareAccount(outcome, expected, state, actual)
	}

	if f.Expect.ReturnData != nil {
		data, err := f.Expect.ReturnData.Bytes()
		if err != nil {
			return fmt.Errorf("return data: %w", err)
		}
		if !bytes.Equal(data, result.ReturnData.Data) {
			outcome.failf("return data: expected %x, got %x", data, result.ReturnData.Data)
		}
	}

	for _, line := range f.Expect.LogsContain {
		if !lo.ContainsBy(result.Logs, func(log string) bool { return strings.Contains(log, line) }) {
			outcome.failf("logs: no line contains %q", line)
		}
	}

	if f.Expect.ComputeUnits != nil && *f.Expect.ComputeUnits != result.ComputeUnitsConsumed {
		outcome.failf("compute units: expected %d, got %d", *f.Expect.ComputeUnits, result.ComputeUnitsConsumed)
	}
	return nil
}

// compareAccount checks the fields the expectation sets.
func compareAccount(outcome *Outcome, expected Account, state accounts.Account, actual *accounts.Account) {
	if expected.Lamports != nil && state.Lamports != actual.Lamports {
		outcome.failf("account %s lamports: expected %d, got %d", expected.Pubkey, state.Lamports, actual.Lamports)
	}
	if expected.Owner != "" && state.Owner != actual.Owner {
		outcome.failf("account %s owner: expected %s, got %s", expected.Pubkey, state.Owner, actual.Owner)
	}
	if expected.Data != nil && !bytes.Equal(state.Data, actual.Data) {
		outcome.failf("account %s data: expected %x, got %x", expected.Pubkey, state.Data, actual.Data)
	}
}

func mapErr[T, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(items))
	for _, item := range items {
		r, err := fn(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
