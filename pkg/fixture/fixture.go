// Package fixture loads YAML descriptions of transactions against the
// example programs, runs them through a ProgramTest and checks the outcome.
package fixture

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/base58"
	"go.firedancer.io/progtest/pkg/examples"
	"go.firedancer.io/progtest/pkg/features"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/progtest"
	"go.firedancer.io/progtest/pkg/sealevel"
	"golang.org/x/sync/errgroup"
	"go.firedancer.io/progtest/pkg/sysvar"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKey     = errors.New("unknown key")
	ErrUnknownFeature = errors.New("unknown feature")
	ErrShadowedKey    = errors.New("key shadows a program name")
)

type Fixture struct {
	Name             string            `yaml:"name"`
	Keys             map[string]string `yaml:"keys"`
	ComputeUnitLimit uint64            `yaml:"compute_unit_limit"`
	MaxStackHeight   uint64            `yaml:"max_stack_height"`
	Clock            *Clock            `yaml:"clock"`
	DisabledFeatures []string          `yaml:"disabled_features"`
	Accounts         []Account         `yaml:"accounts"`
	Instructions     []Instruction     `yaml:"instructions"`
	Expect           Expect            `yaml:"expect"`
}

type Clock struct {
	Slot          uint64 `yaml:"slot"`
	Epoch         uint64 `yaml:"epoch"`
	UnixTimestamp int64  `yaml:"unix_timestamp"`
}

type Account struct {
	Pubkey     string  `yaml:"pubkey"`
	Lamports   *uint64 `yaml:"lamports"`
	Owner      string  `yaml:"owner"`
	Data       *Data   `yaml:"data"`
	Executable bool    `yaml:"executable"`
}

type AccountMeta struct {
	Pubkey   string `yaml:"pubkey"`
	Signer   bool   `yaml:"signer"`
	Writable bool   `yaml:"writable"`
}

type Instruction struct {
	Program  string        `yaml:"program"`
	Accounts []AccountMeta `yaml:"accounts"`
	Data     *Data         `yaml:"data"`
}

type Expect struct {
	// Error is the expected instruction error text, empty for success.
	Error        string    `yaml:"error"`
	Accounts     []Account `yaml:"accounts"`
	ReturnData   *Data     `yaml:"return_data"`
	LogsContain  []string  `yaml:"logs_contain"`
	ComputeUnits *uint64   `yaml:"compute_units"`
}

// Data is a byte string in one of the hex, base58 or base64 encodings, or
// a run of Size zero bytes.
type Data struct {
	Encoding string `yaml:"encoding"`
	Value    string `yaml:"value"`
	Size     int    `yaml:"size"`
}

func (d *Data) Bytes() ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	if d.Value == "" {
		return make([]byte, d.Size), nil
	}
	switch d.Encoding {
	case "", "hex":
		return hex.DecodeString(d.Value)
	case "base58":
		return base58.Decode(d.Value)
	case "base64":
		return base64.StdEncoding.DecodeString(d.Value)
	case "utf8":
		return []byte(d.Value), nil
	default:
		return nil, fmt.Errorf("unknown data encoding %q", d.Encoding)
	}
}

func Load(r io.Reader) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	for name := range f.Keys {
		if _, ok := examples.Lookup(name); ok || name == "system" {
			return nil, fmt.Errorf("%w %q", ErrShadowedKey, name)
		}
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = path
	}
	return f, nil
}

// LoadFiles decodes every path concurrently. errs[i] holds the failure for
// paths[i]; the returned error is only set when ctx is done.
func LoadFiles(ctx context.Context, paths []string) (fixtures []*Fixture, errs []error, err error) {
	fixtures = make([]*Fixture, len(paths))
	errs = make([]error, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fixtures[i], errs[i] = LoadFile(path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return fixtures, errs, nil
}

// Resolve turns a key reference into a public key. A reference is a name
// from the fixture's keys, the name of an example program, "system" or a
// base58 address.
func (f *Fixture) Resolve(ref string) (solana.PublicKey, error) {
	if addr, ok := f.Keys[ref]; ok {
		ref = addr
	}
	if ex, ok := examples.Lookup(ref); ok {
		return ex.ProgramID, nil
	}
	if ref == "system" {
		return sealevel.SystemProgramAddr, nil
	}
	key, err := base58.DecodeFromString(ref)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w %q", ErrUnknownKey, ref)
	}
	return key, nil
}

func (f *Fixture) newProgramTest() (*progtest.ProgramTest, error) {
	var opts []progtest.Option
	if f.ComputeUnitLimit != 0 {
		opts = append(opts, progtest.WithComputeUnitLimit(f.ComputeUnitLimit))
	}
	if f.MaxStackHeight != 0 {
		opts = append(opts, progtest.WithMaxStackHeight(f.MaxStackHeight))
	}
	if f.Clock != nil {
		opts = append(opts, progtest.WithSysvar(&sysvar.Clock{
			Slot:          f.Clock.Slot,
			Epoch:         f.Clock.Epoch,
			UnixTimestamp: f.Clock.UnixTimestamp,
		}))
	}

	for _, name := range f.DisabledFeatures {
		gate, ok := features.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownFeature, name)
		}
		opts = append(opts, progtest.WithoutFeature(gate))
	}

	pt := progtest.New(opts...)
	for _, ex := range examples.All() {
		pt.AddProgram(ex.ProgramID, ex.Name, ex.Entrypoint)
	}
	return pt, nil
}

func (f *Fixture) account(acct Account) (solana.PublicKey, accounts.Account, error) {
	key, err := f.Resolve(acct.Pubkey)
	if err != nil {
		return key, accounts.Account{}, err
	}
	owner := sealevel.SystemProgramAddr
	if acct.Owner != "" {
		if owner, err = f.Resolve(acct.Owner); err != nil {
			return key, accounts.Account{}, err
		}
	}
	data, err := acct.Data.Bytes()
	if err != nil {
		return key, accounts.Account{}, fmt.Errorf("account %s: %w", acct.Pubkey, err)
	}
	return key, accounts.Account{
		Key:        key,
		Lamports:   lo.FromPtr(acct.Lamports),
		Owner:      owner,
		Data:       data,
		Executable: acct.Executable,
	}, nil
}

func (f *Fixture) instruction(ix Instruction) (program.Instruction, error) {
	programID, err := f.Resolve(ix.Program)
	if err != nil {
		return program.Instruction{}, err
	}
	data, err := ix.Data.Bytes()
	if err != nil {
		return program.Instruction{}, fmt.Errorf("instruction data: %w", err)
	}

	metas := make([]program.AccountMeta, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		key, err := f.Resolve(meta.Pubkey)
		if err != nil {
			return program.Instruction{}, err
		}
		metas = append(metas, program.AccountMeta{Pubkey: key, IsSigner: meta.Signer, IsWritable: meta.Writable})
	}
	return program.Instruction{ProgramID: programID, Accounts: metas, Data: data}, nil
}
