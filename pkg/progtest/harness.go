package progtest

import (
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/accounts"
	"go.firedancer.io/progtest/pkg/cu"
	"go.firedancer.io/progtest/pkg/features"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"go.firedancer.io/progtest/pkg/sysvar"
	"k8s.io/klog/v2"
)

const (
	DefaultMaxStackHeight            = 5
	DefaultMaxInstructionTraceLength = 64
)

// ProgramTest is a minimal bank for running program functions: a committed
// account set, the registered programs and the sysvars they observe.
type ProgramTest struct {
	accounts accounts.MemAccounts
	builtins sealevel.Builtins
	sysvars  sealevel.SysvarCache
	features *features.Features

	computeUnitLimit          uint64
	maxStackHeight            uint64
	maxInstructionTraceLength uint64
}

type Option func(pt *ProgramTest)

func WithComputeUnitLimit(limit uint64) Option {
	return func(pt *ProgramTest) {
		pt.computeUnitLimit = limit
	}
}

func WithMaxStackHeight(height uint64) Option {
	return func(pt *ProgramTest) {
		pt.maxStackHeight = height
	}
}

func WithMaxInstructionTraceLength(length uint64) Option {
	return func(pt *ProgramTest) {
		pt.maxInstructionTraceLength = length
	}
}

// WithoutFeature deactivates gate, which is active by default.
func WithoutFeature(gate features.FeatureGate) Option {
	return func(pt *ProgramTest) {
		pt.features.DisableFeature(gate)
	}
}

// WithSysvar overrides one of the default sysvar values.
func WithSysvar(value sysvar.Sysvar) Option {
	return func(pt *ProgramTest) {
		pt.sysvars.Set(value)
	}
}

func New(opts ...Option) *ProgramTest {
	pt := &ProgramTest{
		accounts:                  accounts.NewMemAccounts(),
		builtins:                  sealevel.DefaultBuiltins(),
		features:                  features.NewFeaturesAllEnabled(),
		computeUnitLimit:          cu.DefaultComputeUnitLimit,
		maxStackHeight:            DefaultMaxStackHeight,
		maxInstructionTraceLength: DefaultMaxInstructionTraceLength,
	}

	rent := sysvar.DefaultRent()
	epochSchedule := sysvar.DefaultEpochSchedule()
	for _, value := range []sysvar.Sysvar{
		&sysvar.Clock{UnixTimestamp: 1700000000},
		&rent,
		&epochSchedule,
		&sysvar.EpochRewards{},
		&sysvar.Fees{FeeCalculator: sysvar.FeeCalculator{LamportsPerSignature: 5000}},
		&sysvar.LastRestartSlot{},
	} {
		pt.sysvars.Set(value)
	}

	pt.addNativeProgramAccount(sealevel.SystemProgramAddr, "system_program")

	for _, opt := range opts {
		opt(pt)
	}
	if klog.V(4).Enabled() {
		for _, line := range pt.features.AllEnabled() {
			klog.Info(line)
		}
	}
	return pt
}

func (pt *ProgramTest) addNativeProgramAccount(programId solana.PublicKey, name string) {
	_ = pt.accounts.SetAccount(programId, &accounts.Account{
		Lamports:   1,
		Data:       []byte(name),
		Owner:      sealevel.NativeLoaderAddr,
		Executable: true,
	})
}

// AddProgram registers fn as the program at programId.
func (pt *ProgramTest) AddProgram(programId solana.PublicKey, name string, fn program.Entrypoint) {
	pt.AddBuiltin(programId, name, Processor(fn))
}

func (pt *ProgramTest) AddBuiltin(programId solana.PublicKey, name string, fn sealevel.BuiltinFunction) {
	pt.builtins.Add(programId, fn)
	pt.addNativeProgramAccount(programId, name)
}

// AddAccount stores a copy of acct under key.
func (pt *ProgramTest) AddAccount(key solana.PublicKey, acct accounts.Account) {
	_ = pt.accounts.SetAccount(key, acct.Clone())
}

// Account returns a copy of the committed state of key.
func (pt *ProgramTest) Account(key solana.PublicKey) (*accounts.Account, error) {
	acct, err := pt.accounts.GetAccount(key)
	if err != nil {
		return nil, err
	}
	return acct.Clone(), nil
}

func (pt *ProgramTest) Keys() []solana.PublicKey {
	return pt.accounts.Keys()
}

type TxResult struct {
	// Err is the instruction error that aborted the transaction.
	Err error
	// FailedInstruction is the index of the failing instruction, -1 on success.
	FailedInstruction int

	Logs                 []string
	ComputeUnitsConsumed uint64
	ReturnData           sealevel.TxReturnData
}

// Process executes ixs as one transaction. The resulting account state is
// committed only if every instruction succeeds.
func (pt *ProgramTest) Process(ixs ...program.Instruction) *TxResult {
	log := &sealevel.LogRecorder{}
	result := &TxResult{FailedInstruction: -1}

	keys, metas := pt.transactionAccounts(ixs)
	txAccts := sealevel.NewTransactionAccounts(lo.Map(keys, func(key solana.PublicKey, _ int) accounts.Account {
		if acct, err := pt.accounts.GetAccount(key); err == nil {
			return *acct
		}
		return accounts.Account{Key: key, Owner: sealevel.SystemProgramAddr, Data: []byte{}}
	}))

	sysvars, err := pt.sysvarCache()
	if err != nil {
		result.Err = err
		return result
	}

	execCtx := &sealevel.ExecutionCtx{
		Log:                log,
		TransactionContext: sealevel.NewTransactionCtx(txAccts, pt.maxStackHeight, pt.maxInstructionTraceLength),
		ComputeMeter:       cu.NewComputeMeter(pt.computeUnitLimit),
		SysvarCache:        sysvars,
		Builtins:           pt.builtins,
		Features:           pt.features,
	}

	for i, ix := range ixs {
		err := pt.processInstruction(execCtx, ix, metas)
		if err != nil {
			klog.V(2).Infof("instruction %d failed: %s", i, err)
			result.Err = err
			result.FailedInstruction = i
			break
		}
	}

	result.Logs = log.Logs
	result.ComputeUnitsConsumed = execCtx.ComputeMeter.Used()
	result.ReturnData = execCtx.TransactionContext.ReturnData

	if result.Err == nil {
		for _, acct := range txAccts.Accounts {
			_ = pt.accounts.SetAccount(acct.Key, acct.Clone())
		}
	}
	return result
}

// sysvarCache overlays sysvar accounts added to the test onto the configured
// values and hides the sysvars whose feature gate is inactive.
func (pt *ProgramTest) sysvarCache() (sealevel.SysvarCache, error) {
	sysvars := pt.sysvars
	if err := sysvars.FillFromAccounts(pt.accounts); err != nil {
		return sealevel.SysvarCache{}, err
	}
	if !pt.features.IsActive(features.EnablePartitionedEpochReward) {
		sysvars.Clear(sysvar.KindEpochRewards)
	}
	if !pt.features.IsActive(features.LastRestartSlotSysvar) {
		sysvars.Clear(sysvar.KindLastRestartSlot)
	}
	return sysvars, nil
}

// transactionAccounts lists every key the instructions reference, programs
// included, with signer and writable flags merged across instructions.
func (pt *ProgramTest) transactionAccounts(ixs []program.Instruction) ([]solana.PublicKey, map[solana.PublicKey]sealevel.AccountMeta) {
	var keys []solana.PublicKey
	metas := make(map[solana.PublicKey]sealevel.AccountMeta)

	for _, ix := range ixs {
		for _, meta := range ix.Accounts {
			merged := metas[meta.Pubkey]
			merged.Pubkey = meta.Pubkey
			merged.IsSigner = merged.IsSigner || meta.IsSigner
			merged.IsWritable = merged.IsWritable || meta.IsWritable
			metas[meta.Pubkey] = merged
			keys = append(keys, meta.Pubkey)
		}
		keys = append(keys, ix.ProgramID)
	}
	return lo.Uniq(keys), metas
}

func (pt *ProgramTest) processInstruction(execCtx *sealevel.ExecutionCtx, ix program.Instruction, metas map[solana.PublicKey]sealevel.AccountMeta) error {
	txCtx := execCtx.TransactionContext

	programIdx, err := txCtx.IndexOfAccount(ix.ProgramID)
	if err != nil {
		return err
	}
	programAcct, err := txCtx.Accounts.GetAccount(programIdx)
	if err != nil {
		return err
	}
	if !programAcct.Executable {
		klog.Errorf("program %s is not executable", ix.ProgramID)
		return sealevel.InstrErrUnsupportedProgramId
	}

	instrAccts, err := sealevel.InstructionAccountsFromMetas(lo.Map(ix.Accounts, func(meta program.AccountMeta, _ int) sealevel.AccountMeta {
		return metas[meta.Pubkey]
	}), txCtx.Accounts)
	if err != nil {
		return err
	}
	return execCtx.ProcessInstruction(ix.Data, instrAccts, []uint64{programIdx})
}
