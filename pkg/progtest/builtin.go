package progtest

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"k8s.io/klog/v2"
)

// LogEnv enables diagnostic logging when set. A numeric value is used as
// the klog verbosity, anything else selects verbosity 4.
const LogEnv = "PROGTEST_LOG"

// InvokeCost is charged for every program function call, standing in for
// the cost of the interpreter entering the program.
const InvokeCost = 1

var setupOnce sync.Once

func setup() {
	setupOnce.Do(func() {
		if level, ok := os.LookupEnv(LogEnv); ok {
			if _, err := strconv.Atoi(level); err != nil {
				level = "4"
			}
			fs := flag.NewFlagSet("progtest", flag.ContinueOnError)
			klog.InitFlags(fs)
			_ = fs.Set("v", level)
			_ = fs.Set("logtostderr", "true")
		} else {
			klog.LogToStderr(false)
			klog.SetOutput(io.Discard)
		}
		program.SetSyscallStubs(syscallStubs{})
	})
}

// Processor wraps a program entrypoint so it can be registered as a
// builtin program.
func Processor(fn program.Entrypoint) sealevel.BuiltinFunction {
	return func(execCtx *sealevel.ExecutionCtx) error {
		return InvokeBuiltinFunction(fn, execCtx)
	}
}

// InvokeBuiltinFunction runs fn as the program of the current instruction.
// The instruction's accounts are serialized into the program input layout,
// fn is called on the deserialized view and the writable accounts are copied
// back afterwards.
func InvokeBuiltinFunction(fn program.Entrypoint, execCtx *sealevel.ExecutionCtx) (err error) {
	setup()

	restore := installInvokeContext(execCtx)
	defer restore()

	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	preRemaining := execCtx.ComputeMeter.Remaining()
	defer func() {
		recordInvocation(err, preRemaining-execCtx.ComputeMeter.Remaining())
	}()

	if err = execCtx.ComputeMeter.Consume(InvokeCost); err != nil {
		err = sealevel.InstrErrComputationalBudgetExceeded
		sealevel.LogProgramFailure(execCtx.Log, programId, err)
		return err
	}

	dedupIndices, err := deduplicatedIndices(instrCtx)
	if err != nil {
		return err
	}

	input, _, err := sealevel.SerializeParameters(execCtx)
	if err != nil {
		return err
	}
	inputProgramId, accountInfos, data, err := program.Deserialize(input)
	if err != nil {
		return err
	}

	sealevel.LogProgramInvoke(execCtx.Log, programId, execCtx.StackHeight())
	klog.V(2).Infof("invoking %s with %d accounts", programId, len(accountInfos))

	programErr := callProgram(fn, inputProgramId, accountInfos, data)

	sealevel.LogProgramConsumed(execCtx.Log, programId, preRemaining-execCtx.ComputeMeter.Remaining(), preRemaining)
	if returnProgramId, returnData := txCtx.GetReturnData(); len(returnData) != 0 {
		sealevel.LogProgramReturn(execCtx.Log, returnProgramId, returnData)
	}

	if programErr != nil {
		err = instructionErrorFromProgramResult(programErr)
		sealevel.LogProgramFailure(execCtx.Log, programId, err)
		return err
	}

	if err = commitAccounts(dedupIndices, accountInfos); err != nil {
		klog.Errorf("reconciling accounts of %s: %s", programId, err)
		sealevel.LogProgramFailure(execCtx.Log, programId, err)
		return err
	}

	sealevel.LogProgramSuccess(execCtx.Log, programId)
	return nil
}

// callProgram calls fn, turning a panic into errProgramPanicked. A syscall
// made without an invoke context is reported as ErrNoActiveContext.
func callProgram(fn program.Entrypoint, programId solana.PublicKey, accountInfos []*program.AccountInfo, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok && errors.Is(rErr, ErrNoActiveContext) {
				err = rErr
				return
			}
			klog.Errorf("program %s panicked: %v", programId, r)
			err = fmt.Errorf("%w: %v", errProgramPanicked, r)
		}
	}()
	return fn(programId, accountInfos, data)
}

// deduplicatedIndices lists the instruction account indices that are the
// first reference to their transaction account, in ascending order.
func deduplicatedIndices(instrCtx *sealevel.InstructionCtx) ([]uint64, error) {
	indices := make([]uint64, 0, instrCtx.NumberOfInstructionAccounts())
	for instrAcctIdx := uint64(0); instrAcctIdx < instrCtx.NumberOfInstructionAccounts(); instrAcctIdx++ {
		isDupe, _, err := instrCtx.IsInstructionAccountDuplicate(instrAcctIdx)
		if err != nil {
			return nil, err
		}
		if !isDupe {
			indices = append(indices, instrAcctIdx)
		}
	}
	return indices, nil
}

// commitAccounts copies the program's view of every writable account back
// into the transaction. Accounts committed before a failure stay committed.
func commitAccounts(dedupIndices []uint64, accountInfos []*program.AccountInfo) error {
	execCtx, err := currentInvokeContext()
	if err != nil {
		return err
	}
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	infosByKey := lo.KeyBy(accountInfos, func(info *program.AccountInfo) solana.PublicKey {
		return info.Key
	})

	for _, instrAcctIdx := range dedupIndices {
		borrowed, err := instrCtx.BorrowInstructionAccount(txCtx, instrAcctIdx)
		if err != nil {
			return err
		}

		info, ok := infosByKey[borrowed.Key()]
		if borrowed.IsWritable() && ok {
			err = reconcileAccount(borrowed, info)
		}
		borrowed.Drop()
		if err != nil {
			return err
		}
	}
	return nil
}

// reconcileAccount copies lamports, data and owner of info into borrowed, in
// that order: the data permission checks depend on the old owner.
func reconcileAccount(borrowed *sealevel.BorrowedAccount, info *program.AccountInfo) error {
	if borrowed.Lamports() != info.Lamports() {
		if err := borrowed.SetLamports(info.Lamports()); err != nil {
			return err
		}
	}

	if info.DataLen() > info.OriginalDataLen()+program.MaxPermittedDataIncrease {
		return sealevel.InstrErrInvalidRealloc
	}
	if data := info.Data(); !bytes.Equal(borrowed.Data(), data) {
		if err := borrowed.SetData(data); err != nil {
			return err
		}
	}

	if owner := info.Owner(); borrowed.Owner() != owner {
		if err := borrowed.SetOwner(owner); err != nil {
			return err
		}
	}
	return nil
}
