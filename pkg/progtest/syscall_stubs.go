package progtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/features"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"go.firedancer.io/progtest/pkg/sysvar"
	"k8s.io/klog/v2"
)

// syscallStubs answers the program's syscalls from the invoke context that
// is current when the call is made.
type syscallStubs struct{}

var _ program.SyscallStubs = syscallStubs{}

// activeContext returns the current invoke context. Syscalls without an
// error result have no other way to fail, so a call made outside an
// invocation panics with ErrNoActiveContext.
func activeContext(syscall string) *sealevel.ExecutionCtx {
	execCtx, err := currentInvokeContext()
	if err != nil {
		klog.Errorf("%s: %s", syscall, err)
		panic(fmt.Errorf("%s: %w", syscall, err))
	}
	return execCtx
}

func (syscallStubs) Log(message string) {
	execCtx := activeContext("sol_log")
	if !execCtx.Features.IsActive(features.StopTruncatingStringsInSyscalls) {
		if nul := strings.IndexByte(message, 0); nul >= 0 {
			message = message[:nul]
		}
	}
	sealevel.LogProgramLog(execCtx.Log, message)
}

func (syscallStubs) LogData(data [][]byte) {
	execCtx := activeContext("sol_log_data")
	sealevel.LogProgramData(execCtx.Log, data)
}

func (syscallStubs) LogComputeUnits() {
	execCtx := activeContext("sol_log_compute_units")
	sealevel.LogProgramConsumption(execCtx.Log, execCtx.ComputeMeter.Remaining())
}

// GetSysvar copies the cached sysvar of the given kind into dst.
func (syscallStubs) GetSysvar(kind sysvar.Kind, dst []byte) uint64 {
	execCtx := activeContext("sol_get_sysvar")
	value, err := execCtx.SysvarCache.Get(kind)
	if err != nil {
		klog.V(2).Infof("sysvar %s not cached", kind)
		return program.UnsupportedSysvar
	}
	data, err := sysvar.Marshal(value)
	if err != nil {
		klog.Errorf("encoding sysvar %s: %s", kind, err)
		return program.InvalidArgument
	}
	if len(dst) < len(data) {
		return program.InvalidArgument
	}
	copy(dst, data)
	return program.Success
}

func (syscallStubs) GetStackHeight() uint64 {
	execCtx := activeContext("sol_get_stack_height")
	return execCtx.StackHeight()
}

func (syscallStubs) GetReturnData() (solana.PublicKey, []byte, bool) {
	execCtx := activeContext("sol_get_return_data")
	programId, data := execCtx.TransactionContext.GetReturnData()
	if len(data) == 0 {
		return solana.PublicKey{}, nil, false
	}
	return programId, bytes.Clone(data), true
}

// SetReturnData replaces the transaction's return data, recording the
// calling program as its producer.
func (syscallStubs) SetReturnData(data []byte) error {
	execCtx, err := currentInvokeContext()
	if err != nil {
		return err
	}
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}
	return txCtx.SetReturnData(programId, data)
}

func (syscallStubs) GetRemainingComputeUnits() uint64 {
	execCtx := activeContext("sol_remaining_compute_units")
	return execCtx.ComputeMeter.Remaining()
}

func (syscallStubs) InvokeSigned(instruction program.Instruction, accountInfos []*program.AccountInfo, signerSeeds [][][]byte) error {
	err := invokeSigned(instruction, accountInfos, signerSeeds)
	recordCpi(err)
	return err
}
