package program

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/progtest/pkg/sysvar"
	"k8s.io/klog/v2"
)

const MaxReturnData = 1024

var ErrSyscallUnavailable = errors.New("syscall not available outside of a runtime")

// SyscallStubs is the capability table a program reaches the runtime
// through. A test runtime installs its own implementation with
// SetSyscallStubs.
type SyscallStubs interface {
	Log(message string)
	LogData(data [][]byte)
	LogComputeUnits()
	GetSysvar(kind sysvar.Kind, dst []byte) uint64
	GetStackHeight() uint64
	GetReturnData() (solana.PublicKey, []byte, bool)
	SetReturnData(data []byte) error
	GetRemainingComputeUnits() uint64
	InvokeSigned(instruction Instruction, accountInfos []*AccountInfo, signerSeeds [][][]byte) error
}

// DefaultSyscallStubs logs through klog and reports everything else as
// unavailable.
type DefaultSyscallStubs struct{}

func (DefaultSyscallStubs) Log(message string) {
	klog.Info(message)
}

func (DefaultSyscallStubs) LogData(data [][]byte) {
	klog.Infof("data: %x", data)
}

func (DefaultSyscallStubs) LogComputeUnits() {
	klog.Info("compute units unavailable")
}

func (DefaultSyscallStubs) GetSysvar(sysvar.Kind, []byte) uint64 {
	return UnsupportedSysvar
}

func (DefaultSyscallStubs) GetStackHeight() uint64 {
	return 0
}

func (DefaultSyscallStubs) GetReturnData() (solana.PublicKey, []byte, bool) {
	return solana.PublicKey{}, nil, false
}

func (DefaultSyscallStubs) SetReturnData([]byte) error {
	return nil
}

func (DefaultSyscallStubs) GetRemainingComputeUnits() uint64 {
	return 0
}

func (DefaultSyscallStubs) InvokeSigned(Instruction, []*AccountInfo, [][][]byte) error {
	return ErrSyscallUnavailable
}

var (
	stubsMu sync.RWMutex
	stubs   SyscallStubs = DefaultSyscallStubs{}
)

// SetSyscallStubs installs s process wide and returns the previous stubs.
func SetSyscallStubs(s SyscallStubs) SyscallStubs {
	stubsMu.Lock()
	defer stubsMu.Unlock()
	prev := stubs
	stubs = s
	return prev
}

func syscalls() SyscallStubs {
	stubsMu.RLock()
	defer stubsMu.RUnlock()
	return stubs
}

// Msg writes a line to the program log.
func Msg(message string) {
	syscalls().Log(message)
}

func Msgf(format string, args ...any) {
	syscalls().Log(fmt.Sprintf(format, args...))
}

func LogData(data ...[]byte) {
	syscalls().LogData(data)
}

func LogComputeUnits() {
	syscalls().LogComputeUnits()
}

func GetStackHeight() uint64 {
	return syscalls().GetStackHeight()
}

func GetRemainingComputeUnits() uint64 {
	return syscalls().GetRemainingComputeUnits()
}

// GetReturnData returns the most recent return data of the transaction and
// the program that set it.
func GetReturnData() (solana.PublicKey, []byte, bool) {
	return syscalls().GetReturnData()
}

func SetReturnData(data []byte) error {
	if len(data) > MaxReturnData {
		return ErrInvalidArgument
	}
	return syscalls().SetReturnData(data)
}

// Invoke calls another program with the signatures of the current instruction.
func Invoke(instruction Instruction, accountInfos []*AccountInfo) error {
	return InvokeSigned(instruction, accountInfos, nil)
}

// InvokeSigned calls another program, additionally signing for every
// program address derived from signerSeeds.
func InvokeSigned(instruction Instruction, accountInfos []*AccountInfo, signerSeeds [][][]byte) error {
	return syscalls().InvokeSigned(instruction, accountInfos, signerSeeds)
}

func getSysvar(dst sysvar.Sysvar) error {
	buf := make([]byte, dst.Kind().StructLen())
	status := syscalls().GetSysvar(dst.Kind(), buf)
	if status != Success {
		return ErrorFromCode(status)
	}
	if err := sysvar.Unmarshal(buf, dst); err != nil {
		return BorshIoError(err.Error())
	}
	return nil
}

func GetClock() (*sysvar.Clock, error) {
	var clock sysvar.Clock
	if err := getSysvar(&clock); err != nil {
		return nil, err
	}
	return &clock, nil
}

func GetRent() (*sysvar.Rent, error) {
	var rent sysvar.Rent
	if err := getSysvar(&rent); err != nil {
		return nil, err
	}
	return &rent, nil
}

func GetEpochSchedule() (*sysvar.EpochSchedule, error) {
	var epochSchedule sysvar.EpochSchedule
	if err := getSysvar(&epochSchedule); err != nil {
		return nil, err
	}
	return &epochSchedule, nil
}

func GetEpochRewards() (*sysvar.EpochRewards, error) {
	var epochRewards sysvar.EpochRewards
	if err := getSysvar(&epochRewards); err != nil {
		return nil, err
	}
	return &epochRewards, nil
}

func GetFees() (*sysvar.Fees, error) {
	var fees sysvar.Fees
	if err := getSysvar(&fees); err != nil {
		return nil, err
	}
	return &fees, nil
}

func GetLastRestartSlot() (*sysvar.LastRestartSlot, error) {
	var lastRestartSlot sysvar.LastRestartSlot
	if err := getSysvar(&lastRestartSlot); err != nil {
		return nil, err
	}
	return &lastRestartSlot, nil
}
