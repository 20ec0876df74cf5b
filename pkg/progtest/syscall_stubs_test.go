package progtest

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/features"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"go.firedancer.io/progtest/pkg/sysvar"
)

func TestSyscallStubs_NoActiveContext(t *testing.T) {
	stubs := syscallStubs{}

	assert.ErrorIs(t, stubs.SetReturnData([]byte{1}), ErrNoActiveContext)
	assert.ErrorIs(t, stubs.InvokeSigned(program.Instruction{}, nil, nil), ErrNoActiveContext)

	for name, call := range map[string]func(){
		"sol_log":                     func() { stubs.Log("nobody listens") },
		"sol_log_data":                func() { stubs.LogData([][]byte{{1}}) },
		"sol_log_compute_units":       func() { stubs.LogComputeUnits() },
		"sol_get_stack_height":        func() { stubs.GetStackHeight() },
		"sol_remaining_compute_units": func() { stubs.GetRemainingComputeUnits() },
		"sol_get_return_data":         func() { stubs.GetReturnData() },
		"sol_get_sysvar":              func() { stubs.GetSysvar(sysvar.KindClock, make([]byte, sysvar.ClockStructLen)) },
	} {
		assert.PanicsWithError(t, name+": "+ErrNoActiveContext.Error(), call, name)
	}
}

func TestSyscallStubs_NoActiveContextInsideProgram(t *testing.T) {
	programId := randomPubkey(t)
	fn := func(solana.PublicKey, []*program.AccountInfo, []byte) error {
		restore := installInvokeContext(nil)
		defer restore()
		program.GetStackHeight()
		return nil
	}

	execCtx, _ := newExecCtx(programId, fn)
	err := processInstruction(t, execCtx, programId, nil, nil)
	assert.Equal(t, sealevel.InstrErrProgramFailedToComplete, err)
	_, err = currentInvokeContext()
	assert.ErrorIs(t, err, ErrNoActiveContext)

	err = callProgram(func(solana.PublicKey, []*program.AccountInfo, []byte) error {
		syscallStubs{}.LogComputeUnits()
		return nil
	}, programId, nil, nil)
	assert.ErrorIs(t, err, ErrNoActiveContext)
	assert.NotErrorIs(t, err, errProgramPanicked)
}

func TestSyscallStubs_GetSysvar(t *testing.T) {
	execCtx := &sealevel.ExecutionCtx{}
	execCtx.SysvarCache.Set(&sysvar.Clock{Slot: 99, Epoch: 2, UnixTimestamp: -5})

	restore := installInvokeContext(execCtx)
	defer restore()

	stubs := syscallStubs{}
	buf := make([]byte, sysvar.ClockStructLen)
	require.Equal(t, program.Success, stubs.GetSysvar(sysvar.KindClock, buf))

	var clock sysvar.Clock
	require.NoError(t, sysvar.Unmarshal(buf, &clock))
	assert.Equal(t, sysvar.Clock{Slot: 99, Epoch: 2, UnixTimestamp: -5}, clock)

	assert.Equal(t, program.InvalidArgument, stubs.GetSysvar(sysvar.KindClock, buf[:8]))
	assert.Equal(t, program.UnsupportedSysvar, stubs.GetSysvar(sysvar.KindRent, make([]byte, sysvar.RentStructLen)))
}

func TestSyscallStubs_ReturnData(t *testing.T) {
	programId := randomPubkey(t)
	var observed []byte

	fn := func(solana.PublicKey, []*program.AccountInfo, []byte) error {
		stubs := syscallStubs{}
		if _, _, ok := stubs.GetReturnData(); ok {
			return program.ErrInvalidArgument
		}
		if err := stubs.SetReturnData([]byte("result")); err != nil {
			return err
		}
		returnProgramId, data, ok := stubs.GetReturnData()
		if !ok || returnProgramId != programId {
			return program.ErrInvalidAccountData
		}
		observed = data
		assert.ErrorIs(t, stubs.SetReturnData(make([]byte, sealevel.MaxReturnData+1)), sealevel.SyscallErrReturnDataTooLarge)
		assert.Equal(t, uint64(1), stubs.GetStackHeight())
		assert.Equal(t, uint64(testComputeUnits-InvokeCost), stubs.GetRemainingComputeUnits())
		return nil
	}

	execCtx, _ := newExecCtx(programId, fn)
	require.NoError(t, processInstruction(t, execCtx, programId, nil, nil))
	assert.Equal(t, []byte("result"), observed)
}

func TestSyscallStubs_Logs(t *testing.T) {
	programId := randomPubkey(t)
	fn := func(solana.PublicKey, []*program.AccountInfo, []byte) error {
		program.Msgf("hello %d", 7)
		program.LogData([]byte("ab"), []byte{})
		program.LogComputeUnits()
		return nil
	}

	execCtx, log := newExecCtx(programId, fn)
	require.NoError(t, processInstruction(t, execCtx, programId, nil, nil))
	require.Len(t, log.Logs, 6)
	assert.Equal(t, "Program log: hello 7", log.Logs[1])
	assert.Equal(t, "Program data: YWI= ", log.Logs[2])
	assert.Equal(t, "Program consumption: 199999 units remaining", log.Logs[3])
}

func TestSyscallStubs_LogTruncation(t *testing.T) {
	programId := randomPubkey(t)
	fn := func(solana.PublicKey, []*program.AccountInfo, []byte) error {
		program.Msg("visible\x00hidden")
		return nil
	}

	execCtx, log := newExecCtx(programId, fn)
	require.NoError(t, processInstruction(t, execCtx, programId, nil, nil))
	assert.Equal(t, "Program log: visible", log.Logs[1])

	execCtx, log = newExecCtx(programId, fn)
	execCtx.Features = features.NewFeaturesAllEnabled()
	require.NoError(t, processInstruction(t, execCtx, programId, nil, nil))
	assert.Equal(t, "Program log: visible\x00hidden", log.Logs[1])
}
