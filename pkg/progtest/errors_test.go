package progtest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
)

func TestErrorTranslation_ProgramErrorsRoundTrip(t *testing.T) {
	for _, programErr := range program.AllErrors() {
		instrErr := instructionErrorFromProgramError(programErr)
		require.True(t, sealevel.IsInstructionError(instrErr), "%s", programErr)
		if code, _ := program.ErrorCode(programErr); internalOnlyProgramCodes[code] {
			continue
		}

		back, ok := programErrorFromInstructionError(instrErr)
		require.True(t, ok, "%s", instrErr)
		assert.Equal(t, programErr, back)
	}
}

func TestErrorTranslation_PayloadPreserved(t *testing.T) {
	for _, code := range []uint32{0, 1, 42, 0xffffffff} {
		instrErr := instructionErrorFromProgramError(program.CustomError(code))
		assert.Equal(t, sealevel.CustomErr{Code: code}, instrErr)

		back, ok := programErrorFromInstructionError(instrErr)
		require.True(t, ok)
		assert.Equal(t, program.CustomError(code), back)
	}

	instrErr := instructionErrorFromProgramError(program.BorshIoError("unexpected eof"))
	assert.Equal(t, sealevel.BorshIoErr{Msg: "unexpected eof"}, instrErr)
	back, ok := programErrorFromInstructionError(fmt.Errorf("wrapped: %w", instrErr))
	require.True(t, ok)
	assert.Equal(t, program.BorshIoError("unexpected eof"), back)
}

func TestErrorTranslation_TotalOverInstructionErrors(t *testing.T) {
	untranslatable := 0
	for _, instrErr := range sealevel.AllInstructionErrors() {
		programErr, ok := programErrorFromInstructionError(instrErr)
		if !ok {
			untranslatable++
			assert.Nil(t, programErr)
			assert.Same(t, instrErr, cpiError(instrErr), "%s", instrErr)
			continue
		}

		code, isProgramErr := program.ErrorCode(programErr)
		require.True(t, isProgramErr, "%s", instrErr)
		expected, _ := sealevel.InstrErrCode(instrErr)
		actual, _ := sealevel.InstrErrCode(instructionErrorFromCode(code))
		assert.Equal(t, expected, actual, "%s", instrErr)
	}
	assert.Equal(t, len(sealevel.AllInstructionErrors())-len(program.AllErrors())-2+len(internalOnlyProgramCodes), untranslatable)
}

func TestErrorTranslation_InternalOnly(t *testing.T) {
	for _, instrErr := range []error{
		sealevel.InstrErrExternalAccountLamportSpend,
		sealevel.InstrErrPrivilegeEscalation,
		sealevel.InstrErrCallDepth,
		sealevel.InstrErrReentrancyNotAllowed,
		sealevel.InstrErrUnbalancedInstruction,
		sealevel.InstrErrImmutable,
		sealevel.InstrErrIncorrectAuthority,
	} {
		_, ok := programErrorFromInstructionError(instrErr)
		assert.False(t, ok, "%s", instrErr)
		assert.Equal(t, instrErr, cpiError(instrErr))
	}
}

func TestInstructionErrorFromCode(t *testing.T) {
	assert.NoError(t, instructionErrorFromCode(program.Success))
	assert.Equal(t, sealevel.CustomErr{Code: 0}, instructionErrorFromCode(program.CustomZero))
	assert.Equal(t, sealevel.CustomErr{Code: 1234}, instructionErrorFromCode(1234))
	assert.Equal(t, sealevel.InstrErrIllegalOwner, instructionErrorFromCode(program.IllegalOwner))
	assert.Equal(t, sealevel.InstrErrImmutable, instructionErrorFromCode(program.Immutable))
	assert.Equal(t, sealevel.InstrErrIncorrectAuthority, instructionErrorFromCode(program.IncorrectAuthority))
	assert.Equal(t, sealevel.BorshIoErr{Msg: "Unknown"}, instructionErrorFromCode(program.BorshIoErrorCode))
	assert.Equal(t, sealevel.InstrErrInvalidError, instructionErrorFromCode(99<<32))
}

func TestInstructionErrorFromProgramResult(t *testing.T) {
	assert.NoError(t, instructionErrorFromProgramResult(nil))
	assert.Equal(t, sealevel.InstrErrProgramFailedToComplete,
		instructionErrorFromProgramResult(fmt.Errorf("%w: boom", errProgramPanicked)))
	assert.Equal(t, sealevel.InstrErrProgramFailedToComplete,
		instructionErrorFromProgramResult(sealevel.SyscallErrTooManySigners))
	assert.Equal(t, sealevel.InstrErrProgramFailedToComplete,
		instructionErrorFromProgramResult(ErrNoActiveContext))
	assert.Equal(t, sealevel.InstrErrPrivilegeEscalation,
		instructionErrorFromProgramResult(sealevel.InstrErrPrivilegeEscalation))
	assert.Equal(t, sealevel.InstrErrMissingRequiredSignature,
		instructionErrorFromProgramResult(program.ErrMissingRequiredSignature))
	assert.Equal(t, sealevel.InstrErrInvalidError,
		instructionErrorFromProgramResult(errors.New("unrelated")))
}
