package progtest

import (
	"errors"

	"go.firedancer.io/progtest/pkg/program"
	"go.firedancer.io/progtest/pkg/sealevel"
	"k8s.io/klog/v2"
)

// errProgramPanicked marks a program that aborted instead of returning.
var errProgramPanicked = errors.New("program panicked")

var instrErrsByProgramCode = map[uint64]error{
	program.InvalidArgument:                        sealevel.InstrErrInvalidArgument,
	program.InvalidInstructionData:                 sealevel.InstrErrInvalidInstructionData,
	program.InvalidAccountData:                     sealevel.InstrErrInvalidAccountData,
	program.AccountDataTooSmall:                    sealevel.InstrErrAccountDataTooSmall,
	program.InsufficientFunds:                      sealevel.InstrErrInsufficientFunds,
	program.IncorrectProgramId:                     sealevel.InstrErrIncorrectProgramId,
	program.MissingRequiredSignature:               sealevel.InstrErrMissingRequiredSignature,
	program.AccountAlreadyInitialized:              sealevel.InstrErrAccountAlreadyInitialized,
	program.UninitializedAccount:                   sealevel.InstrErrUninitializedAccount,
	program.NotEnoughAccountKeys:                   sealevel.InstrErrNotEnoughAccountKeys,
	program.AccountBorrowFailed:                    sealevel.InstrErrAccountBorrowFailed,
	program.MaxSeedLengthExceeded:                  sealevel.InstrErrMaxSeedLengthExceeded,
	program.InvalidSeeds:                           sealevel.InstrErrInvalidSeeds,
	program.AccountNotRentExempt:                   sealevel.InstrErrAccountNotRentExempt,
	program.UnsupportedSysvar:                      sealevel.InstrErrUnsupportedSysvar,
	program.IllegalOwner:                           sealevel.InstrErrIllegalOwner,
	program.MaxAccountsDataAllocationsExceeded:     sealevel.InstrErrMaxAccountsDataAllocationsExceeded,
	program.InvalidRealloc:                         sealevel.InstrErrInvalidRealloc,
	program.MaxInstructionTraceLengthExceeded:      sealevel.InstrErrMaxInstructionTraceLengthExceeded,
	program.BuiltinProgramsMustConsumeComputeUnits: sealevel.InstrErrBuiltinProgramsMustConsumeComputeUnits,
	program.InvalidAccountOwner:                    sealevel.InstrErrInvalidAccountOwner,
	program.ArithmeticOverflow:                     sealevel.InstrErrArithmeticOverflow,
	program.Immutable:                              sealevel.InstrErrImmutable,
	program.IncorrectAuthority:                     sealevel.InstrErrIncorrectAuthority,
}

// Codes a program can return but never sees from a failed invocation. The
// matching instruction errors are passed on unchanged.
var internalOnlyProgramCodes = map[uint64]bool{
	program.Immutable:          true,
	program.IncorrectAuthority: true,
}

// instructionErrorFromCode decodes an encoded program result into the
// instruction error the runtime reports.
func instructionErrorFromCode(code uint64) error {
	switch code {
	case program.Success:
		return nil
	case program.CustomZero:
		return sealevel.CustomErr{Code: 0}
	case program.BorshIoErrorCode:
		return sealevel.BorshIoErr{Msg: "Unknown"}
	}
	if instrErr, ok := instrErrsByProgramCode[code]; ok {
		return instrErr
	}
	if code>>32 == 0 {
		return sealevel.CustomErr{Code: uint32(code)}
	}
	return sealevel.InstrErrInvalidError
}

// instructionErrorFromProgramError converts a program error, keeping custom
// codes and serialization messages intact.
func instructionErrorFromProgramError(err error) error {
	var borshIo program.BorshIoError
	if errors.As(err, &borshIo) {
		return sealevel.BorshIoErr{Msg: string(borshIo)}
	}
	code, ok := program.ErrorCode(err)
	if !ok {
		return sealevel.InstrErrInvalidError
	}
	return instructionErrorFromCode(code)
}

// programErrorFromInstructionError returns the program facing form of an
// instruction error. Errors without one report false and must be passed on
// unchanged.
func programErrorFromInstructionError(err error) (error, bool) {
	var custom sealevel.CustomErr
	if errors.As(err, &custom) {
		return program.CustomError(custom.Code), true
	}
	var borshIo sealevel.BorshIoErr
	if errors.As(err, &borshIo) {
		return program.BorshIoError(borshIo.Msg), true
	}

	for code, instrErr := range instrErrsByProgramCode {
		if internalOnlyProgramCodes[code] {
			continue
		}
		if errors.Is(err, instrErr) {
			return program.ErrorFromCode(code), true
		}
	}
	return nil, false
}

// instructionErrorFromProgramResult maps whatever a program function
// returned to the instruction error recorded for the invocation.
func instructionErrorFromProgramResult(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errProgramPanicked):
		return sealevel.InstrErrProgramFailedToComplete
	case sealevel.IsInstructionError(err):
		return err
	case errors.Is(err, sealevel.SyscallErrTooManySigners),
		errors.Is(err, sealevel.SyscallErrReturnDataTooLarge),
		errors.Is(err, ErrNoActiveContext):
		return sealevel.InstrErrProgramFailedToComplete
	}

	if _, ok := program.ErrorCode(err); ok {
		return instructionErrorFromProgramError(err)
	}
	klog.Errorf("program returned an error outside the program error set: %s", err)
	return sealevel.InstrErrInvalidError
}

// cpiError is what a program sees when a cross program invocation fails.
func cpiError(err error) error {
	if programErr, ok := programErrorFromInstructionError(err); ok {
		return programErr
	}
	return err
}
