package program

import (
	"errors"
	"fmt"
)

const builtinBitShift = 32

func toBuiltin(code uint64) uint64 {
	return code << builtinBitShift
}

const Success uint64 = 0

// Encoded program results as returned from an entrypoint.
var (
	CustomZero                             = toBuiltin(1)
	InvalidArgument                        = toBuiltin(2)
	InvalidInstructionData                 = toBuiltin(3)
	InvalidAccountData                     = toBuiltin(4)
	AccountDataTooSmall                    = toBuiltin(5)
	InsufficientFunds                      = toBuiltin(6)
	IncorrectProgramId                     = toBuiltin(7)
	MissingRequiredSignature               = toBuiltin(8)
	AccountAlreadyInitialized              = toBuiltin(9)
	UninitializedAccount                   = toBuiltin(10)
	NotEnoughAccountKeys                   = toBuiltin(11)
	AccountBorrowFailed                    = toBuiltin(12)
	MaxSeedLengthExceeded                  = toBuiltin(13)
	InvalidSeeds                           = toBuiltin(14)
	BorshIoErrorCode                       = toBuiltin(15)
	AccountNotRentExempt                   = toBuiltin(16)
	UnsupportedSysvar                      = toBuiltin(17)
	IllegalOwner                           = toBuiltin(18)
	MaxAccountsDataAllocationsExceeded     = toBuiltin(19)
	InvalidRealloc                         = toBuiltin(20)
	MaxInstructionTraceLengthExceeded      = toBuiltin(21)
	BuiltinProgramsMustConsumeComputeUnits = toBuiltin(22)
	InvalidAccountOwner                    = toBuiltin(23)
	ArithmeticOverflow                     = toBuiltin(24)
	Immutable                              = toBuiltin(25)
	IncorrectAuthority                     = toBuiltin(26)
)

var (
	ErrInvalidArgument                        = errors.New("The arguments provided to a program instruction were invalid")
	ErrInvalidInstructionData                 = errors.New("An instruction's data contents was invalid")
	ErrInvalidAccountData                     = errors.New("An account's data contents was invalid")
	ErrAccountDataTooSmall                    = errors.New("An account's data was too small")
	ErrInsufficientFunds                      = errors.New("An account's balance was too small to complete the instruction")
	ErrIncorrectProgramId                     = errors.New("The account did not have the expected program id")
	ErrMissingRequiredSignature               = errors.New("A signature was required but not found")
	ErrAccountAlreadyInitialized              = errors.New("An initialize instruction was sent to an account that has already been initialized")
	ErrUninitializedAccount                   = errors.New("An attempt to operate on an account that hasn't been initialized")
	ErrNotEnoughAccountKeys                   = errors.New("The instruction expected additional account keys")
	ErrAccountBorrowFailed                    = errors.New("Failed to borrow a reference to account data, already borrowed")
	ErrMaxSeedLengthExceeded                  = errors.New("Length of the seed is too long for address generation")
	ErrInvalidSeeds                           = errors.New("Provided seeds do not result in a valid address")
	ErrAccountNotRentExempt                   = errors.New("An account does not have enough lamports to be rent-exempt")
	ErrUnsupportedSysvar                      = errors.New("Unsupported sysvar")
	ErrIllegalOwner                           = errors.New("Provided owner is not allowed")
	ErrMaxAccountsDataAllocationsExceeded     = errors.New("Accounts data allocations exceeded the maximum allowed per transaction")
	ErrInvalidRealloc                         = errors.New("Account data reallocation was invalid")
	ErrMaxInstructionTraceLengthExceeded      = errors.New("Instruction trace length exceeded the maximum allowed per transaction")
	ErrBuiltinProgramsMustConsumeComputeUnits = errors.New("Builtin programs must consume compute units")
	ErrInvalidAccountOwner                    = errors.New("Invalid account owner")
	ErrArithmeticOverflow                     = errors.New("Program arithmetic overflowed")
	ErrImmutable                              = errors.New("Account is immutable")
	ErrIncorrectAuthority                     = errors.New("Incorrect authority provided")
)

// CustomError is a program defined error code.
type CustomError uint32

func (e CustomError) Error() string {
	return fmt.Sprintf("Custom program error: %#x", uint32(e))
}

// BorshIoError reports a failure to (de)serialize account or instruction data.
type BorshIoError string

func (e BorshIoError) Error() string {
	return fmt.Sprintf("IO Error: %s", string(e))
}

var errorCodes = []struct {
	err  error
	code uint64
}{
	{ErrInvalidArgument, InvalidArgument},
	{ErrInvalidInstructionData, InvalidInstructionData},
	{ErrInvalidAccountData, InvalidAccountData},
	{ErrAccountDataTooSmall, AccountDataTooSmall},
	{ErrInsufficientFunds, InsufficientFunds},
	{ErrIncorrectProgramId, IncorrectProgramId},
	{ErrMissingRequiredSignature, MissingRequiredSignature},
	{ErrAccountAlreadyInitialized, AccountAlreadyInitialized},
	{ErrUninitializedAccount, UninitializedAccount},
	{ErrNotEnoughAccountKeys, NotEnoughAccountKeys},
	{ErrAccountBorrowFailed, AccountBorrowFailed},
	{ErrMaxSeedLengthExceeded, MaxSeedLengthExceeded},
	{ErrInvalidSeeds, InvalidSeeds},
	{ErrAccountNotRentExempt, AccountNotRentExempt},
	{ErrUnsupportedSysvar, UnsupportedSysvar},
	{ErrIllegalOwner, IllegalOwner},
	{ErrMaxAccountsDataAllocationsExceeded, MaxAccountsDataAllocationsExceeded},
	{ErrInvalidRealloc, InvalidRealloc},
	{ErrMaxInstructionTraceLengthExceeded, MaxInstructionTraceLengthExceeded},
	{ErrBuiltinProgramsMustConsumeComputeUnits, BuiltinProgramsMustConsumeComputeUnits},
	{ErrInvalidAccountOwner, InvalidAccountOwner},
	{ErrArithmeticOverflow, ArithmeticOverflow},
	{ErrImmutable, Immutable},
	{ErrIncorrectAuthority, IncorrectAuthority},
}

// ErrorCode encodes a program error. It returns false for errors outside
// the program error set.
func ErrorCode(err error) (uint64, bool) {
	if err == nil {
		return Success, true
	}

	var custom CustomError
	if errors.As(err, &custom) {
		if custom == 0 {
			return CustomZero, true
		}
		return uint64(custom), true
	}
	var borshIo BorshIoError
	if errors.As(err, &borshIo) {
		return BorshIoErrorCode, true
	}

	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, true
		}
	}
	return 0, false
}

// ErrorFromCode decodes an encoded program result. Unknown builtin codes
// decode to a custom error carrying the low 32 bits.
func ErrorFromCode(code uint64) error {
	switch code {
	case Success:
		return nil
	case CustomZero:
		return CustomError(0)
	case BorshIoErrorCode:
		return BorshIoError("Unknown")
	}
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	return CustomError(uint32(code))
}

// AllErrors enumerates every sentinel program error.
func AllErrors() []error {
	errs := make([]error, len(errorCodes))
	for i, ec := range errorCodes {
		errs[i] = ec.err
	}
	return errs
}
