package sealevel

import "errors"

// Solana error codes for instruction errors. Zero is success, every other
// code is the variant ordinal plus one.
const (
	InstrErrCodeSuccess                                = 0
	InstrErrCodeGenericError                           = 1
	InstrErrCodeInvalidArgument                        = 2
	InstrErrCodeInvalidInstructionData                 = 3
	InstrErrCodeInvalidAccountData                     = 4
	InstrErrCodeAccountDataTooSmall                    = 5
	InstrErrCodeInsufficientFunds                      = 6
	InstrErrCodeIncorrectProgramId                     = 7
	InstrErrCodeMissingRequiredSignature               = 8
	InstrErrCodeAccountAlreadyInitialized              = 9
	InstrErrCodeUninitializedAccount                   = 10
	InstrErrCodeUnbalancedInstruction                  = 11
	InstrErrCodeModifiedProgramId                      = 12
	InstrErrCodeExternalAccountLamportSpend            = 13
	InstrErrCodeExternalAccountDataModified            = 14
	InstrErrCodeReadonlyLamportChange                  = 15
	InstrErrCodeReadonlyDataModified                   = 16
	InstrErrCodeDuplicateAccountIndex                  = 17
	InstrErrCodeExecutableModified                     = 18
	InstrErrCodeRentEpochModified                      = 19
	InstrErrCodeNotEnoughAccountKeys                   = 20
	InstrErrCodeAccountDataSizeChanged                 = 21
	InstrErrCodeAccountNotExecutable                   = 22
	InstrErrCodeAccountBorrowFailed                    = 23
	InstrErrCodeAccountBorrowOutstanding               = 24
	InstrErrCodeDuplicateAccountOutOfSync              = 25
	InstrErrCodeCustom                                 = 26
	InstrErrCodeInvalidError                           = 27
	InstrErrCodeExecutableDataModified                 = 28
	InstrErrCodeExecutableLamportChange                = 29
	InstrErrCodeExecutableAccountNotRentExempt         = 30
	InstrErrCodeUnsupportedProgramId                   = 31
	InstrErrCodeCallDepth                              = 32
	InstrErrCodeMissingAccount                         = 33
	InstrErrCodeReentrancyNotAllowed                   = 34
	InstrErrCodeMaxSeedLengthExceeded                  = 35
	InstrErrCodeInvalidSeeds                           = 36
	InstrErrCodeInvalidRealloc                         = 37
	InstrErrCodeComputationalBudgetExceeded            = 38
	InstrErrCodePrivilegeEscalation                    = 39
	InstrErrCodeProgramEnvironmentSetupFailure         = 40
	InstrErrCodeProgramFailedToComplete                = 41
	InstrErrCodeProgramFailedToCompile                 = 42
	InstrErrCodeImmutable                              = 43
	InstrErrCodeIncorrectAuthority                     = 44
	InstrErrCodeBorshIoError                           = 45
	InstrErrCodeAccountNotRentExempt                   = 46
	InstrErrCodeInvalidAccountOwner                    = 47
	InstrErrCodeArithmeticOverflow                     = 48
	InstrErrCodeUnsupportedSysvar                      = 49
	InstrErrCodeIllegalOwner                           = 50
	InstrErrCodeMaxAccountsDataAllocationsExceeded     = 51
	InstrErrCodeMaxAccountsExceeded                    = 52
	InstrErrCodeMaxInstructionTraceLengthExceeded      = 53
	InstrErrCodeBuiltinProgramsMustConsumeComputeUnits = 54
)

// sentinel instruction errors indexed by code; payload carrying variants
// (Custom, BorshIoError) are nil here and handled by type.
var instrErrsByCode = [...]error{
	InstrErrCodeGenericError:                           InstrErrGenericError,
	InstrErrCodeInvalidArgument:                        InstrErrInvalidArgument,
	InstrErrCodeInvalidInstructionData:                 InstrErrInvalidInstructionData,
	InstrErrCodeInvalidAccountData:                     InstrErrInvalidAccountData,
	InstrErrCodeAccountDataTooSmall:                    InstrErrAccountDataTooSmall,
	InstrErrCodeInsufficientFunds:                      InstrErrInsufficientFunds,
	InstrErrCodeIncorrectProgramId:                     InstrErrIncorrectProgramId,
	InstrErrCodeMissingRequiredSignature:               InstrErrMissingRequiredSignature,
	InstrErrCodeAccountAlreadyInitialized:              InstrErrAccountAlreadyInitialized,
	InstrErrCodeUninitializedAccount:                   InstrErrUninitializedAccount,
	InstrErrCodeUnbalancedInstruction:                  InstrErrUnbalancedInstruction,
	InstrErrCodeModifiedProgramId:                      InstrErrModifiedProgramId,
	InstrErrCodeExternalAccountLamportSpend:            InstrErrExternalAccountLamportSpend,
	InstrErrCodeExternalAccountDataModified:            InstrErrExternalAccountDataModified,
	InstrErrCodeReadonlyLamportChange:                  InstrErrReadonlyLamportChange,
	InstrErrCodeReadonlyDataModified:                   InstrErrReadonlyDataModified,
	InstrErrCodeDuplicateAccountIndex:                  InstrErrDuplicateAccountIndex,
	InstrErrCodeExecutableModified:                     InstrErrExecutableModified,
	InstrErrCodeRentEpochModified:                      InstrErrRentEpochModified,
	InstrErrCodeNotEnoughAccountKeys:                   InstrErrNotEnoughAccountKeys,
	InstrErrCodeAccountDataSizeChanged:                 InstrErrAccountDataSizeChanged,
	InstrErrCodeAccountNotExecutable:                   InstrErrAccountNotExecutable,
	InstrErrCodeAccountBorrowFailed:                    InstrErrAccountBorrowFailed,
	InstrErrCodeAccountBorrowOutstanding:               InstrErrAccountBorrowOutstanding,
	InstrErrCodeDuplicateAccountOutOfSync:              InstrErrDuplicateAccountOutOfSync,
	InstrErrCodeInvalidError:                           InstrErrInvalidError,
	InstrErrCodeExecutableDataModified:                 InstrErrExecutableDataModified,
	InstrErrCodeExecutableLamportChange:                InstrErrExecutableLamportChange,
	InstrErrCodeExecutableAccountNotRentExempt:         InstrErrExecutableAccountNotRentExempt,
	InstrErrCodeUnsupportedProgramId:                   InstrErrUnsupportedProgramId,
	InstrErrCodeCallDepth:                              InstrErrCallDepth,
	InstrErrCodeMissingAccount:                         InstrErrMissingAccount,
	InstrErrCodeReentrancyNotAllowed:                   InstrErrReentrancyNotAllowed,
	InstrErrCodeMaxSeedLengthExceeded:                  InstrErrMaxSeedLengthExceeded,
	InstrErrCodeInvalidSeeds:                           InstrErrInvalidSeeds,
	InstrErrCodeInvalidRealloc:                         InstrErrInvalidRealloc,
	InstrErrCodeComputationalBudgetExceeded:            InstrErrComputationalBudgetExceeded,
	InstrErrCodePrivilegeEscalation:                    InstrErrPrivilegeEscalation,
	InstrErrCodeProgramEnvironmentSetupFailure:         InstrErrProgramEnvironmentSetupFailure,
	InstrErrCodeProgramFailedToComplete:                InstrErrProgramFailedToComplete,
	InstrErrCodeProgramFailedToCompile:                 InstrErrProgramFailedToCompile,
	InstrErrCodeImmutable:                              InstrErrImmutable,
	InstrErrCodeIncorrectAuthority:                     InstrErrIncorrectAuthority,
	InstrErrCodeAccountNotRentExempt:                   InstrErrAccountNotRentExempt,
	InstrErrCodeInvalidAccountOwner:                    InstrErrInvalidAccountOwner,
	InstrErrCodeArithmeticOverflow:                     InstrErrArithmeticOverflow,
	InstrErrCodeUnsupportedSysvar:                      InstrErrUnsupportedSysvar,
	InstrErrCodeIllegalOwner:                           InstrErrIllegalOwner,
	InstrErrCodeMaxAccountsDataAllocationsExceeded:     InstrErrMaxAccountsDataAllocationsExceeded,
	InstrErrCodeMaxAccountsExceeded:                    InstrErrMaxAccountsExceeded,
	InstrErrCodeMaxInstructionTraceLengthExceeded:      InstrErrMaxInstructionTraceLengthExceeded,
	InstrErrCodeBuiltinProgramsMustConsumeComputeUnits: InstrErrBuiltinProgramsMustConsumeComputeUnits,
}

// InstrErrCode returns the numeric code of an instruction error, or
// (0, false) when err is not one.
func InstrErrCode(err error) (int, bool) {
	if err == nil {
		return InstrErrCodeSuccess, true
	}

	var custom CustomErr
	if errors.As(err, &custom) {
		return InstrErrCodeCustom, true
	}
	var borshIo BorshIoErr
	if errors.As(err, &borshIo) {
		return InstrErrCodeBorshIoError, true
	}

	for code, sentinel := range instrErrsByCode {
		if sentinel != nil && errors.Is(err, sentinel) {
			return code, true
		}
	}
	return 0, false
}

func IsInstructionError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := InstrErrCode(err)
	return ok
}

// InstrErrFromCode returns the sentinel for a code. Payload carrying codes
// are rebuilt with empty payloads.
func InstrErrFromCode(code int) error {
	switch code {
	case InstrErrCodeSuccess:
		return nil
	case InstrErrCodeCustom:
		return CustomErr{}
	case InstrErrCodeBorshIoError:
		return BorshIoErr{}
	}
	if code < 0 || code >= len(instrErrsByCode) {
		return InstrErrInvalidError
	}
	return instrErrsByCode[code]
}

// AllInstructionErrors enumerates one value of every instruction error kind.
func AllInstructionErrors() []error {
	errs := make([]error, 0, len(instrErrsByCode))
	for code := InstrErrCodeGenericError; code < len(instrErrsByCode); code++ {
		errs = append(errs, InstrErrFromCode(code))
	}
	return errs
}
