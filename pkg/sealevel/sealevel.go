// Package sealevel models the parts of the Solana runtime that native
// programs observe: transaction and instruction contexts, borrow checked
// accounts, instruction errors, builtin dispatch and the stable log format.
package sealevel

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

type Logger interface {
	Log(s string)
}

// LogRecorder is a Logger that keeps every line in memory.
type LogRecorder struct {
	Logs []string
}

func (r *LogRecorder) Log(s string) {
	r.Logs = append(r.Logs, s)
}

func (r *LogRecorder) String() string {
	return strings.Join(r.Logs, "\n")
}

func logf(log Logger, format string, args ...any) {
	if log == nil {
		return
	}
	log.Log(fmt.Sprintf(format, args...))
}

func LogProgramInvoke(log Logger, programId solana.PublicKey, height uint64) {
	logf(log, "Program %s invoke [%d]", programId, height)
}

func LogProgramLog(log Logger, message string) {
	logf(log, "Program log: %s", message)
}

func LogProgramData(log Logger, data [][]byte) {
	encoded := make([]string, len(data))
	for i, field := range data {
		encoded[i] = base64.StdEncoding.EncodeToString(field)
	}
	logf(log, "Program data: %s", strings.Join(encoded, " "))
}

func LogProgramConsumed(log Logger, programId solana.PublicKey, consumed uint64, limit uint64) {
	logf(log, "Program %s consumed %d of %d compute units", programId, consumed, limit)
}

func LogProgramReturn(log Logger, programId solana.PublicKey, data []byte) {
	logf(log, "Program return: %s %s", programId, base64.StdEncoding.EncodeToString(data))
}

func LogProgramSuccess(log Logger, programId solana.PublicKey) {
	logf(log, "Program %s success", programId)
}

func LogProgramFailure(log Logger, programId solana.PublicKey, err error) {
	logf(log, "Program %s failed: %s", programId, err)
}

func LogProgramConsumption(log Logger, remaining uint64) {
	logf(log, "Program consumption: %d units remaining", remaining)
}
