package progtest

import (
	"errors"
	"sync/atomic"

	"go.firedancer.io/progtest/pkg/sealevel"
)

var ErrNoActiveContext = errors.New("no active invoke context")

// the invoke context of the innermost running program
var invokeContext atomic.Pointer[sealevel.ExecutionCtx]

// installInvokeContext makes execCtx current until the returned restore
// func is called.
func installInvokeContext(execCtx *sealevel.ExecutionCtx) (restore func()) {
	prev := invokeContext.Swap(execCtx)
	return func() {
		invokeContext.Store(prev)
	}
}

func currentInvokeContext() (*sealevel.ExecutionCtx, error) {
	execCtx := invokeContext.Load()
	if execCtx == nil {
		return nil, ErrNoActiveContext
	}
	return execCtx, nil
}
