package progtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/progtest/pkg/sealevel"
)

func TestInvokeContext_InstallRestore(t *testing.T) {
	_, err := currentInvokeContext()
	require.ErrorIs(t, err, ErrNoActiveContext)

	outer, inner := &sealevel.ExecutionCtx{}, &sealevel.ExecutionCtx{}

	restoreOuter := installInvokeContext(outer)
	current, err := currentInvokeContext()
	require.NoError(t, err)
	assert.Same(t, outer, current)

	restoreInner := installInvokeContext(inner)
	current, err = currentInvokeContext()
	require.NoError(t, err)
	assert.Same(t, inner, current)

	restoreInner()
	current, err = currentInvokeContext()
	require.NoError(t, err)
	assert.Same(t, outer, current)

	restoreOuter()
	_, err = currentInvokeContext()
	assert.ErrorIs(t, err, ErrNoActiveContext)
}
