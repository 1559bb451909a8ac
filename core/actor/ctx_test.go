package actor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCtx_SendIsolationViolationTerminatesActor checks that an actor whose
// Send payload can't be isolated (a bare channel has no JSON representation)
// doesn't just get an error back: the violation is fatal for the caller,
// unwinding the behavior and terminating the actor the same way a
// panicking behavior would, with the exit reason recorded in diagnostics.
func TestCtx_SendIsolationViolationTerminatesActor(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	victim, err := pool.Hatch(func(ctx Ctx) {
		_ = ctx.Send(System, make(chan int))
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		reason, ok := pool.TerminatedReason(victim)
		return ok && strings.Contains(reason, "isolation violation")
	}, 2*time.Second, 5*time.Millisecond)
}

// TestCtx_PoolSendIsolationViolationReturnsError checks that an isolation
// violation on a Pool.Send called from outside any actor (there is no
// caller to terminate) surfaces as a plain error rather than a panic.
func TestCtx_PoolSendIsolationViolationReturnsError(t *testing.T) {
	pool := newTestPool(2)
	defer pool.Shutdown()

	parked, err := pool.Hatch(func(ctx Ctx) {
		ctx.Park()
	})
	require.NoError(t, err)

	err = pool.Send(parked, make(chan int))
	require.True(t, errors.Is(err, ErrIsolationViolation))
}
