package mining

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// withSignalCancellation returns a context that is canceled the first time
// the process receives SIGINT or SIGTERM, and a stop function the caller
// must invoke once signal handling is no longer needed. Adapted from the
// teacher's pkg/emergency.Controller.watchSignals, which wired the same two
// signals into a callback-driven stop controller; the mining loop only ever
// needs the single cancellation edge, so this collapses that into a plain
// context.
func withSignalCancellation(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
		}
	}()

	stop := func() {
		close(done)
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
