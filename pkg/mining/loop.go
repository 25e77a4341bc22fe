// Package mining drives the GPU (or CPU-fallback) search loop described in
// spec.md §4.4: an outer reseed loop around an inner batch-dispatch loop,
// with an adaptive sleep, a terminal progress view, and append-only output
// persisted through pkg/sink.
package mining

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/jihwankim/createx-miner/pkg/createx"
	"github.com/jihwankim/createx-miner/pkg/device"
	"github.com/jihwankim/createx-miner/pkg/reporting"
	"github.com/jihwankim/createx-miner/pkg/sink"
)

// WorkSize is the default global work size per kernel dispatch: 2^26
// threads. Hard max is 0xFFFFFFFF; the practical max recommended upstream
// is 0x15400000. Tunable via Loop.WorkSize.
const WorkSize uint32 = 0x4000000

// Loop owns one device for the process lifetime and runs the outer/inner
// search until its context is canceled.
type Loop struct {
	Config   createx.Config
	Device   device.Device
	Sink     *sink.Sink
	WorkSize uint32

	// Metrics is optional; when set (cmd/createx-miner always wires it, and
	// starts the HTTP listener only when --metrics-addr is configured), Run
	// mirrors cumulative_nonce, finds,
	// and rate into it every cycle. Nil means no instrumentation.
	Metrics *reporting.Metrics

	rng *hostRNG
}

// New constructs a Loop. workSize defaults to WorkSize when 0.
func New(cfg createx.Config, dev device.Device, out *sink.Sink, workSize uint32) *Loop {
	if workSize == 0 {
		workSize = WorkSize
	}
	return &Loop{
		Config:   cfg,
		Device:   dev,
		Sink:     out,
		WorkSize: workSize,
		rng:      newHostRNG(),
	}
}

// Run blocks until ctx is canceled (ordinarily by SIGINT/SIGTERM via
// RunUntilSignal, or by a caller-supplied context in tests). It never
// returns a non-nil error on a clean cancellation; ctx.Err() communicates
// why it stopped.
func (l *Loop) Run(ctx context.Context) error {
	start := time.Now()
	prog := newProgress(l.Config, start)

	var (
		// cumulative_nonce is monotonic across the entire process lifetime
		// (spec.md §4.4) and never reset; uint256 rules out any realistic
		// overflow across a multi-day run at GPU batch rates.
		cumulativeNonce = uint256.NewInt(0)
		cycles          uint64
		foundCount      int
		batchDuration   time.Duration
	)

	for {
		if ctx.Err() != nil {
			return nil
		}

		message := l.rng.message()
		nonceBase := uint64(l.rng.nonceBase())

		if err := l.Device.NewBatch(ctx, message, nonceBase); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("mining: new batch: %w", err)
		}

		var batch device.Batch
		for {
			if batchDuration > 0 {
				sleepCancelable(ctx, time.Duration(float64(batchDuration)*0.98))
			}
			if ctx.Err() != nil {
				return nil
			}

			dispatchStart := time.Now()
			var err error
			batch, err = l.Device.Dispatch(ctx, l.WorkSize)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("mining: dispatch: %w", err)
			}
			batchDuration = time.Since(dispatchStart)

			cumulativeNonce.AddUint64(cumulativeNonce, 1)
			cycles++

			if l.Metrics != nil {
				l.Metrics.CumulativeNonce.Inc()
				l.Metrics.Rate.Set(computeRate(cumulativeNonce, l.WorkSize, time.Since(start)))
			}

			if batch.Found() {
				break
			}

			nonceBase++
			if err := l.Device.SetNonce(ctx, nonceBase); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("mining: set nonce: %w", err)
			}

			prog.Render(cumulativeNonce, l.WorkSize, cycles, foundCount, message, nonceBase, false)
		}

		mined := createx.NewMinedSalt(message, batch.Solutions[0])
		saltVariant := l.Config.SaltVariant()
		guardedSalt := createx.GuardedSalt(saltVariant, l.Config.Caller, mined)
		addr := addressFromSolutions(batch.Solutions)

		leading := createx.LeadingZeroCount(addr)
		total := createx.TotalZeroCount(addr)

		line := fmt.Sprintf("0x%s => 0x%s", hex.EncodeToString(guardedSalt[:]), hex.EncodeToString(addr[:]))
		if err := l.Sink.Append(line); err != nil {
			return fmt.Errorf("mining: sink append: %w", err)
		}
		foundCount++
		if l.Metrics != nil {
			l.Metrics.SolutionsFound.Inc()
		}

		if l.Config.Reward.Kind == createx.RewardMatching {
			prog.recordFound(hex.EncodeToString(guardedSalt[:]), hex.EncodeToString(addr[:]), -1, -1)
		} else {
			prog.recordFound(hex.EncodeToString(guardedSalt[:]), hex.EncodeToString(addr[:]), leading, total)
		}
		log.Info().
			Str("address", "0x"+hex.EncodeToString(addr[:])).
			Int("leading_zeros", leading).
			Int("total_zeros", total).
			Msg("found vanity address")

		prog.Render(cumulativeNonce, l.WorkSize, cycles, foundCount, message, nonceBase, true)
	}
}

// RunUntilSignal is the cmd/createx-miner entry point: it wraps Run with
// SIGINT/SIGTERM cancellation.
func (l *Loop) RunUntilSignal(ctx context.Context) error {
	ctx, stop := withSignalCancellation(ctx)
	defer stop()
	return l.Run(ctx)
}

func addressFromSolutions(solutions [4]uint64) [20]byte {
	var addr [20]byte
	for i := 0; i < 8; i++ {
		addr[i] = byte(solutions[1] >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		addr[8+i] = byte(solutions[2] >> (8 * i))
	}
	for i := 0; i < 4; i++ {
		addr[16+i] = byte(solutions[3] >> (8 * i))
	}
	return addr
}

// sleepCancelable sleeps for d, but wakes early if ctx is canceled.
func sleepCancelable(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
