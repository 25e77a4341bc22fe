package mining

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/jihwankim/createx-miner/pkg/createx"
	"github.com/jihwankim/createx-miner/pkg/device"
	"github.com/jihwankim/createx-miner/pkg/sink"
)

// scriptedDevice satisfies device.Device and returns a miss on every
// dispatch until hitAfter dispatches have happened, and from then on returns
// the same fixed winning batch on every dispatch.
type scriptedDevice struct {
	hitAfter  int
	dispatch  int
	solutions [4]uint64
}

func (d *scriptedDevice) NewBatch(ctx context.Context, message [4]byte, nonceBase uint64) error {
	return nil
}

func (d *scriptedDevice) SetNonce(ctx context.Context, nonce uint64) error {
	return nil
}

func (d *scriptedDevice) Dispatch(ctx context.Context, workSize uint32) (device.Batch, error) {
	d.dispatch++
	if d.dispatch < d.hitAfter {
		return device.Batch{}, nil
	}
	return device.Batch{Solutions: d.solutions}, nil
}

func (d *scriptedDevice) Close() error { return nil }

func TestLoopPersistsFirstFindAndStops(t *testing.T) {
	cfg := createx.Config{
		Factory: [20]byte{0xba},
		Variant: createx.VariantCreate3,
		Reward:  createx.Reward{Kind: createx.RewardLeadingZeros, Leading: 1},
	}

	dev := &scriptedDevice{
		hitAfter:  3,
		solutions: [4]uint64{0x01, 0x1122334455667788, 0x99aabbccddeeff00, 0x12345678},
	}

	path := filepath.Join(t.TempDir(), "output.txt")
	s, err := sink.Open(path)
	if err != nil {
		t.Fatalf("sink.Open: %v", err)
	}
	defer s.Close()

	loop := New(cfg, dev, s, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// The scripted device returns a find after a handful of dispatches; give
	// the loop a moment to reach it, then cancel to stop the outer loop
	// (which would otherwise run forever per spec.md §4.4).
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "=>") {
		t.Errorf("expected at least one persisted find, got %q", string(data))
	}
}

func TestComputeRateZeroElapsed(t *testing.T) {
	if rate := computeRate(uint256.NewInt(1000), WorkSize, 0); rate != 0 {
		t.Errorf("expected 0 rate for zero elapsed, got %f", rate)
	}
}

func TestFormatDuration(t *testing.T) {
	d := 2*time.Hour + 3*time.Minute + 4*time.Second
	if got := formatDuration(d); got != "2:03:04" {
		t.Errorf("got %s, want 2:03:04", got)
	}
}

func TestSeparated(t *testing.T) {
	if got := separated(1234567); got != "1,234,567" {
		t.Errorf("got %s, want 1,234,567", got)
	}
	if got := separated(42); got != "42" {
		t.Errorf("got %s, want 42", got)
	}
}
