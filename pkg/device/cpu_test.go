//go:build !opencl

package device

import (
	"context"
	"testing"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

func TestCPUDeviceReproducesHostReference(t *testing.T) {
	cfg := createx.Config{
		Factory: factoryAddr(t),
		Variant: createx.VariantCreate3,
		Reward:  createx.Reward{Kind: createx.RewardLeadingZeros, Leading: 1},
	}

	dev, err := Open(0, cfg, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	ctx := context.Background()
	if err := dev.NewBatch(ctx, [4]byte{}, 0); err != nil {
		t.Fatalf("NewBatch: %v", err)
	}

	// nonce 61 is the scenario from spec.md §8 that satisfies
	// LeadingZeros(1) for this exact factory/message pair.
	if err := dev.SetNonce(ctx, 61); err != nil {
		t.Fatalf("SetNonce: %v", err)
	}

	batch, err := dev.Dispatch(ctx, 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !batch.Found() {
		t.Fatalf("expected a solution at nonce 61, got none")
	}

	addr := addrFromBatch(batch)
	want := "00945498be46467fee556bf2f2f3dcfbd1a6765a"
	if got := hexAddr(addr); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCPUDeviceMissReportsNoSolution(t *testing.T) {
	cfg := createx.Config{
		Factory: factoryAddr(t),
		Variant: createx.VariantCreate3,
		Reward:  createx.Reward{Kind: createx.RewardLeadingZeros, Leading: 10},
	}
	dev, err := Open(0, cfg, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	ctx := context.Background()
	if err := dev.NewBatch(ctx, [4]byte{}, 0); err != nil {
		t.Fatalf("NewBatch: %v", err)
	}
	batch, err := dev.Dispatch(ctx, 16)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if batch.Found() {
		t.Errorf("did not expect a 10-leading-zero match in such a small batch")
	}
}

func factoryAddr(t *testing.T) [20]byte {
	t.Helper()
	var out [20]byte
	b := []byte{0xba, 0x5e, 0xd0, 0x99, 0x63, 0x3d, 0x3b, 0x31, 0x3e, 0x4d, 0x5f, 0x7b, 0xdc, 0x13, 0x05, 0xd3, 0xc2, 0x8b, 0xa5, 0xed}
	copy(out[:], b)
	return out
}

func addrFromBatch(b Batch) [20]byte {
	var addr [20]byte
	for i := 0; i < 8; i++ {
		addr[i] = byte(b.Solutions[1] >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		addr[8+i] = byte(b.Solutions[2] >> (8 * i))
	}
	for i := 0; i < 4; i++ {
		addr[16+i] = byte(b.Solutions[3] >> (8 * i))
	}
	return addr
}

func hexAddr(addr [20]byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 40)
	for i, b := range addr {
		out[2*i] = hexdigits[b>>4]
		out[2*i+1] = hexdigits[b&0xf]
	}
	return string(out)
}
