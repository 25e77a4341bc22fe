package kernel

import (
	"strings"
	"testing"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

func TestSpecializeRandomCreate3(t *testing.T) {
	cfg := createx.Config{
		Factory: [20]byte{0xba},
		Variant: createx.VariantCreate3,
		Reward:  createx.Reward{Kind: createx.RewardLeadingZeros, Leading: 4},
	}
	src := Specialize(cfg)

	if !strings.Contains(src, "#define GENERATE_SEED() RANDOM(salt, mined)") {
		t.Errorf("expected RANDOM seed selector, got:\n%s", firstLines(src, 10))
	}
	if !strings.Contains(src, "#define LEADING_ZEROES 4u") {
		t.Errorf("expected leading zeroes macro")
	}
	if !strings.Contains(src, "#define SUCCESS_CONDITION() hasLeading(digest)") {
		t.Errorf("expected leading success condition")
	}
	if !strings.Contains(src, "#define CREATE3() run_create3(addr)") {
		t.Errorf("expected CREATE3 macro to invoke run_create3 for a CREATE3 search")
	}
	if !strings.HasSuffix(src, KeccakTemplate) {
		t.Errorf("expected specialized source to end with the embedded kernel template")
	}
}

func TestSpecializeSenderXChainCreate2(t *testing.T) {
	chainID := uint64(137)
	cfg := createx.Config{
		Factory: [20]byte{0xba},
		Caller:  [20]byte{0x01, 0x02, 0x03},
		ChainID: &chainID,
		Variant: createx.VariantCreate2,
		Reward:  createx.Reward{Kind: createx.RewardMatching, Pattern: strings.Repeat("X", 40)},
	}
	src := Specialize(cfg)

	if !strings.Contains(src, "#define GENERATE_SEED() SENDER_XCHAIN(salt, mined)") {
		t.Errorf("expected SENDER_XCHAIN seed selector")
	}
	if !strings.Contains(src, "#define CREATE3()\n") {
		t.Errorf("expected CREATE3 macro to be empty for a CREATE2 search")
	}
	if !strings.Contains(src, "#define S1_12 1u") {
		t.Errorf("expected caller byte 0 at S1_12")
	}
	if !strings.Contains(src, "#define S1_13 2u") {
		t.Errorf("expected caller byte 1 at S1_13")
	}
	// chain id 137 big-endian in a 32-byte field: low byte (index 31) is
	// S1_{31+32} = S1_63.
	if !strings.Contains(src, "#define S1_63 137u") {
		t.Errorf("expected chain id low byte at S1_63")
	}
	if !strings.Contains(src, "#define S2_1 186u") { // 0xba == 186
		t.Errorf("expected factory byte 0 at S2_1")
	}
}

func TestSpecializeEitherReward(t *testing.T) {
	cfg := createx.Config{
		Factory: [20]byte{0xba},
		Variant: createx.VariantCreate3,
		Reward:  createx.Reward{Kind: createx.RewardLeadingOrTotalZeros, Leading: 2, Total: 5},
	}
	src := Specialize(cfg)
	if !strings.Contains(src, "(hasLeading(digest) || hasTotal(digest))") {
		t.Errorf("expected OR success condition")
	}
}

func firstLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
