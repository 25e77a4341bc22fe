package config

import (
	"testing"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

func u8(v uint8) *uint8 { return &v }
func u64(v uint64) *uint64 { return &v }

func TestValidateDefaults(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Leading: u8(4),
		Output:  "output.txt",
	}
	cfg, err := a.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Variant != createx.VariantCreate3 {
		t.Errorf("expected Create3 when no code hash given")
	}
	if cfg.Reward.Kind != createx.RewardLeadingZeros || cfg.Reward.Leading != 4 {
		t.Errorf("unexpected reward: %+v", cfg.Reward)
	}
}

func TestValidateBadChecksum(t *testing.T) {
	a := CLIArgs{
		Factory: "0xBA5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed", // wrong case
		Leading: u8(4),
	}
	if _, err := a.Validate(); err == nil {
		t.Fatalf("expected checksum validation error")
	}
}

func TestValidateGoodChecksumLowercaseAccepted(t *testing.T) {
	a := CLIArgs{
		Factory: "ba5ed099633d3b313e4d5f7bdc1305d3c28ba5ed", // all lowercase, no 0x
		Total:   u8(3),
	}
	if _, err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestThresholdBoundaries(t *testing.T) {
	for _, k := range []uint8{1, 19} {
		a := CLIArgs{Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed", Leading: u8(k)}
		if _, err := a.Validate(); err != nil {
			t.Errorf("threshold %d should be valid: %v", k, err)
		}
	}
	for _, k := range []uint8{0, 20} {
		a := CLIArgs{Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed", Leading: u8(k)}
		if _, err := a.Validate(); err == nil {
			t.Errorf("threshold %d should be invalid", k)
		}
	}
}

func TestMatchingMustBeExclusive(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Leading: u8(4),
		Pattern: "bbX0000000000000000000000000000000000ba",
	}
	if _, err := a.Validate(); err == nil {
		t.Fatalf("expected mutual exclusivity error")
	}
}

func TestPatternLengthAndCharset(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Pattern: "tooShort",
	}
	if _, err := a.Validate(); err == nil {
		t.Fatalf("expected length error")
	}

	a.Pattern = "ZZ00000000000000000000000000000000000000"
	if _, err := a.Validate(); err == nil {
		t.Fatalf("expected charset error")
	}
}

func TestEitherRequiresBoth(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Leading: u8(4),
		Either:  true,
	}
	if _, err := a.Validate(); err == nil {
		t.Fatalf("expected --either to require both --leading and --total")
	}
}

func TestEitherCombination(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Leading: u8(4),
		Total:   u8(5),
		Either:  true,
	}
	cfg, err := a.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Reward.Kind != createx.RewardLeadingOrTotalZeros {
		t.Errorf("expected OR reward, got %v", cfg.Reward.Kind)
	}
}

func TestCodeHashSelectsCreate2(t *testing.T) {
	a := CLIArgs{
		Factory:      "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Leading:      u8(4),
		InitCodeHash: "0x" + "11" + "00000000000000000000000000000000000000000000000000000000000000",
	}
	cfg, err := a.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Variant != createx.VariantCreate2 {
		t.Errorf("expected Create2 variant")
	}
}

func TestCallerZeroCollapsesToNonSender(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		Caller:  "0x0000000000000000000000000000000000000000",
		Leading: u8(4),
	}
	cfg, err := a.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaltVariant() != createx.SaltRandom {
		t.Errorf("expected zero caller to collapse to Random salt variant, got %v", cfg.SaltVariant())
	}
}

func TestChainIDPropagation(t *testing.T) {
	a := CLIArgs{
		Factory: "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed",
		ChainID: u64(137),
		Leading: u8(4),
	}
	cfg, err := a.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SaltVariant() != createx.SaltCrosschain {
		t.Errorf("expected Crosschain salt variant, got %v", cfg.SaltVariant())
	}
	b32 := cfg.ChainIDBytes32()
	if b32[31] != 137 {
		t.Errorf("expected chain id 137 in low byte, got %v", b32)
	}
}
