package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jihwankim/createx-miner/pkg/createx"
)

// CLIArgs mirrors the flags shared by the create2 and create3 subcommands
// (spec.md §6). It is the untyped, string-valued input; Validate turns it
// into a createx.Config.
type CLIArgs struct {
	Factory     string
	GPUDeviceID *int // nil means "not set on the command line"
	Caller      string
	ChainID     *uint64
	Leading     *uint8
	Total       *uint8
	Either      bool
	Pattern     string
	Output      string
	InitCodeHash string // create2 only; empty selects create3
}

// Validate performs every check in spec.md §4.5 and returns a fully
// populated createx.Config, or a validation error. No GPU work happens
// before this succeeds.
func (a CLIArgs) Validate() (createx.Config, error) {
	var cfg createx.Config

	factory, err := decodeAddress(a.Factory, "factory")
	if err != nil {
		return cfg, err
	}
	cfg.Factory = factory

	if a.Caller != "" {
		caller, err := decodeAddress(a.Caller, "caller")
		if err != nil {
			return cfg, err
		}
		cfg.Caller = caller
	}

	cfg.ChainID = a.ChainID
	if a.GPUDeviceID != nil {
		cfg.GPUDeviceID = *a.GPUDeviceID
	}
	cfg.Output = a.Output
	if cfg.Output == "" {
		cfg.Output = "output.txt"
	}

	reward, err := a.validateReward()
	if err != nil {
		return cfg, err
	}
	cfg.Reward = reward

	if a.InitCodeHash != "" {
		hash, err := decodeFixed(a.InitCodeHash, 32, "code-hash")
		if err != nil {
			return cfg, err
		}
		cfg.Variant = createx.VariantCreate2
		copy(cfg.InitCodeHash[:], hash)
	} else {
		cfg.Variant = createx.VariantCreate3
	}

	return cfg, nil
}

func (a CLIArgs) validateReward() (createx.Reward, error) {
	hasLeading := a.Leading != nil
	hasTotal := a.Total != nil
	hasPattern := a.Pattern != ""

	switch {
	case hasPattern && (hasLeading || hasTotal):
		return createx.Reward{}, fmt.Errorf("--matching cannot be combined with --leading or --total")
	case hasPattern:
		pattern := strings.TrimPrefix(a.Pattern, "0x")
		if len(pattern) != 40 {
			return createx.Reward{}, fmt.Errorf("matching pattern must be 40 characters long, got %d", len(pattern))
		}
		for _, c := range pattern {
			if c == 'X' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
				continue
			}
			return createx.Reward{}, fmt.Errorf("matching pattern must only contain lowercase hex digits or 'X', found %q", c)
		}
		return createx.Reward{Kind: createx.RewardMatching, Pattern: pattern}, nil
	case hasLeading && hasTotal:
		if err := validateThreshold(*a.Leading, "leading"); err != nil {
			return createx.Reward{}, err
		}
		if err := validateThreshold(*a.Total, "total"); err != nil {
			return createx.Reward{}, err
		}
		kind := createx.RewardLeadingAndTotalZeros
		if a.Either {
			kind = createx.RewardLeadingOrTotalZeros
		}
		return createx.Reward{Kind: kind, Leading: *a.Leading, Total: *a.Total}, nil
	case hasLeading:
		if a.Either {
			return createx.Reward{}, fmt.Errorf("--either requires both --leading and --total")
		}
		if err := validateThreshold(*a.Leading, "leading"); err != nil {
			return createx.Reward{}, err
		}
		return createx.Reward{Kind: createx.RewardLeadingZeros, Leading: *a.Leading}, nil
	case hasTotal:
		if a.Either {
			return createx.Reward{}, fmt.Errorf("--either requires both --leading and --total")
		}
		if err := validateThreshold(*a.Total, "total"); err != nil {
			return createx.Reward{}, err
		}
		return createx.Reward{Kind: createx.RewardTotalZeros, Total: *a.Total}, nil
	default:
		return createx.Reward{}, fmt.Errorf("exactly one of --leading, --total, or --matching is required")
	}
}

func validateThreshold(k uint8, name string) error {
	if k < 1 || k >= 20 {
		return fmt.Errorf("%s threshold must be in [1,20), got %d", name, k)
	}
	return nil
}

// decodeAddress decodes a 20-byte address, tolerating a missing 0x prefix
// and validating the EIP-55 checksum whenever the input contains an
// uppercase character, per spec.md §4.5. EIP-55 is only defined for
// addresses, so the checksum check lives here rather than in decodeFixed.
func decodeAddress(s string, field string) ([20]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hasUppercase(trimmed) {
		if err := verifyChecksum(trimmed); err != nil {
			return [20]byte{}, fmt.Errorf("%s: %w", field, err)
		}
	}

	b, err := decodeFixed(s, 20, field)
	if err != nil {
		return [20]byte{}, err
	}
	var out [20]byte
	copy(out[:], b)
	return out, nil
}

// decodeFixed strictly decodes s (optionally 0x-prefixed) into exactly n
// bytes.
func decodeFixed(s string, n int, field string) ([]byte, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	trimmed = strings.TrimPrefix(trimmed, "0X")

	b, err := hex.DecodeString(strings.ToLower(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex: %w", field, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("%s: expected %d bytes, got %d", field, n, len(b))
	}
	return b, nil
}

func hasUppercase(s string) bool {
	for _, c := range s {
		if c >= 'A' && c <= 'F' {
			return true
		}
	}
	return false
}

// verifyChecksum implements EIP-55: the keccak256 hash of the lowercase hex
// string determines, nibble by nibble, which hex-letter characters of the
// original string must be uppercase.
func verifyChecksum(mixedCase string) error {
	lower := strings.ToLower(mixedCase)
	hash := crypto.Keccak256([]byte(lower))
	hashHex := hex.EncodeToString(hash)

	var want strings.Builder
	for i, c := range lower {
		if c < 'a' || c > 'f' {
			want.WriteByte(byte(c))
			continue
		}
		if hashHex[i] >= '8' {
			want.WriteByte(byte(c - 32))
		} else {
			want.WriteByte(byte(c))
		}
	}
	if want.String() != mixedCase {
		return fmt.Errorf("invalid EIP-55 checksum, expected %s", want.String())
	}
	return nil
}
