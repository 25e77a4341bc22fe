// Package kernel builds the OpenCL kernel source handed to the device: a
// fixed keccak256 template (template.go) preceded by a block of #define
// macros generated per run from a createx.Config (this file). Specializing
// the search (which address variant, which salt layout, which predicate)
// into preprocessor macros lets the keccak core stay branch-free on the
// device.
package kernel

import (
	"fmt"
	"strings"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

// Specialize renders the #define block for cfg and prepends it to the
// embedded keccak256 kernel template. The macro layout mirrors the
// reference miner's kernel generator byte-for-byte:
//
//   - GENERATE_SEED() selects one of four salt-assembly routines based on
//     whether a caller and/or chain id is present, matching
//     createx.DeriveSaltVariant.
//   - LEADING_ZEROES / TOTAL_ZEROES / PATTERN() / SUCCESS_CONDITION()
//     encode the mined reward so the device can early-exit a miss without
//     a host round trip.
//   - CREATE3() is emitted empty for a CREATE2 search and as a call to the
//     proxy-deployment routine for CREATE3.
//   - S1_12..S1_31 hold the 20 caller bytes, S1_32..S1_63 hold all 32
//     bytes of the zero-extended, big-endian chain id (only the low 8 are
//     ever non-zero, since a chain id is accepted as a uint64 on the
//     host). These bytes are emitted unconditionally; GENERATE_SEED()
//     decides whether the kernel reads the caller bytes (SENDER and
//     SENDER_XCHAIN do), and no seed routine reads the chain-id bytes.
//   - S2_1..S2_20 hold the 20 factory bytes. S2_53..S2_84 hold the 32
//     init-code-hash bytes (either the caller-supplied CREATE2 hash or
//     createx.ProxyChildCodeHash for CREATE3). The S2_21..S2_52 gap is
//     inherited from the reference generator and left unused.
func Specialize(cfg createx.Config) string {
	var b strings.Builder

	writeSeedSelector(&b, cfg)
	writeRewardMacros(&b, cfg.Reward)
	initCodeHash := writeVariantMacro(&b, cfg)
	writeS1Macros(&b, cfg)
	writeS2Macros(&b, cfg, initCodeHash)

	b.WriteString(KeccakTemplate)
	return b.String()
}

func writeSeedSelector(b *strings.Builder, cfg createx.Config) {
	hasCaller := cfg.Caller != [20]byte{}
	hasChain := cfg.ChainID != nil

	switch {
	case hasChain && hasCaller:
		fmt.Fprintln(b, "#define GENERATE_SEED() SENDER_XCHAIN(salt, mined)")
	case !hasChain && hasCaller:
		fmt.Fprintln(b, "#define GENERATE_SEED() SENDER(salt, mined)")
	case hasChain && !hasCaller:
		fmt.Fprintln(b, "#define GENERATE_SEED() XCHAIN(salt, mined)")
	default:
		fmt.Fprintln(b, "#define GENERATE_SEED() RANDOM(salt, mined)")
	}
}

func writeRewardMacros(b *strings.Builder, r createx.Reward) {
	switch r.Kind {
	case createx.RewardLeadingZeros:
		fmt.Fprintf(b, "#define LEADING_ZEROES %du\n", r.Leading)
		fmt.Fprintln(b, "#define TOTAL_ZEROES 0u")
		fmt.Fprintln(b, "#define SUCCESS_CONDITION() hasLeading(digest)")
	case createx.RewardTotalZeros:
		fmt.Fprintln(b, "#define LEADING_ZEROES 0u")
		fmt.Fprintf(b, "#define TOTAL_ZEROES %du\n", r.Total)
		fmt.Fprintln(b, "#define SUCCESS_CONDITION() hasTotal(digest)")
	case createx.RewardLeadingAndTotalZeros:
		fmt.Fprintf(b, "#define LEADING_ZEROES %du\n", r.Leading)
		fmt.Fprintf(b, "#define TOTAL_ZEROES %du\n", r.Total)
		fmt.Fprintln(b, "#define SUCCESS_CONDITION() (hasLeading(digest) && hasTotal(digest))")
	case createx.RewardLeadingOrTotalZeros:
		fmt.Fprintf(b, "#define LEADING_ZEROES %du\n", r.Leading)
		fmt.Fprintf(b, "#define TOTAL_ZEROES %du\n", r.Total)
		fmt.Fprintln(b, "#define SUCCESS_CONDITION() (hasLeading(digest) || hasTotal(digest))")
	case createx.RewardMatching:
		fmt.Fprintln(b, "#define LEADING_ZEROES 0u")
		fmt.Fprintln(b, "#define TOTAL_ZEROES 0u")
		fmt.Fprintf(b, "#define PATTERN() \"%s\"\n", r.Pattern)
		fmt.Fprintln(b, "#define SUCCESS_CONDITION() isMatching(digest)")
	}
}

// writeVariantMacro emits CREATE3() and returns the 32-byte hash that feeds
// the CREATE2 preimage: the caller's init code hash for a CREATE2 search, or
// createx.ProxyChildCodeHash for a CREATE3 search (whose address is really
// the CREATE2 address of CreateX's minimal proxy).
func writeVariantMacro(b *strings.Builder, cfg createx.Config) [32]byte {
	if cfg.Variant == createx.VariantCreate3 {
		fmt.Fprintln(b, "#define CREATE3() run_create3(addr)")
		return createx.ProxyChildCodeHash
	}
	fmt.Fprintln(b, "#define CREATE3()")
	return cfg.InitCodeHash
}

func writeS1Macros(b *strings.Builder, cfg createx.Config) {
	for i, x := range cfg.Caller {
		fmt.Fprintf(b, "#define S1_%d %du\n", i+12, x)
	}
	chainID := cfg.ChainIDBytes32()
	for i, x := range chainID {
		fmt.Fprintf(b, "#define S1_%d %du\n", i+32, x)
	}
}

func writeS2Macros(b *strings.Builder, cfg createx.Config, initCodeHash [32]byte) {
	for i, x := range cfg.Factory {
		fmt.Fprintf(b, "#define S2_%d %du\n", i+1, x)
	}
	for i, x := range initCodeHash {
		fmt.Fprintf(b, "#define S2_%d %du\n", i+53, x)
	}
}
