// Package createx implements the address-derivation model, predicate set,
// and salt assembly rules for the CreateX CREATE2/CREATE3 factory family.
//
// This package is the host-side reference implementation: a GPU-reported
// solution can be re-evaluated here against the configured predicate (the
// mining loop does not do so itself), and it is what
// this repository's tests exercise directly, since no OpenCL device is
// assumed present in CI.
package createx

import "fmt"

// CreateVariant selects the factory entry point used to derive an address.
type CreateVariant int

const (
	// VariantCreate2 derives the address directly from an init-code hash.
	VariantCreate2 CreateVariant = iota
	// VariantCreate3 derives the address via the factory's deterministic proxy.
	VariantCreate3
)

func (v CreateVariant) String() string {
	if v == VariantCreate3 {
		return "Create3"
	}
	return "Create2"
}

// SaltVariant selects which binding(s) are folded into the guarded salt's
// flag byte. It is derived from caller/chain-id presence, never set
// directly: see DeriveSaltVariant.
type SaltVariant int

const (
	// SaltRandom is chosen when neither a caller nor a chain-id binding is present.
	SaltRandom SaltVariant = iota
	// SaltSender is chosen when only a caller binding is present.
	SaltSender
	// SaltCrosschain is chosen when only a chain-id binding is present.
	SaltCrosschain
	// SaltCrosschainSender is chosen when both bindings are present.
	SaltCrosschainSender
)

func (v SaltVariant) String() string {
	switch v {
	case SaltSender:
		return "Sender"
	case SaltCrosschain:
		return "Crosschain"
	case SaltCrosschainSender:
		return "CrosschainSender"
	default:
		return "Random"
	}
}

// DeriveSaltVariant implements spec.md §3's salt-variant selection rule.
// The all-zero address is treated as "caller absent" even if the caller
// field was nominally supplied.
func DeriveSaltVariant(caller [20]byte, chainID *uint64) SaltVariant {
	hasCaller := caller != [20]byte{}
	hasChain := chainID != nil
	switch {
	case hasCaller && hasChain:
		return SaltCrosschainSender
	case hasChain:
		return SaltCrosschain
	case hasCaller:
		return SaltSender
	default:
		return SaltRandom
	}
}

// RewardKind selects the structural predicate a mined address must satisfy.
type RewardKind int

const (
	RewardLeadingZeros RewardKind = iota
	RewardTotalZeros
	RewardLeadingAndTotalZeros
	RewardLeadingOrTotalZeros
	RewardMatching
)

// Reward is the tagged union described in spec.md §3's "Reward variant".
type Reward struct {
	Kind      RewardKind
	Leading   uint8  // k / kL, valid range [1,20)
	Total     uint8  // kT, valid range [1,20)
	Pattern   string // 40 lowercase-hex-or-'X' characters, RewardMatching only
}

// Describe renders a short human-readable predicate description, used in
// the mining loop's progress display (spec.md §4.4).
func (r Reward) Describe() string {
	switch r.Kind {
	case RewardLeadingZeros:
		return fmt.Sprintf("with %d leading zeros", r.Leading)
	case RewardTotalZeros:
		return fmt.Sprintf("with %d total zeros", r.Total)
	case RewardLeadingAndTotalZeros:
		return fmt.Sprintf("with %d leading and %d total zeros", r.Leading, r.Total)
	case RewardLeadingOrTotalZeros:
		return fmt.Sprintf("with %d leading or %d total zeros", r.Leading, r.Total)
	case RewardMatching:
		return fmt.Sprintf("matching pattern %s", r.Pattern)
	default:
		return "unknown reward"
	}
}

// Config is the fully validated descriptor that parameterizes every other
// component: the specializer, the mining loop, and the sink.
type Config struct {
	Factory      [20]byte
	Caller       [20]byte // all-zero means "absent"
	ChainID      *uint64  // nil means "absent"
	Variant      CreateVariant
	InitCodeHash [32]byte // only meaningful when Variant == VariantCreate2
	Reward       Reward

	GPUDeviceID int
	Output      string
}

// SaltVariant reports which of the four salt-construction cases applies.
func (c Config) SaltVariant() SaltVariant {
	return DeriveSaltVariant(c.Caller, c.ChainID)
}

// ChainIDBytes32 renders the chain-id binding as 32 bytes big-endian, high
// 24 bytes zero, per spec.md §3. Returns the zero value when absent.
func (c Config) ChainIDBytes32() [32]byte {
	var out [32]byte
	if c.ChainID == nil {
		return out
	}
	v := *c.ChainID
	for i := 0; i < 8; i++ {
		out[31-i] = byte(v >> (8 * i))
	}
	return out
}

// ProxyChildCodeHash is the fixed code hash of the contract CreateX's
// deterministic CREATE3 proxy always deploys, per spec.md §4.1.
var ProxyChildCodeHash = [32]byte{
	0x21, 0xc3, 0x5d, 0xbe, 0x1b, 0x34, 0x4a, 0x24, 0x88, 0xcf, 0x33, 0x21,
	0xd6, 0xce, 0x54, 0x2f, 0x8e, 0x9f, 0x30, 0x55, 0x44, 0xff, 0x09, 0xe4,
	0x99, 0x3a, 0x62, 0x31, 0x9a, 0x49, 0x7c, 0x1f,
}
