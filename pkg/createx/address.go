package createx

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// ComputeAddress derives the 20-byte deployment address for cfg's variant
// from a 32-byte guarded salt, per spec.md §4.1. This is the host reference
// implementation a GPU-reported solution can be checked against; the CPU
// device uses it directly, and pkg/mining does not re-check solutions.
func ComputeAddress(cfg Config, guardedSalt [32]byte) [20]byte {
	switch cfg.Variant {
	case VariantCreate3:
		return create3Address(cfg.Factory, guardedSalt)
	default:
		return create2Address(cfg.Factory, guardedSalt, cfg.InitCodeHash)
	}
}

// create2Address implements address = keccak256(0xff ‖ factory ‖ salt ‖ hash)[12:32].
func create2Address(factory [20]byte, salt [32]byte, hash [32]byte) [20]byte {
	var preimage [85]byte
	preimage[0] = 0xff
	copy(preimage[1:21], factory[:])
	copy(preimage[21:53], salt[:])
	copy(preimage[53:85], hash[:])

	digest := crypto.Keccak256(preimage[:])
	var addr [20]byte
	copy(addr[:], digest[12:32])
	return addr
}

// create3Address implements spec.md §4.1's two-hash CREATE3 derivation: the
// proxy address is a CREATE2 address using the fixed proxy child code hash,
// and the final address is the RLP-encoded nonce-1 contract address the
// proxy deploys.
func create3Address(factory [20]byte, salt [32]byte) [20]byte {
	proxy := create2Address(factory, salt, ProxyChildCodeHash)

	// RLP of (proxy, 1) is 0xd694 ‖ proxy(20) ‖ 0x01.
	var rlp [23]byte
	rlp[0] = 0xd6
	rlp[1] = 0x94
	copy(rlp[2:22], proxy[:])
	rlp[22] = 0x01

	digest := crypto.Keccak256(rlp[:])
	var addr [20]byte
	copy(addr[:], digest[12:32])
	return addr
}
