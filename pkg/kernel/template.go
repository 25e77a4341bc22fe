package kernel

import (
	_ "embed"
)

// KeccakTemplate is the fixed OpenCL kernel body appended after the
// per-run #define block produced by Specialize. It implements keccak-f[1600]
// plus the CREATE2/CREATE3 address derivation and predicate evaluation that
// consume those macros.
//
//go:embed kernels/keccak256.cl
var KeccakTemplate string
