// Package device abstracts the GPU (or CPU-fallback) backend that executes
// one specialized kernel dispatch per mining-loop inner iteration. Two
// implementations satisfy Device: opencl.go (build tag "opencl", a cgo
// OpenCL binding) and cpu.go (the default build, a goroutine-parallel
// software equivalent used when no OpenCL toolchain is available).
package device

import "context"

// Batch is the three-buffer contract the kernel's search entry point
// exposes (spec.md §4.4): a 4-byte host-seeded message, a 1-element nonce
// base, and a 4-element solutions output. Message and NonceBase seed every
// thread's candidate nonce; Solutions is zeroed before each dispatch and
// populated only if some thread's address satisfied the predicate.
type Batch struct {
	Message   [4]byte
	NonceBase uint64
	Solutions [4]uint64
}

// Found reports whether the most recent dispatch produced a winner.
func (b Batch) Found() bool {
	return b.Solutions[0] != 0
}

// Device drives one GPU (or CPU) device through repeated kernel dispatches
// against a single compiled program. Callers keep one Device for the process
// lifetime, call NewBatch once per outer mining-loop iteration (new message)
// and call SetNonce for every inner iteration that misses, matching spec.md
// §4.4's nonce-buffer reuse note.
type Device interface {
	// NewBatch uploads a fresh message and nonce base, and zeroes the
	// solutions buffer, starting a new outer iteration.
	NewBatch(ctx context.Context, message [4]byte, nonceBase uint64) error

	// SetNonce rewrites only the one-word nonce buffer, avoiding a full
	// re-upload on every missed inner iteration.
	SetNonce(ctx context.Context, nonce uint64) error

	// Dispatch enqueues the search kernel over workSize threads and reads
	// the solutions buffer back, blocking until both complete.
	Dispatch(ctx context.Context, workSize uint32) (Batch, error)

	// Close releases every device-side resource (buffers, queue, program,
	// context). Safe to call once, after the device is no longer in use.
	Close() error
}
