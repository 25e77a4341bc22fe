package mining

import "math/rand/v2"

// hostRNG draws the outer iteration's fresh message and nonce base. The
// original miner seeds these with a non-cryptographic RNG
// (rand::thread_rng() in the source tool); math/rand/v2's default source is
// the idiomatic Go equivalent for the same non-adversarial use (the
// predicate, not the salt's unpredictability, is what makes a find rare).
type hostRNG struct{}

func newHostRNG() *hostRNG {
	return &hostRNG{}
}

func (hostRNG) message() [4]byte {
	var m [4]byte
	v := rand.Uint32()
	m[0] = byte(v)
	m[1] = byte(v >> 8)
	m[2] = byte(v >> 16)
	m[3] = byte(v >> 24)
	return m
}

func (hostRNG) nonceBase() uint32 {
	return rand.Uint32()
}
