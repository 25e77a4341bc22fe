package createx

// MinedSalt is the 11-byte search space (spec.md §3): 4 bytes drawn fresh
// by the host each outer iteration ("message"), followed by 7 bytes
// truncated little-endian from the kernel's winning nonce.
type MinedSalt [11]byte

// NewMinedSalt assembles the 11-byte mined salt from the host message and
// the kernel's solution[0] word, taking the low 7 bytes little-endian.
func NewMinedSalt(message [4]byte, solutionWord uint64) MinedSalt {
	var m MinedSalt
	copy(m[:4], message[:])
	le := solutionWord
	for i := 0; i < 7; i++ {
		m[4+i] = byte(le)
		le >>= 8
	}
	return m
}

// GuardedSalt builds the 32-byte value the factory consumes, per the four
// cases in spec.md §3. The layout is a bijection onto 32-byte strings: the
// flag byte's position and the mined-salt suffix/prefix placement are
// exactly as specified.
func GuardedSalt(sv SaltVariant, caller [20]byte, mined MinedSalt) [32]byte {
	var out [32]byte
	switch sv {
	case SaltCrosschainSender:
		copy(out[0:20], caller[:])
		out[20] = 0x01
		copy(out[21:32], mined[:])
	case SaltCrosschain:
		// zeroes(20) already present
		out[20] = 0x01
		copy(out[21:32], mined[:])
	case SaltSender:
		copy(out[0:20], caller[:])
		out[20] = 0x00
		copy(out[21:32], mined[:])
	default: // SaltRandom
		copy(out[0:11], mined[:])
		// zeroes(21) already present
	}
	return out
}
