package createx

import "encoding/hex"

// LeadingZeroCount returns min{i : A[i] != 0}, or 20 if the address is all
// zero. spec.md §9 flags that the original tool's display counter computed
// this incorrectly for the all-zero case (it read the first-nonzero index,
// which degenerates to 0 rather than 20 for an all-zero address); this is
// the corrected definition the spec resolves to.
func LeadingZeroCount(addr [20]byte) int {
	for i, b := range addr {
		if b != 0 {
			return i
		}
	}
	return 20
}

// TotalZeroCount returns the number of zero bytes anywhere in the address.
func TotalZeroCount(addr [20]byte) int {
	total := 0
	for _, b := range addr {
		if b == 0 {
			total++
		}
	}
	return total
}

// Satisfies evaluates the predicate table in spec.md §4.2 against addr.
func Satisfies(r Reward, addr [20]byte) bool {
	switch r.Kind {
	case RewardLeadingZeros:
		return LeadingZeroCount(addr) >= int(r.Leading)
	case RewardTotalZeros:
		return TotalZeroCount(addr) >= int(r.Total)
	case RewardLeadingAndTotalZeros:
		return LeadingZeroCount(addr) >= int(r.Leading) && TotalZeroCount(addr) >= int(r.Total)
	case RewardLeadingOrTotalZeros:
		return LeadingZeroCount(addr) >= int(r.Leading) || TotalZeroCount(addr) >= int(r.Total)
	case RewardMatching:
		return matches(r.Pattern, addr)
	default:
		return false
	}
}

// matches implements the nibble-wise comparison in spec.md §4.2: each
// pattern character is either 'X' (wildcard) or must equal the
// corresponding lowercase hex nibble of addr.
func matches(pattern string, addr [20]byte) bool {
	if len(pattern) != 40 {
		return false
	}
	hexAddr := hex.EncodeToString(addr[:])
	for i := 0; i < 40; i++ {
		if pattern[i] == 'X' {
			continue
		}
		if pattern[i] != hexAddr[i] {
			return false
		}
	}
	return true
}
