package createx

import "testing"

func TestLeadingZeroCount(t *testing.T) {
	cases := []struct {
		addr [20]byte
		want int
	}{
		{[20]byte{0, 0, 0, 1}, 3},
		{[20]byte{1}, 0},
		{[20]byte{}, 20},
	}
	for _, c := range cases {
		if got := LeadingZeroCount(c.addr); got != c.want {
			t.Errorf("LeadingZeroCount(%v) = %d, want %d", c.addr, got, c.want)
		}
	}
}

func TestTotalZeroCount(t *testing.T) {
	var addr [20]byte
	addr[0] = 1
	addr[5] = 2
	// 18 zero bytes remain
	if got := TotalZeroCount(addr); got != 18 {
		t.Errorf("TotalZeroCount = %d, want 18", got)
	}
}

func TestSatisfiesLeadingAndOr(t *testing.T) {
	var addr [20]byte // all zero: leading=20, total=20
	addr[10] = 1      // leading becomes 10, total becomes 19

	and := Reward{Kind: RewardLeadingAndTotalZeros, Leading: 5, Total: 19}
	if !Satisfies(and, addr) {
		t.Errorf("expected AND predicate to hold")
	}

	and.Total = 20
	if Satisfies(and, addr) {
		t.Errorf("expected AND predicate to fail when total threshold unmet")
	}

	or := Reward{Kind: RewardLeadingOrTotalZeros, Leading: 1, Total: 20}
	if !Satisfies(or, addr) {
		t.Errorf("expected OR predicate to hold via leading clause")
	}
}

func TestMatchingWildcards(t *testing.T) {
	var addr [20]byte
	addr[0] = 0xba
	addr[19] = 0xed

	allWildcard := Reward{Kind: RewardMatching, Pattern: stringsRepeatX(40)}
	if !Satisfies(allWildcard, addr) {
		t.Errorf("all-wildcard pattern must accept any address")
	}

	exact := Reward{Kind: RewardMatching, Pattern: "ba" + stringsRepeatX(36) + "ed"}
	if !Satisfies(exact, addr) {
		t.Errorf("expected prefix/suffix match to hold")
	}

	exact.Pattern = "bb" + stringsRepeatX(36) + "ed"
	if Satisfies(exact, addr) {
		t.Errorf("expected mismatched prefix to fail")
	}
}

func stringsRepeatX(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'X'
	}
	return string(b)
}
