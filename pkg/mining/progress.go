package mining

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"golang.org/x/term"

	"github.com/jihwankim/createx-miner/pkg/createx"
)

// progressInterval bounds how often the terminal is redrawn (spec.md §4.4:
// "At most once per ~1 s of wall time").
const progressInterval = time.Second

// found is one persisted line, kept in memory only for the on-screen
// scrollback; the durable record lives in the Sink.
type found struct {
	guardedSaltHex string
	addressHex     string
	leading        int
	total          int
}

// progress renders the four-line terminal view described in spec.md §4.4,
// adapted from the teacher's reporting.ProgressReporter clear-and-redraw
// TUI mode (pkg/reporting/progress.go's reportTUI/clearScreen).
type progress struct {
	cfg       createx.Config
	startTime time.Time
	lastDraw  time.Time

	history []found
}

func newProgress(cfg createx.Config, startTime time.Time) *progress {
	return &progress{cfg: cfg, startTime: startTime}
}

// recordFound appends a new solution to the scrollback. Call before the
// next Render so it's reflected immediately.
func (p *progress) recordFound(guardedSaltHex, addressHex string, leading, total int) {
	p.history = append(p.history, found{
		guardedSaltHex: guardedSaltHex,
		addressHex:     addressHex,
		leading:        leading,
		total:          total,
	})
}

// Render redraws the screen if at least progressInterval has elapsed since
// the last draw, or force is true (used on every find).
func (p *progress) Render(cumulativeNonce *uint256.Int, workSize uint32, cycles uint64, foundCount int, message [4]byte, nonceBase uint64, force bool) {
	now := time.Now()
	if !force && now.Sub(p.lastDraw) < progressInterval {
		return
	}
	p.lastDraw = now

	clearScreen()

	elapsed := now.Sub(p.startTime)
	rate := computeRate(cumulativeNonce, workSize, elapsed)

	fmt.Printf("Runtime: %s   Cycles: %s   Work size: %s\n",
		formatDuration(elapsed), separated(cycles), separated(uint64(workSize)))
	fmt.Printf("Rate: %.2f Mh/s   Found: %d\n", rate, foundCount)
	fmt.Printf("Searching: 0x%x xxxxxxxx %06x   %s   %s\n",
		message, (nonceBase>>8)&0xffffff, p.cfg.Variant, p.cfg.Reward.Describe())
	fmt.Println(strings.Repeat("-", 80))

	for _, line := range p.tail() {
		if line.leading < 0 {
			fmt.Printf("0x%s => 0x%s\n", line.guardedSaltHex, line.addressHex)
		} else {
			fmt.Printf("0x%s => 0x%s (%d / %d)\n", line.guardedSaltHex, line.addressHex, line.leading, line.total)
		}
	}
}

// tail returns the last max(1, terminal_height-4) entries, oldest first,
// per spec.md §4.4.
func (p *progress) tail() []found {
	height := terminalHeight()
	n := height - 4
	if n < 1 {
		n = 1
	}
	if len(p.history) <= n {
		return p.history
	}
	return p.history[len(p.history)-n:]
}

func terminalHeight() int {
	_, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || h <= 0 {
		return 24
	}
	return h
}

// computeRate implements spec.md §4.4's rate formula:
// rate = (WORK_FACTOR * cumulative_nonce) / (now - start_time), in millions
// of attempts per second. WORK_FACTOR = workSize / 1_000_000, using the
// loop's actual (possibly tuned) work size rather than the package default.
func computeRate(cumulativeNonce *uint256.Int, workSize uint32, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	nonceFloat, _ := new(big.Float).SetInt(cumulativeNonce.ToBig()).Float64()
	workFactor := float64(workSize) / 1_000_000
	return (workFactor * nonceFloat) / elapsed.Seconds()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// separated formats n with thousands separators, e.g. 1234567 -> "1,234,567".
func separated(n uint64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func clearScreen() {
	fmt.Print("\033[2J\033[H")
}
