package timer

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LowThreshold is the remaining-seconds value at or below which time is shown as low.
const LowThreshold = 10

// Outcome reports what a tick did to the countdown.
type Outcome int

const (
	// Ignored means the tick belonged to a stopped or superseded run.
	Ignored Outcome = iota
	// Ticked means one second was consumed and time remains.
	Ticked
	// Expired means the countdown reached zero on this tick.
	Expired
)

// TickMsg is delivered once per second for the run identified by Gen.
type TickMsg struct {
	Gen int
	At  time.Time
}

// Countdown is a per-question decrementing clock in whole seconds.
// Every run gets a new generation so ticks scheduled for an older run are ignored.
type Countdown struct {
	total     int
	remaining int
	running   bool
	gen       int
}

// Start begins a fresh run of total seconds and returns its generation.
// Any prior run is implicitly stopped.
func (c *Countdown) Start(total int) int {
	if total < 0 {
		total = 0
	}
	c.gen++
	c.total = total
	c.remaining = total
	c.running = total > 0
	return c.gen
}

// Stop halts decrementing. Safe to call repeatedly and from any state.
func (c *Countdown) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.gen++
}

// Resume continues a stopped run from the preserved remaining time.
// It returns the new generation and false if nothing is left to count.
func (c *Countdown) Resume() (int, bool) {
	if c.running {
		return c.gen, true
	}
	if c.remaining <= 0 {
		return c.gen, false
	}
	c.gen++
	c.running = true
	return c.gen, true
}

// Tick consumes one second for the run gen. Ticks after Stop, after
// expiry, or for an older generation are ignored. The countdown stops
// itself before reporting expiry so expiry is reported once per run.
func (c *Countdown) Tick(gen int) Outcome {
	if !c.running || gen != c.gen {
		return Ignored
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.running = false
		c.gen++
		return Expired
	}
	return Ticked
}

// Remaining returns the seconds left in the current run.
func (c Countdown) Remaining() int {
	return c.remaining
}

// Total returns the length of the current run.
func (c Countdown) Total() int {
	return c.total
}

// Elapsed returns total minus remaining, which is never negative nor above total.
func (c Countdown) Elapsed() int {
	elapsed := c.total - c.remaining
	if elapsed < 0 {
		return 0
	}
	if elapsed > c.total {
		return c.total
	}
	return elapsed
}

// Running reports whether ticks are currently being consumed.
func (c Countdown) Running() bool {
	return c.running
}

// Gen returns the generation of the current run.
func (c Countdown) Gen() int {
	return c.gen
}

// Low reports whether the remaining time is in the warning band.
func (c Countdown) Low() bool {
	return c.remaining <= LowThreshold
}

// Tick schedules the next one-second tick for a run.
func Tick(gen int) tea.Cmd {
	return TickAfter(gen, time.Second)
}

// TickAfter schedules a tick for a run after interval.
func TickAfter(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}

// Format renders seconds as m:ss.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := seconds / 60
	secs := seconds % 60
	if secs < 10 {
		return strconv.Itoa(mins) + ":0" + strconv.Itoa(secs)
	}
	return strconv.Itoa(mins) + ":" + strconv.Itoa(secs)
}
