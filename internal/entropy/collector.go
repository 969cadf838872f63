// Package entropy collects pointer positions used to seed password
// generation.
package entropy

import "github.com/dmitrijs2005/lightningpass/internal/common"

const (
	// Capacity is the most positions a Collector keeps.
	Capacity = 1000
	// ProgressEvery is how often, in accepted positions, Progress is reported.
	ProgressEvery = 10
)

// Position is a 2D pointer coordinate.
type Position struct {
	X int
	Y int
}

// Status is the outcome of a single Collect call.
type Status int

const (
	Accepted Status = iota
	Progress
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Progress:
		return "progress"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Err maps Exhausted to common.ErrEntropyExhausted and every other status to nil.
func (s Status) Err() error {
	if s == Exhausted {
		return common.ErrEntropyExhausted
	}
	return nil
}

// Collector is an ordered, bounded sequence of positions.
// The zero value is ready to use.
type Collector struct {
	positions []Position
}

// Collect appends p unless the collector is full.
func (c *Collector) Collect(p Position) Status {
	if len(c.positions) >= Capacity {
		return Exhausted
	}
	c.positions = append(c.positions, p)
	if len(c.positions)%ProgressEvery == 0 {
		return Progress
	}
	return Accepted
}

// Len returns the number of collected positions.
func (c *Collector) Len() int {
	return len(c.positions)
}

// Full reports whether further positions would be rejected.
func (c *Collector) Full() bool {
	return len(c.positions) >= Capacity
}

// Positions returns a copy of the collected sequence.
func (c *Collector) Positions() []Position {
	out := make([]Position, len(c.positions))
	copy(out, c.positions)
	return out
}

// Reset drops every collected position.
func (c *Collector) Reset() {
	c.positions = nil
}
