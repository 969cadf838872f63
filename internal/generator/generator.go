// Package generator derives passwords from collected pointer positions.
// Every position yields one candidate character; candidates whose class is
// disabled are skipped until the password reaches the requested length.
package generator

import (
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/entropy"
)

const (
	MinLength = 16
	MaxLength = 64
)

// Options selects the password length and the enabled character classes.
type Options struct {
	Length    int
	Numbers   bool
	Symbols   bool
	Lowercase bool
	Uppercase bool
}

// Validate checks the length bounds and that at least one letter case is
// enabled.
func (o Options) Validate() error {
	if o.Length < MinLength || o.Length > MaxLength {
		return fmt.Errorf("%w: length must be between %d and %d", common.ErrInvalidOptions, MinLength, MaxLength)
	}
	if !o.Lowercase && !o.Uppercase {
		return fmt.Errorf("%w: lowercase or uppercase letters must be enabled", common.ErrInvalidOptions)
	}
	return nil
}

// Generator accumulates accepted characters position by position.
type Generator struct {
	opts     Options
	password []byte
}

// New validates opts and returns an empty Generator.
func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, password: make([]byte, 0, opts.Length)}, nil
}

// Feed derives the candidate for p and keeps it if its class is enabled.
// It reports whether the password is complete; positions fed afterwards are
// ignored.
func (g *Generator) Feed(p entropy.Position) bool {
	if g.Done() {
		return true
	}
	if c := CharAt(p); c.Allowed(g.opts) {
		g.password = append(g.password, c.Value)
	}
	return g.Done()
}

// Done reports whether the password reached the requested length.
func (g *Generator) Done() bool {
	return len(g.password) >= g.opts.Length
}

// Password returns the characters accepted so far.
func (g *Generator) Password() string {
	return string(g.password)
}

// Generate feeds positions in order until the password is complete. When
// the positions run out first it returns the partial password together with
// common.ErrInsufficientEntropy.
func Generate(positions []entropy.Position, opts Options) (string, error) {
	g, err := New(opts)
	if err != nil {
		return "", err
	}
	for _, p := range positions {
		if g.Feed(p) {
			return g.Password(), nil
		}
	}
	return g.Password(), fmt.Errorf("%w: got %d of %d characters from %d positions",
		common.ErrInsufficientEntropy, len(g.password), opts.Length, len(positions))
}
