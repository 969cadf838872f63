package generator

import "github.com/dmitrijs2005/lightningpass/internal/entropy"

// printable holds the 94 visible ASCII characters in the order digits,
// lowercase, uppercase, punctuation.
const printable = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const slotWidth = 1.0 / float64(len(printable))

// Kind is the character class of a generated character.
type Kind int

const (
	Digit Kind = iota
	Symbol
	Letter
)

// Case distinguishes letters.
type Case int

const (
	Lower Case = iota
	Upper
)

// Char is a classified candidate character. Case is meaningful only for
// letters.
type Char struct {
	Kind  Kind
	Value byte
	Case  Case
}

// Classify tags b with its character class.
func Classify(b byte) Char {
	switch {
	case b >= '0' && b <= '9':
		return Char{Kind: Digit, Value: b}
	case b >= 'a' && b <= 'z':
		return Char{Kind: Letter, Value: b, Case: Lower}
	case b >= 'A' && b <= 'Z':
		return Char{Kind: Letter, Value: b, Case: Upper}
	default:
		return Char{Kind: Symbol, Value: b}
	}
}

// Allowed reports whether the class of c is enabled in o.
func (c Char) Allowed(o Options) bool {
	switch c.Kind {
	case Digit:
		return o.Numbers
	case Symbol:
		return o.Symbols
	case Letter:
		if c.Case == Upper {
			return o.Uppercase
		}
		return o.Lowercase
	default:
		return false
	}
}

// CharAt derives the candidate character for a position: the position seeds
// the generator as the complex number x+yi and the first draw selects one of
// the printable slots.
func CharAt(p entropy.Position) Char {
	i := int(randomAt(p.X, p.Y) / slotWidth)
	if i >= len(printable) {
		i = len(printable) - 1
	}
	return Classify(printable[i])
}
