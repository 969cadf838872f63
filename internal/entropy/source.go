package entropy

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Source produces positions one at a time. Next returns io.EOF when the
// source has nothing more to give.
type Source interface {
	Next() (Position, error)
}

// LineSource reads "x,y" pairs, one per line. Blank lines and lines starting
// with '#' are skipped.
type LineSource struct {
	sc   *bufio.Scanner
	line int
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{sc: bufio.NewScanner(r)}
}

func (s *LineSource) Next() (Position, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		p, err := parsePosition(text)
		if err != nil {
			return Position{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return p, nil
	}
	if err := s.sc.Err(); err != nil {
		return Position{}, err
	}
	return Position{}, io.EOF
}

func parsePosition(text string) (Position, error) {
	xs, ys, ok := strings.Cut(text, ",")
	if !ok {
		return Position{}, fmt.Errorf("invalid position %q", text)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Position{}, fmt.Errorf("invalid x in %q: %w", text, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Position{}, fmt.Errorf("invalid y in %q: %w", text, err)
	}
	return Position{X: x, Y: y}, nil
}

// RandomSource draws uniformly distributed positions inside a Width x Height
// area from crypto/rand. It never runs dry.
type RandomSource struct {
	Width  int
	Height int
}

func (s RandomSource) Next() (Position, error) {
	x, err := rand.Int(rand.Reader, big.NewInt(int64(s.Width)))
	if err != nil {
		return Position{}, fmt.Errorf("failed to read random position: %w", err)
	}
	y, err := rand.Int(rand.Reader, big.NewInt(int64(s.Height)))
	if err != nil {
		return Position{}, fmt.Errorf("failed to read random position: %w", err)
	}
	return Position{X: int(x.Int64()), Y: int(y.Int64())}, nil
}
