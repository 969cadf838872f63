package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/entropy"
	"github.com/dmitrijs2005/lightningpass/internal/generator"
)

// randomArea is the virtual screen random positions are drawn from.
var randomArea = entropy.RandomSource{Width: 1920, Height: 1080}

// Generate builds a password from pointer positions read from a file of
// "x,y" lines, or from random positions when no file is given.
func (a *App) Generate(ctx context.Context) error {
	opts, err := a.generatorOptions()
	if err != nil {
		return err
	}
	g, err := generator.New(opts)
	if err != nil {
		return err
	}

	path, err := a.text("Positions file (empty for random positions)")
	if err != nil {
		return err
	}

	var src entropy.Source = randomArea
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open positions file: %w", err)
		}
		defer f.Close()
		src = entropy.NewLineSource(f)
	}

	password, err := feed(src, g, func(n int) {
		if n%100 == 0 {
			a.println(fmt.Sprintf("collected %d positions", n))
		}
	})
	if err != nil {
		if errors.Is(err, common.ErrInsufficientEntropy) && password != "" {
			a.println("Partial password: " + password)
		}
		return err
	}

	a.println("Generated password: " + password)
	return nil
}

// feed pushes positions from src through a Collector into g until g is done,
// the source runs dry or the collector is full. progress is called on every
// Progress status with the number of collected positions.
func feed(src entropy.Source, g *generator.Generator, progress func(n int)) (string, error) {
	var c entropy.Collector

	for !g.Done() {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		status := c.Collect(p)
		if status == entropy.Exhausted {
			return g.Password(), fmt.Errorf("%w: %w", common.ErrInsufficientEntropy, status.Err())
		}
		if status == entropy.Progress && progress != nil {
			progress(c.Len())
		}
		g.Feed(p)
	}

	if !g.Done() {
		return g.Password(), fmt.Errorf("%w: source ran out after %d positions", common.ErrInsufficientEntropy, c.Len())
	}
	return g.Password(), nil
}

// generatorOptions asks for the length and the character classes; empty
// answers select 16 characters of every class.
func (a *App) generatorOptions() (generator.Options, error) {
	var opts generator.Options

	length, err := a.text(fmt.Sprintf("Password length (%d-%d) [%d]", generator.MinLength, generator.MaxLength, generator.MinLength))
	if err != nil {
		return opts, err
	}
	opts.Length, err = strconv.Atoi(withDefault(length, strconv.Itoa(generator.MinLength)))
	if err != nil {
		return opts, fmt.Errorf("%w: length %q is not a number", common.ErrInvalidOptions, length)
	}
	if opts.Length < generator.MinLength || opts.Length > generator.MaxLength {
		return opts, fmt.Errorf("%w: length must be between %d and %d", common.ErrInvalidOptions, generator.MinLength, generator.MaxLength)
	}

	classes, err := a.text("Character classes: n)umbers s)ymbols l)owercase u)ppercase [nslu]")
	if err != nil {
		return opts, err
	}
	classes = strings.ToLower(withDefault(classes, "nslu"))

	opts.Numbers = strings.ContainsRune(classes, 'n')
	opts.Symbols = strings.ContainsRune(classes, 's')
	opts.Lowercase = strings.ContainsRune(classes, 'l')
	opts.Uppercase = strings.ContainsRune(classes, 'u')
	return opts, nil
}
