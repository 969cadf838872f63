package generator

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/entropy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walk(n int) []entropy.Position {
	out := make([]entropy.Position, n)
	for i := range out {
		out[i] = entropy.Position{X: i * 7 % 500, Y: i * 13 % 300}
	}
	return out
}

func all(length int) Options {
	return Options{Length: length, Numbers: true, Symbols: true, Lowercase: true, Uppercase: true}
}

func TestRandomAt_MatchesReferenceStream(t *testing.T) {
	tests := []struct {
		x, y int
		want float64
	}{
		{0, 0, 0.8444218515250481},
		{42, 0, 0.6394267984578837},
		{1, 0, 0.13436424411240122},
		{5, 7, 0.09794904092985135},
		{-3, 12, 0.5515307851196092},
		{100, -250, 0.4991051413285347},
		{-1, -1, 0.33395412215676634},
		{1919, 1079, 0.5947040881009694},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, randomAt(tt.x, tt.y), "(%d, %d)", tt.x, tt.y)
	}
}

func TestHashInt(t *testing.T) {
	assert.Equal(t, int64(0), hashInt(0))
	assert.Equal(t, int64(42), hashInt(42))
	assert.Equal(t, int64(-2), hashInt(-1))
	assert.Equal(t, int64(-2), hashInt(-2))
	assert.Equal(t, int64(-7), hashInt(-7))
	assert.Equal(t, int64(0), hashInt(hashModulus))
	assert.Equal(t, int64(1), hashInt(hashModulus+1))
	assert.Equal(t, -int64(hashModulus-1), hashInt(-(hashModulus - 1)))
}

func TestSeedKey(t *testing.T) {
	assert.Equal(t, []uint32{0}, seedKey(0))
	assert.Equal(t, []uint32{42}, seedKey(42))
	assert.Equal(t, []uint32{0xfffffffe, 0xffffffff}, seedKey(^uint64(1)))
}

func TestCharAt_KnownValues(t *testing.T) {
	tests := []struct {
		p    entropy.Position
		want byte
		kind Kind
	}{
		{entropy.Position{X: 0, Y: 0}, '<', Symbol},
		{entropy.Position{X: 42, Y: 0}, 'Y', Letter},
		{entropy.Position{X: 1, Y: 0}, 'c', Letter},
		{entropy.Position{X: 5, Y: 7}, '9', Digit},
		{entropy.Position{X: -3, Y: 12}, 'P', Letter},
	}

	for _, tt := range tests {
		c := CharAt(tt.p)
		assert.Equal(t, string(tt.want), string(c.Value))
		assert.Equal(t, tt.kind, c.Kind)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Char{Kind: Digit, Value: '7'}, Classify('7'))
	assert.Equal(t, Char{Kind: Letter, Value: 'q', Case: Lower}, Classify('q'))
	assert.Equal(t, Char{Kind: Letter, Value: 'Q', Case: Upper}, Classify('Q'))
	assert.Equal(t, Char{Kind: Symbol, Value: '~'}, Classify('~'))
	assert.Len(t, printable, 94)
}

func TestAllowed(t *testing.T) {
	only := Options{Uppercase: true}
	assert.True(t, Classify('A').Allowed(only))
	assert.False(t, Classify('a').Allowed(only))
	assert.False(t, Classify('1').Allowed(only))
	assert.False(t, Classify('!').Allowed(only))
	assert.False(t, Char{Kind: Kind(9)}.Allowed(all(16)))
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, all(16).Validate())
	require.NoError(t, all(64).Validate())
	require.ErrorIs(t, all(15).Validate(), common.ErrInvalidOptions)
	require.ErrorIs(t, all(65).Validate(), common.ErrInvalidOptions)

	noLetters := Options{Length: 20, Numbers: true, Symbols: true}
	require.ErrorIs(t, noLetters.Validate(), common.ErrInvalidOptions)

	_, err := Generate(walk(10), noLetters)
	require.ErrorIs(t, err, common.ErrInvalidOptions)
}

func TestGenerate_Deterministic(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"all classes", all(16), `<EVlXM}v=MtlumO@`},
		{"lowercase and digits", Options{Length: 20, Numbers: true, Lowercase: true}, "lvtlumpx3k5ml3s12h4h"},
		{"uppercase only", Options{Length: 16, Uppercase: true}, "EVXMMODLYSQSRUWI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := Generate(walk(200), tt.opts)
			require.NoError(t, err)
			second, err := Generate(walk(200), tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
			assert.Len(t, first, tt.opts.Length)
		})
	}
}

func TestGenerate_InsufficientEntropy(t *testing.T) {
	partial, err := Generate(walk(20), Options{Length: 16, Lowercase: true})
	require.ErrorIs(t, err, common.ErrInsufficientEntropy)
	assert.Equal(t, "lvtlump", partial)
}

func TestGenerator_FeedStopsAtLength(t *testing.T) {
	g, err := New(all(16))
	require.NoError(t, err)

	done := false
	fed := 0
	for _, p := range walk(200) {
		fed++
		if done = g.Feed(p); done {
			break
		}
	}
	require.True(t, done)
	assert.Less(t, fed, 200)

	before := g.Password()
	assert.True(t, g.Feed(entropy.Position{X: 0, Y: 0}))
	assert.Equal(t, before, g.Password())
	assert.False(t, strings.ContainsAny(before, " \t\n"))
}

func TestNew_InvalidOptions(t *testing.T) {
	g, err := New(Options{Length: 16})
	require.ErrorIs(t, err, common.ErrInvalidOptions)
	assert.Nil(t, g)
}
