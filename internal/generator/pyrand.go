package generator

import "math"

// Mersenne Twister seeded the same way as CPython's random module so that a
// given position always maps to the same character.

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

type mersenne struct {
	mt    [mtN]uint32
	index int
}

func (m *mersenne) initGenrand(s uint32) {
	m.mt[0] = s
	for i := 1; i < mtN; i++ {
		m.mt[i] = 1812433253*(m.mt[i-1]^(m.mt[i-1]>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *mersenne) initByArray(key []uint32) {
	m.initGenrand(19650218)

	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		m.mt[i] = (m.mt[i] ^ ((m.mt[i-1] ^ (m.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		m.mt[i] = (m.mt[i] ^ ((m.mt[i-1] ^ (m.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
	}
	m.mt[0] = 0x80000000
}

func (m *mersenne) uint32() uint32 {
	if m.index >= mtN {
		var y uint32
		kk := 0
		for ; kk < mtN-mtM; kk++ {
			y = (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
			m.mt[kk] = m.mt[kk+mtM] ^ (y >> 1) ^ (y&1)*mtMatrixA
		}
		for ; kk < mtN-1; kk++ {
			y = (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
			m.mt[kk] = m.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ (y&1)*mtMatrixA
		}
		y = (m.mt[mtN-1] & mtUpperMask) | (m.mt[0] & mtLowerMask)
		m.mt[mtN-1] = m.mt[mtM-1] ^ (y >> 1) ^ (y&1)*mtMatrixA
		m.index = 0
	}

	y := m.mt[m.index]
	m.index++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// float64 returns a float in [0, 1) with 53 bits of precision.
func (m *mersenne) float64() float64 {
	a := m.uint32() >> 5
	b := m.uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// seedKey splits n into 32-bit words, least significant first.
func seedKey(n uint64) []uint32 {
	if n>>32 == 0 {
		return []uint32{uint32(n)}
	}
	return []uint32{uint32(n), uint32(n >> 32)}
}

const (
	hashModulus = (1 << 61) - 1
	hashImag    = 1000003
)

// hashInt is the hash of an integral number under the 2^61-1 modulus:
// the sign is kept and -1 is reserved.
func hashInt(v int64) int64 {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-(v + 1)) + 1
	}

	h := int64(u % hashModulus)
	if neg {
		h = -h
	}
	if h == -1 {
		h = -2
	}
	return h
}

// complexSeed hashes the complex number x+yi and returns it as the unsigned
// machine word used to seed the generator.
func complexSeed(x, y int) uint64 {
	combined := uint64(hashInt(int64(x))) + hashImag*uint64(hashInt(int64(y)))
	if combined == math.MaxUint64 {
		combined = math.MaxUint64 - 1
	}
	return combined
}

// randomAt returns the first float drawn after seeding with x+yi.
func randomAt(x, y int) float64 {
	var m mersenne
	m.initByArray(seedKey(complexSeed(x, y)))
	return m.float64()
}
