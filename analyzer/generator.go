package analyzer

import "math"

const golden32 = 0x9e3779b9

// mix32 is the murmur3 32-bit finalizer
func mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// unit returns a deterministic fraction in [0, 1] for seed and offset
func unit(seed, offset uint32) float64 {
	h := mix32(seed ^ mix32(offset*golden32+golden32))
	return float64(h) / math.MaxUint32
}

// Next returns a deterministic value in [min, max] for the seed and offset.
// Varying offset yields independent-looking values from the same seed.
func Next(seed, offset uint32, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	v := min + unit(seed, offset)*(max-min)
	// guard against rounding past the upper bound
	return math.Min(math.Max(v, min), max)
}

// Generator binds Next to a single seed
type Generator struct {
	Seed uint32
}

// NewGenerator derives the seed from input
func NewGenerator(input string) Generator {
	return Generator{Seed: DeriveSeed(input)}
}

// Float returns a value in [min, max]
func (g Generator) Float(offset uint32, min, max float64) float64 {
	return Next(g.Seed, offset, min, max)
}

// Int returns an integer in [min, max], both inclusive
func (g Generator) Int(offset uint32, min, max int) int {
	if min > max {
		min, max = max, min
	}
	span := max - min + 1
	v := min + int(unit(g.Seed, offset)*float64(span))
	if v > max {
		v = max
	}
	return v
}
