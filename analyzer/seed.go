package analyzer

// DefaultSeedPrefix is the number of leading runes that feed the seed
const DefaultSeedPrefix = 256

// DeriveSeed maps an input string to a stable seed
func DeriveSeed(input string) uint32 {
	return DeriveSeedPrefix(input, DefaultSeedPrefix)
}

// DeriveSeedPrefix derives a seed from the first prefix runes of input.
// A prefix <= 0 uses the whole string.
//
// Rune codes are summed with positional weights (a base-31 polynomial), so
// inputs holding the same characters in another order get different seeds.
// The rune count is folded in last.
func DeriveSeedPrefix(input string, prefix int) uint32 {
	var sum uint32
	n := 0
	for _, r := range input {
		if prefix > 0 && n >= prefix {
			break
		}
		n++
		sum = sum*31 + uint32(r)
	}
	return sum*31 + uint32(n)
}
