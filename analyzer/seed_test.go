package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSeed(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		for _, in := range []string{"", "seo", "https://example.com", "best seo services for small business"} {
			assert.Equal(t, DeriveSeed(in), DeriveSeed(in), "input %q", in)
		}
	})

	t.Run("OneCharacterApart", func(t *testing.T) {
		assert.NotEqual(t, DeriveSeed("seo"), DeriveSeed("sep"))
		assert.NotEqual(t, DeriveSeed("seo tools"), DeriveSeed("seo tool"))
	})

	t.Run("OrderMatters", func(t *testing.T) {
		assert.NotEqual(t, DeriveSeed("ab"), DeriveSeed("ba"))
		assert.NotEqual(t, DeriveSeed("https://ab.com"), DeriveSeed("https://ba.com"))
	})

	t.Run("Spread", func(t *testing.T) {
		seen := make(map[uint32]string)
		for i := 0; i < 500; i++ {
			in := fmt.Sprintf("keyword %d", i)
			seed := DeriveSeed(in)
			if prev, ok := seen[seed]; ok {
				t.Fatalf("seed collision between %q and %q", prev, in)
			}
			seen[seed] = in
		}
	})
}

func TestDeriveSeedPrefix(t *testing.T) {
	a := "https://example.com/" + "aaaaaaaaaa"
	b := "https://example.com/" + "bbbbbbbbbb"

	require.Equal(t, DeriveSeedPrefix(a, 10), DeriveSeedPrefix(b, 10), "only the prefix should count")
	assert.NotEqual(t, DeriveSeedPrefix(a, 0), DeriveSeedPrefix(b, 0))
	assert.Equal(t, DeriveSeed(a), DeriveSeedPrefix(a, DefaultSeedPrefix))
}
