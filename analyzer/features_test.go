package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFeatures(t *testing.T) {
	t.Run("PremiumHTTPS", func(t *testing.T) {
		f, err := ExtractFeatures("https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", f.NormalizedURL)
		assert.Equal(t, "example.com", f.Domain)
		assert.True(t, f.HasHTTPS)
		assert.False(t, f.HasDash)
		assert.False(t, f.HasWWW)
		assert.Equal(t, "com", f.TLD)
		assert.Equal(t, TLDPremium, f.TLDClass)
		assert.Equal(t, 11, f.DomainLength)
		assert.Equal(t, 0, f.PathDepth)
		assert.LessOrEqual(t, f.PathLength, 30)
	})

	t.Run("DashedHTTPLongPath", func(t *testing.T) {
		f, err := ExtractFeatures("http://my-shop-site.info/a/b/c/d")
		require.NoError(t, err)
		assert.False(t, f.HasHTTPS)
		assert.True(t, f.HasDash)
		assert.Equal(t, "info", f.TLD)
		assert.Equal(t, TLDOther, f.TLDClass)
		assert.Equal(t, 4, f.PathDepth)
		assert.Greater(t, f.PathLength, 30)
	})

	t.Run("MissingScheme", func(t *testing.T) {
		f, err := ExtractFeatures("  www.Example.org/blog  ")
		require.NoError(t, err)
		assert.Equal(t, "https://www.example.org/blog", f.NormalizedURL)
		assert.True(t, f.HasHTTPS)
		assert.True(t, f.HasWWW)
		assert.Equal(t, "example.org", f.Domain)
		assert.Equal(t, TLDPremium, f.TLDClass)
	})

	t.Run("PortIsIgnored", func(t *testing.T) {
		f, err := ExtractFeatures("http://localhost:8080/health")
		require.NoError(t, err)
		assert.Equal(t, "localhost", f.Host)
		assert.Equal(t, "", f.TLD)
		assert.Equal(t, TLDOther, f.TLDClass)
	})

	t.Run("SchemeInQueryOrPath", func(t *testing.T) {
		tests := []struct {
			in, prefix string
		}{
			{"example.com/?next=https://other.com", "https://example.com/?next="},
			{"example.com/redirect/https://x.io", "https://example.com/redirect/"},
			{"http://example.com/?to=ftp://files.example.org", "http://example.com/?to="},
		}
		for _, tt := range tests {
			f, err := ExtractFeatures(tt.in)
			require.NoError(t, err, tt.in)
			assert.Equal(t, "example.com", f.Domain, tt.in)
			assert.True(t, strings.HasPrefix(f.NormalizedURL, tt.prefix), "%q normalized to %q", tt.in, f.NormalizedURL)
		}
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := ExtractFeatures("https://example.com/" + strings.Repeat("a", MaxURLLength))
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = ExtractFeatures("https://example.com/" + strings.Repeat("a", MaxURLLength-len("https://example.com/")))
		assert.NoError(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, in := range []string{"", "   ", "ftp://example.com", "https://", "http://exa mple.com", "://nohost"} {
			_, err := ExtractFeatures(in)
			require.Error(t, err, "input %q", in)
			assert.True(t, errors.Is(err, ErrInvalidInput), "input %q: %v", in, err)

			var inv *InvalidInputError
			require.True(t, errors.As(err, &inv))
			assert.Equal(t, InputURL, inv.Kind)
		}
	})
}

func TestExtractKeywordFeatures(t *testing.T) {
	t.Run("SingleWord", func(t *testing.T) {
		kf, err := ExtractKeywordFeatures("seo")
		require.NoError(t, err)
		assert.Equal(t, "seo", kf.Keyword)
		assert.Equal(t, 3, kf.Length)
		assert.Equal(t, 1, kf.WordCount)
		assert.False(t, kf.HasDigits)
		assert.False(t, kf.HasCommercialTerm)
	})

	t.Run("CommercialTerms", func(t *testing.T) {
		kf, err := ExtractKeywordFeatures("  Best   SEO services, for small business ")
		require.NoError(t, err)
		assert.Equal(t, "Best SEO services, for small business", kf.Keyword)
		assert.Equal(t, 6, kf.WordCount)
		assert.True(t, kf.HasCommercialTerm)
		assert.Equal(t, []string{"best", "services"}, kf.CommercialTerms)
	})

	t.Run("Digits", func(t *testing.T) {
		kf, err := ExtractKeywordFeatures("seo tips 2024")
		require.NoError(t, err)
		assert.True(t, kf.HasDigits)
	})

	t.Run("Invalid", func(t *testing.T) {
		long := make([]byte, MaxKeywordLength+1)
		for i := range long {
			long[i] = 'a'
		}
		for _, in := range []string{"", " \t\n ", string(long)} {
			_, err := ExtractKeywordFeatures(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})
}
