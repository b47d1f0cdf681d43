package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRelated(t *testing.T) {
	t.Run("TemplatesWithoutResults", func(t *testing.T) {
		related := ExpandRelated("seo", nil)
		assert.Equal(t, []string{"best seo", "seo services", "seo guide", "how to use seo"}, related)
	})

	t.Run("BigramsFromTitles", func(t *testing.T) {
		items := []SearchItem{
			{Title: "Local SEO Checklist for 2025", DisplayLink: "example.com"},
			{Title: "Keyword research: the complete guide", DisplayLink: "guide.io"},
		}
		related := ExpandRelated("seo", items)
		assert.Equal(t, []string{"local seo", "seo checklist", "keyword research", "complete guide"}, related)
	})

	t.Run("FillsRemainderFromTemplates", func(t *testing.T) {
		items := []SearchItem{{Title: "Technical SEO"}}
		related := ExpandRelated("seo", items)
		assert.Equal(t, []string{"technical seo", "best seo", "seo services", "seo guide"}, related)
	})

	t.Run("SkipsKeywordAndDuplicates", func(t *testing.T) {
		items := []SearchItem{
			{Title: "SEO Tools"},
			{Title: "seo tools"},
			{Title: "Free SEO tools"},
		}
		related := ExpandRelated("seo tools", items)
		require.Len(t, related, MaxRelatedKeywords)
		lowered := make(map[string]bool)
		for _, r := range related {
			assert.NotEqual(t, "seo tools", strings.ToLower(r))
			assert.False(t, lowered[strings.ToLower(r)], "duplicate %q", r)
			lowered[strings.ToLower(r)] = true
		}
		assert.Equal(t, "free seo", related[0])
	})

	t.Run("MalformedItemsSkipped", func(t *testing.T) {
		items := []SearchItem{{Title: "   "}, {DisplayLink: "only-link.com"}, {Title: "Link Building Tips"}}
		related := ExpandRelated("backlinks", items)
		assert.Equal(t, []string{"link building", "building tips", "best backlinks", "backlinks services"}, related)
	})

	t.Run("EmptyKeyword", func(t *testing.T) {
		assert.Empty(t, ExpandRelated("  ", nil))
	})

	t.Run("NeverMoreThanFour", func(t *testing.T) {
		items := []SearchItem{{Title: "one two three four five six seven eight nine ten"}}
		assert.Len(t, ExpandRelated("zebra", items), MaxRelatedKeywords)
	})
}
