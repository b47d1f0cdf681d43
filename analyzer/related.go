package analyzer

import (
	"strings"
	"unicode"
)

// MaxRelatedKeywords caps the related-keyword list
const MaxRelatedKeywords = 4

var relatedTemplates = []string{
	"best %s",
	"%s services",
	"%s guide",
	"how to use %s",
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"with": true, "your": true, "you": true,
}

// ExpandRelated derives up to four related keywords. Bigrams from live result
// titles come first; generic templates fill the remainder.
func ExpandRelated(keyword string, items []SearchItem) []string {
	kw := strings.Join(strings.Fields(keyword), " ")
	lowerKW := strings.ToLower(kw)
	if lowerKW == "" {
		return nil
	}

	seen := make(map[string]bool)
	related := make([]string, 0, MaxRelatedKeywords)
	add := func(candidate string) {
		c := strings.ToLower(candidate)
		if len(related) >= MaxRelatedKeywords || seen[c] || strings.Contains(lowerKW, c) {
			return
		}
		seen[c] = true
		related = append(related, candidate)
	}

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		for _, bigram := range titleBigrams(title) {
			add(bigram)
		}
	}

	for _, tpl := range relatedTemplates {
		add(strings.Replace(tpl, "%s", kw, 1))
	}
	return related
}

// titleBigrams splits a title into lower-case words and returns adjacent
// pairs, skipping pairs that contain a stopword or a single character
func titleBigrams(title string) []string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(words))
	for i := 0; i+1 < len(words); i++ {
		a, b := words[i], words[i+1]
		if len(a) < 2 || len(b) < 2 || stopwords[a] || stopwords[b] {
			continue
		}
		out = append(out, a+" "+b)
	}
	return out
}
