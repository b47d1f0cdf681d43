package analyzer

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywordLength bounds keyword inputs, in runes
const MaxKeywordLength = 120

// MaxURLLength bounds URL inputs, in bytes after trimming
const MaxURLLength = 2048

// schemePrefix matches an explicit scheme at the start of a URL. A "://"
// further along (a redirect target in the query, say) is not a scheme.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

var premiumTLDs = map[string]bool{
	"com": true,
	"org": true,
	"net": true,
	"io":  true,
	"ai":  true,
}

// commercialTerms is the high-value vocabulary that signals buying intent
var commercialTerms = map[string]bool{
	"buy":      true,
	"best":     true,
	"price":    true,
	"cheap":    true,
	"compare":  true,
	"review":   true,
	"service":  true,
	"services": true,
	"expert":   true,
	"hire":     true,
	"cost":     true,
	"discount": true,
	"deal":     true,
	"top":      true,
}

// NormalizeURL trims raw and prepends https:// when no scheme is present
func NormalizeURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, invalidInput(InputURL, raw, "empty url", nil)
	}
	if len(trimmed) > MaxURLLength {
		return nil, invalidInput(InputURL, raw, "url too long", nil)
	}
	if !schemePrefix.MatchString(trimmed) {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, invalidInput(InputURL, raw, "cannot parse url", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, invalidInput(InputURL, raw, "unsupported scheme "+u.Scheme, nil)
	}
	if u.Hostname() == "" || strings.ContainsAny(u.Hostname(), " \t") {
		return nil, invalidInput(InputURL, raw, "missing host", nil)
	}
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

// ExtractFeatures derives the structural features of a URL
func ExtractFeatures(raw string) (Features, error) {
	u, err := NormalizeURL(raw)
	if err != nil {
		return Features{}, err
	}

	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		host = ip.String()
	}
	domain := strings.TrimPrefix(host, "www.")

	tld := ""
	if i := strings.LastIndex(domain, "."); i >= 0 {
		tld = domain[i+1:]
	}
	class := TLDOther
	if premiumTLDs[tld] {
		class = TLDPremium
	}

	depth := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			depth++
		}
	}

	normalized := u.String()
	return Features{
		NormalizedURL: normalized,
		Host:          host,
		Domain:        domain,
		DomainLength:  len(domain),
		HasDash:       strings.Contains(domain, "-"),
		HasWWW:        strings.HasPrefix(host, "www."),
		HasHTTPS:      u.Scheme == "https",
		TLD:           tld,
		TLDClass:      class,
		PathLength:    len(normalized),
		PathDepth:     depth,
	}, nil
}

// ExtractKeywordFeatures derives the structural features of a keyword
func ExtractKeywordFeatures(keyword string) (KeywordFeatures, error) {
	words := strings.Fields(keyword)
	normalized := strings.Join(words, " ")
	if normalized == "" {
		return KeywordFeatures{}, invalidInput(InputKeyword, keyword, "empty keyword", nil)
	}
	length := utf8.RuneCountInString(normalized)
	if length > MaxKeywordLength {
		return KeywordFeatures{}, invalidInput(InputKeyword, keyword, "keyword too long", nil)
	}

	kf := KeywordFeatures{
		Keyword:   normalized,
		Length:    length,
		WordCount: len(words),
		HasDigits: strings.IndexFunc(normalized, unicode.IsDigit) >= 0,
	}
	for _, w := range words {
		term := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if commercialTerms[term] {
			kf.HasCommercialTerm = true
			kf.CommercialTerms = append(kf.CommercialTerms, term)
		}
	}
	return kf, nil
}
