package analyzer

import "math"

// Simulated scores never leave this band
const (
	MinSimulatedScore = 15
	MaxSimulatedScore = 98
)

// Generator offsets, one per derived field so that fields do not move in lockstep
const (
	offsetSEO uint32 = iota + 1
	offsetPerformance
	offsetAccessibility
	offsetBestPractices
	offsetLoadTime
	offsetFCP
	offsetPageWeight
	offsetRequests
	offsetTTFB
)

const (
	offsetVolume     uint32 = 101
	offsetDifficulty uint32 = 102
	offsetCPC        uint32 = 103

	// related keyword i uses offsetRelated + 3*i + {0,1,2}
	offsetRelated uint32 = 201
)

// Noise amplitudes around the base scores
const (
	noiseNarrow = 6.0
	noiseWide   = 9.0
)

// BaseScores returns the category scores before noise is applied
func BaseScores(f Features) URLScores {
	seo := 70
	if f.TLDClass == TLDPremium {
		seo += 5
	}
	if f.HasDash {
		seo -= 5
	}
	if f.DomainLength > 20 {
		seo -= 5
	}
	if f.PathLength > 30 {
		seo -= 8
	}

	perf := 65
	if f.HasWWW {
		perf -= 5
	}

	bp := 68
	if f.HasHTTPS {
		bp += 10
	}

	return URLScores{
		SEO:           seo,
		Performance:   perf,
		Accessibility: 75,
		BestPractices: bp,
	}
}

// ComputeScores applies seeded noise to the base scores and clamps them to
// the simulated confidence band
func ComputeScores(seed uint32, f Features) URLScores {
	base := BaseScores(f)
	return URLScores{
		SEO:           noisyScore(seed, offsetSEO, base.SEO, noiseNarrow),
		Performance:   noisyScore(seed, offsetPerformance, base.Performance, noiseWide),
		Accessibility: noisyScore(seed, offsetAccessibility, base.Accessibility, noiseNarrow),
		BestPractices: noisyScore(seed, offsetBestPractices, base.BestPractices, noiseWide),
	}
}

func noisyScore(seed, offset uint32, base int, amplitude float64) int {
	v := float64(base) + Next(seed, offset, -amplitude, amplitude)
	return clampInt(int(math.Round(v)), MinSimulatedScore, MaxSimulatedScore)
}

// DeriveMetrics produces display metrics consistent with the performance score
func DeriveMetrics(seed uint32, s URLScores) PageMetrics {
	slowness := float64(100-s.Performance) / 100

	load := 0.8 + slowness*4 + Next(seed, offsetLoadTime, 0, 0.8)
	fcp := load*0.45 + Next(seed, offsetFCP, 0, 0.3)
	weight := 600 + slowness*2400 + Next(seed, offsetPageWeight, 0, 400)
	requests := 20 + int(math.Round(slowness*60)) + Generator{Seed: seed}.Int(offsetRequests, 0, 15)
	ttfb := 120 + slowness*500 + Next(seed, offsetTTFB, 0, 80)

	return PageMetrics{
		LoadTime:             round1(load),
		FirstContentfulPaint: round1(fcp),
		PageWeightKB:         int(math.Round(weight)),
		Requests:             requests,
		TimeToFirstByteMs:    int(math.Round(ttfb)),
	}
}

// KeywordEstimate holds keyword metrics before noise is applied
type KeywordEstimate struct {
	Volume     float64
	Difficulty float64
	CPC        float64
}

// KeywordBase returns the noise-free keyword estimate
func KeywordBase(kf KeywordFeatures) KeywordEstimate {
	cpc := 1 + 0.4*float64(kf.WordCount)
	if kf.HasDigits {
		cpc += 0.5
	}
	return KeywordEstimate{
		Volume:     1000 + 500*float64(kf.WordCount),
		Difficulty: 40 + 1.5*float64(kf.Length) + 5*float64(kf.WordCount),
		CPC:        cpc,
	}
}

// ComputeKeywordMetrics estimates volume, difficulty and CPC for a keyword
func ComputeKeywordMetrics(seed uint32, kf KeywordFeatures) KeywordMetrics {
	base := KeywordBase(kf)
	volume := base.Volume + Next(seed, offsetVolume, 0, 2000)
	difficulty := base.Difficulty + Next(seed, offsetDifficulty, 0, 20)
	cpc := base.CPC + Next(seed, offsetCPC, 0, 1)

	d := clampInt(int(math.Round(difficulty)), 0, 100)
	return KeywordMetrics{
		Keyword:     kf.Keyword,
		Volume:      max(0, int(math.Round(volume))),
		Difficulty:  d,
		CPC:         math.Max(0, round2(cpc)),
		Competition: CompetitionLevel(d),
		Intent:      intentOf(kf),
	}
}

// RelatedMetrics scores related keywords as fractions of the primary. No
// related keyword ever exceeds the primary on volume, difficulty or CPC.
func RelatedMetrics(seed uint32, primary KeywordMetrics, keywords []string) []KeywordMetrics {
	out := make([]KeywordMetrics, 0, len(keywords))
	for i, kw := range keywords {
		off := offsetRelated + uint32(3*i)

		volume := int(math.Floor(float64(primary.Volume) * Next(seed, off, 0.2, 1.0)))
		difficulty := int(math.Floor(float64(primary.Difficulty) * Next(seed, off+1, 0.6, 1.0)))
		cpc := math.Floor(primary.CPC*Next(seed, off+2, 0.3, 1.0)*100) / 100

		volume = clampInt(volume, 0, primary.Volume)
		difficulty = clampInt(difficulty, 0, min(100, primary.Difficulty))
		cpc = math.Min(math.Max(cpc, 0), primary.CPC)

		kf, err := ExtractKeywordFeatures(kw)
		intent := "informational"
		if err == nil {
			intent = intentOf(kf)
		}
		out = append(out, KeywordMetrics{
			Keyword:     kw,
			Volume:      volume,
			Difficulty:  difficulty,
			CPC:         cpc,
			Competition: CompetitionLevel(difficulty),
			Intent:      intent,
		})
	}
	return out
}

// CompetitionLevel buckets a difficulty score into low, medium or high
func CompetitionLevel(difficulty int) Severity {
	switch {
	case difficulty >= 70:
		return SeverityHigh
	case difficulty >= 40:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func intentOf(kf KeywordFeatures) string {
	if kf.HasCommercialTerm {
		return "commercial"
	}
	return "informational"
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
