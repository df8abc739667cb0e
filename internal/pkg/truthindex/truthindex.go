package truthindex

import "strings"

// Source reliability buckets. The classification is intentionally coarse:
// it is a fallback used only when the external scoring service is disabled
// or unreachable, so it has to be deterministic and dependency-free.
const (
	bucketReliable   = "reliable"
	bucketUnreliable = "unreliable"
	bucketNeutral    = "neutral"
)

var reliableMarkers = []string{
	".gov", ".edu", "reuters.", "apnews.", "bbc.", "nature.com",
	"sciencedirect.", "who.int", "un.org", "doi.org",
}

var unreliableMarkers = []string{
	"blogspot.", "wordpress.com", "tumblr.", "facebook.com", "t.me",
	"chainmail", "forwarded", "whatsapp", "rumor", "gossip",
}

// Score computes a deterministic 0-100 truth index for a claim text and its
// source lines. Identical input always yields the identical score.
func Score(text string, sources []string) float64 {
	content := contentScore(text, sources)

	if len(sources) == 0 {
		// No sources to weigh: blend the content score with a neutral prior.
		return clamp(0.7*content + 0.3*50)
	}

	reliability, allUnreliable := reliabilityScore(sources)
	score := clamp(0.9*reliability + 0.1*content)

	if allUnreliable && score > 50 {
		score = 50
	}
	return score
}

// Classify buckets a single source line as reliable, unreliable or neutral.
func Classify(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))
	for _, m := range unreliableMarkers {
		if strings.Contains(s, m) {
			return bucketUnreliable
		}
	}
	for _, m := range reliableMarkers {
		if strings.Contains(s, m) {
			return bucketReliable
		}
	}
	return bucketNeutral
}

func reliabilityScore(sources []string) (float64, bool) {
	var reliable, unreliable, neutral int
	for _, src := range sources {
		switch Classify(src) {
		case bucketReliable:
			reliable++
		case bucketUnreliable:
			unreliable++
		default:
			neutral++
		}
	}

	total := reliable + unreliable + neutral
	weighted := float64(reliable)*90 + float64(neutral)*50 + float64(unreliable)*15
	return weighted / float64(total), unreliable == total
}

// contentScore derives a stable pseudo-score from the claim text plus its
// sources using a rolling hash. It carries no semantic meaning; it only has
// to be deterministic and evenly spread over the output range.
func contentScore(text string, sources []string) float64 {
	var h uint32 = 2166136261
	feed := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint32(s[i])
			h *= 16777619
		}
	}

	feed(text)
	for _, src := range sources {
		feed(src)
	}

	return float64(h%1000) / 10.0
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
