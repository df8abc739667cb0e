package truthindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreDeterministic(t *testing.T) {
	text := "The city water supply was contaminated last Tuesday"
	sources := []string{"https://reuters.com/article/123", "https://someblog.blogspot.com/post"}

	first := Score(text, sources)
	second := Score(text, sources)
	require.Equal(t, first, second)

	// A different text must not collide on the exact same score path
	other := Score(text+" allegedly", sources)
	require.GreaterOrEqual(t, other, 0.0)
	require.LessOrEqual(t, other, 100.0)
}

func TestScoreRange(t *testing.T) {
	cases := []struct {
		text    string
		sources []string
	}{
		{"", nil},
		{"short claim", nil},
		{"claim with sources", []string{"https://who.int/report"}},
		{"claim with mixed sources", []string{"https://bbc.com/news", "forwarded chainmail"}},
	}

	for _, tc := range cases {
		score := Score(tc.text, tc.sources)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 100.0)
	}
}

func TestAllUnreliableSourcesCapped(t *testing.T) {
	sources := []string{
		"https://randomblog.blogspot.com/miracle-cure",
		"forwarded whatsapp message",
		"https://gossip-site.tumblr.com/post/1",
	}

	score := Score("Miracle cure discovered in local village", sources)
	require.LessOrEqual(t, score, 50.0)
}

func TestReliableSourcesScoreHigherThanUnreliable(t *testing.T) {
	text := "Study links exercise to improved heart health"

	reliable := Score(text, []string{"https://nature.com/articles/1", "https://cdc.gov/heart"})
	unreliable := Score(text, []string{"https://healthblog.blogspot.com/1", "rumor mill weekly"})

	require.Greater(t, reliable, unreliable)
}

func TestClassify(t *testing.T) {
	require.Equal(t, "reliable", Classify("https://www.reuters.com/world"))
	require.Equal(t, "reliable", Classify("https://stanford.edu/paper"))
	require.Equal(t, "unreliable", Classify("Forwarded WhatsApp chain"))
	require.Equal(t, "neutral", Classify("https://example.com/article"))

	// Unreliable markers win over reliable ones within the same line
	require.Equal(t, "unreliable", Classify("https://fake.gov.blogspot.com"))
}
