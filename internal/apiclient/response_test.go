package apiclient

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseNormalization(t *testing.T) {
	t.Run("Nested Data Envelope", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"data": map[string]any{
				"status":     "blocked",
				"spam_score": 12.0,
			},
			"request_id": "req-123",
		}, "")

		assert.Equal(t, "blocked", resp.Status())
		assert.Equal(t, 12.0, resp.RawSpamScore())
		assert.InDelta(t, 0.8, resp.SpamScore(), 1e-9)
		assert.Equal(t, "req-123", resp.RequestID())
	})

	t.Run("Flat Body", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"status":     "suspicious",
			"spam_score": 7.5,
		}, "")

		assert.Equal(t, "suspicious", resp.Status())
		assert.InDelta(t, 0.5, resp.SpamScore(), 1e-9)
	})

	t.Run("Missing Fields Default Safe", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{}, "")

		assert.Equal(t, "safe", resp.Status())
		assert.Equal(t, 0.0, resp.SpamScore())
		assert.Empty(t, resp.Symbols())
		assert.Empty(t, resp.ThreatCategories())
		assert.Empty(t, resp.RequestID())
	})

	t.Run("Nil Body", func(t *testing.T) {
		resp := newResponse(true, 200, nil, "")
		assert.Equal(t, "safe", resp.Status())
		assert.Equal(t, 0.0, resp.RawSpamScore())
	})
}

func TestSpamScoreScale(t *testing.T) {
	t.Run("Saturates At One", func(t *testing.T) {
		for _, raw := range []float64{15.0, 20.0, 100.0} {
			resp := newResponse(true, 200, map[string]any{"spam_score": raw}, "")
			assert.Equal(t, 1.0, resp.SpamScore(), fmt.Sprintf("raw=%.1f", raw))
		}
	})

	t.Run("Monotonic Non-Decreasing", func(t *testing.T) {
		prev := -1.0
		for raw := 0.0; raw <= 30.0; raw += 0.5 {
			resp := newResponse(true, 200, map[string]any{"spam_score": raw}, "")
			score := resp.SpamScore()
			assert.GreaterOrEqual(t, score, prev)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			prev = score
		}
	})

	t.Run("Linear Below Saturation", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{"spam_score": 3.0}, "")
		assert.InDelta(t, 0.2, resp.SpamScore(), 1e-9)
	})
}

func TestSymbols(t *testing.T) {
	t.Run("Mixed String And Object Entries", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"symbols": []any{
				map[string]any{"name": "BAYES_SPAM"},
				"URIBL_BLACK",
			},
		}, "")

		assert.Equal(t, []string{"BAYES_SPAM", "URIBL_BLACK"}, resp.Symbols())
	})

	t.Run("Object Without Name Becomes Empty String", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"symbols": []any{map[string]any{"score": 2.5}, "DKIM_INVALID"},
		}, "")

		assert.Equal(t, []string{"", "DKIM_INVALID"}, resp.Symbols())
	})

	t.Run("Order Preserved And Duplicates Kept", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"symbols": []any{"A", "B", "A"},
		}, "")

		assert.Equal(t, []string{"A", "B", "A"}, resp.Symbols())
	})

	t.Run("Details Pass Through", func(t *testing.T) {
		raw := []any{map[string]any{"name": "X", "score": 1.0}}
		resp := newResponse(true, 200, map[string]any{"symbols": raw}, "")
		assert.Equal(t, raw, resp.SymbolDetails())
	})
}

func TestThreatCategories(t *testing.T) {
	resp := newResponse(true, 200, map[string]any{
		"data": map[string]any{
			"threat_categories": []any{"phishing", "malware"},
		},
	}, "")

	assert.Equal(t, []string{"phishing", "malware"}, resp.ThreatCategories())
}

func TestIsSpam(t *testing.T) {
	t.Run("Blocked And Successful", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{"status": "blocked"}, "")
		assert.True(t, resp.IsSpam())
	})

	t.Run("Blocked But Failed Response", func(t *testing.T) {
		resp := newResponse(false, 500, map[string]any{"status": "blocked"}, "API error")
		assert.False(t, resp.IsSpam())
	})

	t.Run("Safe", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{"status": "safe"}, "")
		assert.False(t, resp.IsSpam())
	})
}

func TestUsageData(t *testing.T) {
	t.Run("Flat Body", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"requests_today":     float64(120),
			"requests_limit":     float64(1000),
			"requests_remaining": float64(880),
		}, "")

		usage := resp.UsageData()
		assert.Equal(t, 120, usage["requests_today"])
		assert.Equal(t, 1000, usage["requests_limit"])
		assert.Equal(t, 880, usage["requests_remaining"])
	})

	t.Run("Nested Data Envelope", func(t *testing.T) {
		resp := newResponse(true, 200, map[string]any{
			"data": map[string]any{"requests_today": float64(5)},
		}, "")

		usage := resp.UsageData()
		assert.Equal(t, 5, usage["requests_today"])
		assert.Equal(t, 0, usage["requests_limit"])
	})
}

func TestIsConnectionValid(t *testing.T) {
	assert.True(t, newResponse(true, 200, nil, "").IsConnectionValid())
	assert.False(t, newResponse(false, 503, nil, "API error").IsConnectionValid())
}
