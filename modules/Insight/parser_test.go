package Insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsightsFencedReply(t *testing.T) {
	reply := "Here you go:\n```json\n[{\"type\":\"warning\",\"title\":\"Low stock\",\"description\":\"5 of 40 products are low\",\"impact\":\"high\",\"metric\":\"12.5%\"}]\n```\nAnything else?"

	got, err := parseInsights(reply)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "warning", got[0].Type)
	assert.Equal(t, "Low stock", got[0].Title)
	assert.Equal(t, "high", got[0].Impact)
	require.NotNil(t, got[0].Metric)
	assert.Equal(t, "12.5%", *got[0].Metric)
	assert.True(t, strings.HasPrefix(got[0].ID, "ai-"))
	assert.True(t, strings.HasSuffix(got[0].ID, "-0"))
}

func TestParseInsightsDefaults(t *testing.T) {
	got, err := parseInsights(`[{}, "skip me", {"title":"Orders up","metric":42}]`)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Insight{
		ID:          got[0].ID,
		Type:        "info",
		Title:       "AI Insight",
		Description: "Generated insight",
		Impact:      "medium",
	}, got[0])
	assert.Nil(t, got[0].Metric)

	assert.Equal(t, "Orders up", got[1].Title)
	require.NotNil(t, got[1].Metric)
	assert.Equal(t, "42", *got[1].Metric)
	assert.True(t, strings.HasSuffix(got[1].ID, "-2"))
}

func TestParseInsightsStableIDs(t *testing.T) {
	a, err := parseInsights(`[{"title":"x"}]`)
	require.NoError(t, err)
	b, err := parseInsights("```\n[{\"title\":\"x\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestParseInsightsFailures(t *testing.T) {
	for name, reply := range map[string]string{
		"malformed":   `[{"title": "broken"`,
		"object":      `{"title":"not a list"}`,
		"prose":       "I cannot help with that.",
		"empty":       "",
		"bad element": `[{"title": }]`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := parseInsights(reply)
			assert.Error(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestParseInsightsEmptyArray(t *testing.T) {
	got, err := parseInsights("[]")
	require.NoError(t, err)
	assert.Empty(t, got)
}
