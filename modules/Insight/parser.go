package Insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var errNotAList = errors.New("response is not a JSON array")

// parseInsights extracts the insight array from a model reply. Replies are
// often wrapped in code fences or prose, so the outermost [...] is decoded.
func parseInsights(reply string) ([]Insight, error) {
	body := stripFences(strings.TrimSpace(reply))

	if start, end := strings.Index(body, "["), strings.LastIndex(body, "]"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	items, ok := decoded.([]interface{})
	if !ok {
		return nil, errNotAList
	}

	insights := make([]Insight, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		insights = append(insights, Insight{
			ID:          insightID(fields, i),
			Type:        stringField(fields, "type", "info"),
			Title:       stringField(fields, "title", "AI Insight"),
			Description: stringField(fields, "description", "Generated insight"),
			Impact:      stringField(fields, "impact", "medium"),
			Metric:      metricField(fields),
		})
	}
	return insights, nil
}

func stripFences(s string) string {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(s, fence)
		if start < 0 {
			continue
		}
		rest := s[start+len(fence):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return s
}

func insightID(fields map[string]interface{}, index int) string {
	raw, _ := json.Marshal(fields)
	digest := uuid.NewSHA1(uuid.NameSpaceOID, raw).String()
	return fmt.Sprintf("ai-%s-%d", digest[:8], index)
}

func stringField(fields map[string]interface{}, key, fallback string) string {
	if s, ok := fields[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func metricField(fields map[string]interface{}) *string {
	var s string
	switch v := fields["metric"].(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil
	}
	return &s
}
