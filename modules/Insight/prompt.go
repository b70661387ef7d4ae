package Insight

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"pt": "Portuguese",
	"sw": "Swahili",
	"ar": "Arabic",
	"zh": "Chinese",
}

func languageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = DefaultLanguage
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func buildPrompt(data map[string]interface{}, page PageType, count int, language string) string {
	return fmt.Sprintf(`Analyze this %s data and return %d business insights as JSON only.

DATA: %s

Return ONLY a JSON array with %d objects:
[{"type":"positive|warning|info","title":"specific title","description":"actionable insight with numbers","impact":"high|medium|low","metric":"key metric"}]

Requirements: Use actual numbers, prioritize by impact, be concise. Write the title, description and metric in %s; keep the JSON keys and the type and impact values in English.`,
		page, count, summarize(data, page), count, languageName(language))
}

// summarize condenses the on-screen aggregates of a page into one line.
func summarize(data map[string]interface{}, page PageType) string {
	switch page {
	case Dashboard:
		totals, _ := data["totalCounts"].(map[string]interface{})
		return fmt.Sprintf("Dashboard Overview: %s total products, %s total orders, %s users, %s products with low stock, %d recent orders visible",
			number(totals, "products"), number(totals, "orders"), number(totals, "users"),
			number(data, "lowStockProductsCount"), length(data, "recentOrders"))
	case Products:
		return fmt.Sprintf("Products Page: Showing %s of %s products, %s with low stock, filtered by category '%s', search term '%s'",
			number(data, "displayedProducts"), number(data, "totalProducts"), number(data, "lowStockCount"),
			text(data, "selectedCategory", "all"), text(data, "searchTerm", ""))
	case Users:
		return fmt.Sprintf("Users Page: Showing %s of %s users, filtered by role '%s', search '%s', role distribution: %s",
			number(data, "displayedUsers"), number(data, "totalUsers"),
			text(data, "selectedRole", "all"), text(data, "searchTerm", ""), compact(data, "roleDistribution"))
	case Orders:
		return fmt.Sprintf("Orders Page: Showing %s of %s orders, filtered by status '%s', status distribution: %s",
			number(data, "displayedOrders"), number(data, "totalOrders"),
			text(data, "statusFilter", "all"), compact(data, "statusCounts"))
	case Suppliers:
		return fmt.Sprintf("Suppliers Page: Showing %s of %s suppliers, search term '%s'",
			number(data, "displayedSuppliers"), number(data, "totalSuppliers"), text(data, "searchTerm", ""))
	case Profile:
		return fmt.Sprintf("Profile Page: User has %d total orders, %d recent activities",
			length(data, "userOrders"), length(data, "recentActivity"))
	case Forecasts:
		return fmt.Sprintf("Forecasts Page: %s demand forecasts available, trend analysis shows %d product predictions",
			number(data, "totalForecasts"), length(data, "forecastTrends"))
	}
	return fmt.Sprintf("Page %s: General data analysis available", page)
}

func number(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return "0"
	}
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case json.Number:
		return n.String()
	}
	return fmt.Sprint(v)
}

func length(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case []interface{}:
		return len(v)
	case map[string]interface{}:
		return len(v)
	}
	return 0
}

func text(data map[string]interface{}, key, fallback string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func compact(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return "{}"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
