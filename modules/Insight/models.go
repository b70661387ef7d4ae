package Insight

type PageType string

const (
	Dashboard PageType = "dashboard"
	Products  PageType = "products"
	Users     PageType = "users"
	Orders    PageType = "orders"
	Suppliers PageType = "suppliers"
	Profile   PageType = "profile"
	Forecasts PageType = "forecasts"
)

var PageTypes = []PageType{Dashboard, Products, Users, Orders, Suppliers, Profile, Forecasts}

func (p PageType) Valid() bool {
	for _, v := range PageTypes {
		if p == v {
			return true
		}
	}
	return false
}

const (
	DefaultCount    = 3
	MaxCount        = 10
	DefaultLanguage = "en"
)

// Insight is one card shown on a dashboard page.
type Insight struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Impact      string  `json:"impact"`
	Metric      *string `json:"metric"`
}

type GenerateRequest struct {
	VisibleData map[string]interface{} `json:"visible_data"`
	PageType    PageType               `json:"page_type"`
	Count       int                    `json:"count"`
	Language    string                 `json:"language"`
}

type GenerateResponse struct {
	Success       bool      `json:"success"`
	Insights      []Insight `json:"insights"`
	PageType      PageType  `json:"page_type"`
	TotalInsights int       `json:"total_insights"`
}

type StatusResponse struct {
	ServiceAvailable bool   `json:"service_available"`
	ServiceName      string `json:"service_name"`
	Message          string `json:"message"`
}

// clampCount bounds n to 1..MaxCount; zero means the default.
func clampCount(n int) int {
	switch {
	case n == 0:
		return DefaultCount
	case n < 1:
		return 1
	case n > MaxCount:
		return MaxCount
	}
	return n
}
