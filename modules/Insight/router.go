package Insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

const serviceName = "Google Gemini Pro"

var generateSchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type":     "object",
	"required": []string{"visible_data"},
	"properties": map[string]interface{}{
		"visible_data": map[string]interface{}{"type": "object", "minProperties": 1},
		"page_type":    map[string]interface{}{"type": "string"},
		"count":        map[string]interface{}{"type": "integer"},
		"language":     map[string]interface{}{"type": "string"},
	},
})

// RegisterRoutes mounts the insight endpoints. protect guards generation;
// the status endpoint stays public.
func RegisterRoutes(rg *gin.RouterGroup, protect ...gin.HandlerFunc) {
	rg.GET("/status/", statusHandler)
	rg.POST("/generate/", append(protect, generateHandler)...)
}

func pageTypeNames() string {
	names := make([]string, len(PageTypes))
	for i, p := range PageTypes {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// validateGenerate checks the body shape and returns a client-facing message.
func validateGenerate(body []byte) error {
	result, err := gojsonschema.Validate(generateSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.New("request body must be a JSON object")
	}
	if result.Valid() {
		return nil
	}
	for _, desc := range result.Errors() {
		if desc.Field() == "visible_data" || strings.Contains(desc.Description(), "visible_data") {
			return errors.New("visible_data is required")
		}
	}
	first := result.Errors()[0]
	return fmt.Errorf("%s: %s", first.Field(), first.Description())
}

func generateHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	if err := validateGenerate(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PageType == "" {
		req.PageType = Dashboard
	}
	if !req.PageType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_type must be one of: " + pageTypeNames()})
		return
	}

	insights, err := GetInsightService().Generate(c.Request.Context(), req)
	if errors.Is(err, ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "AI service not configured. Please set GEMINI_API_KEY environment variable.",
			"insights": []Insight{},
		})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "insights": []Insight{}})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:       true,
		Insights:      insights,
		PageType:      req.PageType,
		TotalInsights: len(insights),
	})
}

func statusHandler(c *gin.Context) {
	available := GetInsightService().Configured()
	message := "AI insights service not configured"
	if available {
		message = "AI insights service is ready"
	}
	c.JSON(http.StatusOK, StatusResponse{
		ServiceAvailable: available,
		ServiceName:      serviceName,
		Message:          message,
	})
}
