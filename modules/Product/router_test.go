package Product

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	created []*Product
	updates [][2]*Product
}

func (h *recordingHooks) ProductCreated(p *Product) { h.created = append(h.created, p) }
func (h *recordingHooks) ProductUpdated(old, updated *Product) {
	h.updates = append(h.updates, [2]*Product{old, updated})
}

func newRouter(t *testing.T) (*gin.Engine, *recordingHooks, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_, sup := setup(t)
	h := &recordingHooks{}
	SetHooks(h)
	t.Cleanup(func() { SetHooks(nil) })

	r := gin.New()
	RegisterRoutes(r.Group("/api"))
	return r, h, sup.ID
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndUpdateFireHooks(t *testing.T) {
	r, h, supplierID := newRouter(t)

	w := send(r, http.MethodPost, "/api/products/", gin.H{
		"name":     "Laptop Pro",
		"category": "Electronics",
		"quantity": 60,
		"price":    "1200.00",
		"supplier": supplierID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, h.created, 1)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Good", created["stock_level"])
	assert.Equal(t, "TechSource Ltd", created["supplier_name"])
	assert.EqualValues(t, 10, created["min_stock"])

	w = send(r, http.MethodPatch, "/api/products/1/", gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, h.updates, 1)
	assert.Equal(t, uint(60), h.updates[0][0].Quantity)
	assert.Equal(t, uint(3), h.updates[0][1].Quantity)
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	r, h, supplierID := newRouter(t)

	w := send(r, http.MethodPost, "/api/products/", gin.H{
		"name": "Mug", "category": "Kitchen", "quantity": 1, "price": "2.00", "supplier": supplierID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category must be one of")

	w = send(r, http.MethodPost, "/api/products/", gin.H{
		"name": "Mug", "category": "Furniture", "quantity": -4, "price": "2.00", "supplier": supplierID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, h.created)
}

func TestStatsAndLowStockEndpoints(t *testing.T) {
	r, _, supplierID := newRouter(t)
	for _, qty := range []int{5, 45, 200} {
		w := send(r, http.MethodPost, "/api/products/", gin.H{
			"name": "Item", "category": "Furniture", "quantity": qty, "price": "10", "supplier": supplierID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := send(r, http.MethodGet, "/api/products/low_stock/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	assert.Len(t, low, 2)

	w = send(r, http.MethodGet, "/api/products/stats/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_products":3,"low_stock_count":2,"categories":[{"category":"Furniture","count":3}]}`, w.Body.String())

	w = send(r, http.MethodGet, "/api/products/99/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
