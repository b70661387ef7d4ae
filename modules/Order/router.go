package Order

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kigongo-vincent/invai-backend/modules/User"
)

func RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/", getAllOrdersHandler)
		orders.POST("/", createOrderHandler)
		orders.GET("/stats/", statsHandler)
		orders.GET("/:id/", getOrderHandler)
		orders.PUT("/:id/", updateOrderHandler)
		orders.PATCH("/:id/", updateOrderHandler)
		orders.DELETE("/:id/", deleteOrderHandler)
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrUnknownProduct), errors.Is(err, ErrUnknownCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return uint(id), true
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("dates must be YYYY-MM-DD or RFC3339")
}

func getAllOrdersHandler(c *gin.Context) {
	filter := OrderFilter{Status: Status(c.Query("status"))}

	if userParam := c.Query("user"); userParam != "" {
		id, err := strconv.ParseUint(userParam, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		uid := uint(id)
		filter.UserID = &uid
	}

	var err error
	if filter.StartDate, err = parseDate(c.Query("start_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.EndDate, err = parseDate(c.Query("end_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := GetOrderService().GetAllOrders(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func statsHandler(c *gin.Context) {
	stats, err := GetOrderService().Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func getOrderHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := GetOrderService().GetOrderByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func createOrderHandler(c *gin.Context) {
	userID, ok := User.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := GetOrderService().CreateOrder(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.OrderCreated(order)

	c.JSON(http.StatusCreated, order)
}

func updateOrderHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, oldStatus, err := GetOrderService().UpdateOrder(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.Status != oldStatus {
		hooks.OrderStatusChanged(order, oldStatus)
	}

	c.JSON(http.StatusOK, order)
}

func deleteOrderHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	snapshot, err := GetOrderService().DeleteOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.OrderDeleted(*snapshot)

	c.Status(http.StatusNoContent)
}
