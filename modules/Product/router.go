package Product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/", getAllProductsHandler)
		products.POST("/", createProductHandler)
		products.GET("/low_stock/", lowStockHandler)
		products.GET("/stats/", statsHandler)
		products.GET("/:id/", getProductHandler)
		products.PUT("/:id/", updateProductHandler)
		products.PATCH("/:id/", updateProductHandler)
		products.DELETE("/:id/", deleteProductHandler)
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrUnknownSupplier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return uint(id), true
}

func getAllProductsHandler(c *gin.Context) {
	products, err := GetProductService().GetAllProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func lowStockHandler(c *gin.Context) {
	products, err := GetProductService().LowStock()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func statsHandler(c *gin.Context) {
	stats, err := GetProductService().Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func getProductHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := GetProductService().GetProductByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func createProductHandler(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := GetProductService().CreateProduct(req)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.ProductCreated(product)

	c.JSON(http.StatusCreated, product)
}

func updateProductHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	old, updated, err := GetProductService().UpdateProduct(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.ProductUpdated(old, updated)

	c.JSON(http.StatusOK, updated)
}

func deleteProductHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := GetProductService().DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
