package Supplier

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("/", getAllSuppliersHandler)
		suppliers.POST("/", createSupplierHandler)
		suppliers.GET("/:id/", getSupplierHandler)
		suppliers.PUT("/:id/", updateSupplierHandler)
		suppliers.PATCH("/:id/", updateSupplierHandler)
		suppliers.DELETE("/:id/", deleteSupplierHandler)
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrSupplierNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return 0, false
	}
	return uint(id), true
}

func getAllSuppliersHandler(c *gin.Context) {
	suppliers, err := GetSupplierService().GetAllSuppliers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func getSupplierHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	supplier, err := GetSupplierService().GetSupplierByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func createSupplierHandler(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	supplier, err := GetSupplierService().CreateSupplier(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func updateSupplierHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	supplier, err := GetSupplierService().UpdateSupplier(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func deleteSupplierHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := GetSupplierService().DeleteSupplier(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
