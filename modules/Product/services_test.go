package Product

import (
	"testing"

	"github.com/kigongo-vincent/invai-backend/internal/testdb"
	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*ProductService, *Supplier.Supplier) {
	t.Helper()
	db := testdb.Open(t, &Supplier.Supplier{}, &Product{})
	Supplier.InitializeService(db)
	InitializeService(db)

	sup, err := Supplier.GetSupplierService().CreateSupplier(Supplier.CreateSupplierRequest{
		Name: "TechSource Ltd", Contact: "techsource@example.com",
	})
	require.NoError(t, err)
	return GetProductService(), sup
}

func uintPtr(v uint) *uint { return &v }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func createProduct(t *testing.T, s *ProductService, supplierID uint, name string, category Category, qty uint) *Product {
	t.Helper()
	p, err := s.CreateProduct(CreateProductRequest{
		Name:       name,
		Category:   category,
		Quantity:   uintPtr(qty),
		Price:      price("19.99"),
		SupplierID: supplierID,
	})
	require.NoError(t, err)
	return p
}

func TestLevelForBoundaries(t *testing.T) {
	tests := []struct {
		qty  uint
		want StockLevel
	}{
		{0, StockCritical},
		{19, StockCritical},
		{20, StockLow},
		{49, StockLow},
		{50, StockGood},
		{1000, StockGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.qty), "quantity %d", tt.qty)
	}
}

func TestCreateProductDefaultsAndDerivedFields(t *testing.T) {
	s, sup := setup(t)

	p := createProduct(t, s, sup.ID, "Laptop Pro", Electronics, 6)
	assert.Equal(t, DefaultMinStock, p.MinStock)
	assert.Equal(t, StockCritical, p.StockLevel)
	assert.Equal(t, "TechSource Ltd", p.SupplierName)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")), p.Price.String())
}

func TestCreateProductValidation(t *testing.T) {
	s, sup := setup(t)

	_, err := s.CreateProduct(CreateProductRequest{
		Name: "Mug", Category: "Kitchen", Quantity: uintPtr(1), Price: price("3.50"), SupplierID: sup.ID,
	})
	require.ErrorIs(t, err, ErrInvalidCategory)
	assert.Contains(t, err.Error(), "Electronics, Furniture, Office Supplies")

	_, err = s.CreateProduct(CreateProductRequest{
		Name: "Mug", Category: OfficeSupplies, Quantity: uintPtr(1), Price: price("-1"), SupplierID: sup.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = s.CreateProduct(CreateProductRequest{
		Name: "Mug", Category: OfficeSupplies, Quantity: uintPtr(1), Price: price("1"), SupplierID: sup.ID + 100,
	})
	assert.ErrorIs(t, err, ErrUnknownSupplier)
}

func TestUpdateProductReturnsBothSnapshots(t *testing.T) {
	s, sup := setup(t)
	p := createProduct(t, s, sup.ID, "Standing Desk", Furniture, 60)

	old, updated, err := s.UpdateProduct(p.ID, UpdateProductRequest{Quantity: uintPtr(17)})
	require.NoError(t, err)
	assert.Equal(t, uint(60), old.Quantity)
	assert.Equal(t, StockGood, old.StockLevel)
	assert.Equal(t, uint(17), updated.Quantity)
	assert.Equal(t, StockCritical, updated.StockLevel)
	assert.Equal(t, "Standing Desk", updated.Name)

	_, _, err = s.UpdateProduct(p.ID+100, UpdateProductRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLowStockStatsAndReorderList(t *testing.T) {
	s, sup := setup(t)
	createProduct(t, s, sup.ID, "Laptop Pro", Electronics, 6)
	createProduct(t, s, sup.ID, "LED Monitor", Electronics, 39)
	createProduct(t, s, sup.ID, "Office Chair", Furniture, 150)
	createProduct(t, s, sup.ID, "Printer Ink", OfficeSupplies, 96)

	low, err := s.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Laptop Pro", low[0].Name)
	assert.Equal(t, "LED Monitor", low[1].Name)

	reorder, err := s.BelowMinStock()
	require.NoError(t, err)
	require.Len(t, reorder, 1)
	assert.Equal(t, "Laptop Pro", reorder[0].Name)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.LowStockCount)
	assert.Equal(t, []CategoryCount{
		{Category: Electronics, Count: 2},
		{Category: Furniture, Count: 1},
		{Category: OfficeSupplies, Count: 1},
	}, stats.Categories)
}

func TestDeleteProduct(t *testing.T) {
	s, sup := setup(t)
	p := createProduct(t, s, sup.ID, "Laptop Pro", Electronics, 6)

	require.NoError(t, s.DeleteProduct(p.ID))
	assert.ErrorIs(t, s.DeleteProduct(p.ID), ErrProductNotFound)
}
