package service

import (
	"regexp"
	"testing"

	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/internal/app/repository"
	"github.com/oguzk/stockbasket-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo)
}

func TestProductService_CreateProduct_GeneratesSKU(t *testing.T) {
	productService := setupProductServiceTest(t)

	product := &model.Product{
		Name:          "Laptop Stand",
		Price:         decimal.RequireFromString("24.99"),
		StockQuantity: 10,
	}
	err := productService.CreateProduct(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Regexp(t, regexp.MustCompile(`^SB-[0-9A-F]{8}$`), product.SKU)
}

func TestProductService_CreateProduct_KeepsProvidedSKU(t *testing.T) {
	productService := setupProductServiceTest(t)

	product := &model.Product{
		SKU:   "SB-CUSTOM01",
		Name:  "Webcam",
		Price: decimal.RequireFromString("49.00"),
	}
	err := productService.CreateProduct(product)
	assert.NoError(t, err)
	assert.Equal(t, "SB-CUSTOM01", product.SKU)
}

func TestProductService_CreateProduct_NegativePrice(t *testing.T) {
	productService := setupProductServiceTest(t)

	product := &model.Product{
		Name:  "Bad Product",
		Price: decimal.RequireFromString("-1.00"),
	}
	err := productService.CreateProduct(product)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductService_GetProductByID(t *testing.T) {
	productService := setupProductServiceTest(t)

	created := &model.Product{
		Name:  "Monitor",
		Price: decimal.RequireFromString("219.00"),
	}
	require.NoError(t, productService.CreateProduct(created))

	product, err := productService.GetProductByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Monitor", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("219.00")))

	_, err = productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateProduct_SKUIsImmutable(t *testing.T) {
	productService := setupProductServiceTest(t)

	created := &model.Product{
		Name:  "Keyboard",
		Price: decimal.RequireFromString("74.90"),
	}
	require.NoError(t, productService.CreateProduct(created))
	originalSKU := created.SKU

	update := &model.Product{
		ID:    created.ID,
		SKU:   "SB-HIJACKED",
		Name:  "Keyboard v2",
		Price: decimal.RequireFromString("79.90"),
	}
	err := productService.UpdateProduct(update)
	assert.NoError(t, err)
	assert.Equal(t, originalSKU, update.SKU)

	product, err := productService.GetProductByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard v2", product.Name)
	assert.Equal(t, originalSKU, product.SKU)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService := setupProductServiceTest(t)

	err := productService.UpdateProduct(&model.Product{
		ID:    9999,
		Name:  "Ghost",
		Price: decimal.RequireFromString("1.00"),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService := setupProductServiceTest(t)

	created := &model.Product{
		Name:  "Mouse",
		Price: decimal.RequireFromString("10.00"),
	}
	require.NoError(t, productService.CreateProduct(created))

	err := productService.DeleteProduct(created.ID)
	assert.NoError(t, err)

	// Soft-deleted products disappear from reads
	_, err = productService.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	products, err := productService.ListProducts(0, 0)
	require.NoError(t, err)
	assert.Len(t, products, 0)

	err = productService.DeleteProduct(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
