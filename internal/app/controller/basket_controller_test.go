package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/internal/app/repository"
	"github.com/oguzk/stockbasket-backend/internal/app/service"
	"github.com/oguzk/stockbasket-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBasketControllerTest(t *testing.T) (*BasketController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	basketRepo := repository.NewBasketRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	basketService := service.NewBasketService(basketRepo, productRepo, userRepo, testDB)
	basketController := NewBasketController(basketService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		SKU:           "SB-TEST0001",
		Name:          "Wireless Mouse",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 100,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return basketController, router, testDB, user, product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestBasketController_GetBasket_NoBasket(t *testing.T) {
	controller, router, _, user, _ := setupBasketControllerTest(t)

	router.GET("/basket", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetBasket(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/basket", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "BASKET_NOT_FOUND", response["error"])
}

func TestBasketController_GetBasket_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupBasketControllerTest(t)

	router.GET("/basket", controller.GetBasket)

	req := httptest.NewRequest(http.MethodGet, "/basket", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasketController_AddAndGetBasket(t *testing.T) {
	controller, router, _, user, product := setupBasketControllerTest(t)

	router.POST("/basket/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})
	router.GET("/basket", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetBasket(c)
	})

	body, _ := json.Marshal(AddBasketItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	})
	req := httptest.NewRequest(http.MethodPost, "/basket/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/basket", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	basket := response["basket"].(map[string]interface{})
	subTotal, err := decimal.NewFromString(basket["sub_total"].(string))
	require.NoError(t, err)
	assert.True(t, subTotal.Equal(decimal.RequireFromString("20.00")))
	items := basket["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Wireless Mouse", item["product_name"])
	assert.Equal(t, float64(2), item["quantity"])
}

func TestBasketController_GetBasket_EmptyAfterRemoval(t *testing.T) {
	controller, router, _, user, product := setupBasketControllerTest(t)

	router.POST("/basket/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})
	router.DELETE("/basket/items/:product_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})
	router.GET("/basket", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetBasket(c)
	})

	body, _ := json.Marshal(AddBasketItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/basket/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/basket/items/"+itoa(product.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// An emptied basket is still a 200, with an explanatory message
	req = httptest.NewRequest(http.MethodGet, "/basket", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "the basket has no items yet", response["message"])
}

func TestBasketController_AddItem_InvalidQuantity(t *testing.T) {
	controller, router, _, user, product := setupBasketControllerTest(t)

	router.POST("/basket/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddBasketItemRequest{
		ProductID: product.ID,
		Quantity:  -2,
	})
	req := httptest.NewRequest(http.MethodPost, "/basket/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION_INVALID_QUANTITY", response["error"])
}

func TestBasketController_AddItem_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupBasketControllerTest(t)

	router.POST("/basket/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(AddBasketItemRequest{
		ProductID: 9999,
		Quantity:  1,
	})
	req := httptest.NewRequest(http.MethodPost, "/basket/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "PRODUCT_NOT_FOUND", response["error"])
}

func TestBasketController_RemoveItem_NoBasket(t *testing.T) {
	controller, router, _, user, product := setupBasketControllerTest(t)

	router.DELETE("/basket/items/:product_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/basket/items/"+itoa(product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "BASKET_NOT_FOUND", response["error"])
}

func TestBasketController_RemoveItem_NotInBasket(t *testing.T) {
	controller, router, testDB, user, product := setupBasketControllerTest(t)

	router.POST("/basket/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})
	router.DELETE("/basket/items/:product_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	other := &model.Product{
		SKU:   "SB-TEST0002",
		Name:  "USB-C Hub",
		Price: decimal.RequireFromString("39.50"),
	}
	testDB.Create(other)

	body, _ := json.Marshal(AddBasketItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/basket/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/basket/items/"+itoa(other.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "BASKET_ITEM_NOT_FOUND", response["error"])
}

func TestBasketController_RemoveItem_InvalidProductID(t *testing.T) {
	controller, router, _, user, _ := setupBasketControllerTest(t)

	router.DELETE("/basket/items/:product_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/basket/items/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
