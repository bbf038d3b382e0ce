package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wtch/internal/apierror"
	"wtch/internal/config"
	"wtch/internal/handlers"
	"wtch/internal/models"
	"wtch/internal/repositories"
	"wtch/internal/server"
	"wtch/pkg/tokenstore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	adminUser     = "admin"
	adminPassword = "admin-secret"
)

type testApp struct {
	app   *fiber.App
	repos *repositories.Repositories
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := config.Config{JWTSecret: "test_jwt_secret", JWTTTL: time.Hour, DeliveryFee: 10000}
	repos := repositories.NewGORMRepositories(db)
	svc := server.NewServices(cfg, repos, tokenstore.NewMemoryStore(), nil)

	ctx := context.Background()
	require.NoError(t, svc.Promotions.SeedDefaults(ctx))
	require.NoError(t, svc.Auth.EnsureAdmin(ctx, adminUser, "admin@wtch.co", adminPassword))

	return &testApp{app: server.New(svc, server.Options{}), repos: repos}
}

// do sends a JSON request and decodes the response body into out when out is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testApp) register(t *testing.T, username string) string {
	t.Helper()
	var resp handlers.AuthResponse
	status := a.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	var resp handlers.AuthResponse
	status := a.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": password}, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp.Token
}

func (a *testApp) seedProduct(t *testing.T, id string, price int64) {
	t.Helper()
	require.NoError(t, a.repos.Products.Create(context.Background(), &models.Product{
		ID: id, Brand: "Seiko", Model: "Model " + id, Price: price, StockQuantity: 5, Category: []string{"automatic"},
	}))
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	a := setupApp(t)
	a.register(t, "testuser")

	// Test Duplicate Registration (username)
	var errResp handlers.ErrorResponse
	status := a.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "testuser", "email": "other@example.com", "password": "password123",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apierror.CodeConflict, errResp.Code)

	// Invalid body
	errResp = handlers.ErrorResponse{}
	status = a.do(t, http.MethodPost, "/register", "", map[string]string{"username": "x"}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, errResp.Errors, "email")
	assert.Contains(t, errResp.Errors, "password")

	// Wrong password
	status = a.do(t, http.MethodPost, "/login", "", map[string]string{"username": "testuser", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Login by email
	token := a.login(t, "testuser@example.com", "password123")

	var user models.User
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/user", token, nil, &user))
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, models.RoleCustomer, user.Role)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/logout", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/user", token, nil, nil))
}

func TestProtectedEndpointsWithoutAuth(t *testing.T) {
	a := setupApp(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/user"},
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart"},
		{http.MethodGet, "/addresses"},
		{http.MethodGet, "/orders"},
		{http.MethodPost, "/orders"},
		{http.MethodPost, "/logout"},
		{http.MethodPost, "/products"},
		{http.MethodGet, "/admin/stats"},
	} {
		var errResp handlers.ErrorResponse
		status := a.do(t, route.method, route.path, "", nil, &errResp)
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s", route.method, route.path)
		assert.Equal(t, apierror.CodeUnauthorized, errResp.Code)
	}

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/cart", "not-a-jwt", nil, nil))
}

func TestProductEndpoints(t *testing.T) {
	a := setupApp(t)
	customer := a.register(t, "buyer")
	admin := a.login(t, adminUser, adminPassword)

	newProduct := map[string]interface{}{
		"id":             "tissot-prx",
		"brand":          "Tissot",
		"model":          "PRX",
		"price":          50000,
		"stock_quantity": 3,
		"category":       []string{"quartz", "sport"},
	}

	// Customers cannot write the catalog
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/products", customer, newProduct, nil))

	var created models.Product
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/products", admin, newProduct, &created))
	assert.Equal(t, "tissot-prx", created.ID)
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/products", admin, newProduct, nil))

	// Public reads with filters
	var products []models.Product
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/products?category=sport", "", nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/products?q=rolex", "", nil, &products))
	assert.Empty(t, products)

	newProduct["model"] = "PRX Powermatic"
	newProduct["price"] = 72000
	var updated models.Product
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPut, "/products/tissot-prx", admin, newProduct, &updated))
	assert.Equal(t, "PRX Powermatic", updated.Model)
	assert.Equal(t, int64(72000), updated.Price)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/products/tissot-prx", admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/products/tissot-prx", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/products/tissot-prx", admin, nil, nil))
}

func TestCheckoutFlow(t *testing.T) {
	a := setupApp(t)
	a.seedProduct(t, "p1", 50000)
	token := a.register(t, "ann")

	// No address selected
	var errResp handlers.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/orders", token, map[string]string{}, &errResp))
	assert.Equal(t, apierror.CodeNoAddress, errResp.Code)

	// Incomplete new address
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/orders", token,
		map[string]string{"address_id": "new", "address": "1 Main St"}, &errResp))
	assert.Equal(t, apierror.CodeIncompleteAddress, errResp.Code)

	checkout := map[string]string{"address_id": "new", "address": "1 Main St", "state": "CA", "zip": "94000"}

	// Empty cart
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/orders", token, checkout, &errResp))
	assert.Equal(t, apierror.CodeEmptyCart, errResp.Code)

	var item models.CartItem
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/cart", token, map[string]interface{}{"product_id": "p1", "quantity": 2}, &item))
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/cart", token, map[string]interface{}{"product_id": "nope"}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPut, "/cart/"+item.ID, token, map[string]int{"quantity": 0}, nil))

	var cart handlers.CartResponse
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/cart?promo=WTCH.CO", token, nil, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(100000), cart.Summary.Subtotal)
	assert.Equal(t, int64(100000), cart.Summary.Total)

	var promo handlers.PromoResponse
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/cart/promo", token, map[string]string{"code": "wtch.co"}, &promo))
	assert.Equal(t, "WTCH.CO", promo.Code)
	assert.Equal(t, int64(10000), promo.Summary.Discount)
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/cart/promo", token, map[string]string{"code": "FREE"}, &errResp))
	assert.Equal(t, apierror.CodeInvalidPromo, errResp.Code)

	// Invalid promo leaves everything untouched
	checkout["promo_code"] = "FREE"
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/orders", token, checkout, &errResp))
	assert.Equal(t, apierror.CodeInvalidPromo, errResp.Code)

	checkout["promo_code"] = "WTCH.CO"
	var order models.Order
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/orders", token, checkout, &order))
	assert.Equal(t, int64(100000), order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/cart", token, nil, &cart))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Summary.Total)

	var addresses []models.Address
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/addresses", token, nil, &addresses))
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)

	var orders []models.Order
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/orders", token, nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Another customer cannot read the order or use the address
	other := a.register(t, "bob")
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/orders/"+order.ID, other, nil, nil))
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/addresses/"+addresses[0].ID, other, nil, nil))
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, "/addresses/"+addresses[0].ID+"/default", other, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/orders/missing", other, nil, nil))

	// Admin moves the order along
	admin := a.login(t, adminUser, adminPassword)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPatch, "/admin/orders/"+order.ID+"/status", token, map[string]string{"status": "shipped"}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPatch, "/admin/orders/"+order.ID+"/status", admin, map[string]string{"status": "lost"}, nil))
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPatch, "/admin/orders/"+order.ID+"/status", admin, map[string]string{"status": "shipped"}, &order))
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	var stats map[string]interface{}
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/admin/stats", admin, nil, &stats))
	assert.EqualValues(t, 3, stats["users"])
	assert.EqualValues(t, 2, stats["customers"])
	assert.EqualValues(t, 1, stats["orders"])
	assert.EqualValues(t, 100000, stats["revenue"])
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/admin/stats", token, nil, nil))
}

func TestCartItemOwnership(t *testing.T) {
	a := setupApp(t)
	a.seedProduct(t, "p1", 1000)
	ann := a.register(t, "ann")
	bob := a.register(t, "bob")

	var item models.CartItem
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/cart", ann, map[string]string{"product_id": "p1"}, &item))
	assert.Equal(t, 1, item.Quantity)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPut, "/cart/"+item.ID, bob, map[string]int{"quantity": 3}, nil))
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, "/cart/"+item.ID, bob, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPut, "/cart/missing", ann, map[string]int{"quantity": 3}, nil))

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPut, "/cart/"+item.ID, ann, map[string]int{"quantity": 3}, &item))
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/cart/"+item.ID, ann, nil, nil))
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/cart/"+item.ID, ann, nil, nil))
}

func TestCartListsLinesOfDeletedProducts(t *testing.T) {
	a := setupApp(t)
	a.seedProduct(t, "p1", 50000)
	a.seedProduct(t, "p2", 25000)
	token := a.register(t, "ann")
	admin := a.login(t, adminUser, adminPassword)

	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/cart", token, map[string]string{"product_id": "p1"}, nil))
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/cart", token, map[string]interface{}{"product_id": "p2", "quantity": 2}, nil))
	require.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/products/p1", admin, nil, nil))

	var cart handlers.CartResponse
	require.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/cart", token, nil, &cart))
	require.Len(t, cart.Items, 2)
	var stale models.CartItem
	for _, item := range cart.Items {
		assert.Equal(t, item.ProductID != "p1", item.Available, item.ProductID)
		if item.ProductID == "p1" {
			stale = item
		}
	}
	require.NotEmpty(t, stale.ID)
	assert.Nil(t, stale.Product)
	assert.Equal(t, int64(50000), cart.Summary.Subtotal)
	assert.Equal(t, int64(60000), cart.Summary.Total)
	assert.Equal(t, 1, cart.Summary.UnavailableItems)

	checkout := map[string]string{"address_id": "new", "address": "1 Main St", "state": "CA", "zip": "94000"}
	var errResp handlers.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/orders", token, checkout, &errResp))
	assert.Equal(t, apierror.CodeProductUnavailable, errResp.Code)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/cart/"+stale.ID, token, nil, nil))
	var order models.Order
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/orders", token, checkout, &order))
	assert.Equal(t, int64(60000), order.TotalAmount)
}

func TestCartQuantityLimits(t *testing.T) {
	a := setupApp(t)
	a.seedProduct(t, "p1", 50000)
	token := a.register(t, "ann")

	var errResp handlers.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/cart", token,
		map[string]interface{}{"product_id": "p1", "quantity": int64(math.MaxInt64 / 2)}, &errResp))
	assert.Equal(t, apierror.CodeValidation, errResp.Code)
	assert.Contains(t, errResp.Errors, "quantity")

	var item models.CartItem
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/cart", token,
		map[string]interface{}{"product_id": "p1", "quantity": 99}, &item))
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/cart", token,
		map[string]interface{}{"product_id": "p1", "quantity": 1}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPut, "/cart/"+item.ID, token,
		map[string]int{"quantity": 100}, nil))
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPut, "/cart/"+item.ID, token,
		map[string]int{"quantity": 98}, nil))
}

func TestReviewEndpoints(t *testing.T) {
	a := setupApp(t)
	a.seedProduct(t, "p1", 1000)
	token := a.register(t, "ann")

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/products/p1/reviews", "", map[string]int{"rating": 4}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodPost, "/products/p1/reviews", token, map[string]int{"rating": 9}, nil))
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/products/p1/reviews", token, map[string]interface{}{"rating": 4, "comment": "nice"}, nil))
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/products/p1/reviews", token, map[string]int{"rating": 5}, nil))
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/products/none/reviews", token, map[string]int{"rating": 5}, nil))

	var reviews []models.Review
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/products/p1/reviews", "", nil, &reviews))
	assert.Len(t, reviews, 1)

	var product models.Product
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/products/p1", "", nil, &product))
	assert.InDelta(t, 4.0, product.StarReview, 0.001)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	a := setupApp(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "healthy", health["status"])

	var errResp handlers.ErrorResponse
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/nowhere", "", nil, &errResp))
	assert.Equal(t, apierror.CodeNotFound, errResp.Code)
}
