package services_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"wtch/internal/models"
	"wtch/internal/repositories"
	"wtch/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errCartItemMissing = fmt.Errorf("cart item: %w", repositories.ErrRecordNotFound)

func newCartService(products *MockProductRepository, carts *MockCartRepository) *services.CartService {
	repos := &repositories.Repositories{Products: products, Carts: carts}
	return services.NewCartService(repos, nil, 10000)
}

func TestCartService_AddItemNewLine(t *testing.T) {
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	service := newCartService(products, carts)
	ctx := context.Background()

	product := &models.Product{ID: "p1", Brand: "Seiko", Price: 50000}
	products.On("GetByID", ctx, "p1").Return(product, nil).Once()
	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1", UserID: "u1"}, nil).Once()
	carts.On("FindItem", ctx, "c1", "p1").Return(nil, errCartItemMissing).Once()
	carts.On("SaveItem", ctx, mock.MatchedBy(func(i *models.CartItem) bool {
		return i.ID == "" && i.CartID == "c1" && i.Quantity == 1
	})).Return(nil).Once()

	item, err := service.AddItem(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, product, item.Product)
	products.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCartService_AddItemIncrementsExistingLine(t *testing.T) {
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	service := newCartService(products, carts)
	ctx := context.Background()

	products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1"}, nil).Once()
	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1", UserID: "u1"}, nil).Once()
	carts.On("FindItem", ctx, "c1", "p1").Return(&models.CartItem{ID: "i1", CartID: "c1", ProductID: "p1", Quantity: 2}, nil).Once()
	carts.On("SaveItem", ctx, mock.MatchedBy(func(i *models.CartItem) bool { return i.ID == "i1" && i.Quantity == 5 })).Return(nil).Once()

	item, err := service.AddItem(ctx, "u1", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	carts.AssertExpectations(t)
}

func TestCartService_AddItemErrors(t *testing.T) {
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	service := newCartService(products, carts)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", "p1", -2)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	products.On("GetByID", ctx, "ghost").Return(nil, fmt.Errorf("product: %w", repositories.ErrRecordNotFound)).Once()
	_, err = service.AddItem(ctx, "u1", "ghost", 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	carts.AssertNotCalled(t, "SaveItem", mock.Anything, mock.Anything)
}

func TestCartService_QuantityBounds(t *testing.T) {
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	service := newCartService(products, carts)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", "p1", services.MaxLineQuantity+1)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = service.AddItem(ctx, "u1", "p1", math.MaxInt64/2)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = service.UpdateQuantity(ctx, "u1", "i1", services.MaxLineQuantity+1)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	// Incrementing an existing line past the cap is rejected without saving.
	products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1"}, nil).Once()
	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1", UserID: "u1"}, nil).Once()
	carts.On("FindItem", ctx, "c1", "p1").Return(&models.CartItem{ID: "i1", CartID: "c1", ProductID: "p1", Quantity: 90}, nil).Once()
	_, err = service.AddItem(ctx, "u1", "p1", 10)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	carts.AssertNotCalled(t, "SaveItem", mock.Anything, mock.Anything)
	carts.AssertExpectations(t)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	products := new(MockProductRepository)
	carts := new(MockCartRepository)
	service := newCartService(products, carts)
	ctx := context.Background()

	item := &models.CartItem{ID: "i1", CartID: "c1", ProductID: "p1", Quantity: 1}

	_, err := service.UpdateQuantity(ctx, "u1", "i1", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	// Owner
	carts.On("GetItem", ctx, "i1").Return(item, nil).Once()
	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1", UserID: "u1"}, nil).Once()
	carts.On("SaveItem", ctx, item).Return(nil).Once()
	updated, err := service.UpdateQuantity(ctx, "u1", "i1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Somebody else's item
	carts.On("GetItem", ctx, "i1").Return(&models.CartItem{ID: "i1", CartID: "c1", Quantity: 4}, nil).Once()
	carts.On("GetByUserID", ctx, "u2").Return(&models.Cart{ID: "c2", UserID: "u2"}, nil).Once()
	_, err = service.UpdateQuantity(ctx, "u2", "i1", 2)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Missing item
	carts.On("GetItem", ctx, "nope").Return(nil, errCartItemMissing).Once()
	_, err = service.UpdateQuantity(ctx, "u1", "nope", 2)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
	carts.AssertExpectations(t)
}

func TestCartService_RemoveItem(t *testing.T) {
	carts := new(MockCartRepository)
	service := newCartService(new(MockProductRepository), carts)
	ctx := context.Background()

	// Missing item is a successful no-op
	carts.On("GetItem", ctx, "gone").Return(nil, errCartItemMissing).Once()
	assert.NoError(t, service.RemoveItem(ctx, "u1", "gone"))

	// Not the owner
	carts.On("GetItem", ctx, "i1").Return(&models.CartItem{ID: "i1", CartID: "c1"}, nil).Once()
	carts.On("GetByUserID", ctx, "u2").Return(&models.Cart{ID: "c2"}, nil).Once()
	assert.ErrorIs(t, service.RemoveItem(ctx, "u2", "i1"), services.ErrForbidden)

	// Owner
	carts.On("GetItem", ctx, "i1").Return(&models.CartItem{ID: "i1", CartID: "c1"}, nil).Once()
	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1"}, nil).Once()
	carts.On("DeleteItem", ctx, "i1").Return(nil).Once()
	assert.NoError(t, service.RemoveItem(ctx, "u1", "i1"))

	carts.AssertExpectations(t)
	carts.AssertNumberOfCalls(t, "DeleteItem", 1)
}

func TestCartService_Clear(t *testing.T) {
	carts := new(MockCartRepository)
	service := newCartService(new(MockProductRepository), carts)
	ctx := context.Background()

	carts.On("GetByUserID", ctx, "u1").Return(&models.Cart{ID: "c1"}, nil).Once()
	carts.On("ClearItems", ctx, "c1").Return(int64(3), nil).Once()
	assert.NoError(t, service.Clear(ctx, "u1"))

	carts.On("GetByUserID", ctx, "admin").Return(nil, fmt.Errorf("cart: %w", repositories.ErrRecordNotFound)).Once()
	assert.ErrorIs(t, service.Clear(ctx, "admin"), services.ErrCartNotFound)
	carts.AssertExpectations(t)
}
